//go:build aix || darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris

package imageprint

import (
	"os"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// GetTermSize asks the controlling terminal for its size. Pixel sizes are
// zero when the terminal does not report them.
func GetTermSize() (TermSize, error) {
	// based on snippet: https://sw.kovidgoyal.net/kitty/graphics-protocol/#getting-the-window-size
	if f, err := os.OpenFile("/dev/tty", unix.O_NOCTTY|unix.O_CLOEXEC|unix.O_NDELAY|unix.O_RDWR, 0666); err == nil {
		defer f.Close()
		if sz, err := unix.IoctlGetWinsize(int(f.Fd()), unix.TIOCGWINSZ); err == nil {
			return TermSize{Cols: uint(sz.Col), Rows: uint(sz.Row), XPixel: uint(sz.Xpixel), YPixel: uint(sz.Ypixel)}, nil
		}
	}
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return TermSize{}, err
	}
	return TermSize{Cols: uint(w), Rows: uint(h)}, nil
}
