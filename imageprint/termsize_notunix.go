//go:build !(aix || darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris)

package imageprint

import (
	"os"

	"golang.org/x/term"
)

func GetTermSize() (TermSize, error) {
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return TermSize{}, err
	}
	return TermSize{Cols: uint(w), Rows: uint(h)}, nil
}
