// Package imageprint previews images on a terminal. UNSUPPORTED debug package.
//
// This package has an API with no stability guarantees.
package imageprint

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	ic "image/color"
	"image/png"
	"io"
	"strings"

	"github.com/gookit/color"
	"github.com/pkg/errors"
)

// Mode selects how pixels reach the terminal.
type Mode int

const (
	// TrueColor paints cell backgrounds with 24 bit escapes.
	TrueColor Mode = iota
	// Color256 maps pixels to the xterm 256 color palette.
	Color256
	// NoColor prints shades as ascii art.
	NoColor
	// ITerm sends a PNG with iTerm2's inline image escape.
	ITerm
	// RasTerm picks Kitty, iTerm or sixel graphics, whichever the terminal
	// supports.
	RasTerm
)

var modeNames = []string{"24bit", "256", "none", "iterm", "rasterm"}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return "unknown"
	}
	return modeNames[m]
}

// ParseMode maps the names printed by Mode.String back to modes.
func ParseMode(s string) (Mode, error) {
	for i, n := range modeNames {
		if strings.EqualFold(n, s) {
			return Mode(i), nil
		}
	}
	return TrueColor, errors.Errorf("unknown preview mode %q", s)
}

// Graphical reports whether m sends real images rather than colored cells.
func (m Mode) Graphical() bool { return m == ITerm || m == RasTerm }

// Print writes img to w using m. blanks paints plain cells instead of
// ascii shades where that applies.
func Print(w io.Writer, img image.Image, m Mode, blanks bool) error {
	switch m {
	case ITerm:
		return PrintITerm(w, img, "preview.png")
	case RasTerm:
		return PrintRasTerm(w, img)
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			shade(w, img.At(x, y), m, blanks)
		}
		if m != NoColor {
			fmt.Fprint(w, "\x1b[0m")
		}
		fmt.Fprint(w, "\n")
	}
	return nil
}

func shade(w io.Writer, col ic.Color, m Mode, blanks bool) {
	cR, cG, cB, cA := col.RGBA()
	if cA == 0 {
		if m == NoColor {
			fmt.Fprint(w, "  ")
		} else {
			fmt.Fprint(w, "\x1b[0m  ")
		}
		return
	}

	cell := "  "
	if !blanks {
		switch a := ((cR + cG + cB) / 3) >> 8; {
		case a < 32:
			cell = ".."
		case a < 64:
			cell = "--"
		case a < 128:
			cell = "=="
		default:
			cell = "##"
		}
	}

	r, g, b := uint8(cR>>8), uint8(cG>>8), uint8(cB>>8)
	switch m {
	case NoColor:
		fmt.Fprint(w, cell)
	case Color256:
		fmt.Fprint(w, color.RGB(r, g, b, true).Sprint(cell))
	default:
		fmt.Fprintf(w, "\x1b[48;2;%d;%d;%dm%s\x1b[0m", r, g, b, cell)
	}
}

// PrintITerm draws an image using iTerm2's escape sequences.
//
// https://www.iterm2.com/documentation-images.html
func PrintITerm(w io.Writer, img image.Image, fn string) error {
	name := base64.StdEncoding.EncodeToString([]byte(fn))
	b := &bytes.Buffer{}
	bEnc := base64.NewEncoder(base64.StdEncoding, b)
	if err := png.Encode(bEnc, img); err != nil {
		return errors.Wrap(err, "encoding preview")
	}
	bEnc.Close()
	sz := img.Bounds().Size()
	_, err := fmt.Fprintf(w, "\n\033]1337;File=name=%s;inline=1;size=%d;width=%dpx;height=%dpx:%s\a\n", name, b.Len(), sz.X, sz.Y, b.String())
	return err
}
