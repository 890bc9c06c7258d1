//go:build go1.13 && !windows
// +build go1.13,!windows

package imageprint

import (
	"fmt"
	"image"
	"io"

	"github.com/BourgeoisBear/rasterm"
	"github.com/andybons/gogif"
	"github.com/pkg/errors"
)

// ErrNoGraphics is returned by PrintRasTerm on terminals without a known
// image protocol.
var ErrNoGraphics = errors.New("terminal has no image support")

// GraphicsCapable reports whether PrintRasTerm has a protocol to use.
func GraphicsCapable() bool {
	if rasterm.IsTermKitty() || rasterm.IsTermItermWez() {
		return true
	}
	capable, err := rasterm.IsSixelCapable()
	return capable && err == nil
}

// PrintRasTerm draws an image using the RasTerm library.
//
// This should enable drawing in Kitty terminal.
func PrintRasTerm(w io.Writer, i image.Image) error {
	if rasterm.IsTermKitty() {
		if err := (rasterm.Settings{}).KittyWriteImage(w, i); err != nil {
			return errors.Wrap(err, "kitty")
		}
		fmt.Fprint(w, "\n")
		return nil
	}
	if rasterm.IsTermItermWez() {
		if err := (rasterm.Settings{}).ItermWriteImage(w, i); err != nil {
			return errors.Wrap(err, "iterm")
		}
		fmt.Fprint(w, "\n")
		return nil
	}
	if capable, err := rasterm.IsSixelCapable(); capable && err == nil {
		palettedImage := image.NewPaletted(i.Bounds(), nil)
		quantizer := gogif.MedianCutQuantizer{NumColor: 64}
		quantizer.Quantize(palettedImage, i.Bounds(), i, image.Point{})

		if err := (rasterm.Settings{}).SixelWriteImage(w, palettedImage); err != nil {
			return errors.Wrap(err, "sixel")
		}
		fmt.Fprint(w, "\n")
		return nil
	}
	return ErrNoGraphics
}
