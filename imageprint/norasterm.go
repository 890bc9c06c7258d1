//go:build !go1.13 || windows
// +build !go1.13 windows

package imageprint

import (
	"image"
	"io"

	"github.com/pkg/errors"
)

var ErrNoGraphics = errors.New("rasterm not supported below Go 1.13 or on windows")

func GraphicsCapable() bool { return false }

func PrintRasTerm(w io.Writer, i image.Image) error {
	return ErrNoGraphics
}
