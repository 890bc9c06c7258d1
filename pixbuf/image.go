package pixbuf

// This file contains the glue between Buffer and the image package, so that a
// Buffer can be handed to any encoder and any decoded image can become a
// Buffer.

import (
	"image"
	"image/color"

	"github.com/pkg/errors"
)

// ColorModel implements image.Image.
func (b *Buffer) ColorModel() color.Model { return color.NRGBAModel }

// Bounds implements image.Image.
func (b *Buffer) Bounds() image.Rectangle { return b.Rect() }

// At implements image.Image.
func (b *Buffer) At(x, y int) color.Color {
	c := b.ColorAt(x, y)
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// NRGBA returns a copy of the buffer as an *image.NRGBA.
func (b *Buffer) NRGBA() *image.NRGBA {
	img := image.NewNRGBA(b.Rect())
	copy(img.Pix, b.pix)
	return img
}

// FromImage converts a decoded image into a Buffer anchored at the origin.
// NRGBA sources are copied sample-for-sample; anything else goes through the
// NRGBA color model.
func FromImage(img image.Image) (*Buffer, error) {
	if img == nil {
		return nil, errors.Wrap(ErrInvalidImage, "nil image")
	}
	r := img.Bounds()
	b, err := New(r.Dx(), r.Dy())
	if err != nil {
		return nil, err
	}

	if n, ok := img.(*image.NRGBA); ok {
		rowLen := 4 * r.Dx()
		for y := 0; y < r.Dy(); y++ {
			src := n.PixOffset(r.Min.X, r.Min.Y+y)
			copy(b.pix[y*rowLen:(y+1)*rowLen], n.Pix[src:src+rowLen])
		}
		return b, nil
	}
	if s, ok := img.(*Buffer); ok {
		copy(b.pix, s.pix)
		return b, nil
	}

	i := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			b.pix[i+0] = c.R
			b.pix[i+1] = c.G
			b.pix[i+2] = c.B
			b.pix[i+3] = c.A
			i += 4
		}
	}
	return b, nil
}
