// Package pixbuf holds decoded raster data as straight (non-premultiplied)
// 8-bit RGBA samples.
//
// A Buffer is never modified after construction. New buffers are produced by
// Crop, by FromImage, or by freezing a Canvas. Nothing returned from this
// package aliases the memory of another Buffer.
package pixbuf

import (
	"image"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidImage is returned for nil, zero-area or oversized buffers.
	ErrInvalidImage = errors.New("invalid image")
	// ErrOutside is returned when a rectangle does not lie inside a buffer.
	ErrOutside = errors.New("rectangle outside buffer")
)

// Buffer is a width x height grid of straight RGBA samples, stride = width.
type Buffer struct {
	width, height int
	pix           []uint8 // 4 bytes per pixel, row-major
}

// MaxPixels is the largest area, in pixels, of any buffer or canvas.
const MaxPixels = 1 << 28

// CheckSize returns ErrInvalidImage unless a width x height buffer can be
// allocated: both sides positive and the area at most MaxPixels.
func CheckSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return errors.Wrapf(ErrInvalidImage, "size %dx%d", width, height)
	}
	if width > MaxPixels/height {
		return errors.Wrapf(ErrInvalidImage, "size %dx%d exceeds %d pixels", width, height, MaxPixels)
	}
	return nil
}

// New returns a fully transparent buffer of the passed size.
func New(width, height int) (*Buffer, error) {
	if err := CheckSize(width, height); err != nil {
		return nil, err
	}
	return &Buffer{width: width, height: height, pix: make([]uint8, 4*width*height)}, nil
}

// NewFilled returns a buffer where every pixel is c.
func NewFilled(width, height int, c Color) (*Buffer, error) {
	b, err := New(width, height)
	if err != nil {
		return nil, err
	}
	for i := 0; i < len(b.pix); i += 4 {
		b.pix[i+0] = c.R
		b.pix[i+1] = c.G
		b.pix[i+2] = c.B
		b.pix[i+3] = c.A
	}
	return b, nil
}

// FromPixels builds a buffer from a row-major list of colors. The slice is
// copied.
func FromPixels(width, height int, pixels []Color) (*Buffer, error) {
	b, err := New(width, height)
	if err != nil {
		return nil, err
	}
	if len(pixels) != width*height {
		return nil, errors.Wrapf(ErrInvalidImage, "got %d pixels, want %d", len(pixels), width*height)
	}
	for i, c := range pixels {
		b.pix[4*i+0] = c.R
		b.pix[4*i+1] = c.G
		b.pix[4*i+2] = c.B
		b.pix[4*i+3] = c.A
	}
	return b, nil
}

// Width returns the number of columns.
func (b *Buffer) Width() int { return b.width }

// Height returns the number of rows.
func (b *Buffer) Height() int { return b.height }

// Size returns width and height as a point.
func (b *Buffer) Size() image.Point { return image.Pt(b.width, b.height) }

// Rect returns the buffer extents anchored at the origin.
func (b *Buffer) Rect() image.Rectangle { return image.Rect(0, 0, b.width, b.height) }

// Valid reports whether b is non-nil with a positive area.
func Valid(b *Buffer) bool {
	return b != nil && b.width > 0 && b.height > 0 && len(b.pix) == 4*b.width*b.height
}

// ColorAt returns the pixel at x, y. Coordinates outside the buffer yield the
// zero (transparent) color.
func (b *Buffer) ColorAt(x, y int) Color {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return Color{}
	}
	i := 4 * (y*b.width + x)
	return Color{R: b.pix[i], G: b.pix[i+1], B: b.pix[i+2], A: b.pix[i+3]}
}

// Pixels returns a row-major copy of all samples.
func (b *Buffer) Pixels() []Color {
	out := make([]Color, b.width*b.height)
	for i := range out {
		out[i] = Color{R: b.pix[4*i], G: b.pix[4*i+1], B: b.pix[4*i+2], A: b.pix[4*i+3]}
	}
	return out
}

// Crop copies the pixels inside r into a new buffer. r must be non-empty and
// lie fully inside b.
func (b *Buffer) Crop(r image.Rectangle) (*Buffer, error) {
	if r.Empty() {
		return nil, errors.Wrapf(ErrInvalidImage, "empty crop %v", r)
	}
	if !r.In(b.Rect()) {
		return nil, errors.Wrapf(ErrOutside, "crop %v of %v", r, b.Rect())
	}
	out, err := New(r.Dx(), r.Dy())
	if err != nil {
		return nil, err
	}
	rowLen := 4 * r.Dx()
	for y := 0; y < r.Dy(); y++ {
		src := 4 * ((r.Min.Y+y)*b.width + r.Min.X)
		copy(out.pix[y*rowLen:(y+1)*rowLen], b.pix[src:src+rowLen])
	}
	return out, nil
}

// Equal reports whether both buffers have the same size and samples.
func (b *Buffer) Equal(o *Buffer) bool {
	if b == nil || o == nil {
		return b == o
	}
	if b.width != o.width || b.height != o.height {
		return false
	}
	for i := range b.pix {
		if b.pix[i] != o.pix[i] {
			return false
		}
	}
	return true
}
