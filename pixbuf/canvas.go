package pixbuf

import (
	"image"
)

// Canvas is the only mutable raster in the package. It is used to build new
// buffers by filling and compositing, and is frozen with Buffer.
type Canvas struct {
	b Buffer
}

// NewCanvas returns a transparent canvas.
func NewCanvas(width, height int) (*Canvas, error) {
	b, err := New(width, height)
	if err != nil {
		return nil, err
	}
	return &Canvas{b: *b}, nil
}

// CanvasFrom returns a canvas initialized with a copy of b.
func CanvasFrom(b *Buffer) *Canvas {
	c := &Canvas{b: Buffer{width: b.width, height: b.height, pix: make([]uint8, len(b.pix))}}
	copy(c.b.pix, b.pix)
	return c
}

// Rect returns the canvas extents.
func (c *Canvas) Rect() image.Rectangle { return c.b.Rect() }

// ColorAt returns the current pixel at x, y.
func (c *Canvas) ColorAt(x, y int) Color { return c.b.ColorAt(x, y) }

// Set overwrites one pixel. Points outside the canvas are ignored.
func (c *Canvas) Set(x, y int, col Color) {
	if x < 0 || y < 0 || x >= c.b.width || y >= c.b.height {
		return
	}
	i := 4 * (y*c.b.width + x)
	c.b.pix[i+0] = col.R
	c.b.pix[i+1] = col.G
	c.b.pix[i+2] = col.B
	c.b.pix[i+3] = col.A
}

// Fill overwrites every pixel of r (clipped to the canvas) with col.
func (c *Canvas) Fill(r image.Rectangle, col Color) {
	r = r.Intersect(c.Rect())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			c.Set(x, y, col)
		}
	}
}

// DrawOver composites src with its top-left corner at at, using the straight
// alpha "over" operator. Parts of src falling outside the canvas are clipped.
func (c *Canvas) DrawOver(src *Buffer, at image.Point) {
	dst := src.Rect().Add(at).Intersect(c.Rect())
	for y := dst.Min.Y; y < dst.Max.Y; y++ {
		for x := dst.Min.X; x < dst.Max.X; x++ {
			s := src.ColorAt(x-at.X, y-at.Y)
			i := 4 * (y*c.b.width + x)
			over(c.b.pix[i:i+4], s)
		}
	}
}

// Buffer returns an immutable copy of the current canvas contents.
func (c *Canvas) Buffer() *Buffer {
	out := &Buffer{width: c.b.width, height: c.b.height, pix: make([]uint8, len(c.b.pix))}
	copy(out.pix, c.b.pix)
	return out
}

// over blends s onto the 4-byte pixel d. Opaque sources and transparent
// destinations are copied exactly.
func over(d []uint8, s Color) {
	sa := uint32(s.A)
	if sa == 0 {
		return
	}
	da := uint32(d[3])
	if sa == 0xFF || da == 0 {
		d[0], d[1], d[2], d[3] = s.R, s.G, s.B, s.A
		return
	}

	// All terms are scaled by 255 to stay in integers.
	outA := sa*255 + da*(255-sa)
	blend := func(sc, dc uint8) uint8 {
		num := uint32(sc)*sa*255 + uint32(dc)*da*(255-sa)
		return uint8((num + outA/2) / outA)
	}
	d[0] = blend(s.R, d[0])
	d[1] = blend(s.G, d[1])
	d[2] = blend(s.B, d[2])
	d[3] = uint8((outA + 127) / 255)
}
