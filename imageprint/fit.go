package imageprint

import (
	"image"

	"github.com/nfnt/resize"

	"github.com/Schips-Wong/SimpleSpriteSheetHelper/pixbuf"
	"github.com/Schips-Wong/SimpleSpriteSheetHelper/regions"
)

// TermSize is a terminal size in character cells and, when known, pixels.
type TermSize struct {
	Cols, Rows     uint
	XPixel, YPixel uint
}

// Fit shrinks img so a preview in mode m fits the terminal. Cell based modes
// use two columns per pixel. Images that already fit are returned as is.
func Fit(img image.Image, ts TermSize, m Mode) image.Image {
	maxW, maxH := ts.Cols/2, ts.Rows-1
	if m.Graphical() && ts.XPixel != 0 && ts.YPixel != 0 {
		// Prefer native size when a real image is being sent.
		maxW, maxH = ts.XPixel/2, ts.YPixel/2
	}
	if maxW == 0 || maxH == 0 || ts.Rows == 0 {
		return img
	}
	sz := img.Bounds().Size()
	if uint(sz.X) <= maxW && uint(sz.Y) <= maxH {
		return img
	}
	return resize.Thumbnail(maxW, maxH, img, resize.NearestNeighbor)
}

// Outline returns a copy of buf with a one pixel frame drawn around every
// region, for previewing detection results.
func Outline(buf *pixbuf.Buffer, rs []regions.Region, col pixbuf.Color) *pixbuf.Buffer {
	c := pixbuf.CanvasFrom(buf)
	for _, r := range rs {
		b := r.Rect()
		c.Fill(image.Rect(b.Min.X, b.Min.Y, b.Max.X, b.Min.Y+1), col)
		c.Fill(image.Rect(b.Min.X, b.Max.Y-1, b.Max.X, b.Max.Y), col)
		c.Fill(image.Rect(b.Min.X, b.Min.Y, b.Min.X+1, b.Max.Y), col)
		c.Fill(image.Rect(b.Max.X-1, b.Min.Y, b.Max.X, b.Max.Y), col)
	}
	return c.Buffer()
}
