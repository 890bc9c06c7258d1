package ttesting

import (
	"image"
	"testing"

	"github.com/Schips-Wong/SimpleSpriteSheetHelper/pixbuf"
)

// Commonly used colors in fixtures.
var (
	White = pixbuf.Color{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	Black = pixbuf.Color{A: 0xFF}
	Red   = pixbuf.Color{R: 0xFF, A: 0xFF}
	Green = pixbuf.Color{G: 0xFF, A: 0xFF}
	Blue  = pixbuf.Color{B: 0xFF, A: 0xFF}
)

// Box is a filled rectangle of a fixture sheet.
type Box struct {
	Rect  image.Rectangle
	Color pixbuf.Color
}

// Sheet builds a w*h buffer filled with bg and the passed boxes painted on
// top, in order.
func Sheet(t testing.TB, w, h int, bg pixbuf.Color, boxes ...Box) *pixbuf.Buffer {
	t.Helper()
	b, err := pixbuf.NewFilled(w, h, bg)
	if err != nil {
		t.Fatalf("fixture %dx%d: %v", w, h, err)
	}
	c := pixbuf.CanvasFrom(b)
	for _, box := range boxes {
		c.Fill(box.Rect, box.Color)
	}
	return c.Buffer()
}

// Solid builds a w*h buffer of a single color.
func Solid(t testing.TB, w, h int, c pixbuf.Color) *pixbuf.Buffer {
	t.Helper()
	return Sheet(t, w, h, c)
}

// Gradient builds a w*h opaque buffer where every pixel is distinct, which
// makes misplaced copies easy to catch.
func Gradient(t testing.TB, w, h int) *pixbuf.Buffer {
	t.Helper()
	px := make([]pixbuf.Color, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			px[y*w+x] = pixbuf.Color{R: uint8(x * 7), G: uint8(y * 11), B: uint8(x ^ y), A: 0xFF}
		}
	}
	b, err := pixbuf.FromPixels(w, h, px)
	if err != nil {
		t.Fatalf("gradient %dx%d: %v", w, h, err)
	}
	return b
}
