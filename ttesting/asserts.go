package ttesting

import (
	"image"
	"testing"

	"github.com/Schips-Wong/SimpleSpriteSheetHelper/pixbuf"
)

func AssertEqualInt(t *testing.T, name string, got, want int) {
	t.Run(name, func(t *testing.T) {
		if got != want {
			t.Errorf("got %d; want %d", got, want)
		}
	})
}

func AssertEqualFloat(t *testing.T, name string, got, want float64) {
	t.Run(name, func(t *testing.T) {
		if got != want {
			t.Errorf("got %v; want %v", got, want)
		}
	})
}

func AssertEqualString(t *testing.T, name string, got, want string) {
	t.Run(name, func(t *testing.T) {
		if got != want {
			t.Errorf("got %q; want %q", got, want)
		}
	})
}

func AssertEqualRect(t *testing.T, name string, got, want image.Rectangle) {
	t.Run(name, func(t *testing.T) {
		if got != want {
			t.Errorf("got %v; want %v", got, want)
		}
	})
}

func AssertEqualColor(t *testing.T, name string, got, want pixbuf.Color) {
	t.Run(name, func(t *testing.T) {
		if got != want {
			t.Errorf("got %v; want %v", got, want)
		}
	})
}

// AssertEqualBuffer compares dimensions and then pixels, reporting the first
// differing pixel.
func AssertEqualBuffer(t *testing.T, name string, got, want *pixbuf.Buffer) {
	t.Run(name, func(t *testing.T) {
		if got.Size() != want.Size() {
			t.Fatalf("got size %v; want %v", got.Size(), want.Size())
		}
		for y := 0; y < want.Height(); y++ {
			for x := 0; x < want.Width(); x++ {
				if g, w := got.ColorAt(x, y), want.ColorAt(x, y); g != w {
					t.Fatalf("at (%d,%d) got %v; want %v", x, y, g, w)
				}
			}
		}
	})
}
