package imageprint

import (
	"bytes"
	"image"
	"strings"
	"testing"

	"github.com/Schips-Wong/SimpleSpriteSheetHelper/pixbuf"
	"github.com/Schips-Wong/SimpleSpriteSheetHelper/regions"
	"github.com/Schips-Wong/SimpleSpriteSheetHelper/ttesting"
)

func TestPrintNoColor(t *testing.T) {
	buf := ttesting.Sheet(t, 3, 2, pixbuf.Transparent,
		ttesting.Box{Rect: image.Rect(0, 0, 1, 1), Color: ttesting.White},
		ttesting.Box{Rect: image.Rect(1, 1, 2, 2), Color: ttesting.Black},
	)
	var b bytes.Buffer
	if err := Print(&b, buf, NoColor, false); err != nil {
		t.Fatal(err)
	}
	ttesting.AssertEqualString(t, "art", b.String(), "##    \n  ..  \n")
}

func TestPrintTrueColor(t *testing.T) {
	var b bytes.Buffer
	Print(&b, ttesting.Solid(t, 1, 1, ttesting.Red), TrueColor, true)
	if !strings.Contains(b.String(), "\x1b[48;2;255;0;0m") {
		t.Errorf("got %q; want a red background escape", b.String())
	}
}

func TestParseMode(t *testing.T) {
	for _, m := range []Mode{TrueColor, Color256, NoColor, ITerm, RasTerm} {
		got, err := ParseMode(m.String())
		if err != nil || got != m {
			t.Errorf("ParseMode(%q) = %v, %v", m.String(), got, err)
		}
	}
}

func TestFit(t *testing.T) {
	img := ttesting.Solid(t, 100, 50, ttesting.Red)
	got := Fit(img, TermSize{Cols: 40, Rows: 30}, TrueColor)
	if sz := got.Bounds().Size(); sz.X > 20 || sz.Y > 29 {
		t.Errorf("got %v; want at most 20x29", sz)
	}
	if Fit(img, TermSize{}, TrueColor) != image.Image(img) {
		t.Error("unknown terminal size should leave the image alone")
	}
}

func TestOutline(t *testing.T) {
	buf := ttesting.Solid(t, 10, 10, ttesting.White)
	got := Outline(buf, []regions.Region{{X: 2, Y: 2, Width: 4, Height: 3}}, ttesting.Red)
	ttesting.AssertEqualColor(t, "corner", got.ColorAt(2, 2), ttesting.Red)
	ttesting.AssertEqualColor(t, "far corner", got.ColorAt(5, 4), ttesting.Red)
	ttesting.AssertEqualColor(t, "inside", got.ColorAt(3, 3), ttesting.White)
	ttesting.AssertEqualColor(t, "outside", got.ColorAt(6, 4), ttesting.White)
	ttesting.AssertEqualColor(t, "source untouched", buf.ColorAt(2, 2), ttesting.White)
}
