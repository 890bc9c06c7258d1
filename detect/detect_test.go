package detect

import (
	"image"
	"math"
	"testing"

	"github.com/pkg/errors"

	"github.com/Schips-Wong/SimpleSpriteSheetHelper/pixbuf"
	"github.com/Schips-Wong/SimpleSpriteSheetHelper/regions"
	"github.com/Schips-Wong/SimpleSpriteSheetHelper/ttesting"
)

func TestUniformImageHasNoRegions(t *testing.T) {
	for _, c := range []pixbuf.Color{ttesting.White, ttesting.Red, pixbuf.Transparent} {
		got, err := Detect(ttesting.Solid(t, 16, 16, c), 0.1)
		if err != nil {
			t.Fatal(err)
		}
		ttesting.AssertEqualInt(t, "count "+c.String(), len(got), 0)
	}
}

func TestSingleBlobIsTight(t *testing.T) {
	buf := ttesting.Sheet(t, 32, 32, ttesting.White, ttesting.Box{Rect: image.Rect(5, 7, 11, 11), Color: ttesting.Black})
	for _, thr := range []float64{0, 0.05, 0.1, 0.5} {
		got, err := Detect(buf, thr)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 1 {
			t.Fatalf("threshold %v: got %d regions; want 1", thr, len(got))
		}
		ttesting.AssertEqualRect(t, "box", got[0].Rect(), image.Rect(5, 7, 11, 11))
	}
}

func TestRedSquare(t *testing.T) {
	buf := ttesting.Sheet(t, 64, 64, ttesting.White, ttesting.Box{Rect: image.Rect(20, 20, 30, 30), Color: ttesting.Red})
	got, err := Detect(buf, 0.1)
	if err != nil {
		t.Fatal(err)
	}
	want := []regions.Region{{ID: 0, X: 20, Y: 20, Width: 10, Height: 10}}
	if len(got) != 1 || got[0] != want[0] {
		t.Errorf("got %v; want %v", got, want)
	}
}

func TestThresholdOneCoversImage(t *testing.T) {
	buf := ttesting.Sheet(t, 12, 9, ttesting.White, ttesting.Box{Rect: image.Rect(1, 1, 3, 3), Color: ttesting.Black})
	got, err := Detect(buf, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d regions; want 1", len(got))
	}
	ttesting.AssertEqualRect(t, "box", got[0].Rect(), image.Rect(0, 0, 12, 9))
}

func TestInvalidImage(t *testing.T) {
	if _, err := Detect(nil, 0.1); !errors.Is(err, pixbuf.ErrInvalidImage) {
		t.Errorf("got %v; want ErrInvalidImage", err)
	}
}

func TestMergeGap(t *testing.T) {
	buf := ttesting.Sheet(t, 20, 10, ttesting.White,
		ttesting.Box{Rect: image.Rect(2, 2, 6, 6), Color: ttesting.Black},
		ttesting.Box{Rect: image.Rect(7, 2, 11, 6), Color: ttesting.Black},
	)

	opts := DefaultOptions()
	got, err := DetectWithOptions(buf, opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("gap 1: got %v; want one merged region", got)
	}
	ttesting.AssertEqualRect(t, "merged", got[0].Rect(), image.Rect(2, 2, 11, 6))

	opts.MergeGap = 0
	got, err = DetectWithOptions(buf, opts)
	if err != nil {
		t.Fatal(err)
	}
	ttesting.AssertEqualInt(t, "gap 0 count", len(got), 2)
}

func TestMergeReachesFixedPoint(t *testing.T) {
	// a and c are one pixel apart; b only reaches their union.
	comps := []component{
		{box: image.Rect(0, 0, 4, 1), pixels: 4},
		{box: image.Rect(0, 4, 1, 5), pixels: 1},
		{box: image.Rect(5, 2, 6, 3), pixels: 1},
	}
	got := merge(comps, 1)
	if len(got) != 1 {
		t.Fatalf("got %v; want one component", got)
	}
	ttesting.AssertEqualRect(t, "box", got[0].box, image.Rect(0, 0, 6, 5))
	ttesting.AssertEqualInt(t, "pixels", got[0].pixels, 6)
	ttesting.AssertEqualInt(t, "input untouched", comps[1].box.Min.Y, 4)
}

func TestManyIsolatedDots(t *testing.T) {
	var dots []ttesting.Box
	for y := 0; y < 300; y += 3 {
		for x := 0; x < 300; x += 3 {
			dots = append(dots, ttesting.Box{Rect: image.Rect(x, y, x+1, y+1), Color: ttesting.Black})
		}
	}
	buf := ttesting.Sheet(t, 300, 300, ttesting.White, dots...)
	// The corners are dots themselves.
	opts := DefaultOptions()
	opts.Background = &ttesting.White
	opts.MinArea = 1

	got, err := DetectWithOptions(buf, opts)
	if err != nil {
		t.Fatal(err)
	}
	ttesting.AssertEqualInt(t, "gap 1", len(got), 10000)

	opts.MergeGap = 2
	got, err = DetectWithOptions(buf, opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("gap 2: got %d regions; want 1", len(got))
	}
	ttesting.AssertEqualRect(t, "gap 2", got[0].Rect(), image.Rect(0, 0, 298, 298))
}

func TestNormalized(t *testing.T) {
	o := Options{Threshold: math.NaN(), Connectivity: 6, MergeGap: -2}.Normalized()
	ttesting.AssertEqualFloat(t, "nan threshold", o.Threshold, 0)
	ttesting.AssertEqualInt(t, "connectivity", int(o.Connectivity), 8)
	ttesting.AssertEqualInt(t, "merge gap", o.MergeGap, 0)
	ttesting.AssertEqualInt(t, "min area", o.MinArea, 1)
	ttesting.AssertEqualFloat(t, "high threshold", Options{Threshold: 3}.Normalized().Threshold, 1)
}

func TestMinAreaDropsNoise(t *testing.T) {
	buf := ttesting.Sheet(t, 40, 40, ttesting.White,
		ttesting.Box{Rect: image.Rect(2, 2, 10, 10), Color: ttesting.Black},
		ttesting.Box{Rect: image.Rect(30, 30, 31, 31), Color: ttesting.Black},
	)
	got, err := Detect(buf, 0.1)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("got %v; want only the large box", got)
	}
	ttesting.AssertEqualRect(t, "box", got[0].Rect(), image.Rect(2, 2, 10, 10))

	opts := DefaultOptions()
	opts.MinArea = 1
	got, err = DetectWithOptions(buf, opts)
	if err != nil {
		t.Fatal(err)
	}
	ttesting.AssertEqualInt(t, "min area 1", len(got), 2)
}

func TestMinSize(t *testing.T) {
	buf := ttesting.Sheet(t, 40, 20, ttesting.White,
		ttesting.Box{Rect: image.Rect(2, 2, 10, 10), Color: ttesting.Black},
		ttesting.Box{Rect: image.Rect(20, 2, 38, 4), Color: ttesting.Black},
	)
	opts := DefaultOptions()
	opts.MinSize = 5
	got, err := DetectWithOptions(buf, opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("got %v; want the thin bar dropped", got)
	}
	ttesting.AssertEqualRect(t, "box", got[0].Rect(), image.Rect(2, 2, 10, 10))
}

func TestAreasRestrictScanning(t *testing.T) {
	buf := ttesting.Sheet(t, 40, 20, ttesting.White,
		ttesting.Box{Rect: image.Rect(2, 2, 8, 8), Color: ttesting.Black},
		ttesting.Box{Rect: image.Rect(25, 2, 31, 8), Color: ttesting.Black},
	)
	opts := DefaultOptions()
	opts.Areas = []image.Rectangle{image.Rect(20, 0, 100, 100)}
	got, err := DetectWithOptions(buf, opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("got %v; want one region", got)
	}
	ttesting.AssertEqualRect(t, "box", got[0].Rect(), image.Rect(25, 2, 31, 8))
}

func TestReadingOrder(t *testing.T) {
	buf := ttesting.Sheet(t, 40, 40, ttesting.White,
		ttesting.Box{Rect: image.Rect(2, 20, 8, 26), Color: ttesting.Black},
		ttesting.Box{Rect: image.Rect(20, 3, 26, 9), Color: ttesting.Red},
		ttesting.Box{Rect: image.Rect(2, 2, 8, 8), Color: ttesting.Blue},
	)
	got, err := Detect(buf, 0.1)
	if err != nil {
		t.Fatal(err)
	}
	want := []image.Rectangle{
		image.Rect(2, 2, 8, 8),
		image.Rect(20, 3, 26, 9),
		image.Rect(2, 20, 8, 26),
	}
	if len(got) != len(want) {
		t.Fatalf("got %v; want %d regions", got, len(want))
	}
	for i, r := range got {
		ttesting.AssertEqualInt(t, "id", r.ID, i)
		ttesting.AssertEqualRect(t, "rect", r.Rect(), want[i])
	}
}

func TestTransparentBackground(t *testing.T) {
	buf := ttesting.Sheet(t, 16, 16, pixbuf.Transparent, ttesting.Box{Rect: image.Rect(4, 4, 9, 12), Color: ttesting.Green})
	got, err := Detect(buf, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("got %v; want one region", got)
	}
	ttesting.AssertEqualRect(t, "box", got[0].Rect(), image.Rect(4, 4, 9, 12))
}

func TestBackground(t *testing.T) {
	t.Run("majority", func(t *testing.T) {
		buf := ttesting.Sheet(t, 8, 8, ttesting.White, ttesting.Box{Rect: image.Rect(0, 0, 1, 1), Color: ttesting.Black})
		ttesting.AssertEqualColor(t, "bg", Background(buf, DefaultOptions()), ttesting.White)
	})
	t.Run("tie goes to top-left", func(t *testing.T) {
		buf := ttesting.Sheet(t, 8, 8, ttesting.White,
			ttesting.Box{Rect: image.Rect(0, 0, 1, 1), Color: ttesting.Black},
			ttesting.Box{Rect: image.Rect(7, 7, 8, 8), Color: ttesting.Black},
		)
		ttesting.AssertEqualColor(t, "bg", Background(buf, DefaultOptions()), ttesting.Black)
	})
	t.Run("near colors cluster", func(t *testing.T) {
		off := pixbuf.Color{R: 0xFE, G: 0xFF, B: 0xFF, A: 0xFF}
		buf := ttesting.Sheet(t, 8, 8, ttesting.White,
			ttesting.Box{Rect: image.Rect(0, 0, 1, 1), Color: ttesting.Black},
			ttesting.Box{Rect: image.Rect(7, 0, 8, 1), Color: off},
		)
		// Samples: black, off-white, white, white. White has no strict
		// majority but its cluster of three wins over black.
		got := Background(buf, DefaultOptions())
		if got != off && got != ttesting.White {
			t.Errorf("got %v; want a white", got)
		}
	})
	t.Run("plurality beats first sample", func(t *testing.T) {
		dark := pixbuf.Color{R: 0x0A, G: 0x0A, B: 0x0A, A: 0xFF}
		buf := ttesting.Sheet(t, 2, 2, ttesting.White,
			ttesting.Box{Rect: image.Rect(0, 0, 1, 1), Color: ttesting.Black},
			ttesting.Box{Rect: image.Rect(0, 1, 1, 2), Color: dark},
		)
		ttesting.AssertEqualColor(t, "bg", Background(buf, DefaultOptions()), ttesting.White)
	})
	t.Run("score tie goes to exact count", func(t *testing.T) {
		// Ring: off-white, white, white / black, black, dark. White and
		// black tie on exact count and every sample scores 3, so the first
		// sample with the higher exact count wins over the first sample.
		dark := pixbuf.Color{R: 0x0A, G: 0x0A, B: 0x0A, A: 0xFF}
		off := pixbuf.Color{R: 0xFE, G: 0xFF, B: 0xFF, A: 0xFF}
		buf := ttesting.Sheet(t, 3, 2, ttesting.White,
			ttesting.Box{Rect: image.Rect(0, 0, 1, 1), Color: off},
			ttesting.Box{Rect: image.Rect(0, 1, 2, 2), Color: ttesting.Black},
			ttesting.Box{Rect: image.Rect(2, 1, 3, 2), Color: dark},
		)
		opts := DefaultOptions()
		opts.Sampling = SampleBorder
		ttesting.AssertEqualColor(t, "bg", Background(buf, opts), ttesting.White)
	})
	t.Run("override", func(t *testing.T) {
		buf := ttesting.Solid(t, 4, 4, ttesting.White)
		opts := DefaultOptions()
		opts.Background = &ttesting.Red
		ttesting.AssertEqualColor(t, "bg", Background(buf, opts), ttesting.Red)
	})
	t.Run("border ring", func(t *testing.T) {
		// Corners are all red but most of the ring is white.
		buf := ttesting.Sheet(t, 10, 10, ttesting.White,
			ttesting.Box{Rect: image.Rect(0, 0, 1, 1), Color: ttesting.Red},
			ttesting.Box{Rect: image.Rect(9, 0, 10, 1), Color: ttesting.Red},
			ttesting.Box{Rect: image.Rect(0, 9, 1, 10), Color: ttesting.Red},
			ttesting.Box{Rect: image.Rect(9, 9, 10, 10), Color: ttesting.Red},
		)
		opts := DefaultOptions()
		ttesting.AssertEqualColor(t, "corners", Background(buf, opts), ttesting.Red)
		opts.Sampling = SampleBorder
		ttesting.AssertEqualColor(t, "border", Background(buf, opts), ttesting.White)
	})
	t.Run("dominant", func(t *testing.T) {
		// Black corner blocks fool corner sampling; white covers most of
		// the sheet.
		buf := ttesting.Sheet(t, 20, 20, ttesting.White,
			ttesting.Box{Rect: image.Rect(0, 0, 3, 3), Color: ttesting.Black},
			ttesting.Box{Rect: image.Rect(17, 0, 20, 3), Color: ttesting.Black},
			ttesting.Box{Rect: image.Rect(0, 17, 3, 20), Color: ttesting.Black},
			ttesting.Box{Rect: image.Rect(17, 17, 20, 20), Color: ttesting.Black},
		)
		opts := DefaultOptions()
		ttesting.AssertEqualColor(t, "corners", Background(buf, opts), ttesting.Black)
		opts.Sampling = SampleDominant
		ttesting.AssertEqualColor(t, "dominant", Background(buf, opts), ttesting.White)
	})
}

func TestRegionsAreDisjointAndInside(t *testing.T) {
	buf := ttesting.Sheet(t, 50, 30, ttesting.White,
		ttesting.Box{Rect: image.Rect(0, 0, 5, 5), Color: ttesting.Black},
		ttesting.Box{Rect: image.Rect(45, 25, 50, 30), Color: ttesting.Red},
		ttesting.Box{Rect: image.Rect(10, 10, 20, 12), Color: ttesting.Blue},
		ttesting.Box{Rect: image.Rect(15, 11, 17, 20), Color: ttesting.Blue},
	)
	opts := DefaultOptions()
	opts.Sampling = SampleBorder
	got, err := DetectWithOptions(buf, opts)
	if err != nil {
		t.Fatal(err)
	}
	for i, a := range got {
		if !a.Within(buf.Rect()) {
			t.Errorf("%v escapes %v", a, buf.Rect())
		}
		for _, b := range got[i+1:] {
			if a.Rect().Overlaps(b.Rect()) {
				t.Errorf("%v overlaps %v", a, b)
			}
		}
	}
	ttesting.AssertEqualInt(t, "count", len(got), 3)
}
