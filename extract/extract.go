// Package extract cuts sprites out of a sheet along a region list.
package extract

import (
	"fmt"
	"image"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/Schips-Wong/SimpleSpriteSheetHelper/detect"
	"github.com/Schips-Wong/SimpleSpriteSheetHelper/pixbuf"
	"github.com/Schips-Wong/SimpleSpriteSheetHelper/regions"
	"github.com/Schips-Wong/SimpleSpriteSheetHelper/sprite"
)

// ErrRegionOutOfBounds is returned when a region does not lie inside the
// sheet being cut.
var ErrRegionOutOfBounds = errors.New("region out of bounds")

// Naming produces output names from list positions: Prefix, an underscore,
// then Start+index padded with zeros to Digits.
type Naming struct {
	Prefix string
	Digits int
	Start  int
}

// DefaultNaming yields sprite_000, sprite_001, ...
func DefaultNaming() Naming {
	return Naming{Prefix: "sprite", Digits: 3, Start: 0}
}

// Name returns the name of the sprite at list position i.
func (n Naming) Name(i int) string {
	return fmt.Sprintf("%s_%0*d", n.Prefix, n.Digits, n.Start+i)
}

// Options configures extraction.
type Options struct {
	Naming Naming
	// Transparent clears pixels that are background under Detect to
	// (0,0,0,0).
	Transparent bool
	// Detect supplies background inference and the closeness test used by
	// Transparent.
	Detect detect.Options
	// Areas groups sprites by the first area containing the center of
	// their region. Grouped sprites get Group "A<n>" (n from 1) and are
	// numbered per area; others keep their list position.
	Areas []image.Rectangle
}

// DefaultOptions returns plain cropping with DefaultNaming.
func DefaultOptions() Options {
	return Options{Naming: DefaultNaming(), Detect: detect.DefaultOptions()}
}

// Extract crops every region of list out of buf, in list order.
func Extract(buf *pixbuf.Buffer, list []regions.Region) (sprite.Set, error) {
	return ExtractWithOptions(buf, list, DefaultOptions())
}

// ExtractWithOptions is Extract with naming, transparency and area grouping.
// Nothing is returned if any region escapes buf.
func ExtractWithOptions(buf *pixbuf.Buffer, list []regions.Region, opts Options) (sprite.Set, error) {
	if !pixbuf.Valid(buf) {
		return nil, errors.Wrap(pixbuf.ErrInvalidImage, "extract")
	}
	for _, r := range list {
		if !r.Within(buf.Rect()) {
			return nil, errors.Wrapf(ErrRegionOutOfBounds, "%v in %v", r, buf.Rect())
		}
	}

	opts.Detect = opts.Detect.Normalized()
	var bg pixbuf.Color
	if opts.Transparent {
		bg = detect.Background(buf, opts.Detect)
		glog.V(1).Infof("extract: clearing background %v", bg)
	}

	out := make(sprite.Set, 0, len(list))
	perArea := make([]int, len(opts.Areas))
	for i, r := range list {
		crop, err := buf.Crop(r.Rect())
		if err != nil {
			return nil, errors.Wrapf(err, "cropping %v", r)
		}
		if opts.Transparent {
			crop = clearBackground(crop, bg, opts.Detect)
		}

		src := r
		s := sprite.Sprite{Name: opts.Naming.Name(i), Source: &src, Buffer: crop}
		if a := areaOf(r, opts.Areas); a >= 0 {
			s.Group = fmt.Sprintf("A%d", a+1)
			s.Name = opts.Naming.Name(perArea[a])
			perArea[a]++
		}
		out = append(out, s)
	}
	return out, nil
}

func clearBackground(b *pixbuf.Buffer, bg pixbuf.Color, opts detect.Options) *pixbuf.Buffer {
	c := pixbuf.CanvasFrom(b)
	for y := 0; y < b.Height(); y++ {
		for x := 0; x < b.Width(); x++ {
			if !detect.IsForeground(b.ColorAt(x, y), bg, opts) {
				c.Set(x, y, pixbuf.Transparent)
			}
		}
	}
	return c.Buffer()
}

// areaOf returns the index of the first area holding the center of r, or -1.
func areaOf(r regions.Region, areas []image.Rectangle) int {
	cx, cy := r.Center()
	for i, a := range areas {
		a = a.Canon()
		if float64(a.Min.X) <= cx && cx < float64(a.Max.X) && float64(a.Min.Y) <= cy && cy < float64(a.Max.Y) {
			return i
		}
	}
	return -1
}
