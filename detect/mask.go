package detect

import (
	"image"

	"github.com/Schips-Wong/SimpleSpriteSheetHelper/pixbuf"
)

// Mask classifies every pixel of buf against bg. The result is row-major and
// true for foreground. When opts.Areas is non-empty, pixels outside all areas
// are reported as background.
func Mask(buf *pixbuf.Buffer, bg pixbuf.Color, opts Options) []bool {
	w, h := buf.Width(), buf.Height()
	mask := make([]bool, w*h)

	scan := []image.Rectangle{buf.Rect()}
	if len(opts.Areas) > 0 {
		scan = scan[:0]
		for _, a := range opts.Areas {
			if a = a.Canon().Intersect(buf.Rect()); !a.Empty() {
				scan = append(scan, a)
			}
		}
	}

	for _, r := range scan {
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				mask[y*w+x] = IsForeground(buf.ColorAt(x, y), bg, opts)
			}
		}
	}
	return mask
}

// IsForeground reports whether c is distinguishable from the background bg.
func IsForeground(c, bg pixbuf.Color, opts Options) bool {
	if c.A == 0 || c.A <= opts.AlphaCutoff {
		return false
	}
	return !opts.Metric.Close(c, bg, opts.Threshold)
}
