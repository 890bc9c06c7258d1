package pixbuf

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
)

// Color is a straight-alpha RGBA quad. Equality is exact.
type Color struct {
	R, G, B, A uint8
}

// Transparent is the fully transparent black used for cleared pixels.
var Transparent = Color{}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}.RGBA()
}

func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// FromColor converts any color.Color into a straight-alpha Color.
func FromColor(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color{R: n.R, G: n.G, B: n.B, A: n.A}
}

// ParseColor accepts #rrggbb or #rrggbbaa.
func ParseColor(s string) (Color, error) {
	s = strings.TrimPrefix(s, "#")
	var c Color
	switch len(s) {
	case 6:
		c.A = 0xFF
		if _, err := fmt.Sscanf(s, "%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
			return Color{}, errors.Wrapf(err, "parsing color %q", s)
		}
	case 8:
		if _, err := fmt.Sscanf(s, "%02x%02x%02x%02x", &c.R, &c.G, &c.B, &c.A); err != nil {
			return Color{}, errors.Wrapf(err, "parsing color %q", s)
		}
	default:
		return Color{}, errors.Errorf("color %q: want 6 or 8 hex digits", s)
	}
	return c, nil
}

// Metric selects how color closeness is measured. Every metric returns a
// distance normalized into [0,1], so a threshold in [0,1] applies to all of
// them.
type Metric int

const (
	// MetricManhattan sums per-channel absolute differences, alpha
	// included, divided by 4*255.
	MetricManhattan Metric = iota
	// MetricEuclidean is the RGBA euclidean distance divided by 2*255.
	MetricEuclidean
	// MetricLab is the CIE L*a*b* distance of the color channels; the alpha
	// difference wins when it is larger.
	MetricLab
)

func (m Metric) String() string {
	switch m {
	case MetricEuclidean:
		return "euclidean"
	case MetricLab:
		return "lab"
	default:
		return "manhattan"
	}
}

// ParseMetric maps a metric name as printed by String back to a Metric.
func ParseMetric(s string) (Metric, error) {
	switch strings.ToLower(s) {
	case "", "manhattan":
		return MetricManhattan, nil
	case "euclidean":
		return MetricEuclidean, nil
	case "lab":
		return MetricLab, nil
	}
	return MetricManhattan, errors.Errorf("unknown metric %q", s)
}

// Distance returns the normalized distance between a and b.
func (m Metric) Distance(a, b Color) float64 {
	switch m {
	case MetricEuclidean:
		dr := float64(a.R) - float64(b.R)
		dg := float64(a.G) - float64(b.G)
		db := float64(a.B) - float64(b.B)
		da := float64(a.A) - float64(b.A)
		return math.Sqrt(dr*dr+dg*dg+db*db+da*da) / 510
	case MetricLab:
		ca := colorful.Color{R: float64(a.R) / 255, G: float64(a.G) / 255, B: float64(a.B) / 255}
		cb := colorful.Color{R: float64(b.R) / 255, G: float64(b.G) / 255, B: float64(b.B) / 255}
		d := ca.DistanceLab(cb)
		if da := math.Abs(float64(a.A)-float64(b.A)) / 255; da > d {
			d = da
		}
		return math.Min(d, 1)
	default:
		return float64(absDiff(a.R, b.R)+absDiff(a.G, b.G)+absDiff(a.B, b.B)+absDiff(a.A, b.A)) / 1020
	}
}

// Close reports whether a and b are within threshold under m.
func (m Metric) Close(a, b Color, threshold float64) bool {
	if a == b {
		return true
	}
	return m.Distance(a, b) <= threshold
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
