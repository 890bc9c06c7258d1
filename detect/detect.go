// Package detect finds sprite bounding boxes in a sprite sheet.
//
// Detection runs in five passes: the background color is inferred from
// samples taken at the image border, every pixel is classified as background
// or foreground against it, foreground pixels are grouped into connected
// components, component boxes that overlap or nearly touch are merged, and the
// surviving boxes are sorted into reading order and numbered.
//
// The background sampling strategy, the merge gap and the noise floor are all
// heuristics with known ambiguity where sprites touch the image border, so
// they are Options rather than constants.
package detect

import (
	"image"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/Schips-Wong/SimpleSpriteSheetHelper/pixbuf"
	"github.com/Schips-Wong/SimpleSpriteSheetHelper/regions"
)

// Sampling selects which pixels are considered for background inference.
type Sampling int

const (
	// SampleCorners looks at the four corner pixels.
	SampleCorners Sampling = iota
	// SampleBorder looks at the whole one-pixel ring around the image.
	SampleBorder
	// SampleDominant clusters the colors of the whole image and picks the
	// border pixel nearest to the heaviest cluster.
	SampleDominant
)

func (s Sampling) String() string {
	switch s {
	case SampleBorder:
		return "border"
	case SampleDominant:
		return "dominant"
	}
	return "corners"
}

// ParseSampling maps "corners", "border" or "dominant" to a Sampling.
func ParseSampling(s string) (Sampling, error) {
	switch s {
	case "", "corners":
		return SampleCorners, nil
	case "border":
		return SampleBorder, nil
	case "dominant":
		return SampleDominant, nil
	}
	return SampleCorners, errors.Errorf("unknown sampling %q", s)
}

// Connectivity is the pixel neighborhood used to grow components.
type Connectivity int

const (
	// Connect4 joins pixels that share an edge.
	Connect4 Connectivity = 4
	// Connect8 also joins diagonal neighbors.
	Connect8 Connectivity = 8
)

// Options configures detection. The zero value is usable but DefaultOptions
// is what the binaries start from.
type Options struct {
	// Threshold in [0,1]: a pixel is background when its normalized
	// distance to the background color is at most Threshold. 1 returns one
	// region covering the whole image.
	Threshold float64
	Metric    pixbuf.Metric
	Sampling  Sampling
	// Background overrides inference when non-nil.
	Background *pixbuf.Color

	Connectivity Connectivity
	// MergeGap is the largest gap, in pixels on both axes, across which two
	// candidate boxes are merged.
	MergeGap int
	// MinArea is the smallest number of foreground pixels a region needs.
	MinArea int
	// MinSize is the smallest allowed length of the shorter box side.
	MinSize int
	// AlphaCutoff: pixels with alpha at or below it are background no
	// matter their color. Fully transparent pixels are always background.
	AlphaCutoff uint8

	// Areas restricts scanning to these rectangles when non-empty.
	Areas []image.Rectangle
	// RowTolerance is the fraction of the mean region height within which
	// region centers are considered to be on the same row.
	RowTolerance float64
}

// DefaultOptions returns the settings used by the command line tools.
func DefaultOptions() Options {
	return Options{
		Threshold:    0.1,
		Metric:       pixbuf.MetricManhattan,
		Sampling:     SampleCorners,
		Connectivity: Connect8,
		MergeGap:     1,
		MinArea:      4,
		MinSize:      1,
		RowTolerance: 0.7,
	}
}

// Normalized returns o with numeric options clamped into their legal
// ranges. A NaN threshold becomes 0.
func (o Options) Normalized() Options {
	if o.Threshold < 0 || o.Threshold != o.Threshold {
		o.Threshold = 0
	}
	if o.Threshold > 1 {
		o.Threshold = 1
	}
	if o.Connectivity != Connect4 {
		o.Connectivity = Connect8
	}
	if o.MergeGap < 0 {
		o.MergeGap = 0
	}
	if o.MinArea < 1 {
		o.MinArea = 1
	}
	if o.MinSize < 1 {
		o.MinSize = 1
	}
	if o.RowTolerance <= 0 {
		o.RowTolerance = 0.7
	}
	return o
}

// Detect runs detection with DefaultOptions and the passed threshold.
func Detect(buf *pixbuf.Buffer, threshold float64) ([]regions.Region, error) {
	opts := DefaultOptions()
	opts.Threshold = threshold
	return DetectWithOptions(buf, opts)
}

// DetectWithOptions returns disjoint sprite regions in reading order with
// sequential IDs starting at 0. An image without foreground yields an empty
// result and no error.
func DetectWithOptions(buf *pixbuf.Buffer, opts Options) ([]regions.Region, error) {
	if !pixbuf.Valid(buf) {
		return nil, errors.Wrap(pixbuf.ErrInvalidImage, "detect")
	}
	opts = opts.Normalized()

	if opts.Threshold >= 1 {
		return []regions.Region{regions.FromRect(0, buf.Rect())}, nil
	}

	bg := Background(buf, opts)
	mask := Mask(buf, bg, opts)
	comps := components(mask, buf.Width(), buf.Height(), opts.Connectivity)
	glog.V(2).Infof("detect: background %v, %d raw components", bg, len(comps))

	comps = merge(comps, opts.MergeGap)
	comps = filter(comps, opts.MinArea, opts.MinSize)
	glog.V(1).Infof("detect: %d regions after merging (gap %d) and filtering (area %d, size %d)", len(comps), opts.MergeGap, opts.MinArea, opts.MinSize)

	boxes := make([]image.Rectangle, len(comps))
	for i, c := range comps {
		boxes[i] = c.box
	}
	boxes = readingOrder(boxes, opts.RowTolerance)

	out := make([]regions.Region, len(boxes))
	for i, b := range boxes {
		out[i] = regions.FromRect(i, b)
	}
	return out, nil
}
