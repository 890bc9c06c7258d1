package main

import (
	"flag"
	"image"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/Schips-Wong/SimpleSpriteSheetHelper/detect"
	"github.com/Schips-Wong/SimpleSpriteSheetHelper/pixbuf"
)

var (
	metric       = flag.String("metric", "manhattan", "color distance: manhattan, euclidean or lab")
	sampling     = flag.String("sampling", "corners", "background sampling: corners, border or dominant")
	background   = flag.String("background", "", "background color as #rrggbb or #rrggbbaa; inferred when empty")
	connectivity = flag.Int("connectivity", 8, "pixel neighborhood, 4 or 8")
	alphaCutoff  = flag.Int("alpha_cutoff", 0, "alpha at or below which a pixel is background")
)

// setupDetectFlags registers the numeric detector knobs directly on opts.
func setupDetectFlags(opts *detect.Options) {
	flag.Float64Var(&opts.Threshold, "threshold", opts.Threshold, "background tolerance in [0,1]")
	flag.IntVar(&opts.MergeGap, "merge_gap", opts.MergeGap, "merge boxes at most this many pixels apart")
	flag.IntVar(&opts.MinArea, "min_area", opts.MinArea, "drop regions with fewer foreground pixels")
	flag.IntVar(&opts.MinSize, "min_size", opts.MinSize, "drop regions whose shorter side is smaller")
}

// finishDetectFlags applies the string valued detector flags after parsing.
func finishDetectFlags(opts detect.Options) (detect.Options, error) {
	var err error
	if opts.Metric, err = pixbuf.ParseMetric(*metric); err != nil {
		return opts, err
	}
	if opts.Sampling, err = detect.ParseSampling(*sampling); err != nil {
		return opts, err
	}
	if *background != "" {
		c, err := pixbuf.ParseColor(*background)
		if err != nil {
			return opts, err
		}
		opts.Background = &c
	}
	switch *connectivity {
	case 4, 8:
		opts.Connectivity = detect.Connectivity(*connectivity)
	default:
		return opts, errors.Errorf("connectivity must be 4 or 8, not %d", *connectivity)
	}
	if *alphaCutoff < 0 || *alphaCutoff > 255 {
		return opts, errors.Errorf("alpha_cutoff %d out of range", *alphaCutoff)
	}
	opts.AlphaCutoff = uint8(*alphaCutoff)
	return opts, nil
}

// parseArea reads "x,y,w,h".
func parseArea(s string) (image.Rectangle, error) {
	fields := strings.Split(s, ",")
	if len(fields) != 4 {
		return image.Rectangle{}, errors.Errorf("area %q: want x,y,w,h", s)
	}
	var v [4]int
	for i, f := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return image.Rectangle{}, errors.Wrapf(err, "area %q", s)
		}
		v[i] = n
	}
	if v[2] <= 0 || v[3] <= 0 {
		return image.Rectangle{}, errors.Errorf("area %q: empty", s)
	}
	return image.Rect(v[0], v[1], v[0]+v[2], v[1]+v[3]), nil
}

func parseAreas(list []string) ([]image.Rectangle, error) {
	var out []image.Rectangle
	for _, s := range list {
		r, err := parseArea(s)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}
