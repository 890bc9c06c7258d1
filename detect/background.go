package detect

import (
	"github.com/cenkalti/dominantcolor"
	"github.com/golang/glog"

	"github.com/Schips-Wong/SimpleSpriteSheetHelper/pixbuf"
)

// Background infers the dominant background color of buf. If opts.Background
// is set it is returned unchanged.
//
// The most frequent exact sample color wins when no other color is seen as
// often. On a tie, each sample is scored by how many samples are within
// opts.Threshold of it; the best score wins, then the higher exact count,
// then the sample seen first.
func Background(buf *pixbuf.Buffer, opts Options) pixbuf.Color {
	if opts.Background != nil {
		return *opts.Background
	}
	if opts.Sampling == SampleDominant {
		if c, ok := dominant(buf, opts.Metric); ok {
			return c
		}
		opts.Sampling = SampleCorners
	}
	samples := samplePixels(buf, opts.Sampling)

	counts := make(map[pixbuf.Color]int, len(samples))
	top := 0
	for _, c := range samples {
		counts[c]++
		top = max(top, counts[c])
	}
	var modes []pixbuf.Color
	for _, c := range samples {
		if counts[c] == top && !contains(modes, c) {
			modes = append(modes, c)
		}
	}
	if len(modes) == 1 {
		return modes[0]
	}

	best, bestScore := samples[0], -1
	for _, c := range samples {
		score := 0
		for _, o := range samples {
			if opts.Metric.Close(c, o, opts.Threshold) {
				score++
			}
		}
		if score > bestScore || (score == bestScore && counts[c] > counts[best]) {
			best, bestScore = c, score
		}
	}
	return best
}

func contains(cs []pixbuf.Color, c pixbuf.Color) bool {
	for _, o := range cs {
		if o == c {
			return true
		}
	}
	return false
}

// dominant returns the border pixel closest to the heaviest color cluster of
// buf, so the result is always a color that exists in the image.
func dominant(buf *pixbuf.Buffer, m pixbuf.Metric) (pixbuf.Color, bool) {
	found := dominantcolor.FindWeight(buf, 3)
	if len(found) == 0 {
		return pixbuf.Color{}, false
	}
	heaviest := found[0]
	for _, c := range found[1:] {
		if c.Weight > heaviest.Weight {
			heaviest = c
		}
	}
	target := pixbuf.Color{R: heaviest.RGBA.R, G: heaviest.RGBA.G, B: heaviest.RGBA.B, A: 0xFF}
	glog.V(2).Infof("detect: dominant cluster %v weight %.2f", target, heaviest.Weight)

	ring := samplePixels(buf, SampleBorder)
	best, bestDist := ring[0], m.Distance(ring[0], target)
	for _, c := range ring[1:] {
		if d := m.Distance(c, target); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, true
}

func samplePixels(buf *pixbuf.Buffer, s Sampling) []pixbuf.Color {
	w, h := buf.Width(), buf.Height()
	if s != SampleBorder {
		return []pixbuf.Color{
			buf.ColorAt(0, 0),
			buf.ColorAt(w-1, 0),
			buf.ColorAt(0, h-1),
			buf.ColorAt(w-1, h-1),
		}
	}

	ring := make([]pixbuf.Color, 0, 2*w+2*h)
	for x := 0; x < w; x++ {
		ring = append(ring, buf.ColorAt(x, 0))
	}
	if h > 1 {
		for x := 0; x < w; x++ {
			ring = append(ring, buf.ColorAt(x, h-1))
		}
	}
	for y := 1; y < h-1; y++ {
		ring = append(ring, buf.ColorAt(0, y))
		if w > 1 {
			ring = append(ring, buf.ColorAt(w-1, y))
		}
	}
	return ring
}
