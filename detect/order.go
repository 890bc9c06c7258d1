package detect

import (
	"image"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// readingOrder sorts boxes top-to-bottom, then left-to-right.
//
// Boxes are first ordered by vertical center. A box joins the current row
// while its center lies within tolerance*meanHeight of the row's mean center;
// otherwise it starts a new row. Each row is then ordered by horizontal
// center. Sorting is stable so equal keys keep discovery order.
func readingOrder(boxes []image.Rectangle, tolerance float64) []image.Rectangle {
	if len(boxes) < 2 {
		return boxes
	}
	out := append([]image.Rectangle(nil), boxes...)
	sort.SliceStable(out, func(i, j int) bool { return centerY(out[i]) < centerY(out[j]) })

	heights := make([]float64, len(out))
	for i, b := range out {
		heights[i] = float64(b.Dy())
	}
	tol := tolerance * stat.Mean(heights, nil)

	var rows [][]image.Rectangle
	var current []image.Rectangle
	var centers []float64
	for _, b := range out {
		if len(current) > 0 && math.Abs(centerY(b)-stat.Mean(centers, nil)) > tol {
			rows = append(rows, current)
			current, centers = nil, nil
		}
		current = append(current, b)
		centers = append(centers, centerY(b))
	}
	rows = append(rows, current)

	out = out[:0]
	for _, row := range rows {
		sort.SliceStable(row, func(i, j int) bool { return centerX(row[i]) < centerX(row[j]) })
		out = append(out, row...)
	}
	return out
}

func centerX(r image.Rectangle) float64 { return float64(r.Min.X) + float64(r.Dx())/2 }
func centerY(r image.Rectangle) float64 { return float64(r.Min.Y) + float64(r.Dy())/2 }
