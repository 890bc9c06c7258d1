package detect

import (
	"image"
	"sort"
)

type component struct {
	box    image.Rectangle
	pixels int
}

// components labels connected foreground runs of mask with an iterative
// flood fill and returns their bounding boxes in discovery order.
func components(mask []bool, w, h int, conn Connectivity) []component {
	visited := make([]bool, len(mask))
	queue := make([]int, 0, 64)
	var out []component

	neighbors := [][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	if conn == Connect8 {
		neighbors = append(neighbors, [2]int{1, 1}, [2]int{1, -1}, [2]int{-1, 1}, [2]int{-1, -1})
	}

	for start := range mask {
		if !mask[start] || visited[start] {
			continue
		}
		sx, sy := start%w, start/w
		c := component{box: image.Rect(sx, sy, sx+1, sy+1)}

		visited[start] = true
		queue = append(queue[:0], start)
		for len(queue) > 0 {
			p := queue[len(queue)-1]
			queue = queue[:len(queue)-1]
			x, y := p%w, p/w
			c.pixels++
			c.box = c.box.Union(image.Rect(x, y, x+1, y+1))

			for _, d := range neighbors {
				nx, ny := x+d[0], y+d[1]
				if nx < 0 || ny < 0 || nx >= w || ny >= h {
					continue
				}
				n := ny*w + nx
				if mask[n] && !visited[n] {
					visited[n] = true
					queue = append(queue, n)
				}
			}
		}
		out = append(out, c)
	}
	return out
}

// gap returns the number of background pixels between a and b along each
// axis; overlapping or touching boxes have a gap of 0.
func gap(a, b image.Rectangle) (int, int) {
	gx := max(a.Min.X, b.Min.X) - min(a.Max.X, b.Max.X)
	gy := max(a.Min.Y, b.Min.Y) - min(a.Max.Y, b.Max.Y)
	return max(gx, 0), max(gy, 0)
}

// merge joins components whose boxes are within maxGap pixels on both axes
// until no pair qualifies. Pixel counts are summed.
//
// Each pass sweeps the boxes in Min.X order, so only boxes whose x ranges
// come within maxGap are compared, and unions every qualifying pair at once.
// Passes repeat while grown boxes still reach new neighbors.
func merge(comps []component, maxGap int) []component {
	out := append([]component(nil), comps...)
	for {
		sort.SliceStable(out, func(a, b int) bool { return out[a].box.Min.X < out[b].box.Min.X })

		parent := make([]int, len(out))
		for i := range parent {
			parent[i] = i
		}
		find := func(i int) int {
			for parent[i] != i {
				parent[i] = parent[parent[i]]
				i = parent[i]
			}
			return i
		}

		joined := false
		for i := range out {
			for j := i + 1; j < len(out) && out[j].box.Min.X-out[i].box.Max.X <= maxGap; j++ {
				if _, gy := gap(out[i].box, out[j].box); gy > maxGap {
					continue
				}
				if ri, rj := find(i), find(j); ri != rj {
					parent[rj] = ri
					joined = true
				}
			}
		}
		if !joined {
			return out
		}

		next := make([]component, 0, len(out))
		slot := make(map[int]int, len(out))
		for i, c := range out {
			r := find(i)
			k, ok := slot[r]
			if !ok {
				slot[r] = len(next)
				next = append(next, c)
				continue
			}
			next[k].box = next[k].box.Union(c.box)
			next[k].pixels += c.pixels
		}
		out = next
	}
}

// filter drops components below the noise floor.
func filter(comps []component, minArea, minSize int) []component {
	out := comps[:0]
	for _, c := range comps {
		if c.pixels < minArea || min(c.box.Dx(), c.box.Dy()) < minSize {
			continue
		}
		out = append(out, c)
	}
	return out
}
