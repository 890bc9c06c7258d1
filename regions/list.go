package regions

import (
	"image"

	"github.com/pkg/errors"
)

// List is an ordered set of regions over a source image of known bounds.
//
// The zero List has empty bounds and rejects every Add.
type List struct {
	bounds image.Rectangle
	byID   map[int]Region
	order  []int
	nextID int
}

// NewList returns an empty list for a source image with the passed bounds.
func NewList(bounds image.Rectangle) List {
	return List{bounds: bounds.Canon(), byID: map[int]Region{}}
}

// FromRegions builds a list by adding rs in order. IDs are reassigned
// sequentially, so detector output keeps its IDs.
func FromRegions(bounds image.Rectangle, rs []Region) (List, error) {
	l := NewList(bounds)
	for _, r := range rs {
		var err error
		if l, err = l.Add(r); err != nil {
			return NewList(bounds), err
		}
	}
	return l, nil
}

// clone returns a deep copy sharing nothing with l.
func (l List) clone() List {
	c := List{bounds: l.bounds, byID: make(map[int]Region, len(l.byID)), nextID: l.nextID}
	for id, r := range l.byID {
		c.byID[id] = r
	}
	c.order = append([]int(nil), l.order...)
	return c
}

// Bounds returns the source image bounds the list validates against.
func (l List) Bounds() image.Rectangle { return l.bounds }

// Len returns the number of regions.
func (l List) Len() int { return len(l.order) }

// Regions returns the regions in list order.
func (l List) Regions() []Region {
	out := make([]Region, len(l.order))
	for i, id := range l.order {
		out[i] = l.byID[id]
	}
	return out
}

// Get returns the region with the passed ID.
func (l List) Get(id int) (Region, error) {
	r, ok := l.byID[id]
	if !ok {
		return Region{}, errors.Wrapf(ErrUnknownRegion, "id %d", id)
	}
	return r, nil
}

// Index returns the ordinal position of id, or -1.
func (l List) Index(id int) int {
	for i, o := range l.order {
		if o == id {
			return i
		}
	}
	return -1
}

func (l List) check(r Region) error {
	if !r.Within(l.bounds) {
		return errors.Wrapf(ErrOutOfBounds, "%v in %v", r, l.bounds)
	}
	return nil
}

// Add appends r under the next free ID. The ID in r is ignored.
func (l List) Add(r Region) (List, error) {
	if err := l.check(r); err != nil {
		return l, err
	}
	c := l.clone()
	if c.byID == nil {
		c.byID = map[int]Region{}
	}
	r.ID = c.nextID
	c.nextID++
	c.byID[r.ID] = r
	c.order = append(c.order, r.ID)
	return c, nil
}

// Remove deletes the region with the passed ID.
func (l List) Remove(id int) (List, error) {
	i := l.Index(id)
	if i < 0 {
		return l, errors.Wrapf(ErrUnknownRegion, "remove %d", id)
	}
	c := l.clone()
	delete(c.byID, id)
	c.order = append(c.order[:i], c.order[i+1:]...)
	return c, nil
}

// Resize replaces the geometry of id with bounds.
func (l List) Resize(id int, bounds image.Rectangle) (List, error) {
	if _, err := l.Get(id); err != nil {
		return l, err
	}
	r := FromRect(id, bounds)
	if bounds.Empty() {
		return l, errors.Wrapf(ErrOutOfBounds, "resize %d to empty %v", id, bounds)
	}
	if err := l.check(r); err != nil {
		return l, err
	}
	c := l.clone()
	c.byID[id] = r
	return c, nil
}

// Move translates id by (dx, dy). The origin is clamped at zero; a far edge
// past the source bounds is an error.
func (l List) Move(id, dx, dy int) (List, error) {
	r, err := l.Get(id)
	if err != nil {
		return l, err
	}
	r.X = max(r.X+dx, l.bounds.Min.X)
	r.Y = max(r.Y+dy, l.bounds.Min.Y)
	if err := l.check(r); err != nil {
		return l, err
	}
	c := l.clone()
	c.byID[id] = r
	return c, nil
}

// SwapIndex exchanges the list positions of ids a and b. Geometry is
// unchanged.
func (l List) SwapIndex(a, b int) (List, error) {
	i, j := l.Index(a), l.Index(b)
	if i < 0 {
		return l, errors.Wrapf(ErrUnknownRegion, "swap %d", a)
	}
	if j < 0 {
		return l, errors.Wrapf(ErrUnknownRegion, "swap %d", b)
	}
	c := l.clone()
	c.order[i], c.order[j] = c.order[j], c.order[i]
	return c, nil
}

// MoveIndex moves id to position to, shifting the entries in between.
// to is clamped into the list.
func (l List) MoveIndex(id, to int) (List, error) {
	i := l.Index(id)
	if i < 0 {
		return l, errors.Wrapf(ErrUnknownRegion, "move index %d", id)
	}
	to = min(max(to, 0), len(l.order)-1)
	c := l.clone()
	c.order = append(c.order[:i], c.order[i+1:]...)
	c.order = append(c.order[:to], append([]int{id}, c.order[to:]...)...)
	return c, nil
}

// Clear returns an empty list with the same bounds. IDs are not reused.
func (l List) Clear() List {
	c := NewList(l.bounds)
	c.nextID = l.nextID
	return c
}
