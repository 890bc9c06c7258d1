// Package align keeps per-sprite offsets for stitching and snaps them to the
// visible content of each sprite.
//
// Every sprite is drawn with the center given by Anchor at the workspace
// origin, moved by its Offset. The stitch package uses the same rule inside
// each grid cell, so offsets tuned here carry over unchanged.
package align

import (
	"image"

	"github.com/pkg/errors"

	"github.com/Schips-Wong/SimpleSpriteSheetHelper/detect"
	"github.com/Schips-Wong/SimpleSpriteSheetHelper/sprite"
)

var (
	// ErrNoContent is returned when a sprite has no pixels distinguishable
	// from its background.
	ErrNoContent = errors.New("sprite has no content")
	// ErrUnknownSprite is returned for IDs not in the workspace.
	ErrUnknownSprite = errors.New("unknown sprite")
)

// Offset is a displacement from the workspace origin, in pixels.
type Offset struct {
	DX float64 `json:"dx" yaml:"dx" toml:"dx"`
	DY float64 `json:"dy" yaml:"dy" toml:"dy"`
}

// Anchor returns the point of a w*h image that sits at the origin when its
// offset is zero.
func Anchor(w, h int) image.Point {
	return image.Pt(w/2, h/2)
}

// Workspace holds sprites by stable ID in an ordering, with one Offset each.
type Workspace struct {
	// Detect configures the background inference used to find content.
	Detect detect.Options

	sprites map[int]sprite.Sprite
	offsets map[int]Offset
	order   []int
	nextID  int
}

// NewWorkspace returns an empty workspace using detect.DefaultOptions for
// content detection.
func NewWorkspace() *Workspace {
	return &Workspace{
		Detect:  detect.DefaultOptions(),
		sprites: map[int]sprite.Sprite{},
		offsets: map[int]Offset{},
	}
}

// Add appends s with a zero offset and returns its ID.
func (w *Workspace) Add(s sprite.Sprite) int {
	id := w.nextID
	w.nextID++
	w.sprites[id] = s
	w.offsets[id] = Offset{}
	w.order = append(w.order, id)
	return id
}

func (w *Workspace) index(id int) int {
	for i, o := range w.order {
		if o == id {
			return i
		}
	}
	return -1
}

// Remove drops a sprite and its offset.
func (w *Workspace) Remove(id int) error {
	i := w.index(id)
	if i < 0 {
		return errors.Wrapf(ErrUnknownSprite, "remove %d", id)
	}
	delete(w.sprites, id)
	delete(w.offsets, id)
	w.order = append(w.order[:i], w.order[i+1:]...)
	return nil
}

// MoveIndex moves id to position to, clamped into the ordering.
func (w *Workspace) MoveIndex(id, to int) error {
	i := w.index(id)
	if i < 0 {
		return errors.Wrapf(ErrUnknownSprite, "move index %d", id)
	}
	to = min(max(to, 0), len(w.order)-1)
	w.order = append(w.order[:i], w.order[i+1:]...)
	w.order = append(w.order[:to], append([]int{id}, w.order[to:]...)...)
	return nil
}

// IDs returns sprite IDs in workspace order.
func (w *Workspace) IDs() []int {
	return append([]int(nil), w.order...)
}

// Len returns the number of sprites.
func (w *Workspace) Len() int { return len(w.order) }

// Sprite returns the sprite with the passed ID.
func (w *Workspace) Sprite(id int) (sprite.Sprite, error) {
	s, ok := w.sprites[id]
	if !ok {
		return sprite.Sprite{}, errors.Wrapf(ErrUnknownSprite, "id %d", id)
	}
	return s, nil
}

// Sprites returns a copy of the ID to sprite mapping.
func (w *Workspace) Sprites() map[int]sprite.Sprite {
	out := make(map[int]sprite.Sprite, len(w.sprites))
	for id, s := range w.sprites {
		out[id] = s
	}
	return out
}

// Offsets returns a copy of the ID to offset mapping.
func (w *Workspace) Offsets() map[int]Offset {
	out := make(map[int]Offset, len(w.offsets))
	for id, o := range w.offsets {
		out[id] = o
	}
	return out
}

// Offset returns the current offset of id.
func (w *Workspace) Offset(id int) (Offset, error) {
	o, ok := w.offsets[id]
	if !ok {
		return Offset{}, errors.Wrapf(ErrUnknownSprite, "id %d", id)
	}
	return o, nil
}

// SetOffset replaces the offset of id.
func (w *Workspace) SetOffset(id int, dx, dy float64) error {
	if _, ok := w.offsets[id]; !ok {
		return errors.Wrapf(ErrUnknownSprite, "set offset %d", id)
	}
	w.offsets[id] = Offset{DX: dx, DY: dy}
	return nil
}

// Nudge adds (ddx, ddy) to the offset of id.
func (w *Workspace) Nudge(id int, ddx, ddy float64) error {
	o, err := w.Offset(id)
	if err != nil {
		return err
	}
	w.offsets[id] = Offset{DX: o.DX + ddx, DY: o.DY + ddy}
	return nil
}

// ResetOffset sets the offset of id back to zero.
func (w *Workspace) ResetOffset(id int) error {
	return w.SetOffset(id, 0, 0)
}

// Groups returns IDs split by sprite Group, in first-seen group order and
// workspace order within a group.
func (w *Workspace) Groups() [][]int {
	index := map[string]int{}
	var out [][]int
	for _, id := range w.order {
		g := w.sprites[id].Group
		i, ok := index[g]
		if !ok {
			i = len(out)
			index[g] = i
			out = append(out, nil)
		}
		out[i] = append(out[i], id)
	}
	return out
}
