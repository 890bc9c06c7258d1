// Package sprite holds individually owned sprite images, either cut from a
// sheet or imported standalone.
package sprite

import (
	"image"

	"github.com/Schips-Wong/SimpleSpriteSheetHelper/pixbuf"
	"github.com/Schips-Wong/SimpleSpriteSheetHelper/regions"
)

// Sprite is one image plus the metadata used for naming and grouping.
type Sprite struct {
	Name string
	// Group is the export group, such as the source directory or a
	// detection area. Empty when ungrouped.
	Group string
	// Source is the region the sprite was cut from; nil for standalone
	// sprites.
	Source *regions.Region
	Buffer *pixbuf.Buffer
}

// New returns a standalone sprite.
func New(name string, buf *pixbuf.Buffer) Sprite {
	return Sprite{Name: name, Buffer: buf}
}

// Size returns the buffer dimensions, or zero if there is no buffer.
func (s Sprite) Size() image.Point {
	if s.Buffer == nil {
		return image.Point{}
	}
	return s.Buffer.Size()
}

// Set is an ordered collection of sprites.
type Set []Sprite

// Names returns sprite names in order.
func (s Set) Names() []string {
	out := make([]string, len(s))
	for i, sp := range s {
		out[i] = sp.Name
	}
	return out
}

// Groups splits the set by Group, keeping first-seen group order and the
// set order within each group.
func (s Set) Groups() (names []string, groups []Set) {
	index := map[string]int{}
	for _, sp := range s {
		i, ok := index[sp.Group]
		if !ok {
			i = len(groups)
			index[sp.Group] = i
			names = append(names, sp.Group)
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], sp)
	}
	return names, groups
}

// MaxSize returns the largest width and the largest height in the set.
func (s Set) MaxSize() image.Point {
	var p image.Point
	for _, sp := range s {
		sz := sp.Size()
		p.X = max(p.X, sz.X)
		p.Y = max(p.Y, sz.Y)
	}
	return p
}
