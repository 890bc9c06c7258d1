// Package regions models the editable list of sprite bounding boxes found in
// a sprite sheet.
//
// A List is an arena of regions keyed by a stable ID plus a separate ordering.
// The ordering is the export order and drives output naming; geometry never
// depends on it. Lists have value semantics: every edit returns a new List and
// leaves the receiver untouched, so an undo History is simply a stack of
// older Lists.
package regions

import (
	"fmt"
	"image"

	"github.com/pkg/errors"
)

var (
	// ErrOutOfBounds is returned when an edit would produce a region that
	// is empty or escapes the source image.
	ErrOutOfBounds = errors.New("region out of bounds")
	// ErrUnknownRegion is returned for IDs not present in the list.
	ErrUnknownRegion = errors.New("unknown region")
)

// Region is an axis-aligned box inside a source image.
type Region struct {
	ID     int
	X, Y   int
	Width  int
	Height int
}

// FromRect converts a rectangle into a Region with the passed ID.
func FromRect(id int, r image.Rectangle) Region {
	r = r.Canon()
	return Region{ID: id, X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}

// Rect returns the region as an image.Rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// Center returns the midpoint of the region.
func (r Region) Center() (float64, float64) {
	return float64(r.X) + float64(r.Width)/2, float64(r.Y) + float64(r.Height)/2
}

// Within reports whether r is non-empty and lies fully inside bounds.
func (r Region) Within(bounds image.Rectangle) bool {
	return r.X >= 0 && r.Y >= 0 && r.Width > 0 && r.Height > 0 && r.Rect().In(bounds)
}

func (r Region) String() string {
	return fmt.Sprintf("#%d(%d,%d %dx%d)", r.ID, r.X, r.Y, r.Width, r.Height)
}
