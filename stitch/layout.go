// Package stitch composes sprites into a grid sheet.
package stitch

import (
	"math"
	"strings"

	"github.com/pkg/errors"
)

// Mode selects how groups map onto the grid.
type Mode int

const (
	// Uniform lays all sprites row-major, groups concatenated in order.
	Uniform Mode = iota
	// Grouped gives each group its own row.
	Grouped
)

func (m Mode) String() string {
	if m == Grouped {
		return "grouped"
	}
	return "uniform"
}

// ParseMode maps "uniform" or "grouped" to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "", "uniform":
		return Uniform, nil
	case "grouped":
		return Grouped, nil
	}
	return Uniform, errors.Errorf("unknown mode %q", s)
}

// Layout describes the sheet grid.
type Layout struct {
	Columns, Rows      int
	SpacingX, SpacingY int
	Mode               Mode
	// Groups lists sprite IDs per group. Sprites not listed are appended
	// as one trailing group in ascending ID order; an empty Groups puts
	// every sprite in that group.
	Groups [][]int
	// FitContent crops the sheet to the union of the drawn sprites.
	FitContent bool
}

// GridFor returns a near-square uniform layout for n sprites.
func GridFor(n, spacing int) Layout {
	n = max(n, 1)
	cols := int(math.Ceil(math.Sqrt(float64(n))))
	rows := (n + cols - 1) / cols
	return Layout{Columns: cols, Rows: rows, SpacingX: spacing, SpacingY: spacing}
}

// ForGroups returns a grouped layout with one row per group, wide enough
// for the longest group.
func ForGroups(groups [][]int, spacing int) Layout {
	cols := 1
	for _, g := range groups {
		cols = max(cols, len(g))
	}
	return Layout{
		Columns:  cols,
		Rows:     max(len(groups), 1),
		SpacingX: spacing,
		SpacingY: spacing,
		Mode:     Grouped,
		Groups:   groups,
	}
}
