package stitch

import (
	"image"
	"math"
	"sort"

	"github.com/bradfitz/iter"
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/Schips-Wong/SimpleSpriteSheetHelper/align"
	"github.com/Schips-Wong/SimpleSpriteSheetHelper/pixbuf"
	"github.com/Schips-Wong/SimpleSpriteSheetHelper/sprite"
)

var (
	// ErrEmptyLayout is returned when there is nothing to stitch or no cell
	// to put it in.
	ErrEmptyLayout = errors.New("empty layout")
	// ErrUnknownSprite is returned when a group names a sprite that was not
	// passed, or names one twice.
	ErrUnknownSprite = errors.New("unknown sprite")
)

// Placement is where one sprite lands on the sheet.
type Placement struct {
	ID       int
	Cell     image.Point // column, row
	Position image.Point // top-left corner on the canvas
	Size     image.Point
}

// Rect returns the canvas rectangle covered by the sprite.
func (p Placement) Rect() image.Rectangle {
	return image.Rectangle{Min: p.Position, Max: p.Position.Add(p.Size)}
}

// Plan is a resolved layout: the grid actually used and every placement in
// drawing order.
type Plan struct {
	Columns, Rows int
	Cell          image.Point
	Canvas        image.Point
	Placements    []Placement
}

// groups validates layout.Groups against sprites and appends the sprites it
// does not mention.
func groups(sprites map[int]sprite.Sprite, layout Layout) ([][]int, error) {
	seen := map[int]bool{}
	var out [][]int
	for _, g := range layout.Groups {
		for _, id := range g {
			if _, ok := sprites[id]; !ok {
				return nil, errors.Wrapf(ErrUnknownSprite, "id %d", id)
			}
			if seen[id] {
				return nil, errors.Wrapf(ErrUnknownSprite, "id %d listed twice", id)
			}
			seen[id] = true
		}
		if len(g) > 0 {
			out = append(out, g)
		}
	}

	var rest []int
	for id := range sprites {
		if !seen[id] {
			rest = append(rest, id)
		}
	}
	if len(rest) > 0 {
		sort.Ints(rest)
		out = append(out, rest)
	}
	return out, nil
}

// NewPlan resolves layout for sprites. In Uniform mode rows are added when
// the grid is too small; in Grouped mode columns and rows are.
func NewPlan(sprites map[int]sprite.Sprite, offsets map[int]align.Offset, layout Layout) (*Plan, error) {
	if layout.Columns <= 0 || layout.Rows <= 0 || len(sprites) == 0 {
		return nil, errors.Wrapf(ErrEmptyLayout, "%dx%d grid, %d sprites", layout.Columns, layout.Rows, len(sprites))
	}
	gs, err := groups(sprites, layout)
	if err != nil {
		return nil, err
	}

	p := &Plan{Columns: layout.Columns, Rows: layout.Rows}
	for id, s := range sprites {
		if !pixbuf.Valid(s.Buffer) {
			return nil, errors.Wrapf(pixbuf.ErrInvalidImage, "sprite %d", id)
		}
		sz := s.Size()
		p.Cell.X = max(p.Cell.X, sz.X)
		p.Cell.Y = max(p.Cell.Y, sz.Y)
	}

	var cells []image.Point
	var order []int
	switch layout.Mode {
	case Grouped:
		p.Rows = max(p.Rows, len(gs))
		for r, g := range gs {
			p.Columns = max(p.Columns, len(g))
			for c, id := range g {
				cells = append(cells, image.Pt(c, r))
				order = append(order, id)
			}
		}
	default:
		for _, g := range gs {
			order = append(order, g...)
		}
		p.Rows = max(p.Rows, (len(order)+p.Columns-1)/p.Columns)
		for k := range iter.N(len(order)) {
			cells = append(cells, image.Pt(k%p.Columns, k/p.Columns))
		}
	}

	cw, okW := span(p.Columns, p.Cell.X, layout.SpacingX)
	ch, okH := span(p.Rows, p.Cell.Y, layout.SpacingY)
	if !okW || !okH {
		return nil, errors.Wrapf(pixbuf.ErrInvalidImage, "%dx%d grid of %v cells does not fit a sheet", p.Columns, p.Rows, p.Cell)
	}
	if err := pixbuf.CheckSize(cw, ch); err != nil {
		return nil, errors.Wrapf(err, "%dx%d grid of %v cells", p.Columns, p.Rows, p.Cell)
	}
	p.Canvas = image.Pt(cw, ch)

	cellAnchor := align.Anchor(p.Cell.X, p.Cell.Y)
	for i, id := range order {
		sz := sprites[id].Size()
		o := offsets[id]
		origin := image.Pt(cells[i].X*(p.Cell.X+layout.SpacingX), cells[i].Y*(p.Cell.Y+layout.SpacingY))
		pos := origin.Add(cellAnchor).Sub(align.Anchor(sz.X, sz.Y)).Add(image.Pt(round(o.DX), round(o.DY)))
		p.Placements = append(p.Placements, Placement{ID: id, Cell: cells[i], Position: pos, Size: sz})
	}
	glog.V(1).Infof("stitch: %v %dx%d grid of %v cells, canvas %v", layout.Mode, p.Columns, p.Rows, p.Cell, p.Canvas)
	return p, nil
}

// span returns the length of n cells of size cell separated by spacing, or
// false when it is not a usable sheet side.
func span(n, cell, spacing int) (int, bool) {
	if n > pixbuf.MaxPixels || cell > pixbuf.MaxPixels || spacing > pixbuf.MaxPixels || spacing < -cell {
		return 0, false
	}
	v := int64(n)*int64(cell) + int64(n-1)*int64(spacing)
	if v <= 0 || v > pixbuf.MaxPixels {
		return 0, false
	}
	return int(v), true
}

// round converts an offset to whole pixels. Offsets beyond any sheet are
// clamped so placement arithmetic cannot overflow; NaN is 0.
func round(f float64) int {
	if f != f {
		return 0
	}
	return int(math.Round(math.Max(-pixbuf.MaxPixels, math.Min(f, pixbuf.MaxPixels))))
}

// Compose draws sprites onto a new transparent sheet following layout.
// Offsets missing from the map are zero. Sprites are composited with the
// straight alpha "over" operator in group order and clipped to the sheet.
func Compose(sprites map[int]sprite.Sprite, offsets map[int]align.Offset, layout Layout) (*pixbuf.Buffer, error) {
	p, err := NewPlan(sprites, offsets, layout)
	if err != nil {
		return nil, err
	}
	canvas, err := pixbuf.NewCanvas(p.Canvas.X, p.Canvas.Y)
	if err != nil {
		return nil, errors.Wrapf(ErrEmptyLayout, "canvas %v", p.Canvas)
	}
	for _, pl := range p.Placements {
		canvas.DrawOver(sprites[pl.ID].Buffer, pl.Position)
	}
	out := canvas.Buffer()
	if !layout.FitContent {
		return out, nil
	}

	var used image.Rectangle
	for _, pl := range p.Placements {
		used = used.Union(pl.Rect())
	}
	used = used.Intersect(out.Rect())
	if used.Empty() {
		return out, nil
	}
	return out.Crop(used)
}

// workspaceLayout fills layout.Groups from w when it is empty: list order in
// Uniform mode, the workspace groups in Grouped mode.
func workspaceLayout(w *align.Workspace, layout Layout) Layout {
	if len(layout.Groups) > 0 {
		return layout
	}
	if layout.Mode == Grouped {
		layout.Groups = w.Groups()
	} else {
		layout.Groups = [][]int{w.IDs()}
	}
	return layout
}

// PlanWorkspace resolves layout for the sprites of w in workspace order.
func PlanWorkspace(w *align.Workspace, layout Layout) (*Plan, error) {
	return NewPlan(w.Sprites(), w.Offsets(), workspaceLayout(w, layout))
}

// ComposeWorkspace stitches every sprite of w with its offsets, in
// workspace order unless layout.Groups says otherwise.
func ComposeWorkspace(w *align.Workspace, layout Layout) (*pixbuf.Buffer, error) {
	return Compose(w.Sprites(), w.Offsets(), workspaceLayout(w, layout))
}
