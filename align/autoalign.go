package align

import (
	"image"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/Schips-Wong/SimpleSpriteSheetHelper/detect"
	"github.com/Schips-Wong/SimpleSpriteSheetHelper/pixbuf"
)

// Edge names which part of the content box is snapped to the origin.
type Edge int

const (
	Left Edge = iota
	Right
	Top
	Bottom
	CenterX
	CenterY
	Center
)

var edgeNames = []string{"left", "right", "top", "bottom", "centerx", "centery", "center"}

func (e Edge) String() string {
	if e < 0 || int(e) >= len(edgeNames) {
		return "unknown"
	}
	return edgeNames[e]
}

// ParseEdge is the inverse of Edge.String. It is case insensitive.
func ParseEdge(s string) (Edge, error) {
	s = strings.ToLower(s)
	for i, n := range edgeNames {
		if n == s {
			return Edge(i), nil
		}
	}
	return Left, errors.Errorf("unknown edge %q", s)
}

// ContentBox returns the tight bounds of the pixels of buf that differ from
// its own inferred background. ok is false when there are none.
func ContentBox(buf *pixbuf.Buffer, opts detect.Options) (box image.Rectangle, ok bool) {
	if !pixbuf.Valid(buf) {
		return image.Rectangle{}, false
	}
	opts = opts.Normalized()
	bg := detect.Background(buf, opts)
	mask := detect.Mask(buf, bg, opts)
	w := buf.Width()
	for i, fg := range mask {
		if !fg {
			continue
		}
		p := image.Rect(i%w, i/w, i%w+1, i/w+1)
		if !ok {
			box, ok = p, true
			continue
		}
		box = box.Union(p)
	}
	return box, ok
}

// AutoAlign sets the offset of id so the chosen edge, or midpoint, of its
// content box lies on the origin. Only the matching axis changes; Center
// changes both. On ErrNoContent the offset is left as it was.
func (w *Workspace) AutoAlign(id int, edge Edge) error {
	s, err := w.Sprite(id)
	if err != nil {
		return err
	}
	box, ok := ContentBox(s.Buffer, w.Detect)
	if !ok {
		return errors.Wrapf(ErrNoContent, "%q", s.Name)
	}

	a := Anchor(s.Size().X, s.Size().Y)
	o := w.offsets[id]
	ax, ay := float64(a.X), float64(a.Y)
	switch edge {
	case Left:
		o.DX = ax - float64(box.Min.X)
	case Right:
		o.DX = ax - float64(box.Max.X)
	case Top:
		o.DY = ay - float64(box.Min.Y)
	case Bottom:
		o.DY = ay - float64(box.Max.Y)
	case CenterX:
		o.DX = ax - float64(box.Min.X+box.Max.X)/2
	case CenterY:
		o.DY = ay - float64(box.Min.Y+box.Max.Y)/2
	case Center:
		o.DX = ax - float64(box.Min.X+box.Max.X)/2
		o.DY = ay - float64(box.Min.Y+box.Max.Y)/2
	default:
		return errors.Errorf("unknown edge %d", edge)
	}
	w.offsets[id] = o
	glog.V(1).Infof("align: %q %v content %v -> offset %+v", s.Name, edge, box, o)
	return nil
}

// BatchAutoAlign aligns every id independently. All ids must exist. Sprites
// without content are skipped and reported together in one ErrNoContent;
// the others are still aligned.
func (w *Workspace) BatchAutoAlign(ids []int, edge Edge) error {
	for _, id := range ids {
		if _, ok := w.sprites[id]; !ok {
			return errors.Wrapf(ErrUnknownSprite, "batch align %d", id)
		}
	}
	var empty []string
	for _, id := range ids {
		err := w.AutoAlign(id, edge)
		if errors.Is(err, ErrNoContent) {
			empty = append(empty, w.sprites[id].Name)
			continue
		}
		if err != nil {
			return err
		}
	}
	if len(empty) > 0 {
		return errors.Wrapf(ErrNoContent, "%d sprites: %s", len(empty), strings.Join(empty, ", "))
	}
	return nil
}
