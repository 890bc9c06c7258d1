package align

import (
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/Schips-Wong/SimpleSpriteSheetHelper/fileformat"
)

// OffsetSettings maps sprite names to offsets. It is the content of an
// offsets file.
type OffsetSettings map[string]Offset

// ExportOffsets returns the offset of every sprite keyed by name. Sprites
// sharing a name keep the offset of the last one in workspace order.
func (w *Workspace) ExportOffsets() OffsetSettings {
	out := make(OffsetSettings, len(w.order))
	for _, id := range w.order {
		out[w.sprites[id].Name] = w.offsets[id]
	}
	return out
}

// ImportOffsets applies settings to the sprites with matching names and
// returns how many were set. Unknown names are ignored and unmatched
// sprites keep their offset.
func (w *Workspace) ImportOffsets(settings OffsetSettings) int {
	n := 0
	for _, id := range w.order {
		if o, ok := settings[w.sprites[id].Name]; ok {
			w.offsets[id] = o
			n++
		}
	}
	glog.V(1).Infof("align: imported %d of %d offsets", n, len(settings))
	return n
}

// ReadOffsets loads an offsets file; the format follows the extension.
func ReadOffsets(path string) (OffsetSettings, error) {
	s := OffsetSettings{}
	if err := fileformat.ReadFile(path, &s); err != nil {
		return nil, errors.Wrap(err, "reading offsets")
	}
	return s, nil
}

// WriteOffsets saves settings to path.
func WriteOffsets(path string, settings OffsetSettings) error {
	return errors.Wrap(fileformat.WriteFile(path, settings), "writing offsets")
}
