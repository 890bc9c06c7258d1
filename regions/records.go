package regions

import (
	"image"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/Schips-Wong/SimpleSpriteSheetHelper/fileformat"
)

// Record is the serialized form of a region. IDs are not stored; list order
// is.
type Record struct {
	X      int `json:"x" yaml:"x" toml:"x"`
	Y      int `json:"y" yaml:"y" toml:"y"`
	Width  int `json:"width" yaml:"width" toml:"width"`
	Height int `json:"height" yaml:"height" toml:"height"`
}

// recordTable wraps records for TOML, which has no top-level arrays.
type recordTable struct {
	Region []Record `toml:"region"`
}

// Records returns the list as records in list order.
func (l List) Records() []Record {
	rs := l.Regions()
	out := make([]Record, len(rs))
	for i, r := range rs {
		out[i] = Record{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
	}
	return out
}

// FromRecords builds a list over bounds from recs, in order.
func FromRecords(bounds image.Rectangle, recs []Record) (List, error) {
	rs := make([]Region, len(recs))
	for i, rec := range recs {
		rs[i] = Region{X: rec.X, Y: rec.Y, Width: rec.Width, Height: rec.Height}
	}
	l, err := FromRegions(bounds, rs)
	return l, errors.Wrap(err, "loading region records")
}

// EncodeRecords writes recs to w in format f.
func EncodeRecords(w io.Writer, f fileformat.Format, recs []Record) error {
	if recs == nil {
		recs = []Record{}
	}
	if f == fileformat.TOML {
		return fileformat.Encode(w, f, recordTable{Region: recs})
	}
	return fileformat.Encode(w, f, recs)
}

// DecodeRecords reads records written by EncodeRecords.
func DecodeRecords(r io.Reader, f fileformat.Format) ([]Record, error) {
	if f == fileformat.TOML {
		var t recordTable
		err := fileformat.Decode(r, f, &t)
		return t.Region, err
	}
	var recs []Record
	err := fileformat.Decode(r, f, &recs)
	return recs, err
}

// WriteFile saves the list's records to path, choosing the format by
// extension.
func (l List) WriteFile(path string) error {
	f, err := fileformat.ForPath(path)
	if err != nil {
		return err
	}
	fp, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating region file")
	}
	if err := EncodeRecords(fp, f, l.Records()); err != nil {
		fp.Close()
		return errors.Wrapf(err, "writing %s", path)
	}
	return errors.Wrapf(fp.Close(), "closing %s", path)
}

// ReadFile loads a region file saved by WriteFile into a list over bounds.
func ReadFile(path string, bounds image.Rectangle) (List, error) {
	f, err := fileformat.ForPath(path)
	if err != nil {
		return NewList(bounds), err
	}
	fp, err := os.Open(path)
	if err != nil {
		return NewList(bounds), errors.Wrap(err, "opening region file")
	}
	defer fp.Close()
	recs, err := DecodeRecords(fp, f)
	if err != nil {
		return NewList(bounds), errors.Wrapf(err, "reading %s", path)
	}
	return FromRecords(bounds, recs)
}
