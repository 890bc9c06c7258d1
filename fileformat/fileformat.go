// Package fileformat reads and writes the small settings files used by the
// tools (region lists, sprite offsets) as JSON, YAML or TOML, picked by file
// extension.
package fileformat

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Format is a serialization format.
type Format int

const (
	JSON Format = iota
	YAML
	TOML
)

func (f Format) String() string {
	switch f {
	case YAML:
		return "yaml"
	case TOML:
		return "toml"
	}
	return "json"
}

// ErrUnknownFormat is returned for file extensions with no matching Format.
var ErrUnknownFormat = errors.New("unknown file format")

// ForPath picks the Format from the extension of path.
func ForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON, nil
	case ".yaml", ".yml":
		return YAML, nil
	case ".toml":
		return TOML, nil
	}
	return JSON, errors.Wrapf(ErrUnknownFormat, "%q", path)
}

// Encode writes v to w.
//
// TOML documents must be tables; callers wrap sequences in a struct.
func Encode(w io.Writer, f Format, v interface{}) error {
	switch f {
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return errors.Wrap(err, "encoding yaml")
		}
		return errors.Wrap(enc.Close(), "encoding yaml")
	case TOML:
		return errors.Wrap(toml.NewEncoder(w).Encode(v), "encoding toml")
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(v), "encoding json")
}

// Decode reads a single document from r into v. An empty YAML document
// leaves v untouched.
func Decode(r io.Reader, f Format, v interface{}) error {
	switch f {
	case YAML:
		if err := yaml.NewDecoder(r).Decode(v); err != nil && err != io.EOF {
			return errors.Wrap(err, "decoding yaml")
		}
		return nil
	case TOML:
		_, err := toml.NewDecoder(r).Decode(v)
		return errors.Wrap(err, "decoding toml")
	}
	return errors.Wrap(json.NewDecoder(r).Decode(v), "decoding json")
}

// ReadFile decodes the file at path into v using the Format for its
// extension.
func ReadFile(path string, v interface{}) error {
	f, err := ForPath(path)
	if err != nil {
		return err
	}
	fp, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "opening settings file")
	}
	defer fp.Close()
	return errors.Wrapf(Decode(fp, f, v), "reading %s", path)
}

// WriteFile encodes v into the file at path, replacing it.
func WriteFile(path string, v interface{}) error {
	f, err := ForPath(path)
	if err != nil {
		return err
	}
	fp, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating settings file")
	}
	if err := Encode(fp, f, v); err != nil {
		fp.Close()
		return errors.Wrapf(err, "writing %s", path)
	}
	return errors.Wrapf(fp.Close(), "closing %s", path)
}
