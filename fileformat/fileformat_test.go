package fileformat

import (
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
)

type point struct {
	DX float64 `json:"dx" yaml:"dx" toml:"dx"`
	DY float64 `json:"dy" yaml:"dy" toml:"dy"`
}

func TestForPath(t *testing.T) {
	for path, want := range map[string]Format{
		"a.json":       JSON,
		"dir/b.YAML":   YAML,
		"c.yml":        YAML,
		"/tmp/d.toml":  TOML,
		"offsets.Json": JSON,
	} {
		got, err := ForPath(path)
		if err != nil || got != want {
			t.Errorf("ForPath(%q) = %v, %v; want %v", path, got, err, want)
		}
	}
	if _, err := ForPath("regions.txt"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("got %v; want ErrUnknownFormat", err)
	}
}

func TestFileRoundTrip(t *testing.T) {
	want := map[string]point{
		"sprite_000": {DX: 1.5, DY: -2},
		"sprite_001": {},
	}
	dir := t.TempDir()
	for _, name := range []string{"o.json", "o.yaml", "o.yml", "o.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := WriteFile(path, want); err != nil {
				t.Fatal(err)
			}
			got := map[string]point{}
			if err := ReadFile(path, &got); err != nil {
				t.Fatal(err)
			}
			if len(got) != len(want) {
				t.Fatalf("got %v; want %v", got, want)
			}
			for k, v := range want {
				if got[k] != v {
					t.Errorf("%s: got %v; want %v", k, got[k], v)
				}
			}
		})
	}
}

func TestReadMissingFile(t *testing.T) {
	var v map[string]point
	if err := ReadFile(filepath.Join(t.TempDir(), "missing.json"), &v); err == nil {
		t.Error("got nil error for a missing file")
	}
}
