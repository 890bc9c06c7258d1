// Package paths discovers sprite image files on disk.
package paths

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".bmp":  true,
	".gif":  true,
}

// IsImage reports whether path has an image extension the tools can decode.
func IsImage(path string) bool {
	return imageExts[strings.ToLower(filepath.Ext(path))]
}

// Images returns the image files directly inside dir, sorted by name.
func Images(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "listing %s", dir)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !IsImage(e.Name()) {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	sort.Strings(out)
	glog.V(2).Infof("paths.Images(%q): %d files", dir, len(out))
	return out, nil
}

// Group is a named set of image files, usually one directory.
type Group struct {
	Name  string
	Files []string
}

// Groups expands args into image groups. Each directory becomes one group
// named after it; plain files are collected, in order, into a single group
// with an empty name placed where the first of them appeared. Empty
// directories are skipped.
func Groups(args []string) ([]Group, error) {
	var out []Group
	loose := -1
	for _, a := range args {
		st, err := os.Stat(a)
		if err != nil {
			return nil, errors.Wrapf(err, "importing %s", a)
		}
		if !st.IsDir() {
			if !IsImage(a) {
				return nil, errors.Errorf("%s is not an image file", a)
			}
			if loose < 0 {
				loose = len(out)
				out = append(out, Group{})
			}
			out[loose].Files = append(out[loose].Files, a)
			continue
		}
		files, err := Images(a)
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			glog.Warningf("no images in %s", a)
			continue
		}
		out = append(out, Group{Name: filepath.Base(filepath.Clean(a)), Files: files})
	}
	return out, nil
}

// Stem returns the file name of path without directory and extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
