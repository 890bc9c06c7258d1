// Package codec converts between encoded image files and pixel buffers.
//
// PNG, JPEG, GIF and BMP are supported. The format of a file is chosen by its
// extension when writing and sniffed from its contents when reading.
package codec

import (
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ericpauley/go-quantize/quantize"
	"github.com/pkg/errors"
	"golang.org/x/image/bmp"

	"github.com/Schips-Wong/SimpleSpriteSheetHelper/pixbuf"
)

// Format is an encoded image format.
type Format int

const (
	PNG Format = iota
	JPEG
	GIF
	BMP
)

var formatNames = []string{"png", "jpeg", "gif", "bmp"}

func (f Format) String() string {
	if f < 0 || int(f) >= len(formatNames) {
		return "unknown"
	}
	return formatNames[f]
}

// MIME returns the content type of f.
func (f Format) MIME() string {
	return "image/" + f.String()
}

// Ext returns the usual file extension of f, with the dot.
func (f Format) Ext() string {
	if f == JPEG {
		return ".jpg"
	}
	return "." + f.String()
}

// ErrUnsupported is returned for formats and extensions the package does not
// handle.
var ErrUnsupported = errors.New("unsupported image format")

// FormatForPath picks the format from the extension of path.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return PNG, nil
	case ".jpg", ".jpeg":
		return JPEG, nil
	case ".gif":
		return GIF, nil
	case ".bmp":
		return BMP, nil
	}
	return PNG, errors.Wrapf(ErrUnsupported, "%q", path)
}

// Decode reads an image of any supported format and returns it as a buffer
// along with the sniffed format name.
func Decode(r io.Reader) (*pixbuf.Buffer, string, error) {
	img, name, err := image.Decode(r)
	if err != nil {
		return nil, "", errors.Wrap(err, "decoding image")
	}
	buf, err := pixbuf.FromImage(img)
	if err != nil {
		return nil, name, errors.Wrapf(err, "converting %s image", name)
	}
	return buf, name, nil
}

// DecodeFile decodes the image stored at path.
func DecodeFile(path string) (*pixbuf.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening image")
	}
	defer f.Close()
	buf, _, err := Decode(f)
	return buf, errors.Wrapf(err, "reading %s", path)
}

// Encode writes img to w in format f.
func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case PNG:
		return errors.Wrap(png.Encode(w, img), "encoding png")
	case JPEG:
		return errors.Wrap(jpeg.Encode(w, img, &jpeg.Options{Quality: 95}), "encoding jpeg")
	case GIF:
		return errors.Wrap(gif.Encode(w, Paletted(img), nil), "encoding gif")
	case BMP:
		return errors.Wrap(bmp.Encode(w, img), "encoding bmp")
	}
	return errors.Wrapf(ErrUnsupported, "format %d", f)
}

// EncodeFile writes img to path in the format given by its extension.
func EncodeFile(path string, img image.Image) error {
	f, err := FormatForPath(path)
	if err != nil {
		return err
	}
	fp, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating image file")
	}
	if err := Encode(fp, img, f); err != nil {
		fp.Close()
		return errors.Wrapf(err, "writing %s", path)
	}
	return errors.Wrapf(fp.Close(), "closing %s", path)
}

// Paletted reduces img to at most 256 colors with a median cut palette. The
// first entry is always transparent so cleared pixels survive.
func Paletted(img image.Image) *image.Paletted {
	if p, ok := img.(*image.Paletted); ok {
		return p
	}
	q := quantize.MedianCutQuantizer{}
	pal := q.Quantize(make(color.Palette, 0, 255), img)
	pal = append(color.Palette{color.Transparent}, pal...)

	out := image.NewPaletted(img.Bounds(), pal)
	draw.Draw(out, img.Bounds(), img, img.Bounds().Min, draw.Src)
	return out
}
