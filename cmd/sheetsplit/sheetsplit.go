// Command sheetsplit cuts a sprite sheet into one image file per sprite.
//
//	sheetsplit -out sprites/ -threshold 0.1 sheet.png
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"badc0de.net/pkg/flagutil/v1"
	"github.com/golang/glog"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"github.com/Schips-Wong/SimpleSpriteSheetHelper/codec"
	"github.com/Schips-Wong/SimpleSpriteSheetHelper/detect"
	"github.com/Schips-Wong/SimpleSpriteSheetHelper/extract"
	"github.com/Schips-Wong/SimpleSpriteSheetHelper/imageprint"
	"github.com/Schips-Wong/SimpleSpriteSheetHelper/paths"
	"github.com/Schips-Wong/SimpleSpriteSheetHelper/pixbuf"
	"github.com/Schips-Wong/SimpleSpriteSheetHelper/regions"
	"github.com/Schips-Wong/SimpleSpriteSheetHelper/sprite"
)

var (
	outDir      = flag.String("out", ".", "directory to write sprites into")
	format      = flag.String("format", "png", "output image format: png, jpeg, gif or bmp")
	prefix      = flag.String("prefix", "", "output name prefix; defaults to the sheet's file name")
	digits      = flag.Int("digits", 4, "zero padding of the sprite index")
	start       = flag.Int("start", 1, "index of the first sprite")
	transparent = flag.Bool("transparent", false, "clear the sheet background to transparent in every sprite")
	byArea      = flag.Bool("by_area", false, "with -area, write sprites of each area into their own A<n> directory")
	regionsIn   = flag.String("regions_in", "", "load regions from this .json/.yaml/.toml file instead of detecting them")
	regionsOut  = flag.String("regions_out", "", "save the regions used to this .json/.yaml/.toml file")
	dryRun      = flag.Bool("dry_run", false, "only detect and report regions")
	jobs        = flag.Int("jobs", runtime.NumCPU(), "number of files written in parallel")
	progress    = flag.Bool("progress", true, "show a progress bar while writing")
	preview     = flag.Bool("preview", false, "print the sheet with detected regions outlined on the terminal")
	previewMode = flag.String("preview_mode", "24bit", "preview mode: 24bit, 256, none, iterm or rasterm")

	areas paths.ListFlag
)

func main() {
	opts := detect.DefaultOptions()
	setupDetectFlags(&opts)
	paths.SetupListFlag("area", "detection area as x,y,w,h; may be repeated", &areas)
	flagutil.Parse()
	flag.Set("logtostderr", "true")

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] sheet.png\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}
	sheetPath := flag.Arg(0)

	var err error
	if opts, err = finishDetectFlags(opts); err != nil {
		glog.Exitf("bad flags: %v", err)
	}
	if opts.Areas, err = parseAreas(areas); err != nil {
		glog.Exitf("bad -area: %v", err)
	}

	sheet, err := codec.DecodeFile(sheetPath)
	if err != nil {
		glog.Exitf("%v", err)
	}
	glog.Infof("loaded %s: %v", sheetPath, sheet.Size())

	list, err := loadRegions(sheet, opts)
	if err != nil {
		glog.Exitf("%v", err)
	}
	glog.Infof("%d regions", list.Len())
	if *regionsOut != "" {
		if err := list.WriteFile(*regionsOut); err != nil {
			glog.Exitf("%v", err)
		}
	}
	if *preview {
		printPreview(sheet, list.Regions())
	}
	if *dryRun {
		for _, r := range list.Regions() {
			fmt.Printf("%d\t%d\t%d\t%d\t%d\n", r.ID, r.X, r.Y, r.Width, r.Height)
		}
		return
	}

	eopts := extract.Options{
		Naming:      extract.Naming{Prefix: *prefix, Digits: *digits, Start: *start},
		Transparent: *transparent,
		Detect:      opts,
	}
	if eopts.Naming.Prefix == "" {
		eopts.Naming.Prefix = paths.Stem(sheetPath)
	}
	if *byArea {
		eopts.Areas = opts.Areas
	}
	set, err := extract.ExtractWithOptions(sheet, list.Regions(), eopts)
	if err != nil {
		glog.Exitf("%v", err)
	}

	f, err := codec.FormatForPath("out." + *format)
	if err != nil {
		glog.Exitf("bad -format: %v", err)
	}
	if err := writeAll(set, *outDir, f); err != nil {
		glog.Exitf("%v", err)
	}
	glog.Infof("wrote %d sprites to %s", len(set), *outDir)
}

func loadRegions(sheet *pixbuf.Buffer, opts detect.Options) (regions.List, error) {
	if *regionsIn != "" {
		return regions.ReadFile(*regionsIn, sheet.Rect())
	}
	rs, err := detect.DetectWithOptions(sheet, opts)
	if err != nil {
		return regions.NewList(sheet.Rect()), err
	}
	return regions.FromRegions(sheet.Rect(), rs)
}

func printPreview(sheet *pixbuf.Buffer, rs []regions.Region) {
	m, err := imageprint.ParseMode(*previewMode)
	if err != nil {
		glog.Errorf("%v", err)
		return
	}
	if m == imageprint.RasTerm && !imageprint.GraphicsCapable() {
		glog.Warning("terminal has no graphics protocol, using 24bit preview")
		m = imageprint.TrueColor
	}
	img := imageprint.Outline(sheet, rs, pixbuf.Color{R: 0xFF, G: 0x00, B: 0xFF, A: 0xFF})
	if ts, err := imageprint.GetTermSize(); err == nil {
		fitted := imageprint.Fit(img, ts, m)
		if err := imageprint.Print(os.Stdout, fitted, m, true); err != nil {
			glog.Errorf("preview: %v", err)
		}
		return
	}
	if err := imageprint.Print(os.Stdout, img, m, true); err != nil {
		glog.Errorf("preview: %v", err)
	}
}

// writeAll encodes every sprite into dir, using a subdirectory named after
// the sprite group when it has one.
func writeAll(set sprite.Set, dir string, f codec.Format) error {
	var bar *progressbar.ProgressBar
	if *progress {
		bar = progressbar.Default(int64(len(set)))
		bar.Describe("write")
	}

	var g errgroup.Group
	g.SetLimit(max(*jobs, 1))
	for _, s := range set {
		g.Go(func() error {
			if err := writeOne(s, dir, f); err != nil {
				return err
			}
			if bar != nil {
				bar.Add(1)
			}
			return nil
		})
	}
	return g.Wait()
}

func writeOne(s sprite.Sprite, dir string, f codec.Format) error {
	if s.Group != "" {
		dir = filepath.Join(dir, s.Group)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(dir, s.Name+f.Ext())
	glog.V(1).Infof("writing %s", path)
	return codec.EncodeFile(path, s.Buffer)
}
