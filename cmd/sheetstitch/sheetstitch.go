// Command sheetstitch packs sprite images, or directories of them, into one
// sheet.
//
//	sheetstitch -out sheet.png -mode grouped walk/ run/ idle.png
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"badc0de.net/pkg/flagutil/v1"
	"github.com/golang/glog"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/Schips-Wong/SimpleSpriteSheetHelper/align"
	"github.com/Schips-Wong/SimpleSpriteSheetHelper/codec"
	"github.com/Schips-Wong/SimpleSpriteSheetHelper/imageprint"
	"github.com/Schips-Wong/SimpleSpriteSheetHelper/paths"
	"github.com/Schips-Wong/SimpleSpriteSheetHelper/sprite"
	"github.com/Schips-Wong/SimpleSpriteSheetHelper/stitch"
)

var (
	out         = flag.String("out", "sheet.png", "output sheet; the extension picks the format")
	mode        = flag.String("mode", "uniform", "layout mode: uniform or grouped")
	columns     = flag.Int("columns", 0, "grid columns; chosen automatically when 0")
	rows        = flag.Int("rows", 0, "grid rows; chosen automatically when 0")
	spacing     = flag.Int("spacing", 0, "pixels between cells")
	fit         = flag.Bool("fit", false, "crop the sheet to its drawn content")
	alignEdge   = flag.String("align", "", "auto-align every sprite on this edge: left, right, top, bottom, centerx, centery or center")
	offsetsIn   = flag.String("offsets_in", "", "load per-sprite offsets from this .json/.yaml/.toml file")
	offsetsOut  = flag.String("offsets_out", "", "save per-sprite offsets to this .json/.yaml/.toml file")
	preview     = flag.Bool("preview", false, "print the stitched sheet on the terminal")
	previewMode = flag.String("preview_mode", "24bit", "preview mode: 24bit, 256, none, iterm or rasterm")
	jobs        = flag.Int("jobs", runtime.NumCPU(), "number of images decoded in parallel")
)

func main() {
	flagutil.Parse()
	flag.Set("logtostderr", "true")

	if flag.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] dir-or-image...\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}

	groups, err := paths.Groups(flag.Args())
	if err != nil {
		glog.Exitf("%v", err)
	}
	ws, err := load(groups, max(*jobs, 1))
	if err != nil {
		glog.Exitf("%v", err)
	}
	glog.Infof("loaded %d sprites in %d groups", ws.Len(), len(groups))

	if *offsetsIn != "" {
		settings, err := align.ReadOffsets(*offsetsIn)
		if err != nil {
			glog.Exitf("%v", err)
		}
		glog.Infof("applied %d of %d offsets", ws.ImportOffsets(settings), len(settings))
	}
	if *alignEdge != "" {
		edge, err := align.ParseEdge(*alignEdge)
		if err != nil {
			glog.Exitf("bad -align: %v", err)
		}
		if err := ws.BatchAutoAlign(ws.IDs(), edge); err != nil {
			if !errors.Is(err, align.ErrNoContent) {
				glog.Exitf("%v", err)
			}
			glog.Warningf("%v", err)
		}
	}
	if *offsetsOut != "" {
		if err := align.WriteOffsets(*offsetsOut, ws.ExportOffsets()); err != nil {
			glog.Exitf("%v", err)
		}
	}

	layout, err := buildLayout(ws)
	if err != nil {
		glog.Exitf("%v", err)
	}
	sheet, err := stitch.ComposeWorkspace(ws, layout)
	if err != nil {
		glog.Exitf("%v", err)
	}
	if err := codec.EncodeFile(*out, sheet); err != nil {
		glog.Exitf("%v", err)
	}
	glog.Infof("wrote %s: %v, %dx%d cells", *out, sheet.Size(), layout.Columns, layout.Rows)

	if *preview {
		m, err := imageprint.ParseMode(*previewMode)
		if err != nil {
			glog.Exitf("bad -preview_mode: %v", err)
		}
		if m == imageprint.RasTerm && !imageprint.GraphicsCapable() {
			glog.Warning("terminal has no graphics protocol, using 24bit preview")
			m = imageprint.TrueColor
		}
		ts, _ := imageprint.GetTermSize()
		if err := imageprint.Print(os.Stdout, imageprint.Fit(sheet, ts, m), m, true); err != nil {
			glog.Errorf("preview: %v", err)
		}
	}
}

// load decodes every file of groups and adds it to a new workspace in
// argument order, with the group name on each sprite.
func load(groups []paths.Group, jobs int) (*align.Workspace, error) {
	var all []sprite.Sprite
	var files []string
	for _, g := range groups {
		for _, f := range g.Files {
			all = append(all, sprite.Sprite{Name: paths.Stem(f), Group: g.Name})
			files = append(files, f)
		}
	}

	var g errgroup.Group
	g.SetLimit(jobs)
	for i := range all {
		g.Go(func() error {
			buf, err := codec.DecodeFile(files[i])
			if err != nil {
				return err
			}
			all[i].Buffer = buf
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ws := align.NewWorkspace()
	for _, s := range all {
		ws.Add(s)
	}
	return ws, nil
}

func buildLayout(ws *align.Workspace) (stitch.Layout, error) {
	m, err := stitch.ParseMode(*mode)
	if err != nil {
		return stitch.Layout{}, err
	}
	var l stitch.Layout
	if m == stitch.Grouped {
		l = stitch.ForGroups(ws.Groups(), *spacing)
	} else {
		l = stitch.GridFor(ws.Len(), *spacing)
	}
	if *columns > 0 {
		l.Columns = *columns
	}
	if *rows > 0 {
		l.Rows = *rows
	}
	l.FitContent = *fit
	return l, nil
}
