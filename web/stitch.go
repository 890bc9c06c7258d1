package web

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/pkg/errors"
	"golang.org/x/net/trace"

	"github.com/Schips-Wong/SimpleSpriteSheetHelper/align"
	"github.com/Schips-Wong/SimpleSpriteSheetHelper/codec"
	"github.com/Schips-Wong/SimpleSpriteSheetHelper/paths"
	"github.com/Schips-Wong/SimpleSpriteSheetHelper/sprite"
	"github.com/Schips-Wong/SimpleSpriteSheetHelper/stitch"
)

// offsetsField is the multipart field carrying JSON offset settings. Every
// other part with a file name is a sprite; its field name is its group.
const offsetsField = "offsets"

// readSprites loads the multipart parts of r, in order, into a workspace.
func (h *Handler) readSprites(w http.ResponseWriter, r *http.Request) (*align.Workspace, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxBytes)
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, errors.Wrap(err, "reading multipart body")
	}

	ws := align.NewWorkspace()
	ws.Detect = h.Detect
	var settings align.OffsetSettings
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "reading part")
		}
		if err := readPart(part, ws, &settings); err != nil {
			return nil, err
		}
	}
	if settings != nil {
		ws.ImportOffsets(settings)
	}
	return ws, nil
}

func readPart(part *multipart.Part, ws *align.Workspace, settings *align.OffsetSettings) error {
	defer part.Close()
	if part.FormName() == offsetsField && part.FileName() == "" {
		return errors.Wrap(json.NewDecoder(part).Decode(settings), "decoding offsets")
	}
	if part.FileName() == "" {
		return nil
	}
	buf, _, err := codec.Decode(part)
	if err != nil {
		return errors.Wrapf(err, "decoding %s", part.FileName())
	}
	s := sprite.New(paths.Stem(part.FileName()), buf)
	s.Group = part.FormName()
	ws.Add(s)
	return nil
}

// stitchLayout reads columns, rows, spacing, spacing_x, spacing_y, mode and
// fit from the query. Missing grid sizes come from stitch.GridFor, or from
// the groups in grouped mode. Grids beyond h.MaxCells are rejected.
func (h *Handler) stitchLayout(r *http.Request, ws *align.Workspace) (stitch.Layout, error) {
	q := r.URL.Query()
	mode, err := stitch.ParseMode(q.Get("mode"))
	if err != nil {
		return stitch.Layout{}, err
	}
	spacing, err := intParam(q.Get("spacing"), 0)
	if err != nil {
		return stitch.Layout{}, errors.Wrap(err, "spacing")
	}

	var l stitch.Layout
	if mode == stitch.Grouped {
		l = stitch.ForGroups(ws.Groups(), spacing)
	} else {
		l = stitch.GridFor(ws.Len(), spacing)
	}
	for name, dst := range map[string]*int{
		"columns":   &l.Columns,
		"rows":      &l.Rows,
		"spacing_x": &l.SpacingX,
		"spacing_y": &l.SpacingY,
	} {
		if *dst, err = intParam(q.Get(name), *dst); err != nil {
			return stitch.Layout{}, errors.Wrap(err, name)
		}
	}
	if l.Columns < 0 || l.Rows < 0 || l.Columns > h.MaxCells/max(l.Rows, 1) {
		return stitch.Layout{}, errors.Errorf("%dx%d grid exceeds %d cells", l.Columns, l.Rows, h.MaxCells)
	}
	l.FitContent = q.Get("fit") == "1" || q.Get("fit") == "true"
	return l, nil
}

func intParam(v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

func (h *Handler) stitchHandler(w http.ResponseWriter, r *http.Request) {
	tr := trace.New("web.stitch", r.URL.Path)
	defer tr.Finish()

	ws, err := h.readSprites(w, r)
	if err != nil {
		fail(w, tr, http.StatusBadRequest, err)
		return
	}
	q := r.URL.Query()
	if v := q.Get("align"); v != "" {
		edge, err := align.ParseEdge(v)
		if err != nil {
			fail(w, tr, http.StatusBadRequest, err)
			return
		}
		if err := ws.BatchAutoAlign(ws.IDs(), edge); err != nil && !errors.Is(err, align.ErrNoContent) {
			fail(w, tr, http.StatusUnprocessableEntity, err)
			return
		}
	}
	layout, err := h.stitchLayout(r, ws)
	if err != nil {
		fail(w, tr, http.StatusBadRequest, err)
		return
	}
	format := codec.PNG
	if v := q.Get("format"); v != "" {
		if format, err = codec.FormatForPath("out." + v); err != nil {
			fail(w, tr, http.StatusBadRequest, err)
			return
		}
	}

	plan, err := stitch.PlanWorkspace(ws, layout)
	if err != nil {
		fail(w, tr, http.StatusUnprocessableEntity, err)
		return
	}
	if plan.Canvas.X > h.MaxPixels/plan.Canvas.Y {
		fail(w, tr, http.StatusRequestEntityTooLarge, errors.Errorf("sheet %v exceeds %d pixels", plan.Canvas, h.MaxPixels))
		return
	}
	sheet, err := stitch.ComposeWorkspace(ws, layout)
	if err != nil {
		fail(w, tr, http.StatusUnprocessableEntity, err)
		return
	}
	tr.LazyPrintf("%d sprites, %dx%d grid, sheet %v", ws.Len(), layout.Columns, layout.Rows, sheet.Size())

	var body bytes.Buffer
	if err := codec.Encode(&body, sheet, format); err != nil {
		fail(w, tr, http.StatusInternalServerError, err)
		return
	}
	writeBody(w, r, format.MIME(), body.Bytes())
}
