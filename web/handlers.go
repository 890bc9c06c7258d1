// Package web serves sprite sheet detection, extraction and stitching over
// HTTP.
package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/golang/glog"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/vincent-petithory/dataurl"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/net/trace"

	"github.com/Schips-Wong/SimpleSpriteSheetHelper/codec"
	"github.com/Schips-Wong/SimpleSpriteSheetHelper/detect"
	"github.com/Schips-Wong/SimpleSpriteSheetHelper/extract"
	"github.com/Schips-Wong/SimpleSpriteSheetHelper/pixbuf"
	"github.com/Schips-Wong/SimpleSpriteSheetHelper/regions"
)

// Default request limits.
const (
	DefaultMaxBytes  = 32 << 20
	DefaultMaxCells  = 1 << 16
	DefaultMaxPixels = 1 << 26
)

// Handler holds the settings shared by all requests. Requests do not share
// any image state.
type Handler struct {
	// Detect is the base detection configuration; query parameters
	// override it per request.
	Detect   detect.Options
	MaxBytes int64

	// MaxCells bounds the stitch grid and MaxPixels the stitched sheet.
	MaxCells  int
	MaxPixels int
}

// NewHandler returns a Handler starting from opts.
func NewHandler(opts detect.Options) *Handler {
	return &Handler{
		Detect:    opts,
		MaxBytes:  DefaultMaxBytes,
		MaxCells:  DefaultMaxCells,
		MaxPixels: DefaultMaxPixels,
	}
}

// RegisterRoutes attaches the handlers to r.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/healthz", h.healthzHandler).Methods(http.MethodGet)
	r.HandleFunc("/detect", h.detectHandler).Methods(http.MethodPost)
	r.HandleFunc("/extract", h.extractHandler).Methods(http.MethodPost)
	r.HandleFunc("/stitch", h.stitchHandler).Methods(http.MethodPost)
}

type regionJSON struct {
	ID int `json:"id"`
	regions.Record
}

type spriteJSON struct {
	Name  string `json:"name"`
	Group string `json:"group,omitempty"`
	regions.Record
	Data string `json:"data"`
}

func (h *Handler) healthzHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "ok")
}

// decodeBody reads the request body as one image.
func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request) (*pixbuf.Buffer, error) {
	buf, format, err := codec.Decode(http.MaxBytesReader(w, r.Body, h.MaxBytes))
	if err != nil {
		return nil, err
	}
	glog.V(2).Infof("web: %s decoded %s image %v", r.URL.Path, format, buf.Size())
	return buf, nil
}

func (h *Handler) detectHandler(w http.ResponseWriter, r *http.Request) {
	tr := trace.New("web.detect", r.URL.Path)
	defer tr.Finish()

	opts, err := detectOptions(h.Detect, r)
	if err != nil {
		fail(w, tr, http.StatusBadRequest, err)
		return
	}
	buf, err := h.decodeBody(w, r)
	if err != nil {
		fail(w, tr, http.StatusBadRequest, err)
		return
	}
	rs, err := detect.DetectWithOptions(buf, opts)
	if err != nil {
		fail(w, tr, http.StatusUnprocessableEntity, err)
		return
	}
	tr.LazyPrintf("%v image, %d regions", buf.Size(), len(rs))

	out := make([]regionJSON, len(rs))
	for i, rg := range rs {
		out[i] = regionJSON{ID: rg.ID, Record: regions.Record{X: rg.X, Y: rg.Y, Width: rg.Width, Height: rg.Height}}
	}
	writeJSON(w, r, out)
}

func (h *Handler) extractHandler(w http.ResponseWriter, r *http.Request) {
	tr := trace.New("web.extract", r.URL.Path)
	defer tr.Finish()

	opts := extract.DefaultOptions()
	var err error
	if opts.Detect, err = detectOptions(h.Detect, r); err != nil {
		fail(w, tr, http.StatusBadRequest, err)
		return
	}
	q := r.URL.Query()
	opts.Transparent = q.Get("transparent") == "1" || q.Get("transparent") == "true"
	if p := q.Get("prefix"); p != "" {
		opts.Naming.Prefix = p
	}

	buf, err := h.decodeBody(w, r)
	if err != nil {
		fail(w, tr, http.StatusBadRequest, err)
		return
	}
	rs, err := detect.DetectWithOptions(buf, opts.Detect)
	if err != nil {
		fail(w, tr, http.StatusUnprocessableEntity, err)
		return
	}
	set, err := extract.ExtractWithOptions(buf, rs, opts)
	if err != nil {
		fail(w, tr, http.StatusUnprocessableEntity, err)
		return
	}
	tr.LazyPrintf("%d sprites", len(set))

	out := make([]spriteJSON, len(set))
	for i, s := range set {
		var png bytes.Buffer
		if err := codec.Encode(&png, s.Buffer, codec.PNG); err != nil {
			fail(w, tr, http.StatusInternalServerError, err)
			return
		}
		data, err := dataurl.New(png.Bytes(), "image/png").MarshalText()
		if err != nil {
			fail(w, tr, http.StatusInternalServerError, errors.Wrap(err, "encoding data url"))
			return
		}
		src := s.Source
		out[i] = spriteJSON{
			Name:   s.Name,
			Group:  s.Group,
			Record: regions.Record{X: src.X, Y: src.Y, Width: src.Width, Height: src.Height},
			Data:   string(data),
		}
	}
	writeJSON(w, r, out)
}

// detectOptions applies the threshold, metric, sampling, merge_gap,
// min_area, min_size and connectivity query parameters to base.
func detectOptions(base detect.Options, r *http.Request) (detect.Options, error) {
	q := r.URL.Query()
	opts := base
	var err error
	if v := q.Get("threshold"); v != "" {
		if opts.Threshold, err = strconv.ParseFloat(v, 64); err != nil {
			return opts, errors.Wrap(err, "threshold")
		}
	}
	if v := q.Get("metric"); v != "" {
		if opts.Metric, err = pixbuf.ParseMetric(v); err != nil {
			return opts, err
		}
	}
	if v := q.Get("sampling"); v != "" {
		if opts.Sampling, err = detect.ParseSampling(v); err != nil {
			return opts, err
		}
	}
	if v := q.Get("background"); v != "" {
		c, err := pixbuf.ParseColor(v)
		if err != nil {
			return opts, err
		}
		opts.Background = &c
	}
	for name, dst := range map[string]*int{"merge_gap": &opts.MergeGap, "min_area": &opts.MinArea, "min_size": &opts.MinSize} {
		if v := q.Get(name); v != "" {
			if *dst, err = strconv.Atoi(v); err != nil {
				return opts, errors.Wrap(err, name)
			}
		}
	}
	if v := q.Get("connectivity"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, errors.Wrap(err, "connectivity")
		}
		opts.Connectivity = detect.Connectivity(n)
	}
	return opts, nil
}

func fail(w http.ResponseWriter, tr trace.Trace, code int, err error) {
	tr.LazyPrintf("%v", err)
	tr.SetError()
	if code >= http.StatusInternalServerError {
		glog.Errorf("web: %v", err)
	}
	http.Error(w, err.Error(), code)
}

// etag returns a strong validator for body.
func etag(body []byte) string {
	sum := blake2b.Sum256(body)
	return fmt.Sprintf(`"%x"`, sum[:16])
}

// writeBody sends body with a content ETag, or 304 when the client already
// has it.
func writeBody(w http.ResponseWriter, r *http.Request, mime string, body []byte) {
	tag := etag(body)
	w.Header().Set("ETag", tag)
	if r.Header.Get("If-None-Match") == tag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, bytes.NewReader(body)); err != nil {
		glog.V(1).Infof("web: writing response: %v", err)
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeBody(w, r, "application/json", body)
}
