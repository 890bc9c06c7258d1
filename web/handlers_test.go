package web

import (
	"bytes"
	"encoding/json"
	"image"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"github.com/Schips-Wong/SimpleSpriteSheetHelper/codec"
	"github.com/Schips-Wong/SimpleSpriteSheetHelper/detect"
	"github.com/Schips-Wong/SimpleSpriteSheetHelper/pixbuf"
	"github.com/Schips-Wong/SimpleSpriteSheetHelper/ttesting"
)

func router() http.Handler {
	r := mux.NewRouter()
	NewHandler(detect.DefaultOptions()).RegisterRoutes(r)
	return r
}

func pngBytes(t *testing.T, b *pixbuf.Buffer) []byte {
	t.Helper()
	var out bytes.Buffer
	if err := codec.Encode(&out, b, codec.PNG); err != nil {
		t.Fatal(err)
	}
	return out.Bytes()
}

func redSquare(t *testing.T) []byte {
	return pngBytes(t, ttesting.Sheet(t, 64, 64, ttesting.White, ttesting.Box{Rect: image.Rect(20, 20, 30, 30), Color: ttesting.Red}))
}

func TestHealthz(t *testing.T) {
	rec := httptest.NewRecorder()
	router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	ttesting.AssertEqualInt(t, "status", rec.Code, http.StatusOK)
}

func TestDetect(t *testing.T) {
	rec := httptest.NewRecorder()
	router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/detect?threshold=0.1", bytes.NewReader(redSquare(t))))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	ttesting.AssertEqualString(t, "body", rec.Body.String(), `[{"id":0,"x":20,"y":20,"width":10,"height":10}]`)
	ttesting.AssertEqualString(t, "type", rec.Header().Get("Content-Type"), "application/json")
}

func TestDetectETag(t *testing.T) {
	body := redSquare(t)
	rec := httptest.NewRecorder()
	router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/detect", bytes.NewReader(body)))
	tag := rec.Header().Get("ETag")
	if tag == "" {
		t.Fatal("no ETag")
	}

	req := httptest.NewRequest(http.MethodPost, "/detect", bytes.NewReader(body))
	req.Header.Set("If-None-Match", tag)
	rec = httptest.NewRecorder()
	router().ServeHTTP(rec, req)
	ttesting.AssertEqualInt(t, "status", rec.Code, http.StatusNotModified)
}

func TestDetectBadRequests(t *testing.T) {
	for _, tc := range []struct {
		url  string
		body []byte
	}{
		{"/detect", []byte("garbage")},
		{"/detect?threshold=abc", redSquare(t)},
		{"/detect?metric=nope", redSquare(t)},
	} {
		rec := httptest.NewRecorder()
		router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, tc.url, bytes.NewReader(tc.body)))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: got status %d; want 400", tc.url, rec.Code)
		}
	}
}

func TestExtract(t *testing.T) {
	rec := httptest.NewRecorder()
	router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/extract?prefix=hero", bytes.NewReader(redSquare(t))))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	var got []spriteJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d sprites", len(got))
	}
	ttesting.AssertEqualString(t, "name", got[0].Name, "hero_000")
	ttesting.AssertEqualInt(t, "width", got[0].Width, 10)
	if !strings.HasPrefix(got[0].Data, "data:image/png;base64,") {
		t.Errorf("data url %.40q", got[0].Data)
	}
}

func multipartSprites(t *testing.T, parts map[string]*pixbuf.Buffer, names []string, offsets string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for _, n := range names {
		fw, err := mw.CreateFormFile("sprite", n+".png")
		if err != nil {
			t.Fatal(err)
		}
		fw.Write(pngBytes(t, parts[n]))
	}
	if offsets != "" {
		mw.WriteField(offsetsField, offsets)
	}
	mw.Close()
	return body, mw.FormDataContentType()
}

func TestStitch(t *testing.T) {
	parts := map[string]*pixbuf.Buffer{
		"a": ttesting.Solid(t, 8, 8, ttesting.Red),
		"b": ttesting.Solid(t, 6, 6, ttesting.Blue),
	}
	body, ctype := multipartSprites(t, parts, []string{"a", "b"}, "")
	req := httptest.NewRequest(http.MethodPost, "/stitch?columns=2&rows=1&spacing=2", body)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()
	router().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	sheet, format, err := codec.Decode(rec.Body)
	if err != nil {
		t.Fatal(err)
	}
	ttesting.AssertEqualString(t, "format", format, "png")
	ttesting.AssertEqualInt(t, "width", sheet.Width(), 18)
	ttesting.AssertEqualInt(t, "height", sheet.Height(), 8)
	ttesting.AssertEqualColor(t, "b", sheet.ColorAt(11, 1), ttesting.Blue)
}

func TestStitchOffsets(t *testing.T) {
	parts := map[string]*pixbuf.Buffer{"a": ttesting.Solid(t, 4, 4, ttesting.Red)}
	body, ctype := multipartSprites(t, parts, []string{"a"}, `{"a":{"dx":2,"dy":0}}`)
	req := httptest.NewRequest(http.MethodPost, "/stitch", body)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()
	router().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	sheet, _, err := codec.Decode(rec.Body)
	if err != nil {
		t.Fatal(err)
	}
	ttesting.AssertEqualColor(t, "shifted out", sheet.ColorAt(1, 0), pixbuf.Transparent)
	ttesting.AssertEqualColor(t, "shifted in", sheet.ColorAt(2, 0), ttesting.Red)
}

func TestStitchNotMultipart(t *testing.T) {
	rec := httptest.NewRecorder()
	router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/stitch", strings.NewReader("x")))
	ttesting.AssertEqualInt(t, "status", rec.Code, http.StatusBadRequest)
}

func TestStitchLimits(t *testing.T) {
	parts := map[string]*pixbuf.Buffer{"a": ttesting.Solid(t, 4, 4, ttesting.Red)}
	for _, tc := range []struct {
		query string
		code  int
	}{
		{"columns=100000&rows=100000", http.StatusBadRequest},
		{"columns=140737488355328&rows=1", http.StatusBadRequest},
		{"columns=-1", http.StatusBadRequest},
		{"columns=2&spacing_x=100000000", http.StatusUnprocessableEntity},
		{"columns=2&spacing_x=20000000", http.StatusRequestEntityTooLarge},
	} {
		t.Run(tc.query, func(t *testing.T) {
			body, ctype := multipartSprites(t, parts, []string{"a"}, "")
			req := httptest.NewRequest(http.MethodPost, "/stitch?"+tc.query, body)
			req.Header.Set("Content-Type", ctype)
			rec := httptest.NewRecorder()
			router().ServeHTTP(rec, req)
			ttesting.AssertEqualInt(t, "status", rec.Code, tc.code)
		})
	}
}
