// Command sheetweb serves sprite sheet detection, extraction and stitching
// over HTTP.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"runtime"

	"badc0de.net/pkg/flagutil/v1"
	"github.com/common-nighthawk/go-figure"
	"github.com/golang/glog"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/Schips-Wong/SimpleSpriteSheetHelper/detect"
	"github.com/Schips-Wong/SimpleSpriteSheetHelper/web"
)

var (
	listenAddress  = flag.String("listen_address", ":8080", "http listen address for sheetweb")
	debugWebServer = flag.String("debug_web_server_listen_address", "", "where the debug server, with /debug/requests, will listen")
	threshold      = flag.Float64("threshold", detect.DefaultOptions().Threshold, "default background tolerance in [0,1]")
	maxBytes       = flag.Int64("max_request_bytes", web.DefaultMaxBytes, "largest accepted request body")
	maxCells       = flag.Int("max_stitch_cells", web.DefaultMaxCells, "largest accepted stitch grid, in cells")
	maxPixels      = flag.Int("max_stitch_pixels", web.DefaultMaxPixels, "largest stitched sheet, in pixels")
	accessLog      = flag.Bool("access_log", true, "write an access log to stderr")
	banner         = flag.Bool("banner", true, "print a banner on start")
)

func newRouter() http.Handler {
	opts := detect.DefaultOptions()
	opts.Threshold = *threshold
	h := web.NewHandler(opts)
	h.MaxBytes = *maxBytes
	h.MaxCells = *maxCells
	h.MaxPixels = *maxPixels

	r := mux.NewRouter()
	h.RegisterRoutes(r)

	var out http.Handler = r
	if *accessLog {
		out = handlers.LoggingHandler(os.Stderr, out)
	}
	return handlers.CompressHandler(out)
}

func main() {
	flagutil.Parse()
	flag.Set("logtostderr", "true")

	if *banner {
		figure.NewFigure("sheetweb", "", true).Print()
	}

	if *debugWebServer != "" {
		http.HandleFunc("/debug/minimetrics", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintf(w, "runtime.NumGoroutine(): %d\n", runtime.NumGoroutine())
		})
		go func() {
			glog.Errorln(http.ListenAndServe(*debugWebServer, nil))
		}()
	}

	glog.Infof("sheetweb listening on %s", *listenAddress)
	glog.Fatal(http.ListenAndServe(*listenAddress, newRouter()))
}
