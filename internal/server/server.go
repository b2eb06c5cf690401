// Package server serves the map's public directory and accepts overlay
// writes from the admin viewer.
package server

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/phanxgames/mapkit"
)

// File names of the persisted overlays inside the public directory.
const (
	HighlightsFile = "map-highlights.svg"
	MarkersFile    = "map-markers.json"
)

const maxOverlaySize = 4 << 20 // 4MB

// Handler writes overlays into a public directory and serves it.
type Handler struct {
	dir    string
	origin string
	log    *slog.Logger
}

// NewHandler creates a handler for dir. Writes answer with origin as
// Access-Control-Allow-Origin.
func NewHandler(dir, origin string, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Error("create public dir", "error", err, "dir", dir)
	}
	return &Handler{dir: dir, origin: origin, log: log}
}

// Router returns the routes:
//
//	POST /write/highlights  store the highlight markup
//	POST /write/markers     store the marker listing
//	GET  /health            liveness
//	GET  /*                 files from the public directory
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(h.recovery)
	r.Use(requestID)
	r.Use(h.logger)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	r.HandleFunc("/write/highlights", h.WriteHighlights).Methods("POST")
	r.HandleFunc("/write/markers", h.WriteMarkers).Methods("POST")
	r.PathPrefix("/").Handler(h.Serve()).Methods("GET", "HEAD")
	return r
}

// WriteHighlights handles POST /write/highlights. The body must be markup
// the viewer can load.
func (h *Handler) WriteHighlights(w http.ResponseWriter, r *http.Request) {
	body, ok := h.readBody(w, r)
	if !ok {
		return
	}
	if _, err := mapkit.ParseHighlights(string(body)); err != nil {
		h.fail(w, http.StatusBadRequest, err)
		return
	}
	h.store(w, HighlightsFile, body)
}

// WriteMarkers handles POST /write/markers. The body must be a JSON array of
// marker records with correctly typed fields.
func (h *Handler) WriteMarkers(w http.ResponseWriter, r *http.Request) {
	body, ok := h.readBody(w, r)
	if !ok {
		return
	}
	if _, err := mapkit.ParseMarkerListing(body); err != nil {
		h.fail(w, http.StatusBadRequest, err)
		return
	}
	if err := validateMarkers(body); err != nil {
		h.fail(w, http.StatusBadRequest, err)
		return
	}
	h.store(w, MarkersFile, body)
}

// Serve returns an http.Handler for the public directory. Overlay files are
// never cached so the viewer always sees the last write.
func (h *Handler) Serve() http.Handler {
	fs := http.FileServer(http.Dir(h.dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache")
		fs.ServeHTTP(w, r)
	})
}

func (h *Handler) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxOverlaySize)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.fail(w, http.StatusRequestEntityTooLarge, err)
		return nil, false
	}
	return body, true
}

// store writes data to name atomically: a temp file in the same directory
// is renamed over the target.
func (h *Handler) store(w http.ResponseWriter, name string, data []byte) {
	target := filepath.Join(h.dir, name)
	tmp, err := os.CreateTemp(h.dir, name+".*")
	if err != nil {
		h.fail(w, http.StatusInternalServerError, fmt.Errorf("create temp file: %w", err))
		return
	}
	_, werr := tmp.Write(data)
	cerr := tmp.Close()
	if werr != nil || cerr != nil {
		os.Remove(tmp.Name())
		h.fail(w, http.StatusInternalServerError, fmt.Errorf("write %s: %w", name, firstErr(werr, cerr)))
		return
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		h.fail(w, http.StatusInternalServerError, fmt.Errorf("replace %s: %w", name, err))
		return
	}
	h.log.Info("overlay written", "file", name, "bytes", len(data))
	w.Header().Set("Access-Control-Allow-Origin", h.origin)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (h *Handler) fail(w http.ResponseWriter, status int, err error) {
	h.log.Warn("overlay write failed", "status", status, "error", err)
	w.Header().Set("Access-Control-Allow-Origin", h.origin)
	http.Error(w, err.Error(), status)
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// --- Middleware ---

// RequestIDHeader carries the per-request id. A client-supplied id is kept.
const RequestIDHeader = "X-Request-ID"

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()[:8]
			r.Header.Set(RequestIDHeader, id)
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (h *Handler) logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		h.log.Debug("request", "id", r.Header.Get(RequestIDHeader), "method", r.Method, "path", r.URL.Path, "status", rec.status, "duration", time.Since(start))
	})
}

func (h *Handler) recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				h.log.Error("panic", "path", r.URL.Path, "value", v)
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// NewServer wraps the handler's router in an http.Server listening on port.
func NewServer(port int, h *Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      h.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}
