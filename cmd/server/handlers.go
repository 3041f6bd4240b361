package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sc3stuff/sc3stuff"
	"github.com/sc3stuff/sc3stuff/graph"
)

// maxUpload bounds multipart archive uploads.
const maxUpload = 256 << 20

type handler struct {
	catalog sc3stuff.Catalog
}

func newHandler(c sc3stuff.Catalog) *handler {
	return &handler{catalog: c}
}

func newRouter(h *handler, reg *prometheus.Registry) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/ingest", h.handleIngest).Methods(http.MethodPost)
	r.HandleFunc("/extract", h.handleExtract).Methods(http.MethodPost)
	r.HandleFunc("/events", h.handleListEvents).Methods(http.MethodGet)
	// publicIDs routinely contain slashes.
	r.HandleFunc("/events/{id:.+}", h.handleGetEvent).Methods(http.MethodGet)
	r.HandleFunc("/nearest", h.handleNearest).Methods(http.MethodGet)
	r.HandleFunc("/documents", h.handleListDocuments).Methods(http.MethodGet)
	r.HandleFunc("/documents/{id:[0-9]+}", h.handleDeleteDocument).Methods(http.MethodDelete)
	r.HandleFunc("/health", h.handleHealth).Methods(http.MethodGet)
	if reg != nil {
		r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}
	return r
}

// POST /ingest
// Accepts multipart file upload or JSON with file path.
func (h *handler) handleIngest(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Minute)
	defer cancel()

	var req struct {
		Path  string `json:"path"`
		Force bool   `json:"force,omitempty"`
	}

	path, cleanup, err := saveUpload(r)
	switch {
	case err != nil:
		writeError(w, http.StatusInternalServerError, "failed to save file")
		slog.Error("saving uploaded file", "error", err)
		return
	case path != "":
		defer cleanup()
		req.Path = path
		req.Force, _ = strconv.ParseBool(r.FormValue("force"))
	default:
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request: expected multipart file or JSON with 'path'")
			return
		}
		if req.Path, err = existingFile(req.Path); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	var opts []sc3stuff.IngestOption
	if req.Force {
		opts = append(opts, sc3stuff.WithForceReparse())
	}

	res, err := h.catalog.Ingest(ctx, req.Path, opts...)
	if err != nil {
		writeCatalogError(w, r, "ingestion failed", err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// POST /extract
// Same input forms as /ingest. Nothing is stored.
func (h *handler) handleExtract(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Minute)
	defer cancel()

	var req struct {
		Path          string  `json:"path"`
		EventID       *string `json:"event_id,omitempty"`
		FilterOrigins *bool   `json:"filter_origins,omitempty"`
		FilterPicks   *bool   `json:"filter_picks,omitempty"`
	}

	path, cleanup, err := saveUpload(r)
	switch {
	case err != nil:
		writeError(w, http.StatusInternalServerError, "failed to save file")
		slog.Error("saving uploaded file", "error", err)
		return
	case path != "":
		defer cleanup()
		req.Path = path
		if r.MultipartForm != nil {
			if v, ok := r.MultipartForm.Value["event_id"]; ok && len(v) > 0 {
				req.EventID = &v[0]
			}
		}
		req.FilterOrigins = formBool(r, "filter_origins")
		req.FilterPicks = formBool(r, "filter_picks")
	default:
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request: expected multipart file or JSON with 'path'")
			return
		}
		if req.Path, err = existingFile(req.Path); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	var opts []graph.Option
	if req.EventID != nil {
		opts = append(opts, graph.WithEventID(*req.EventID))
	}
	if req.FilterOrigins != nil {
		opts = append(opts, graph.WithOriginFilter(*req.FilterOrigins))
	}
	if req.FilterPicks != nil {
		opts = append(opts, graph.WithPickFilter(*req.FilterPicks))
	}

	x, err := h.catalog.Extract(ctx, req.Path, opts...)
	if err != nil {
		writeCatalogError(w, r, "extraction failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"kept":       x.Kept(),
		"extraction": x,
	})
}

// GET /events?limit=N
func (h *handler) handleListEvents(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	events, err := h.catalog.Events(r.Context(), limit)
	if err != nil {
		writeCatalogError(w, r, "failed to list events", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"events": events,
	})
}

// GET /events/{id}
func (h *handler) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	ev, err := h.catalog.Event(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeCatalogError(w, r, "failed to load event", err)
		return
	}

	writeJSON(w, http.StatusOK, ev)
}

// GET /nearest?lat=&lon=&depth=&k=
func (h *handler) handleNearest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var coords [3]float64
	for i, name := range []string{"lat", "lon", "depth"} {
		v, err := strconv.ParseFloat(q.Get(name), 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid %s", name))
			return
		}
		coords[i] = v
	}

	k := 0
	if v := q.Get("k"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid k")
			return
		}
		k = n
	}

	near, err := h.catalog.Nearest(r.Context(), coords[0], coords[1], coords[2], k)
	if err != nil {
		writeCatalogError(w, r, "nearest search failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"origins": near,
	})
}

// DELETE /documents/{id}
func (h *handler) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid document id")
		return
	}

	if err := h.catalog.Delete(r.Context(), id); err != nil {
		writeCatalogError(w, r, "delete failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// GET /documents
func (h *handler) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := h.catalog.ListDocuments(r.Context())
	if err != nil {
		writeCatalogError(w, r, "failed to list documents", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"documents": docs,
	})
}

// GET /health
func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// saveUpload copies the multipart "file" field into a fresh temp dir. It
// returns an empty path when the request carries no upload.
func saveUpload(r *http.Request) (string, func(), error) {
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		return "", nil, nil
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return "", nil, nil
	}
	defer file.Close()

	dir, err := os.MkdirTemp("", "sc3stuff-upload-")
	if err != nil {
		return "", nil, err
	}
	cleanup := func() { os.RemoveAll(dir) }

	// Base name only; the extension selects the parser.
	path := filepath.Join(dir, filepath.Base(header.Filename))
	dst, err := os.Create(path)
	if err != nil {
		cleanup()
		return "", nil, err
	}
	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		cleanup()
		return "", nil, err
	}
	if err := dst.Close(); err != nil {
		cleanup()
		return "", nil, err
	}
	return path, cleanup, nil
}

// existingFile resolves path and rejects anything that is not a regular file.
func existingFile(path string) (string, error) {
	if path == "" {
		return "", errors.New("path is required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.New("invalid path")
	}
	info, err := os.Stat(abs)
	if err != nil || info.IsDir() {
		return "", errors.New("path must be an existing file")
	}
	return abs, nil
}

func formBool(r *http.Request, name string) *bool {
	v, err := strconv.ParseBool(r.FormValue(name))
	if err != nil {
		return nil
	}
	return &v
}

// writeCatalogError maps catalogue errors onto HTTP statuses. Server-side
// failures are logged and reported without detail.
func writeCatalogError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	switch {
	case errors.Is(err, sc3stuff.ErrEventNotFound), errors.Is(err, sc3stuff.ErrDocumentNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, sc3stuff.ErrInvalidQuery):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, sc3stuff.ErrFormat), errors.Is(err, sc3stuff.ErrIO):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, msg)
		slog.Error(msg, "request_id", requestID(r.Context()), "error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
