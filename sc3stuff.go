// Package sc3stuff loads SeisComP event-parameter archives, extracts the
// event graph around an event and keeps extracted objects in a SQLite
// catalogue that can be listed, searched by hypocentre and exported.
package sc3stuff

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/xid"

	"github.com/sc3stuff/sc3stuff/datamodel"
	"github.com/sc3stuff/sc3stuff/graph"
	"github.com/sc3stuff/sc3stuff/metrics"
	"github.com/sc3stuff/sc3stuff/parser"
	"github.com/sc3stuff/sc3stuff/report"
	"github.com/sc3stuff/sc3stuff/store"
)

// Catalog is the main entry point for ingesting and querying archives.
type Catalog interface {
	// Ingest loads an archive, extracts its event graph and stores it.
	// Skips if content hash unchanged.
	Ingest(ctx context.Context, path string, opts ...IngestOption) (*IngestResult, error)

	// Extract loads an archive and extracts its event graph without
	// storing anything. Configured filters apply before opts.
	Extract(ctx context.Context, path string, opts ...graph.Option) (*graph.Extraction, error)

	// Events lists stored events, latest origin first.
	Events(ctx context.Context, limit int) ([]store.EventSummary, error)

	// Event returns a stored event with its preferred origin, the picks
	// that origin's arrivals reference and their amplitudes.
	Event(ctx context.Context, publicID string) (*EventDetail, error)

	// Nearest returns the k stored origins closest to a hypocentre.
	Nearest(ctx context.Context, lat, lon, depthKm float64, k int) ([]store.NearbyOrigin, error)

	// Export extracts an archive and writes the result as an XLSX bulletin.
	Export(ctx context.Context, path, xlsxPath string, opts ...graph.Option) (*graph.Extraction, error)

	// ListDocuments returns all ingested archives.
	ListDocuments(ctx context.Context) ([]store.Document, error)

	// Delete removes an archive and every object it delivered.
	Delete(ctx context.Context, documentID int64) error

	// Store returns the underlying store for diagnostic access.
	Store() *store.Store

	// Close cleanly shuts down the catalogue.
	Close() error
}

// IngestResult reports what one Ingest call did.
type IngestResult struct {
	DocumentID int64        `json:"document_id"`
	IngestID   string       `json:"ingest_id"`
	Skipped    bool         `json:"skipped"`
	Kept       graph.Counts `json:"kept"`
	Discarded  graph.Counts `json:"discarded"`
}

// EventDetail is a stored event resolved one level down the graph.
type EventDetail struct {
	Event           store.Event       `json:"event"`
	PreferredOrigin *store.Origin     `json:"preferred_origin,omitempty"`
	Picks           []store.Pick      `json:"picks,omitempty"`
	Amplitudes      []store.Amplitude `json:"amplitudes,omitempty"`
}

// IngestOption configures ingestion behavior.
type IngestOption func(*ingestOptions)

type ingestOptions struct {
	forceReparse bool
	extract      []graph.Option
}

// WithForceReparse forces re-parsing even if the hash hasn't changed.
func WithForceReparse() IngestOption {
	return func(o *ingestOptions) { o.forceReparse = true }
}

// WithExtractOptions passes extraction options to the ingest. They apply
// after the configured filters.
func WithExtractOptions(opts ...graph.Option) IngestOption {
	return func(o *ingestOptions) { o.extract = append(o.extract, opts...) }
}

// Option configures New.
type Option func(*catalog)

// WithMetrics records loads and extractions in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *catalog) { c.metrics = m }
}

// catalog is the concrete implementation of Catalog.
type catalog struct {
	cfg     Config
	store   *store.Store
	parsers *parser.Registry
	metrics *metrics.Metrics
}

// New opens the catalogue database named by cfg.
func New(cfg Config, opts ...Option) (Catalog, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s, err := store.New(cfg.resolveDBPath())
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	c := &catalog{
		cfg:     cfg,
		store:   s,
		parsers: parser.NewRegistry(),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// LoadDocument reads the archive at path. Errors match ErrIO when the
// file cannot be opened or read and ErrFormat when it holds no
// EventParameters.
func LoadDocument(ctx context.Context, path string) (*datamodel.EventParameters, error) {
	return loadWith(ctx, parser.NewRegistry(), path)
}

func loadWith(ctx context.Context, reg *parser.Registry, path string) (*datamodel.EventParameters, error) {
	ep, err := reg.Load(ctx, path)
	switch {
	case err == nil:
		return ep, nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return nil, err
	case errors.Is(err, parser.ErrUnreadable):
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	default:
		return nil, fmt.Errorf("%w: %w", ErrFormat, err)
	}
}

func (c *catalog) load(ctx context.Context, path string) (*datamodel.EventParameters, error) {
	ep, err := loadWith(ctx, c.parsers, path)
	switch {
	case err == nil:
		c.metrics.ObserveLoad(metrics.ResultOK)
	case errors.Is(err, ErrIO):
		c.metrics.ObserveLoad(metrics.ResultIO)
	case errors.Is(err, ErrFormat):
		c.metrics.ObserveLoad(metrics.ResultFormat)
	}
	return ep, err
}

func (c *catalog) extract(ep *datamodel.EventParameters, opts []graph.Option) *graph.Extraction {
	start := time.Now()
	x := graph.Extract(ep, append(c.cfg.ExtractOptions(), opts...)...)
	c.metrics.ObserveExtraction(x, time.Since(start))
	return x
}

// Ingest processes an archive through load, extraction and storage.
func (c *catalog) Ingest(ctx context.Context, path string, opts ...IngestOption) (*IngestResult, error) {
	options := &ingestOptions{}
	for _, o := range opts {
		o(options)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	// Compute file hash
	hash, err := fileHash(absPath)
	if err != nil {
		c.metrics.ObserveLoad(metrics.ResultIO)
		return nil, fmt.Errorf("%w: hashing %s: %w", ErrIO, absPath, err)
	}

	// Check if document already exists with same hash
	if !options.forceReparse {
		existing, err := c.store.GetDocumentByPath(ctx, absPath)
		if err == nil && existing.ContentHash == hash && existing.Status == "ready" {
			slog.Info("ingest: unchanged, skipping", "file", existing.Filename, "doc_id", existing.ID)
			c.metrics.ObserveLoad(metrics.ResultSkipped)
			return &IngestResult{DocumentID: existing.ID, IngestID: existing.IngestID, Skipped: true}, nil
		}
	}

	_, format, err := c.parsers.ForPath(absPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFormat, err)
	}

	ingestID := xid.New().String()
	filename := filepath.Base(absPath)
	docID, err := c.store.UpsertDocument(ctx, store.Document{
		Path:        absPath,
		Filename:    filename,
		Format:      format,
		ContentHash: hash,
		IngestID:    ingestID,
		Status:      "processing",
	})
	if err != nil {
		return nil, fmt.Errorf("upserting document: %w", err)
	}

	slog.Info("ingest: loading archive", "file", filename, "format", format, "doc_id", docID, "ingest_id", ingestID)
	start := time.Now()

	ep, err := c.load(ctx, absPath)
	if err != nil {
		c.store.UpdateDocumentStatus(ctx, docID, "error")
		return nil, err
	}

	x := c.extract(ep, options.extract)
	kept := x.Kept()
	slog.Info("ingest: extraction complete",
		"file", filename, "events", kept.Events, "origins", kept.Origins,
		"picks", kept.Picks, "amplitudes", kept.Amplitudes,
		"focal_mechanisms", kept.FocalMechanisms, "discarded", x.Discarded.Total())

	// Delete objects from the previous ingest of this document
	if err := c.store.DeleteDocumentData(ctx, docID); err != nil {
		return nil, fmt.Errorf("cleaning old data: %w", err)
	}

	if err := c.store.InsertCatalog(ctx, docID, toCatalog(x)); err != nil {
		c.store.UpdateDocumentStatus(ctx, docID, "error")
		return nil, fmt.Errorf("storing catalogue: %w", err)
	}

	if refs := graph.Dangling(x); len(refs) > 0 {
		slog.Debug("ingest: dangling references", "file", filename, "count", len(refs))
	}

	slog.Info("ingest: document ready",
		"file", filename, "doc_id", docID,
		"total_elapsed", time.Since(start).Round(time.Millisecond))
	c.store.UpdateDocumentStatus(ctx, docID, "ready")

	return &IngestResult{
		DocumentID: docID,
		IngestID:   ingestID,
		Kept:       kept,
		Discarded:  x.Discarded,
	}, nil
}

// Extract loads and extracts without touching the store.
func (c *catalog) Extract(ctx context.Context, path string, opts ...graph.Option) (*graph.Extraction, error) {
	ep, err := c.load(ctx, path)
	if err != nil {
		return nil, err
	}
	return c.extract(ep, opts), nil
}

// Events lists stored events. A non-positive limit uses the configured one.
func (c *catalog) Events(ctx context.Context, limit int) ([]store.EventSummary, error) {
	if limit <= 0 {
		limit = c.cfg.EventsLimit
	}
	return c.store.ListEvents(ctx, limit)
}

// Event resolves a stored event.
func (c *catalog) Event(ctx context.Context, publicID string) (*EventDetail, error) {
	ev, err := c.store.GetEvent(ctx, publicID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrEventNotFound, publicID)
	}
	if err != nil {
		return nil, err
	}

	detail := &EventDetail{Event: *ev}
	if ev.PreferredOriginID == "" {
		return detail, nil
	}

	org, err := c.store.GetOrigin(ctx, ev.PreferredOriginID)
	if errors.Is(err, sql.ErrNoRows) {
		return detail, nil
	}
	if err != nil {
		return nil, err
	}
	detail.PreferredOrigin = org

	detail.Picks, err = c.store.PicksForOrigin(ctx, org.PublicID)
	if err != nil {
		return nil, err
	}
	for _, p := range detail.Picks {
		amps, err := c.store.AmplitudesForPick(ctx, p.PublicID)
		if err != nil {
			return nil, err
		}
		detail.Amplitudes = append(detail.Amplitudes, amps...)
	}
	return detail, nil
}

// maxNearestK bounds k for the KNN query.
const maxNearestK = 1000

// Nearest validates the query point and searches stored hypocentres. A
// zero k uses the configured default.
func (c *catalog) Nearest(ctx context.Context, lat, lon, depthKm float64, k int) ([]store.NearbyOrigin, error) {
	if k == 0 {
		k = c.cfg.NearestK
	}
	switch {
	case math.IsNaN(lat) || lat < -90 || lat > 90:
		return nil, fmt.Errorf("%w: latitude %v out of range", ErrInvalidQuery, lat)
	case math.IsNaN(lon) || lon < -180 || lon > 180:
		return nil, fmt.Errorf("%w: longitude %v out of range", ErrInvalidQuery, lon)
	case math.IsNaN(depthKm) || depthKm < -10 || depthKm >= store.EarthRadiusKm:
		return nil, fmt.Errorf("%w: depth %v out of range", ErrInvalidQuery, depthKm)
	case k < 1 || k > maxNearestK:
		return nil, fmt.Errorf("%w: k must be between 1 and %d", ErrInvalidQuery, maxNearestK)
	}
	return c.store.NearestOrigins(ctx, lat, lon, depthKm, k)
}

// Export writes the extraction of path to xlsxPath.
func (c *catalog) Export(ctx context.Context, path, xlsxPath string, opts ...graph.Option) (*graph.Extraction, error) {
	x, err := c.Extract(ctx, path, opts...)
	if err != nil {
		return nil, err
	}
	if err := report.WriteBulletin(xlsxPath, x, c.cfg.Extract.TimeDigits); err != nil {
		return nil, fmt.Errorf("writing bulletin: %w", err)
	}
	slog.Info("export: bulletin written", "file", filepath.Base(path), "out", xlsxPath,
		"objects", x.Kept().Total())
	return x, nil
}

// Delete removes a document and all its associated data.
func (c *catalog) Delete(ctx context.Context, documentID int64) error {
	if _, err := c.store.GetDocument(ctx, documentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %d", ErrDocumentNotFound, documentID)
		}
		return err
	}
	return c.store.DeleteDocument(ctx, documentID)
}

// ListDocuments returns all ingested documents.
func (c *catalog) ListDocuments(ctx context.Context) ([]store.Document, error) {
	return c.store.ListDocuments(ctx)
}

// Store returns the underlying store for diagnostic access.
func (c *catalog) Store() *store.Store {
	return c.store
}

// Close shuts down the catalogue.
func (c *catalog) Close() error {
	return c.store.Close()
}

// fileHash computes the SHA-256 hash of a file's content.
func fileHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
