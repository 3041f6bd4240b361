//go:build cgo

package sc3stuff

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sc3stuff/sc3stuff/graph"
	"github.com/sc3stuff/sc3stuff/metrics"
	"github.com/sc3stuff/sc3stuff/report"
)

const (
	fixture        = "parser/testdata/gfz2020abcd.xml"
	fixtureEvent   = "gfz2020abcd"
	fixtureOrigin  = "Origin/20200102030401.000000.123"
	fixtureWLFPick = "Pick/20200102030405.123456.GE.WLF..BHZ"
)

func newTestCatalog(t *testing.T, opts ...Option) *catalog {
	t.Helper()
	cfg := DefaultConfig()
	cfg.DBPath = filepath.Join(t.TempDir(), "catalog.db")
	c, err := New(cfg, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c.(*catalog)
}

// copyFixture copies the SC3ML fixture into a temp dir so tests can
// rewrite it.
func copyFixture(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(fixture)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "gfz2020abcd.xml")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestIngest(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	res, err := c.Ingest(ctx, fixture)
	require.NoError(t, err)
	assert.False(t, res.Skipped)
	assert.NotEmpty(t, res.IngestID)
	assert.Equal(t, graph.Counts{Events: 1, Origins: 1, Picks: 2, Amplitudes: 1, FocalMechanisms: 1}, res.Kept)
	assert.Equal(t, graph.Counts{Origins: 1, Picks: 1, Amplitudes: 1}, res.Discarded)

	stats, err := c.Store().DBStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Events)
	assert.Equal(t, 1, stats.Origins)
	assert.Equal(t, 2, stats.Arrivals)
	assert.Equal(t, 2, stats.Picks)
	assert.Equal(t, 1, stats.Hypocenters)

	docs, err := c.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "ready", docs[0].Status)
	assert.Equal(t, res.IngestID, docs[0].IngestID)
}

func TestIngestSkipsUnchanged(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()
	path := copyFixture(t)

	first, err := c.Ingest(ctx, path)
	require.NoError(t, err)

	again, err := c.Ingest(ctx, path)
	require.NoError(t, err)
	assert.True(t, again.Skipped)
	assert.Equal(t, first.DocumentID, again.DocumentID)
	assert.Equal(t, first.IngestID, again.IngestID)

	forced, err := c.Ingest(ctx, path, WithForceReparse())
	require.NoError(t, err)
	assert.False(t, forced.Skipped)
	assert.Equal(t, first.DocumentID, forced.DocumentID)
	assert.NotEqual(t, first.IngestID, forced.IngestID)

	stats, _ := c.Store().DBStats(ctx)
	assert.Equal(t, 1, stats.Origins, "re-ingest replaces rather than duplicates")
}

func TestIngestExtractOptions(t *testing.T) {
	c := newTestCatalog(t)
	res, err := c.Ingest(context.Background(), fixture,
		WithExtractOptions(graph.WithOriginFilter(false), graph.WithPickFilter(false)))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Kept.Origins)
	assert.Equal(t, 3, res.Kept.Picks)
	assert.Equal(t, 2, res.Kept.Amplitudes)
}

func TestIngestErrors(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	_, err := c.Ingest(ctx, filepath.Join(t.TempDir(), "missing.xml"))
	assert.ErrorIs(t, err, ErrIO)

	_, err = c.Ingest(ctx, "parser/testdata/inventory.xml")
	assert.ErrorIs(t, err, ErrFormat)

	docs, _ := c.ListDocuments(ctx)
	require.Len(t, docs, 1)
	assert.Equal(t, "error", docs[0].Status)
}

func TestEvent(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()
	_, err := c.Ingest(ctx, fixture)
	require.NoError(t, err)

	detail, err := c.Event(ctx, fixtureEvent)
	require.NoError(t, err)
	assert.Equal(t, "Western Germany", detail.Event.Description)
	require.NotNil(t, detail.PreferredOrigin)
	assert.Equal(t, fixtureOrigin, detail.PreferredOrigin.PublicID)
	require.Len(t, detail.Picks, 2)
	assert.Equal(t, fixtureWLFPick, detail.Picks[0].PublicID)
	require.Len(t, detail.Amplitudes, 1)
	assert.Equal(t, fixtureWLFPick, detail.Amplitudes[0].PickID)

	_, err = c.Event(ctx, "nope")
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestEvents(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()
	_, err := c.Ingest(ctx, fixture)
	require.NoError(t, err)

	events, err := c.Events(ctx, 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, fixtureEvent, events[0].PublicID)
	require.NotNil(t, events[0].Magnitude)
	assert.Equal(t, 2.4, *events[0].Magnitude)
	assert.Equal(t, "2020-01-02T03:04:01.250000Z", events[0].OriginTime)
}

func TestNearest(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()
	_, err := c.Ingest(ctx, fixture)
	require.NoError(t, err)

	near, err := c.Nearest(ctx, 50.2, 6.7, 10, 0)
	require.NoError(t, err)
	require.Len(t, near, 1)
	assert.Equal(t, fixtureOrigin, near[0].PublicID)
	assert.Equal(t, fixtureEvent, near[0].EventID)
	assert.Less(t, near[0].DistanceKm, 5.0)

	for _, bad := range []struct {
		lat, lon, depth float64
		k               int
	}{
		{91, 0, 0, 1},
		{0, 181, 0, 1},
		{0, 0, 7000, 1},
		{0, 0, 0, -1},
		{0, 0, 0, maxNearestK + 1},
	} {
		_, err := c.Nearest(ctx, bad.lat, bad.lon, bad.depth, bad.k)
		assert.ErrorIs(t, err, ErrInvalidQuery, "%+v", bad)
	}
}

func TestExport(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := newTestCatalog(t, WithMetrics(metrics.New(reg)))
	out := filepath.Join(t.TempDir(), "bulletin.xlsx")

	x, err := c.Export(context.Background(), fixture, out, graph.WithEventID(fixtureEvent))
	require.NoError(t, err)
	assert.Len(t, x.Picks, 2)

	sheets, err := report.ReadBulletin(out)
	require.NoError(t, err)
	require.Len(t, sheets, len(report.Sheets))
	assert.Len(t, sheets[2].Rows, 2)

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestExtractDoesNotStore(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	x, err := c.Extract(ctx, fixture)
	require.NoError(t, err)
	assert.Len(t, x.Events, 1)

	stats, _ := c.Store().DBStats(ctx)
	assert.Zero(t, stats.Events)
}

func TestDelete(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()
	res, err := c.Ingest(ctx, fixture)
	require.NoError(t, err)

	require.NoError(t, c.Delete(ctx, res.DocumentID))
	_, err = c.Event(ctx, fixtureEvent)
	assert.ErrorIs(t, err, ErrEventNotFound)

	assert.ErrorIs(t, c.Delete(ctx, res.DocumentID), ErrDocumentNotFound)
}
