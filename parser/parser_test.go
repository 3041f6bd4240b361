package parser

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sc3stuff/sc3stuff/datamodel"
)

const fixture = "testdata/gfz2020abcd.xml"

// ---------------------------------------------------------------------------
// Registry tests
// ---------------------------------------------------------------------------

func TestRegistryBuiltInParsers(t *testing.T) {
	reg := NewRegistry()

	formats := []struct {
		format     string
		wantParser string
	}{
		{"xml", "*parser.SC3MLParser"},
		{"scml", "*parser.SC3MLParser"},
		{"sc3ml", "*parser.SC3MLParser"},
		{"gz", "*parser.GzipParser"},
		{"xmlz", "*parser.GzipParser"},
	}

	for _, tt := range formats {
		t.Run(tt.format, func(t *testing.T) {
			p, err := reg.Get(tt.format)
			if err != nil {
				t.Fatalf("Get(%q) returned error: %v", tt.format, err)
			}
			if p == nil {
				t.Fatalf("Get(%q) returned nil parser", tt.format)
			}
			supported := p.SupportedFormats()
			found := false
			for _, f := range supported {
				if f == tt.format {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("parser for %q does not list %q in SupportedFormats(): %v",
					tt.format, tt.format, supported)
			}
		})
	}
}

func TestRegistryUnknown(t *testing.T) {
	reg := NewRegistry()

	for _, f := range []string{"json", "mseed", "pdf", ""} {
		t.Run("format_"+f, func(t *testing.T) {
			p, err := reg.Get(f)
			if err == nil {
				t.Errorf("Get(%q) expected error for unknown format, got parser: %v", f, p)
			}
		})
	}
}

func TestRegistryForPathFallsBack(t *testing.T) {
	reg := NewRegistry()

	tests := []struct {
		path       string
		wantFormat string
	}{
		{"/data/events/gfz2020abcd.xml", "xml"},
		{"/data/events/gfz2020abcd.XML", "xml"},
		{"/data/events/gfz2020abcd.xml.gz", "gz"},
		{"/data/events/gfz2020abcd", DefaultFormat},
		{"/data/events/dump.bin", DefaultFormat},
	}
	for _, tt := range tests {
		_, format, err := reg.ForPath(tt.path)
		if err != nil {
			t.Fatalf("ForPath(%q): %v", tt.path, err)
		}
		if format != tt.wantFormat {
			t.Errorf("ForPath(%q): got format %q, want %q", tt.path, format, tt.wantFormat)
		}
	}
}

func TestRegistryCustomParser(t *testing.T) {
	reg := NewRegistry()

	if _, err := reg.Get("custom"); err == nil {
		t.Fatal("expected error for unregistered format")
	}

	reg.Register("custom", &GzipParser{})
	p, err := reg.Get("custom")
	if err != nil {
		t.Fatalf("Get(custom) after Register: %v", err)
	}
	if _, ok := p.(*GzipParser); !ok {
		t.Errorf("expected *GzipParser, got %T", p)
	}
}

// ---------------------------------------------------------------------------
// SC3ML decoding
// ---------------------------------------------------------------------------

func TestParseFixture(t *testing.T) {
	ep, err := NewRegistry().Load(context.Background(), fixture)
	if err != nil {
		t.Fatalf("loading fixture: %v", err)
	}

	if ep.PublicID != "EventParameters" {
		t.Errorf("publicID: got %q", ep.PublicID)
	}
	if got := ep.EventCount(); got != 1 {
		t.Fatalf("events: got %d, want 1", got)
	}
	if got := ep.OriginCount(); got != 2 {
		t.Errorf("origins: got %d, want 2", got)
	}
	if got := ep.PickCount(); got != 3 {
		t.Errorf("picks: got %d, want 3", got)
	}
	if got := ep.AmplitudeCount(); got != 2 {
		t.Errorf("amplitudes: got %d, want 2", got)
	}
	if got := ep.FocalMechanismCount(); got != 1 {
		t.Errorf("focal mechanisms: got %d, want 1", got)
	}

	ev := ep.Event(0)
	if ev.PreferredOriginID != "Origin/20200102030401.000000.123" {
		t.Errorf("preferredOriginID: got %q", ev.PreferredOriginID)
	}
	if len(ev.Descriptions) != 1 || ev.Descriptions[0].Text != "Western Germany" {
		t.Errorf("descriptions: got %+v", ev.Descriptions)
	}

	org := ep.Origin(0)
	if len(org.Arrivals) != 2 {
		t.Fatalf("arrivals: got %d, want 2", len(org.Arrivals))
	}
	if org.Arrivals[0].Distance == nil || *org.Arrivals[0].Distance != 0.21 {
		t.Errorf("arrival distance: got %v", org.Arrivals[0].Distance)
	}
	if org.DepthKm() != 10.5 {
		t.Errorf("depth: got %v", org.DepthKm())
	}
	if org.Quality == nil || org.Quality.UsedPhaseCount == nil || *org.Quality.UsedPhaseCount != 2 {
		t.Errorf("quality: got %+v", org.Quality)
	}
	if len(org.Magnitudes) != 1 || org.Magnitudes[0].Magnitude.Value != 2.4 {
		t.Errorf("magnitudes: got %+v", org.Magnitudes)
	}
	if org.EvaluationStatus != datamodel.StatusConfirmed {
		t.Errorf("evaluation status: got %q", org.EvaluationStatus)
	}

	pick := ep.Pick(0)
	if pick.EvaluationMode != datamodel.Automatic {
		t.Errorf("pick evaluation mode: got %v", pick.EvaluationMode)
	}
	if pick.WaveformID.LocationCode != "" || pick.WaveformID.StationCode != "WLF" {
		t.Errorf("pick waveformID: got %+v", pick.WaveformID)
	}
	if got := pick.Time.Value.Nanosecond(); got != 123456000 {
		t.Errorf("pick time fraction: got %d", got)
	}
	if pick.CreationInfo == nil || pick.CreationInfo.CreationTime == nil {
		t.Errorf("pick creationInfo: got %+v", pick.CreationInfo)
	}

	amp := ep.Amplitude(0)
	if amp.PickID != pick.PublicID {
		t.Errorf("amplitude pickID: got %q", amp.PickID)
	}
	if amp.Amplitude == nil || amp.Amplitude.Value != 0.8532 {
		t.Errorf("amplitude value: got %+v", amp.Amplitude)
	}

	fm := ep.FocalMechanism(0)
	if fm.NodalPlanes == nil || fm.NodalPlanes.NodalPlane2 == nil || fm.NodalPlanes.NodalPlane2.Strike.Value != 300 {
		t.Errorf("nodal planes: got %+v", fm.NodalPlanes)
	}
}

func TestParseErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{"missing file", filepath.Join(dir, "missing.xml"), ErrUnreadable},
		{"directory", dir, ErrUnreadable},
		{"empty file", "testdata/empty.xml", ErrInvalidFormat},
		{"not xml", "testdata/garbage.xml", ErrInvalidFormat},
		{"foreign root", "testdata/quakeml.xml", ErrInvalidFormat},
		{"no event parameters", "testdata/inventory.xml", ErrNoEventParameters},
	}

	p := &SC3MLParser{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ep, err := p.Parse(context.Background(), tt.path)
			if err == nil {
				t.Fatalf("expected error, got document with %d events", ep.EventCount())
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want errors.Is(%v)", err, tt.wantErr)
			}
		})
	}
}

func TestParseBadEvaluationMode(t *testing.T) {
	doc := `<seiscomp><EventParameters><pick publicID="p1"><evaluationMode>guessed</evaluationMode></pick></EventParameters></seiscomp>`
	_, err := Decode(bytes.NewBufferString(doc))
	if !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("got %v, want ErrInvalidFormat", err)
	}
}

func TestParseCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (&SC3MLParser{}).Parse(ctx, fixture); !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
}

// ---------------------------------------------------------------------------
// Writing and gzip
// ---------------------------------------------------------------------------

func TestWriteRoundTrip(t *testing.T) {
	ep, err := (&SC3MLParser{}).Parse(context.Background(), fixture)
	if err != nil {
		t.Fatalf("parsing fixture: %v", err)
	}

	var buf bytes.Buffer
	if err := Write(&buf, ep); err != nil {
		t.Fatalf("writing: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte(Namespace)) {
		t.Errorf("output lacks namespace %q", Namespace)
	}

	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("decoding written archive: %v", err)
	}
	if got.EventCount() != ep.EventCount() || got.PickCount() != ep.PickCount() ||
		got.OriginCount() != ep.OriginCount() || got.AmplitudeCount() != ep.AmplitudeCount() ||
		got.FocalMechanismCount() != ep.FocalMechanismCount() {
		t.Errorf("counts changed after round trip")
	}
	if got.Pick(0).Time.Value.String() != ep.Pick(0).Time.Value.String() {
		t.Errorf("pick time: got %s, want %s", got.Pick(0).Time.Value, ep.Pick(0).Time.Value)
	}
}

func TestGzipParser(t *testing.T) {
	raw, err := os.ReadFile(fixture)
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "gfz2020abcd.xml.gz")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := gzip.NewWriter(f)
	if _, err := zw.Write(raw); err != nil {
		t.Fatal(err)
	}
	zw.Close()
	f.Close()

	ep, err := NewRegistry().Load(context.Background(), path)
	if err != nil {
		t.Fatalf("loading gzip archive: %v", err)
	}
	if ep.PickCount() != 3 {
		t.Errorf("picks: got %d, want 3", ep.PickCount())
	}
}

func TestGzipParserRejectsPlainFile(t *testing.T) {
	_, err := (&GzipParser{}).Parse(context.Background(), fixture)
	if !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("got %v, want ErrInvalidFormat", err)
	}
}
