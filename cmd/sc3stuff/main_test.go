package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sc3stuff/sc3stuff"
	"github.com/sc3stuff/sc3stuff/graph"
	"github.com/sc3stuff/sc3stuff/parser"
)

const fixture = "../../parser/testdata/gfz2020abcd.xml"

// runCLI executes the root command with flags reset to their defaults,
// since cobra keeps flag values between Execute calls.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	reset := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	}
	rootCmd.PersistentFlags().VisitAll(reset)
	for _, c := range rootCmd.Commands() {
		c.Flags().VisitAll(reset)
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestPrintPicks(t *testing.T) {
	ep, err := sc3stuff.LoadDocument(context.Background(), fixture)
	require.NoError(t, err)
	x := graph.Extract(ep)

	var buf bytes.Buffer
	printPicks(&buf, x, 3)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "GE   WLF -- BHZ  2020-01-02 03:04:05.123  P    A  Pick/20200102030405.123456.GE.WLF..BHZ", lines[0])
	assert.Equal(t, "GE  MORC 00 HHZ  2020-01-02 03:04:09.000  P    M  Pick/20200102030409.000000.GE.MORC.00.HHZ", lines[1])

	buf.Reset()
	printSummary(&buf, x)
	assert.Equal(t, "events=1 origins=1 picks=2 amplitudes=1 focal_mechanisms=1 discarded=3\n", buf.String())
}

func TestExtractCommand(t *testing.T) {
	written := filepath.Join(t.TempDir(), "extracted.xml")
	out, err := runCLI(t, "extract", fixture, "--digits", "0", "--no-pick-filter", "--write", written)
	require.NoError(t, err)
	assert.Contains(t, out, "GE   STU -- BHZ  2020-01-02 03:10:00  P    A")
	assert.Contains(t, out, "picks=3")

	ep, err := parser.NewRegistry().Load(context.Background(), written)
	require.NoError(t, err)
	assert.Equal(t, 3, ep.PickCount())
	assert.Equal(t, 1, ep.OriginCount())
}

func TestExtractCommandJSON(t *testing.T) {
	out, err := runCLI(t, "extract", fixture, "--json", "--event", "nope")
	require.NoError(t, err)

	var x graph.Extraction
	require.NoError(t, json.Unmarshal([]byte(out), &x))
	assert.Empty(t, x.Events)
	assert.Len(t, x.FocalMechanisms, 1)
}

func TestExtractCommandTree(t *testing.T) {
	out, err := runCLI(t, "extract", fixture, "--tree", "--digits", "2")
	require.NoError(t, err)
	want := "gfz2020abcd\n" +
		"  Origin/20200102030401.000000.123  2020-01-02 03:04:01.25  50.210 6.680 10.5km\n" +
		"    GE.WLF..BHZ  Pick/20200102030405.123456.GE.WLF..BHZ\n" +
		"      MLv 0.8532  Amplitude/20200102030412.GE.WLF..MLv\n" +
		"    GE.MORC.00.HHZ  Pick/20200102030409.000000.GE.MORC.00.HHZ\n"
	assert.True(t, strings.HasPrefix(out, want), out)
}

func TestExtractCommandMissingFile(t *testing.T) {
	_, err := runCLI(t, "extract", "does-not-exist.xml")
	assert.ErrorIs(t, err, sc3stuff.ErrIO)
}

func TestIngestAndQueryCommands(t *testing.T) {
	db := filepath.Join(t.TempDir(), "cli.db")

	out, err := runCLI(t, "ingest", "--db", db, fixture)
	require.NoError(t, err)
	assert.Contains(t, out, "kept=6")

	out, err = runCLI(t, "ingest", "--db", db, fixture)
	require.NoError(t, err)
	assert.Contains(t, out, "unchanged")

	out, err = runCLI(t, "events", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "gfz2020abcd")
	assert.Contains(t, out, "2.4 MLv")
	assert.Contains(t, out, "Western Germany")

	out, err = runCLI(t, "nearest", "--db", db, "50.2", "6.7", "10", "-k", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Origin/20200102030401.000000.123")

	xlsx := filepath.Join(t.TempDir(), "b.xlsx")
	out, err = runCLI(t, "export", "--db", db, fixture, xlsx)
	require.NoError(t, err)
	assert.Contains(t, out, "Picks\t2 rows")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel(""))
}
