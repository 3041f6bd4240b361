package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sc3stuff/sc3stuff/datamodel"
)

// cascadeDoc builds the document used by most tests:
//
//	e1 -> o1 -> p1        a1 -> p1
//	e2 -> o3 -> p3, p404  a2 -> p2
//	      o2 -> p2        a3 -> p404
//	                      fm1
func cascadeDoc() *datamodel.EventParameters {
	ep := datamodel.New()
	ep.AddEvent(&datamodel.Event{PublicID: "e1", PreferredOriginID: "o1"})
	ep.AddEvent(&datamodel.Event{PublicID: "e2", PreferredOriginID: "o3"})

	ep.AddOrigin(&datamodel.Origin{PublicID: "o1", Arrivals: []datamodel.Arrival{{PickID: "p1"}}})
	ep.AddOrigin(&datamodel.Origin{PublicID: "o2", Arrivals: []datamodel.Arrival{{PickID: "p2"}}})
	ep.AddOrigin(&datamodel.Origin{PublicID: "o3", Arrivals: []datamodel.Arrival{{PickID: "p3"}, {PickID: "p404"}}})

	ep.AddPick(&datamodel.Pick{PublicID: "p1", EvaluationMode: datamodel.Automatic})
	ep.AddPick(&datamodel.Pick{PublicID: "p2", EvaluationMode: datamodel.Manual})
	ep.AddPick(&datamodel.Pick{PublicID: "p3"})

	ep.AddAmplitude(&datamodel.Amplitude{PublicID: "a1", PickID: "p1"})
	ep.AddAmplitude(&datamodel.Amplitude{PublicID: "a2", PickID: "p2"})
	ep.AddAmplitude(&datamodel.Amplitude{PublicID: "a3", PickID: "p404"})

	ep.AddFocalMechanism(&datamodel.FocalMechanism{PublicID: "fm1"})
	return ep
}

func TestExtractDrainsDocument(t *testing.T) {
	optionSets := map[string][]Option{
		"defaults":       nil,
		"event filter":   {WithEventID("e1")},
		"unknown event":  {WithEventID("nope")},
		"no filters":     {WithOriginFilter(false), WithPickFilter(false)},
		"origins only":   {WithPickFilter(false)},
		"picks only":     {WithOriginFilter(false)},
		"everything off": {WithEventID("e2"), WithOriginFilter(false), WithPickFilter(false)},
	}
	for name, opts := range optionSets {
		t.Run(name, func(t *testing.T) {
			ep := cascadeDoc()
			Extract(ep, opts...)
			assert.Equal(t, 0, ep.EventCount())
			assert.Equal(t, 0, ep.OriginCount())
			assert.Equal(t, 0, ep.PickCount())
			assert.Equal(t, 0, ep.AmplitudeCount())
			assert.Equal(t, 0, ep.FocalMechanismCount())
			assert.True(t, ep.Empty())
		})
	}
}

func TestExtractEventFilter(t *testing.T) {
	x := Extract(cascadeDoc(), WithEventID("e1"))
	assert.Equal(t, []string{"e1"}, SortedIDs(x.Events))
	assert.Equal(t, 1, x.Discarded.Events)

	x = Extract(cascadeDoc())
	assert.Equal(t, []string{"e1", "e2"}, SortedIDs(x.Events))
	assert.Equal(t, 0, x.Discarded.Events)
}

func TestExtractOriginPickCascade(t *testing.T) {
	ep := datamodel.New()
	ep.AddEvent(&datamodel.Event{PublicID: "e1", PreferredOriginID: "o1"})
	ep.AddOrigin(&datamodel.Origin{PublicID: "o1", Arrivals: []datamodel.Arrival{{PickID: "p1"}}})
	ep.AddOrigin(&datamodel.Origin{PublicID: "o2"})
	ep.AddPick(&datamodel.Pick{PublicID: "p1"})
	ep.AddPick(&datamodel.Pick{PublicID: "p2"})

	x := Extract(ep, WithOriginFilter(true), WithPickFilter(true))
	assert.Equal(t, []string{"o1"}, SortedIDs(x.Origins))
	assert.Equal(t, []string{"p1"}, SortedIDs(x.Picks))
	assert.Equal(t, Counts{Origins: 1, Picks: 1}, x.Discarded)
}

func TestExtractFilteredEventCascades(t *testing.T) {
	x := Extract(cascadeDoc(), WithEventID("e2"))
	assert.Equal(t, []string{"e2"}, SortedIDs(x.Events))
	assert.Equal(t, []string{"o3"}, SortedIDs(x.Origins))
	assert.Equal(t, []string{"p3"}, SortedIDs(x.Picks))
	assert.Empty(t, x.Amplitudes)
	assert.Equal(t, []string{"fm1"}, SortedIDs(x.FocalMechanisms))
}

func TestExtractUnknownEventEmptiesCascade(t *testing.T) {
	x := Extract(cascadeDoc(), WithEventID("nope"))
	assert.Empty(t, x.Events)
	assert.Empty(t, x.Origins)
	assert.Empty(t, x.Picks)
	assert.Empty(t, x.Amplitudes)
	assert.Len(t, x.FocalMechanisms, 1)
	assert.Equal(t, Counts{Events: 2, Origins: 3, Picks: 3, Amplitudes: 3}, x.Discarded)
}

func TestExtractAmplitudeNeedsKeptPick(t *testing.T) {
	for _, filterPicks := range []bool{true, false} {
		x := Extract(cascadeDoc(), WithEventID("e1"), WithPickFilter(filterPicks))
		_, ok := x.Amplitudes["a2"]
		if filterPicks {
			assert.False(t, ok, "a2 references filtered pick p2")
			assert.Equal(t, []string{"a1"}, SortedIDs(x.Amplitudes))
		} else {
			assert.True(t, ok, "p2 kept when picks are not filtered")
		}
		_, ok = x.Amplitudes["a3"]
		assert.False(t, ok, "a3 references a pick that never existed")
	}
}

func TestExtractNoFilterPassthrough(t *testing.T) {
	ep := cascadeDoc()
	origins, picks := ep.OriginCount(), ep.PickCount()

	x := Extract(ep, WithOriginFilter(false), WithPickFilter(false))
	assert.Len(t, x.Origins, origins)
	assert.Len(t, x.Picks, picks)
	assert.Equal(t, []string{"a1", "a2"}, SortedIDs(x.Amplitudes))
}

func TestExtractOriginFilterOffCollectsNoPickIDs(t *testing.T) {
	// With origins unfiltered no pick IDs are collected, so a pick filter
	// drops every pick and with it every amplitude.
	x := Extract(cascadeDoc(), WithOriginFilter(false), WithPickFilter(true))
	assert.Len(t, x.Origins, 3)
	assert.Empty(t, x.Picks)
	assert.Empty(t, x.Amplitudes)
}

func TestExtractSharedPreferredOrigin(t *testing.T) {
	ep := datamodel.New()
	ep.AddEvent(&datamodel.Event{PublicID: "e1", PreferredOriginID: "o1"})
	ep.AddEvent(&datamodel.Event{PublicID: "e2", PreferredOriginID: "o1"})
	ep.AddOrigin(&datamodel.Origin{PublicID: "o1", Arrivals: []datamodel.Arrival{{PickID: "p1"}, {PickID: "p1"}}})
	ep.AddPick(&datamodel.Pick{PublicID: "p1"})

	x := Extract(ep)
	assert.Len(t, x.Events, 2)
	assert.Len(t, x.Origins, 1)
	assert.Len(t, x.Picks, 1)
}

func TestExtractEventWithoutPreferredOrigin(t *testing.T) {
	ep := datamodel.New()
	ep.AddEvent(&datamodel.Event{PublicID: "e1"})
	ep.AddOrigin(&datamodel.Origin{PublicID: ""})
	ep.AddOrigin(&datamodel.Origin{PublicID: "o1"})

	x := Extract(ep)
	assert.Empty(t, x.Origins)
	assert.Equal(t, 2, x.Discarded.Origins)
}

func TestExtractEmptyDocument(t *testing.T) {
	x := Extract(datamodel.New())
	assert.Equal(t, Counts{}, x.Kept())
	assert.Equal(t, Counts{}, x.Discarded)
	assert.NotNil(t, x.Events)
	assert.NotNil(t, x.FocalMechanisms)
}

func TestExtractionTransfersObjects(t *testing.T) {
	ep := cascadeDoc()
	p1 := ep.Pick(0)

	x := Extract(ep)
	require.Contains(t, x.Picks, "p1")
	assert.Same(t, p1, x.Picks["p1"])
}

func TestIsAutomatic(t *testing.T) {
	assert.True(t, IsAutomatic(&datamodel.Pick{EvaluationMode: datamodel.Automatic}))
	assert.False(t, IsAutomatic(&datamodel.Pick{EvaluationMode: datamodel.Manual}))
	assert.False(t, IsAutomatic(&datamodel.Pick{}))
}

func TestExtractionEventParameters(t *testing.T) {
	x := Extract(cascadeDoc(), WithOriginFilter(false), WithPickFilter(false))
	ep := x.EventParameters()

	require.Equal(t, 3, ep.OriginCount())
	assert.Equal(t, "o1", ep.Origin(0).PublicID)
	assert.Equal(t, "o3", ep.Origin(2).PublicID)
	assert.Equal(t, 2, ep.EventCount())
	assert.Equal(t, 3, ep.PickCount())
	assert.Equal(t, 2, ep.AmplitudeCount())
	assert.Equal(t, 1, ep.FocalMechanismCount())

	// Re-extracting the rebuilt document with defaults filters as usual.
	again := Extract(ep)
	assert.Equal(t, []string{"o1", "o3"}, SortedIDs(again.Origins))
}

func TestCounts(t *testing.T) {
	c := Counts{Events: 1, Origins: 2, Picks: 3, Amplitudes: 4, FocalMechanisms: 5}
	assert.Equal(t, 15, c.Total())
	for i, kind := range Kinds {
		assert.Equal(t, i+1, c.ByKind(kind), kind)
	}
	assert.Equal(t, 0, c.ByKind("reading"))
}
