// Package graph walks the identifier graph of an EventParameters document.
// Events point at origins through preferredOriginID, origins at picks
// through their arrivals, amplitudes at picks through pickID. All links are
// plain publicID strings and may dangle.
package graph

import (
	"log/slog"
	"sort"

	"github.com/sc3stuff/sc3stuff/datamodel"
)

// Extraction is the result of draining a document: five mappings from
// publicID to the objects that survived filtering. It owns those objects.
type Extraction struct {
	Events          map[string]*datamodel.Event          `json:"events"`
	Origins         map[string]*datamodel.Origin         `json:"origins"`
	Picks           map[string]*datamodel.Pick           `json:"picks"`
	Amplitudes      map[string]*datamodel.Amplitude      `json:"amplitudes"`
	FocalMechanisms map[string]*datamodel.FocalMechanism `json:"focal_mechanisms"`

	// Discarded counts the objects removed from the document but dropped
	// by a filter.
	Discarded Counts `json:"discarded"`
}

// Kept returns the size of each mapping.
func (x *Extraction) Kept() Counts {
	return Counts{
		Events:          len(x.Events),
		Origins:         len(x.Origins),
		Picks:           len(x.Picks),
		Amplitudes:      len(x.Amplitudes),
		FocalMechanisms: len(x.FocalMechanisms),
	}
}

// Option configures Extract.
type Option func(*extractOptions)

type extractOptions struct {
	eventID       string
	byEvent       bool
	filterOrigins bool
	filterPicks   bool
}

// WithEventID keeps only the event with the given publicID.
func WithEventID(id string) Option {
	return func(o *extractOptions) {
		o.eventID = id
		o.byEvent = true
	}
}

// WithOriginFilter controls whether only preferred origins of kept events
// survive. Enabled by default.
func WithOriginFilter(enabled bool) Option {
	return func(o *extractOptions) { o.filterOrigins = enabled }
}

// WithPickFilter controls whether only picks referenced by kept origins
// survive. Enabled by default.
func WithPickFilter(enabled bool) Option {
	return func(o *extractOptions) { o.filterPicks = enabled }
}

// Extract drains ep into an Extraction. Every child is removed from ep
// before it is kept or dropped, so ep is empty afterwards regardless of the
// options.
//
// The passes run in a fixed order because each filter reads what the
// previous pass kept:
//
//   - events: all, or only the one named by WithEventID;
//   - origins: those some kept event prefers (origin filter on), or all;
//     arrivals of kept origins contribute pick IDs only in the first case;
//   - picks: those referenced by a kept origin (pick filter on), or all;
//   - amplitudes: those whose pickID names a kept pick, always;
//   - focal mechanisms: all.
func Extract(ep *datamodel.EventParameters, opts ...Option) *Extraction {
	o := extractOptions{filterOrigins: true, filterPicks: true}
	for _, fn := range opts {
		fn(&o)
	}

	x := &Extraction{
		Events:          make(map[string]*datamodel.Event),
		Origins:         make(map[string]*datamodel.Origin),
		Picks:           make(map[string]*datamodel.Pick),
		Amplitudes:      make(map[string]*datamodel.Amplitude),
		FocalMechanisms: make(map[string]*datamodel.FocalMechanism),
	}

	for _, ev := range ep.TakeEvents() {
		if o.byEvent && ev.PublicID != o.eventID {
			x.Discarded.Events++
			continue
		}
		x.Events[ev.PublicID] = ev
	}

	// Pick IDs referenced by arrivals of kept origins. Only filled while
	// the origin filter is on.
	pickIDs := make(map[string]struct{})
	for _, org := range ep.TakeOrigins() {
		if !o.filterOrigins {
			x.Origins[org.PublicID] = org
			continue
		}
		if !preferredByAny(x.Events, org.PublicID) {
			x.Discarded.Origins++
			continue
		}
		x.Origins[org.PublicID] = org
		for _, arr := range org.Arrivals {
			pickIDs[arr.PickID] = struct{}{}
		}
	}

	for _, p := range ep.TakePicks() {
		if o.filterPicks {
			if _, ok := pickIDs[p.PublicID]; !ok {
				x.Discarded.Picks++
				continue
			}
		}
		x.Picks[p.PublicID] = p
	}

	for _, a := range ep.TakeAmplitudes() {
		if _, ok := x.Picks[a.PickID]; !ok {
			x.Discarded.Amplitudes++
			continue
		}
		x.Amplitudes[a.PublicID] = a
	}

	for _, fm := range ep.TakeFocalMechanisms() {
		x.FocalMechanisms[fm.PublicID] = fm
	}

	kept := x.Kept()
	slog.Debug("graph: extraction complete",
		"events", kept.Events, "origins", kept.Origins, "picks", kept.Picks,
		"amplitudes", kept.Amplitudes, "focal_mechanisms", kept.FocalMechanisms,
		"discarded", x.Discarded.Total())
	return x
}

// preferredByAny reports whether some event names originID as its
// preferred origin. Events without a preferred origin never match.
func preferredByAny(events map[string]*datamodel.Event, originID string) bool {
	for _, ev := range events {
		if ev.PreferredOriginID != "" && ev.PreferredOriginID == originID {
			return true
		}
	}
	return false
}

// IsAutomatic reports whether p was produced by an automatic picker.
func IsAutomatic(p *datamodel.Pick) bool {
	return p.EvaluationMode == datamodel.Automatic
}

// EventParameters rebuilds a document from the extraction, children
// ordered by publicID. The returned container shares the extracted objects.
func (x *Extraction) EventParameters() *datamodel.EventParameters {
	ep := datamodel.New()
	for _, id := range SortedIDs(x.Picks) {
		ep.AddPick(x.Picks[id])
	}
	for _, id := range SortedIDs(x.Amplitudes) {
		ep.AddAmplitude(x.Amplitudes[id])
	}
	for _, id := range SortedIDs(x.Origins) {
		ep.AddOrigin(x.Origins[id])
	}
	for _, id := range SortedIDs(x.FocalMechanisms) {
		ep.AddFocalMechanism(x.FocalMechanisms[id])
	}
	for _, id := range SortedIDs(x.Events) {
		ep.AddEvent(x.Events[id])
	}
	return ep
}

// SortedIDs returns the keys of m in ascending order.
func SortedIDs[V any](m map[string]V) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
