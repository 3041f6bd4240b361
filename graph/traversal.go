package graph

import (
	"sort"

	"github.com/sc3stuff/sc3stuff/datamodel"
)

// Reference is one publicID link from an object to another.
type Reference struct {
	FromKind string `json:"from_kind"`
	FromID   string `json:"from_id"`
	ToKind   string `json:"to_kind"`
	ToID     string `json:"to_id"`
}

// PreferredOrigin resolves ev's preferred origin within x.
func PreferredOrigin(x *Extraction, ev *datamodel.Event) (*datamodel.Origin, bool) {
	if ev.PreferredOriginID == "" {
		return nil, false
	}
	org, ok := x.Origins[ev.PreferredOriginID]
	return org, ok
}

// ArrivalPicks resolves the arrivals of org to picks in x, in arrival
// order. Arrivals whose pick is not in x are skipped.
func ArrivalPicks(x *Extraction, org *datamodel.Origin) []*datamodel.Pick {
	picks := make([]*datamodel.Pick, 0, len(org.Arrivals))
	for _, arr := range org.Arrivals {
		if p, ok := x.Picks[arr.PickID]; ok {
			picks = append(picks, p)
		}
	}
	return picks
}

// PickAmplitudes returns the amplitudes in x measured on pickID, ordered
// by publicID.
func PickAmplitudes(x *Extraction, pickID string) []*datamodel.Amplitude {
	var out []*datamodel.Amplitude
	for _, id := range SortedIDs(x.Amplitudes) {
		if a := x.Amplitudes[id]; a.PickID == pickID {
			out = append(out, a)
		}
	}
	return out
}

// Dangling lists the references in x that point at objects x does not
// hold: event preferred origins, origin arrivals and amplitude picks.
// Empty references are not reported. The result is sorted by source.
func Dangling(x *Extraction) []Reference {
	var refs []Reference

	for id, ev := range x.Events {
		if ev.PreferredOriginID == "" {
			continue
		}
		if _, ok := x.Origins[ev.PreferredOriginID]; !ok {
			refs = append(refs, Reference{KindEvent, id, KindOrigin, ev.PreferredOriginID})
		}
	}
	for id, org := range x.Origins {
		for _, arr := range org.Arrivals {
			if arr.PickID == "" {
				continue
			}
			if _, ok := x.Picks[arr.PickID]; !ok {
				refs = append(refs, Reference{KindOrigin, id, KindPick, arr.PickID})
			}
		}
	}
	for id, a := range x.Amplitudes {
		if a.PickID == "" {
			continue
		}
		if _, ok := x.Picks[a.PickID]; !ok {
			refs = append(refs, Reference{KindAmplitude, id, KindPick, a.PickID})
		}
	}

	sort.Slice(refs, func(i, j int) bool {
		if refs[i].FromKind != refs[j].FromKind {
			return refs[i].FromKind < refs[j].FromKind
		}
		if refs[i].FromID != refs[j].FromID {
			return refs[i].FromID < refs[j].FromID
		}
		return refs[i].ToID < refs[j].ToID
	})
	return refs
}
