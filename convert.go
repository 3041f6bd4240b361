package sc3stuff

import (
	"github.com/sc3stuff/sc3stuff/datamodel"
	"github.com/sc3stuff/sc3stuff/graph"
	"github.com/sc3stuff/sc3stuff/store"
)

// toCatalog flattens an extraction into store rows, each kind ordered by
// publicID.
func toCatalog(x *graph.Extraction) store.Catalog {
	var c store.Catalog
	for _, id := range graph.SortedIDs(x.Events) {
		c.Events = append(c.Events, toEvent(x.Events[id]))
	}
	for _, id := range graph.SortedIDs(x.Origins) {
		c.Origins = append(c.Origins, toOrigin(x.Origins[id]))
	}
	for _, id := range graph.SortedIDs(x.Picks) {
		p := x.Picks[id]
		c.Picks = append(c.Picks, store.Pick{
			PublicID:         p.PublicID,
			Time:             p.Time.Value.String(),
			Stream:           toStream(p.WaveformID),
			PhaseHint:        p.PhaseHint,
			EvaluationMode:   p.EvaluationMode.String(),
			EvaluationStatus: string(p.EvaluationStatus),
		})
	}
	for _, id := range graph.SortedIDs(x.Amplitudes) {
		a := x.Amplitudes[id]
		row := store.Amplitude{
			PublicID: a.PublicID,
			PickID:   a.PickID,
			Type:     a.Type,
			SNR:      a.SNR,
			Stream:   toStream(a.WaveformID),
		}
		if a.Amplitude != nil {
			v := a.Amplitude.Value
			row.Value = &v
		}
		c.Amplitudes = append(c.Amplitudes, row)
	}
	for _, id := range graph.SortedIDs(x.FocalMechanisms) {
		c.FocalMechanisms = append(c.FocalMechanisms, toFocalMechanism(x.FocalMechanisms[id]))
	}
	return c
}

func toEvent(ev *datamodel.Event) store.Event {
	e := store.Event{
		PublicID:                  ev.PublicID,
		PreferredOriginID:         ev.PreferredOriginID,
		PreferredMagnitudeID:      ev.PreferredMagnitudeID,
		PreferredFocalMechanismID: ev.PreferredFocalMechanismID,
		Type:                      ev.Type,
	}
	if len(ev.Descriptions) > 0 {
		e.Description = ev.Descriptions[0].Text
	}
	return e
}

func toOrigin(o *datamodel.Origin) store.Origin {
	row := store.Origin{
		PublicID:         o.PublicID,
		Time:             o.Time.Value.String(),
		Latitude:         o.Latitude.Value,
		Longitude:        o.Longitude.Value,
		MethodID:         o.MethodID,
		EvaluationMode:   o.EvaluationMode.String(),
		EvaluationStatus: string(o.EvaluationStatus),
	}
	if o.Depth != nil {
		d := o.Depth.Value
		row.Depth = &d
	}
	for _, a := range o.Arrivals {
		row.Arrivals = append(row.Arrivals, store.Arrival{
			PickID:       a.PickID,
			Phase:        a.Phase,
			Distance:     a.Distance,
			Azimuth:      a.Azimuth,
			TimeResidual: a.TimeResidual,
			Weight:       a.Weight,
		})
	}
	for _, m := range o.Magnitudes {
		row.Magnitudes = append(row.Magnitudes, store.Magnitude{
			PublicID:     m.PublicID,
			Type:         m.Type,
			Value:        m.Magnitude.Value,
			StationCount: m.StationCount,
		})
	}
	return row
}

func toFocalMechanism(fm *datamodel.FocalMechanism) store.FocalMechanism {
	row := store.FocalMechanism{
		PublicID:           fm.PublicID,
		TriggeringOriginID: fm.TriggeringOriginID,
		EvaluationMode:     fm.EvaluationMode.String(),
	}
	if fm.NodalPlanes == nil {
		return row
	}
	if np := fm.NodalPlanes.NodalPlane1; np != nil {
		row.Strike1, row.Dip1, row.Rake1 = planeAngles(np)
	}
	if np := fm.NodalPlanes.NodalPlane2; np != nil {
		row.Strike2, row.Dip2, row.Rake2 = planeAngles(np)
	}
	return row
}

func planeAngles(np *datamodel.NodalPlane) (strike, dip, rake *float64) {
	s, d, r := np.Strike.Value, np.Dip.Value, np.Rake.Value
	return &s, &d, &r
}

func toStream(id datamodel.WaveformStreamID) store.Stream {
	return store.Stream{
		Network:  id.NetworkCode,
		Station:  id.StationCode,
		Location: id.LocationCode,
		Channel:  id.ChannelCode,
	}
}
