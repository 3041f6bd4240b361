package datamodel

import "encoding/xml"

// EventParameters is the root container of one batch of event data. It
// owns its children; Remove* and Take* hand them over to the caller.
type EventParameters struct {
	PublicID string

	events          []*Event
	origins         []*Origin
	picks           []*Pick
	amplitudes      []*Amplitude
	focalMechanisms []*FocalMechanism
}

// New returns an empty container.
func New() *EventParameters {
	return &EventParameters{}
}

// --- Events ---

func (ep *EventParameters) EventCount() int { return len(ep.events) }
func (ep *EventParameters) Event(i int) *Event { return at(ep.events, i) }
func (ep *EventParameters) AddEvent(e *Event) { ep.events = append(ep.events, e) }
func (ep *EventParameters) RemoveEvent(i int) bool {
	var ok bool
	ep.events, ok = removeAt(ep.events, i)
	return ok
}

// TakeEvents removes every event and returns them in document order.
func (ep *EventParameters) TakeEvents() []*Event {
	out := ep.events
	ep.events = nil
	return out
}

// --- Origins ---

func (ep *EventParameters) OriginCount() int { return len(ep.origins) }
func (ep *EventParameters) Origin(i int) *Origin { return at(ep.origins, i) }
func (ep *EventParameters) AddOrigin(o *Origin) { ep.origins = append(ep.origins, o) }
func (ep *EventParameters) RemoveOrigin(i int) bool {
	var ok bool
	ep.origins, ok = removeAt(ep.origins, i)
	return ok
}

// TakeOrigins removes every origin and returns them in document order.
func (ep *EventParameters) TakeOrigins() []*Origin {
	out := ep.origins
	ep.origins = nil
	return out
}

// --- Picks ---

func (ep *EventParameters) PickCount() int { return len(ep.picks) }
func (ep *EventParameters) Pick(i int) *Pick { return at(ep.picks, i) }
func (ep *EventParameters) AddPick(p *Pick) { ep.picks = append(ep.picks, p) }
func (ep *EventParameters) RemovePick(i int) bool {
	var ok bool
	ep.picks, ok = removeAt(ep.picks, i)
	return ok
}

// TakePicks removes every pick and returns them in document order.
func (ep *EventParameters) TakePicks() []*Pick {
	out := ep.picks
	ep.picks = nil
	return out
}

// --- Amplitudes ---

func (ep *EventParameters) AmplitudeCount() int { return len(ep.amplitudes) }
func (ep *EventParameters) Amplitude(i int) *Amplitude { return at(ep.amplitudes, i) }
func (ep *EventParameters) AddAmplitude(a *Amplitude) { ep.amplitudes = append(ep.amplitudes, a) }
func (ep *EventParameters) RemoveAmplitude(i int) bool {
	var ok bool
	ep.amplitudes, ok = removeAt(ep.amplitudes, i)
	return ok
}

// TakeAmplitudes removes every amplitude and returns them in document order.
func (ep *EventParameters) TakeAmplitudes() []*Amplitude {
	out := ep.amplitudes
	ep.amplitudes = nil
	return out
}

// --- Focal mechanisms ---

func (ep *EventParameters) FocalMechanismCount() int { return len(ep.focalMechanisms) }
func (ep *EventParameters) FocalMechanism(i int) *FocalMechanism {
	return at(ep.focalMechanisms, i)
}
func (ep *EventParameters) AddFocalMechanism(fm *FocalMechanism) {
	ep.focalMechanisms = append(ep.focalMechanisms, fm)
}
func (ep *EventParameters) RemoveFocalMechanism(i int) bool {
	var ok bool
	ep.focalMechanisms, ok = removeAt(ep.focalMechanisms, i)
	return ok
}

// TakeFocalMechanisms removes every focal mechanism and returns them in
// document order.
func (ep *EventParameters) TakeFocalMechanisms() []*FocalMechanism {
	out := ep.focalMechanisms
	ep.focalMechanisms = nil
	return out
}

// Empty reports whether all five child collections are empty.
func (ep *EventParameters) Empty() bool {
	return len(ep.events) == 0 && len(ep.origins) == 0 && len(ep.picks) == 0 &&
		len(ep.amplitudes) == 0 && len(ep.focalMechanisms) == 0
}

// eventParametersXML is the wire shape of <EventParameters>. Child order
// follows the SC3ML schema.
type eventParametersXML struct {
	PublicID        string            `xml:"publicID,attr,omitempty"`
	Picks           []*Pick           `xml:"pick"`
	Amplitudes      []*Amplitude      `xml:"amplitude"`
	Origins         []*Origin         `xml:"origin"`
	FocalMechanisms []*FocalMechanism `xml:"focalMechanism"`
	Events          []*Event          `xml:"event"`
}

// UnmarshalXML implements xml.Unmarshaler.
func (ep *EventParameters) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var w eventParametersXML
	if err := d.DecodeElement(&w, &start); err != nil {
		return err
	}
	*ep = EventParameters{
		PublicID:        w.PublicID,
		events:          w.Events,
		origins:         w.Origins,
		picks:           w.Picks,
		amplitudes:      w.Amplitudes,
		focalMechanisms: w.FocalMechanisms,
	}
	return nil
}

// MarshalXML implements xml.Marshaler.
func (ep *EventParameters) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	w := eventParametersXML{
		PublicID:        ep.PublicID,
		Picks:           ep.picks,
		Amplitudes:      ep.amplitudes,
		Origins:         ep.origins,
		FocalMechanisms: ep.focalMechanisms,
		Events:          ep.events,
	}
	return e.EncodeElement(w, start)
}

func at[T any](s []*T, i int) *T {
	if i < 0 || i >= len(s) {
		return nil
	}
	return s[i]
}

func removeAt[T any](s []*T, i int) ([]*T, bool) {
	if i < 0 || i >= len(s) {
		return s, false
	}
	copy(s[i:], s[i+1:])
	s[len(s)-1] = nil
	return s[:len(s)-1], true
}
