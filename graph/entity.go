package graph

// Kind names the five child collections of an EventParameters document.
// The values double as metric labels and bulletin sheet keys.
const (
	KindEvent          = "event"
	KindOrigin         = "origin"
	KindPick           = "pick"
	KindAmplitude      = "amplitude"
	KindFocalMechanism = "focal_mechanism"
)

// Kinds lists every kind in extraction order.
var Kinds = []string{KindEvent, KindOrigin, KindPick, KindAmplitude, KindFocalMechanism}

// Counts holds one number per kind.
type Counts struct {
	Events          int `json:"events"`
	Origins         int `json:"origins"`
	Picks           int `json:"picks"`
	Amplitudes      int `json:"amplitudes"`
	FocalMechanisms int `json:"focal_mechanisms"`
}

// ByKind returns the count for kind, or 0 for an unknown kind.
func (c Counts) ByKind(kind string) int {
	switch kind {
	case KindEvent:
		return c.Events
	case KindOrigin:
		return c.Origins
	case KindPick:
		return c.Picks
	case KindAmplitude:
		return c.Amplitudes
	case KindFocalMechanism:
		return c.FocalMechanisms
	}
	return 0
}

// Total sums all kinds.
func (c Counts) Total() int {
	return c.Events + c.Origins + c.Picks + c.Amplitudes + c.FocalMechanisms
}
