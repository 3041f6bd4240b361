package datamodel

import "fmt"

// EvaluationMode tells whether an object was produced by an automatic
// process or by an analyst.
type EvaluationMode int

const (
	EvaluationModeUnset EvaluationMode = iota
	Automatic
	Manual
)

func (m EvaluationMode) String() string {
	switch m {
	case Automatic:
		return "automatic"
	case Manual:
		return "manual"
	default:
		return ""
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m EvaluationMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. The empty string
// decodes to EvaluationModeUnset.
func (m *EvaluationMode) UnmarshalText(text []byte) error {
	switch string(text) {
	case "automatic":
		*m = Automatic
	case "manual":
		*m = Manual
	case "":
		*m = EvaluationModeUnset
	default:
		return fmt.Errorf("unknown evaluation mode %q", text)
	}
	return nil
}

// EvaluationStatus is the review state of an object.
type EvaluationStatus string

const (
	StatusPreliminary EvaluationStatus = "preliminary"
	StatusConfirmed   EvaluationStatus = "confirmed"
	StatusReviewed    EvaluationStatus = "reviewed"
	StatusFinal       EvaluationStatus = "final"
	StatusRejected    EvaluationStatus = "rejected"
	StatusReported    EvaluationStatus = "reported"
)
