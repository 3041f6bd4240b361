package datamodel

import (
	"fmt"
	"strings"
	"time"
)

// timeLayout is the canonical SC3ML time representation, always UTC.
const timeLayout = "2006-01-02T15:04:05.000000Z"

// parseLayouts are tried in order when reading times. SC3ML writers differ
// on the fraction width and on the trailing zone designator.
var parseLayouts = []string{
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// Time is a UTC timestamp with microsecond precision.
type Time struct {
	time.Time
}

// NewTime truncates t to microseconds and converts it to UTC.
func NewTime(t time.Time) Time {
	return Time{t.UTC().Truncate(time.Microsecond)}
}

// ParseTime reads an SC3ML time string.
func ParseTime(s string) (Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range parseLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return NewTime(t), nil
		}
	}
	return Time{}, fmt.Errorf("invalid time %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (t Time) MarshalText() ([]byte, error) {
	return []byte(t.UTC().Format(timeLayout)), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Time) UnmarshalText(text []byte) error {
	parsed, err := ParseTime(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// String returns the canonical SC3ML form.
func (t Time) String() string {
	return t.UTC().Format(timeLayout)
}
