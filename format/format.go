// Package format renders stream identifiers and timestamps the way
// SeisComP bulletins and logs print them.
package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/sc3stuff/sc3stuff/datamodel"
)

// DefaultDigits is the number of fractional-second digits Time prints
// unless told otherwise.
const DefaultDigits = 3

// maxDigits is the precision of SC3 timestamps (microseconds).
const maxDigits = 6

// emptyLocation replaces an empty location code in fixed-width output.
const emptyLocation = "--"

// Codes returns the network, station, location and channel codes as held
// by id.
func Codes(id datamodel.WaveformStreamID) (network, station, location, channel string) {
	return id.NetworkCode, id.StationCode, id.LocationCode, id.ChannelCode
}

// FixedWidth renders id as aligned columns, e.g. "GE   WLF -- BHZ". Codes
// longer than their column are not truncated.
func FixedWidth(id datamodel.WaveformStreamID) string {
	n, s, l, c := Codes(id)
	if l == "" {
		l = emptyLocation
	}
	return fmt.Sprintf("%-2s %5s %2s %3s", n, s, l, c)
}

// Dotted renders id as "NET.STA.LOC.CHA". An empty location code yields
// two adjacent dots.
func Dotted(id datamodel.WaveformStreamID) string {
	n, s, l, c := Codes(id)
	return n + "." + s + "." + l + "." + c
}

// Time renders t in UTC as "YYYY-MM-DD HH:MM:SS" followed by digits
// fractional-second digits. With zero digits the decimal point is dropped.
func Time(t time.Time, digits int) string {
	if digits < 0 {
		digits = 0
	}
	if digits > maxDigits {
		digits = maxDigits
	}
	full := t.UTC().Format("2006-01-02 15:04:05.000000")
	return strings.TrimSuffix(full[:20+digits], ".")
}

// StreamTime is Time for a datamodel timestamp.
func StreamTime(t datamodel.Time, digits int) string {
	return Time(t.Time, digits)
}
