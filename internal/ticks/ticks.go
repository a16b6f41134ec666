// Package ticks converts between ISO-8601-subset duration strings and
// integer second counts ("ticks"), and renders tick counts as human
// phrases for schedule output.
package ticks

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Seconds per unit. Calendar units use the fixed civil approximations the
// schedule model mandates: a year is 365 days, a month 30.
const (
	Second int64 = 1
	Minute int64 = 60 * Second
	Hour   int64 = 60 * Minute
	Day    int64 = 24 * Hour
	Week   int64 = 7 * Day
	Month  int64 = 30 * Day
	Year   int64 = 365 * Day
)

// DurationFormatError reports a duration string that does not match the
// supported single-component ISO-8601 subset.
type DurationFormatError struct {
	Text string
}

// Error implements the error interface.
func (e *DurationFormatError) Error() string {
	return fmt.Sprintf("invalid ISO 8601 duration %q", e.Text)
}

// Exactly one numeric component with one unit letter, date part or time
// part. Multi-component forms like P1Y2M are out of scope for schedule
// timings and are rejected.
var durationRE = regexp.MustCompile(`^P(T?)(\d+)([YMWDHS])$`)

// FromDuration decodes a duration string into ticks.
//
// Date part: P<n>Y, P<n>M, P<n>W, P<n>D. Time part: PT<n>H, PT<n>M,
// PT<n>S. Any other shape returns *DurationFormatError carrying the
// offending text.
func FromDuration(text string) (int64, error) {
	m := durationRE.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return 0, &DurationFormatError{Text: text}
	}
	timePart := m[1] == "T"
	n, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return 0, &DurationFormatError{Text: text}
	}

	var unit int64
	switch m[3] {
	case "Y":
		unit = Year
	case "M":
		// M is months in the date part, minutes in the time part.
		unit = Month
		if timePart {
			unit = Minute
		}
	case "W":
		unit = Week
	case "D":
		unit = Day
	case "H":
		unit = Hour
	case "S":
		unit = Second
	default:
		return 0, &DurationFormatError{Text: text}
	}

	// H and S require the time part; W, D, Y forbid it.
	switch m[3] {
	case "H", "S":
		if !timePart {
			return 0, &DurationFormatError{Text: text}
		}
	case "Y", "W", "D":
		if timePart {
			return 0, &DurationFormatError{Text: text}
		}
	}

	return n * unit, nil
}

// FromTicks is the identity passthrough for an already-resolved offset.
// Anchor nodes carry their tick directly rather than a duration string.
func FromTicks(value int64) int64 { return value }

// renderUnits in descending magnitude. Months and years are never
// rendered; schedule output speaks in weeks at most.
var renderUnits = []struct {
	seconds int64
	name    string
}{
	{Week, "week"},
	{Day, "day"},
	{Hour, "hour"},
	{Minute, "minute"},
	{Second, "second"},
}

// String renders a non-negative tick count as a comma-separated phrase,
// largest unit first, zero-magnitude units omitted, singular/plural per
// magnitude. Zero renders as the empty string.
func String(t int64) string {
	var parts []string
	for _, u := range renderUnits {
		if n := t / u.seconds; n > 0 {
			name := u.name
			if n != 1 {
				name += "s"
			}
			parts = append(parts, fmt.Sprintf("%d %s", n, name))
			t -= n * u.seconds
		}
	}
	return strings.Join(parts, ", ")
}
