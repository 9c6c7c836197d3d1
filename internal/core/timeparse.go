package core

import (
	"strings"
	"time"
)

// DisplayTimeLayout is the canonical stored form, e.g. "9:00 am".
const DisplayTimeLayout = "3:04 pm"

// clockLayouts are tried in order after normalizeClock.
var clockLayouts = []string{
	"3:04PM",
	"3PM",
	"3:04:05PM",
	"15:04",
	"15:04:05",
}

// normalizeClock uppercases, folds "a.m."/"p.m." and removes whitespace,
// so "9 a.m." and "9:00 am" become "9AM" and "9:00AM".
func normalizeClock(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "A.M.", "AM")
	s = strings.ReplaceAll(s, "P.M.", "PM")
	s = strings.ReplaceAll(s, "A.M", "AM")
	s = strings.ReplaceAll(s, "P.M", "PM")
	return strings.Join(strings.Fields(s), "")
}

// ParseClock parses a wall-clock time in any of the accepted spellings.
// The returned time carries only hour, minute and second.
func ParseClock(s string) (time.Time, bool) {
	v := normalizeClock(s)
	switch v {
	case "":
		return time.Time{}, false
	case "NOON":
		return time.Date(0, 1, 1, 12, 0, 0, 0, time.UTC), true
	case "MIDNIGHT":
		return time.Date(0, 1, 1, 0, 0, 0, 0, time.UTC), true
	}
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatClock renders s in DisplayTimeLayout. Unparseable input is returned
// unchanged.
func FormatClock(s string) string {
	t, ok := ParseClock(s)
	if !ok {
		return s
	}
	return t.Format(DisplayTimeLayout)
}
