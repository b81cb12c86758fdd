package event

import (
	"regexp"
	"strings"
	"time"
)

// DateLayout is the numeric date format used in exported records
const DateLayout = "01/02/2006"

var ordinalPattern = regexp.MustCompile(`(\d+)(st|nd|rd|th)`)

// dateLayouts are tried in order; the first that parses wins.
var dateLayouts = []string{
	"January 2, 2006",
	"Jan 2, 2006",
}

// NormalizeDate converts a date like "January 5th, 2025" or "Jan 5th, 2025"
// to "01/05/2025". When no layout matches, the input is returned with its
// ordinal suffixes removed and nothing else changed.
func NormalizeDate(dateText string) string {
	if dateText == "" {
		return ""
	}

	stripped := ordinalPattern.ReplaceAllString(dateText, "$1")
	candidate := strings.TrimSpace(stripped)

	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, candidate)
		if err == nil {
			return t.Format(DateLayout)
		}
	}

	return stripped
}

// ParseDate parses a normalized MM/DD/YYYY date.
// Returns time.Time{} (zero value) if parsing fails.
func ParseDate(dateText string) time.Time {
	t, err := time.Parse(DateLayout, strings.TrimSpace(dateText))
	if err != nil {
		return time.Time{}
	}
	return t
}

var timeLayouts = []string{
	"3:04 PM",
	"3:04PM",
	"3 PM",
	"3PM",
	"15:04",
}

// ParseClock attempts to read a free-text time such as "10:00 AM".
// ok is false when none of the known layouts match.
func ParseClock(timeText string) (hour, minute int, ok bool) {
	s := strings.ToUpper(strings.TrimSpace(timeText))
	if s == "" {
		return 0, 0, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Hour(), t.Minute(), true
		}
	}
	return 0, 0, false
}
