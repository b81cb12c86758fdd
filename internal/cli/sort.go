package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pfrederiksen/event-csv/internal/event"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortNone    SortOrder = ""
	SortByDate  SortOrder = "date"
	SortByTitle SortOrder = "title"
)

// ParseSortOrder validates a --sort value
func ParseSortOrder(s string) (SortOrder, error) {
	order := SortOrder(strings.ToLower(strings.TrimSpace(s)))
	switch order {
	case SortNone, SortByDate, SortByTitle:
		return order, nil
	default:
		return "", fmt.Errorf("invalid sort order: %s (must be 'date' or 'title')", s)
	}
}

// sortRecords sorts records in place. SortNone keeps input order.
func sortRecords(recs []*event.Record, order SortOrder) {
	switch order {
	case SortByDate:
		sort.SliceStable(recs, func(i, j int) bool {
			return compareByDate(recs[i], recs[j])
		})
	case SortByTitle:
		sort.SliceStable(recs, func(i, j int) bool {
			ti, tj := strings.ToLower(recs[i].Title), strings.ToLower(recs[j].Title)
			if ti != tj {
				return ti < tj
			}
			// If titles are equal, sort by date
			return compareByDate(recs[i], recs[j])
		})
	}
}

// compareByDate reports whether i starts before j.
// Records with a readable start date come before those without.
func compareByDate(i, j *event.Record) bool {
	dateI := event.ParseDate(i.StartDate)
	dateJ := event.ParseDate(j.StartDate)

	if !dateI.IsZero() && !dateJ.IsZero() {
		if !dateI.Equal(dateJ) {
			return dateI.Before(dateJ)
		}
		return clockMinutes(i.StartTime) < clockMinutes(j.StartTime)
	}

	// If only one date is valid, put the valid one first
	if !dateI.IsZero() {
		return true
	}
	if !dateJ.IsZero() {
		return false
	}

	return strings.ToLower(i.Title) < strings.ToLower(j.Title)
}

// clockMinutes returns minutes past midnight, or -1 for an unreadable time
func clockMinutes(text string) int {
	hour, minute, ok := event.ParseClock(text)
	if !ok {
		return -1
	}
	return hour*60 + minute
}
