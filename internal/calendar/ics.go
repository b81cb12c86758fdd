package calendar

import (
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/pfrederiksen/event-csv/internal/event"
)

const (
	productID = "-//event-csv//event-csv//EN"
	uidDomain = "event-csv"

	// floating local time, no zone
	icsLocalFormat = "20060102T150405"
)

// ErrUndated is returned when a record's start date is not MM/DD/YYYY
var ErrUndated = errors.New("event has no parseable start date")

// GenerateICS generates an iCalendar (.ics) file for a single event
func GenerateICS(rec *event.Record) (string, error) {
	cal := newCalendar("")
	if err := addEvent(cal, rec, time.Now()); err != nil {
		return "", err
	}
	return cal.Serialize(), nil
}

// GenerateBulkICS generates one calendar holding every record.
// Returns an empty string for an empty slice.
func GenerateBulkICS(recs []*event.Record, calendarName string) (string, error) {
	if len(recs) == 0 {
		return "", nil
	}

	cal := newCalendar(calendarName)
	now := time.Now()
	for _, rec := range recs {
		if err := addEvent(cal, rec, now); err != nil {
			return "", fmt.Errorf("%q: %w", rec.Title, err)
		}
	}
	return cal.Serialize(), nil
}

func newCalendar(name string) *ics.Calendar {
	cal := ics.NewCalendar()
	cal.SetProductId(productID)
	cal.SetMethod(ics.MethodPublish)
	if name != "" {
		cal.SetXWRCalName(name)
	}
	return cal
}

// addEvent adds rec to cal. Events whose start time cannot be read become
// all-day events spanning the start to end date.
func addEvent(cal *ics.Calendar, rec *event.Record, stamp time.Time) error {
	startDay := event.ParseDate(rec.StartDate)
	if startDay.IsZero() {
		return fmt.Errorf("%w: %q", ErrUndated, rec.StartDate)
	}
	endDay := event.ParseDate(rec.EndDate)
	if endDay.IsZero() || endDay.Before(startDay) {
		endDay = startDay
	}

	ev := cal.AddEvent(fmt.Sprintf("%s@%s", rec.ID(), uidDomain))
	ev.SetDtStampTime(stamp)
	ev.SetSummary(rec.Title)
	if rec.Location != "" {
		ev.SetLocation(rec.Location)
	}
	if desc := ComposeDescription(rec); desc != "" {
		ev.SetDescription(desc)
	}
	if rec.EventLink != "" {
		ev.SetURL(rec.EventLink)
	}
	ev.SetStatus(ics.ObjectStatusConfirmed)

	startHour, startMin, ok := event.ParseClock(rec.StartTime)
	if !ok {
		ev.SetAllDayStartAt(startDay)
		// DTEND is exclusive for all-day events
		ev.SetAllDayEndAt(endDay.AddDate(0, 0, 1))
		return nil
	}

	start := atClock(startDay, startHour, startMin)
	ev.SetProperty(ics.ComponentPropertyDtStart, start.Format(icsLocalFormat))

	if endHour, endMin, ok := event.ParseClock(rec.EndTime); ok {
		end := atClock(endDay, endHour, endMin)
		if end.After(start) {
			ev.SetProperty(ics.ComponentPropertyDtEnd, end.Format(icsLocalFormat))
		}
	}
	return nil
}

func atClock(day time.Time, hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, time.UTC)
}
