package calendar

import (
	"bufio"
	"io"
	"strings"

	"github.com/pfrederiksen/event-csv/internal/event"
)

// Columns is the header of a calendar import file, in order
var Columns = []string{
	"Subject",
	"Start Date",
	"Start Time",
	"End Date",
	"End Time",
	"All Day Event",
	"Description",
	"Location",
	"Private",
}

const boolFalse = "False"

// Row is one calendar import line. Field order matches Columns.
type Row struct {
	Subject     string
	StartDate   string
	StartTime   string
	EndDate     string
	EndTime     string
	AllDayEvent string
	Description string
	Location    string
	Private     string
}

// Values returns the row's fields in column order
func (r Row) Values() []string {
	return []string{
		r.Subject,
		r.StartDate,
		r.StartTime,
		r.EndDate,
		r.EndTime,
		r.AllDayEvent,
		r.Description,
		r.Location,
		r.Private,
	}
}

// BuildRow maps a record onto a calendar row
func BuildRow(rec *event.Record) Row {
	return Row{
		Subject:     rec.Title,
		StartDate:   rec.StartDate,
		StartTime:   rec.StartTime,
		EndDate:     rec.EndDate,
		EndTime:     rec.EndTime,
		AllDayEvent: boolFalse,
		Description: ComposeDescription(rec),
		Location:    rec.Location,
		Private:     boolFalse,
	}
}

// ComposeDescription builds the calendar description: the event link, the
// page description, then one "Name (Format)" line per complete bracket.
// Empty parts are left out entirely.
func ComposeDescription(rec *event.Record) string {
	var lines []string
	if rec.EventLink != "" {
		lines = append(lines, rec.EventLink)
	}
	if rec.Description != "" {
		lines = append(lines, rec.Description)
	}
	for _, b := range rec.ValidBrackets() {
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n")
}

// WriteCSV writes the header followed by rows. Every field is quoted and
// every record ends in "\n".
func WriteCSV(w io.Writer, rows ...Row) error {
	bw := bufio.NewWriter(w)
	if err := writeRecord(bw, Columns); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writeRecord(bw, row.Values()); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// GenerateCSV renders records as a complete calendar import file
func GenerateCSV(recs ...*event.Record) (string, error) {
	rows := make([]Row, 0, len(recs))
	for _, rec := range recs {
		rows = append(rows, BuildRow(rec))
	}

	var sb strings.Builder
	if err := WriteCSV(&sb, rows...); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func writeRecord(w *bufio.Writer, fields []string) error {
	for i, field := range fields {
		if i > 0 {
			if err := w.WriteByte(','); err != nil {
				return err
			}
		}
		if _, err := w.WriteString(quote(field)); err != nil {
			return err
		}
	}
	return w.WriteByte('\n')
}

func quote(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}
