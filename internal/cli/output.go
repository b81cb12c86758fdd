package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pfrederiksen/event-csv/internal/calendar"
	"github.com/pfrederiksen/event-csv/internal/event"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatCSV  OutputFormat = "csv"
	FormatICS  OutputFormat = "ics"
)

// ParseFormat validates a --format value
func ParseFormat(s string) (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	switch format {
	case FormatText, FormatJSON, FormatCSV, FormatICS:
		return format, nil
	default:
		return "", fmt.Errorf("invalid format: %s (must be 'text', 'json', 'csv' or 'ics')", s)
	}
}

// WriteOutput writes the records in the specified format
func WriteOutput(w io.Writer, recs []*event.Record, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, recs)
	case FormatText:
		return writeText(w, recs, verbose)
	case FormatCSV:
		rows := make([]calendar.Row, 0, len(recs))
		for _, rec := range recs {
			rows = append(rows, calendar.BuildRow(rec))
		}
		return calendar.WriteCSV(w, rows...)
	case FormatICS:
		return writeICS(w, recs)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs a single record as an object and several as an array
func writeJSON(w io.Writer, recs []*event.Record) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if len(recs) == 1 {
		return encoder.Encode(recs[0])
	}
	return encoder.Encode(recs)
}

func writeICS(w io.Writer, recs []*event.Record) error {
	var (
		out string
		err error
	)
	if len(recs) == 1 {
		out, err = calendar.GenerateICS(recs[0])
	} else {
		out, err = calendar.GenerateBulkICS(recs, "")
	}
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

// writeText outputs records as human-readable text
func writeText(w io.Writer, recs []*event.Record, verbose bool) error {
	if len(recs) == 0 {
		fmt.Fprintln(w, "No events found.")
		return nil
	}

	for i, rec := range recs {
		if i > 0 {
			fmt.Fprintln(w)
		}

		title := rec.Title
		if title == "" {
			title = "(untitled event)"
		}
		fmt.Fprintln(w, title)
		fmt.Fprintf(w, "  Dates:    %s\n", span(rec.StartDate, rec.EndDate))
		fmt.Fprintf(w, "  Times:    %s\n", span(rec.StartTime, rec.EndTime))
		fmt.Fprintf(w, "  Location: %s\n", rec.Location)
		fmt.Fprintf(w, "  Link:     %s\n", rec.EventLink)

		brackets := rec.ValidBrackets()
		if len(brackets) > 0 {
			fmt.Fprintf(w, "  Brackets (%d):\n", len(brackets))
			for _, b := range brackets {
				fmt.Fprintf(w, "    - %s\n", b)
			}
		}

		if verbose {
			fmt.Fprintf(w, "  ID:       %s\n", rec.ID())
			if rec.Description != "" {
				fmt.Fprintln(w, "  Description:")
				for _, line := range strings.Split(rec.Description, "\n") {
					fmt.Fprintf(w, "    %s\n", line)
				}
			}
		}
	}

	if len(recs) > 1 {
		fmt.Fprintf(w, "\nTotal: %d events\n", len(recs))
	}
	return nil
}

func span(start, end string) string {
	switch {
	case start == "" && end == "":
		return "-"
	case end == "" || end == start:
		return start
	default:
		return start + " to " + end
	}
}
