package scraper

import (
	"regexp"
	"strings"

	"github.com/pfrederiksen/event-csv/internal/dom"
	"github.com/pfrederiksen/event-csv/internal/event"
)

// Document is the query surface the extractors need.
// Both *dom.Document and dom.Node satisfy it.
type Document interface {
	Find(marker string) dom.Node
	FindAll(marker string) []dom.Node
}

var newlineRun = regexp.MustCompile(`\n+`)

// Extractor pulls individual fields out of a rendered event page.
// None of its methods fail: a missing element yields an empty value.
type Extractor struct {
	Layout Layout
}

// NewExtractor creates an Extractor for the given layout
func NewExtractor(layout Layout) *Extractor {
	return &Extractor{Layout: layout}
}

// Title returns the event title
func (e *Extractor) Title(doc Document) string {
	return doc.Find(e.Layout.Title).Text()
}

// Description returns the event description with one newline between
// text blocks.
func (e *Extractor) Description(doc Document) string {
	desc := doc.Find(e.Layout.Description)
	if !desc.Exists() {
		return ""
	}
	text := newlineRun.ReplaceAllString(desc.TextJoin("\n"), "\n")
	return strings.TrimSpace(text)
}

// Brackets returns every bracket chip in document order
func (e *Extractor) Brackets(doc Document) []event.Bracket {
	brackets := make([]event.Bracket, 0)

	container := doc.Find(e.Layout.BracketContainer)
	if !container.Exists() {
		return brackets
	}

	for _, chip := range container.FindAll(e.Layout.BracketChip) {
		brackets = append(brackets, event.Bracket{
			Name:   chip.Find(e.Layout.BracketName).Text(),
			Format: chip.Find(e.Layout.BracketFormat).Text(),
		})
	}
	return brackets
}

// Location returns the link text of the row whose icon is the location pin
func (e *Extractor) Location(doc Document) string {
	for _, row := range doc.FindAll(e.Layout.Row) {
		icon := row.Find(e.Layout.Icon)
		if !icon.HasIcon(e.Layout.LocationIcon) {
			continue
		}
		// A pin without a link keeps the scan going
		if link := row.Find(e.Layout.RowLink); link.Exists() {
			return link.Text()
		}
	}
	return ""
}

// Dates returns the start and end dates read next to the first icon on the
// page, normalized to MM/DD/YYYY where possible.
func (e *Extractor) Dates(doc Document) (start, end string) {
	icon := doc.Find(e.Layout.Icon)
	if !icon.Exists() {
		return "", ""
	}

	start, end = splitRange(icon.SiblingText())
	return event.NormalizeDate(start), event.NormalizeDate(end)
}

// Times returns the start and end times from the row holding the clock icon.
// Times are passed through as written.
func (e *Extractor) Times(doc Document) (start, end string) {
	for _, icon := range doc.FindAll(e.Layout.Icon) {
		if !icon.HasIcon(e.Layout.ClockIcon) {
			continue
		}
		return splitRange(icon.Parent().TextJoin(" "))
	}
	return "", ""
}

// Record runs every extractor and assembles the result
func (e *Extractor) Record(doc Document, link string) *event.Record {
	startDate, endDate := e.Dates(doc)
	startTime, endTime := e.Times(doc)

	return &event.Record{
		Title:       e.Title(doc),
		StartDate:   startDate,
		EndDate:     endDate,
		StartTime:   startTime,
		EndTime:     endTime,
		Location:    e.Location(doc),
		EventLink:   link,
		Description: e.Description(doc),
		Brackets:    e.Brackets(doc),
	}
}

// splitRange splits "a - b" into its two trimmed halves. Text without a
// hyphen is returned as both halves.
func splitRange(text string) (string, string) {
	text = strings.TrimSpace(text)
	if !strings.Contains(text, "-") {
		return text, text
	}
	parts := strings.Split(text, "-")
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
}
