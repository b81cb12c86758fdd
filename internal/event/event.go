package event

import (
	"crypto/sha1"
	"fmt"
	"strings"
)

// Bracket is one sub-competition listed on an event page
type Bracket struct {
	Name   string `json:"name"`
	Format string `json:"format"`
}

// Record holds everything extracted from a single event page.
// Missing fields are empty strings; Brackets is an empty slice, never nil,
// once produced by the scraper.
type Record struct {
	Title       string    `json:"title"`
	StartDate   string    `json:"start_date"` // MM/DD/YYYY, or the unparsed text
	EndDate     string    `json:"end_date"`
	StartTime   string    `json:"start_time"` // free text, not normalized
	EndTime     string    `json:"end_time"`
	Location    string    `json:"location"`
	EventLink   string    `json:"event_link"`
	Description string    `json:"description"`
	Brackets    []Bracket `json:"brackets"`
}

// GenerateID creates a deterministic ID for an event based on its link and title
func GenerateID(link, title string) string {
	h := sha1.New()
	h.Write([]byte(strings.TrimSpace(link) + "|" + strings.TrimSpace(title)))
	return fmt.Sprintf("%x", h.Sum(nil))
}

// ID returns the deterministic identifier of the record
func (r *Record) ID() string {
	return GenerateID(r.EventLink, r.Title)
}

// ValidBrackets returns the brackets that have both a name and a format,
// in their original order.
func (r *Record) ValidBrackets() []Bracket {
	valid := make([]Bracket, 0, len(r.Brackets))
	for _, b := range r.Brackets {
		if b.Name != "" && b.Format != "" {
			valid = append(valid, b)
		}
	}
	return valid
}

// String formats a bracket the way it appears in calendar descriptions
func (b Bracket) String() string {
	return fmt.Sprintf("%s (%s)", b.Name, b.Format)
}
