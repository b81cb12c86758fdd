package event

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestGenerateID(t *testing.T) {
	tests := []struct {
		name  string
		link  string
		title string
	}{
		{
			name:  "same input produces same ID",
			link:  "https://example.com/events/spring-major",
			title: "Spring Major 2025",
		},
		{
			name:  "empty title",
			link:  "https://example.com/events/1",
			title: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := GenerateID(tt.link, tt.title)
			id2 := GenerateID(tt.link, tt.title)

			if id1 != id2 {
				t.Errorf("GenerateID should be deterministic, got different IDs: %s vs %s", id1, id2)
			}

			if len(id1) != 40 { // SHA1 produces 40 hex characters
				t.Errorf("expected ID length of 40, got %d", len(id1))
			}
		})
	}
}

func TestGenerateID_DiffersByLink(t *testing.T) {
	a := GenerateID("https://example.com/a", "Same Title")
	b := GenerateID("https://example.com/b", "Same Title")
	if a == b {
		t.Error("GenerateID should differ for different links")
	}
}

func TestRecord_ValidBrackets(t *testing.T) {
	rec := &Record{
		Brackets: []Bracket{
			{Name: "Main", Format: "1v1"},
			{Name: "", Format: "2v2"},
			{Name: "Side", Format: ""},
			{Name: "Crew", Format: "3v3"},
		},
	}

	got := rec.ValidBrackets()
	if len(got) != 2 {
		t.Fatalf("ValidBrackets() returned %d brackets, want 2", len(got))
	}
	if got[0].Name != "Main" || got[1].Name != "Crew" {
		t.Errorf("ValidBrackets() = %v, want Main then Crew", got)
	}

	// The record itself keeps incomplete pairs
	if len(rec.Brackets) != 4 {
		t.Errorf("record brackets mutated: %d", len(rec.Brackets))
	}
}

func TestBracket_String(t *testing.T) {
	b := Bracket{Name: "A", Format: "1v1"}
	if got := b.String(); got != "A (1v1)" {
		t.Errorf("Bracket.String() = %q, want %q", got, "A (1v1)")
	}
}

func TestRecord_JSONFieldNames(t *testing.T) {
	rec := Record{
		Title:     "Spring Major",
		StartDate: "01/05/2025",
		EventLink: "http://x",
		Brackets:  []Bracket{},
	}

	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	for _, key := range []string{`"title"`, `"start_date"`, `"end_date"`, `"start_time"`, `"end_time"`, `"location"`, `"event_link"`, `"description"`, `"brackets":[]`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("JSON %s missing %s", data, key)
		}
	}
}
