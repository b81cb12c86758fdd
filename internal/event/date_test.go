package event

import (
	"testing"
	"time"
)

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name     string
		dateText string
		want     string
	}{
		{
			name:     "Full month with ordinal",
			dateText: "January 5th, 2025",
			want:     "01/05/2025",
		},
		{
			name:     "Abbreviated month with ordinal",
			dateText: "Jan 5th, 2025",
			want:     "01/05/2025",
		},
		{
			name:     "No ordinal",
			dateText: "January 5, 2025",
			want:     "01/05/2025",
		},
		{
			name:     "1st suffix",
			dateText: "March 1st, 2026",
			want:     "03/01/2026",
		},
		{
			name:     "22nd suffix",
			dateText: "Feb 22nd, 2025",
			want:     "02/22/2025",
		},
		{
			name:     "3rd suffix",
			dateText: "October 3rd, 2024",
			want:     "10/03/2024",
		},
		{
			name:     "Surrounding whitespace",
			dateText: "  December 31st, 2025 ",
			want:     "12/31/2025",
		},
		{
			name:     "Empty string",
			dateText: "",
			want:     "",
		},
		{
			name:     "Unparseable passthrough",
			dateText: "garbage",
			want:     "garbage",
		},
		{
			name:     "Unparseable keeps text but drops ordinals",
			dateText: "Saturday the 5th",
			want:     "Saturday the 5",
		},
		{
			name:     "Missing year",
			dateText: "January 5th",
			want:     "January 5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeDate(tt.dateText); got != tt.want {
				t.Errorf("NormalizeDate(%q) = %q, want %q", tt.dateText, got, tt.want)
			}
		})
	}
}

func TestNormalizeDate_Idempotent(t *testing.T) {
	inputs := []string{
		"January 5th, 2025",
		"Jan 5th, 2025",
		"garbage",
		"Saturday the 5th",
		"",
		"01/05/2025",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			once := NormalizeDate(in)
			twice := NormalizeDate(once)
			if once != twice {
				t.Errorf("NormalizeDate not idempotent for %q: %q then %q", in, once, twice)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name      string
		dateText  string
		wantYear  int
		wantMonth time.Month
		wantDay   int
		wantZero  bool
	}{
		{
			name:      "Normalized date",
			dateText:  "01/05/2025",
			wantYear:  2025,
			wantMonth: time.January,
			wantDay:   5,
		},
		{
			name:      "End of year",
			dateText:  "12/31/2026",
			wantYear:  2026,
			wantMonth: time.December,
			wantDay:   31,
		},
		{
			name:     "Unnormalized text",
			dateText: "January 5",
			wantZero: true,
		},
		{
			name:     "Empty string",
			dateText: "",
			wantZero: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDate(tt.dateText)

			if tt.wantZero {
				if !got.IsZero() {
					t.Errorf("ParseDate(%q) = %v, want zero time", tt.dateText, got)
				}
				return
			}

			if got.Year() != tt.wantYear {
				t.Errorf("ParseDate(%q).Year() = %d, want %d", tt.dateText, got.Year(), tt.wantYear)
			}
			if got.Month() != tt.wantMonth {
				t.Errorf("ParseDate(%q).Month() = %v, want %v", tt.dateText, got.Month(), tt.wantMonth)
			}
			if got.Day() != tt.wantDay {
				t.Errorf("ParseDate(%q).Day() = %d, want %d", tt.dateText, got.Day(), tt.wantDay)
			}
		})
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		timeText   string
		wantHour   int
		wantMinute int
		wantOK     bool
	}{
		{"10:00 AM", 10, 0, true},
		{"6:30 pm", 18, 30, true},
		{"7PM", 19, 0, true},
		{"11 AM", 11, 0, true},
		{"18:45", 18, 45, true},
		{"noonish", 0, 0, false},
		{"", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.timeText, func(t *testing.T) {
			hour, minute, ok := ParseClock(tt.timeText)
			if ok != tt.wantOK {
				t.Fatalf("ParseClock(%q) ok = %v, want %v", tt.timeText, ok, tt.wantOK)
			}
			if hour != tt.wantHour || minute != tt.wantMinute {
				t.Errorf("ParseClock(%q) = %d:%02d, want %d:%02d", tt.timeText, hour, minute, tt.wantHour, tt.wantMinute)
			}
		})
	}
}
