package main

import (
	"fmt"
	"os"

	"github.com/pfrederiksen/event-csv/internal/calendar"
	"github.com/pfrederiksen/event-csv/internal/event"
)

func main() {
	// Create a sample event
	rec := &event.Record{
		Title:       "Spring Breaking Major 2025",
		StartDate:   event.NormalizeDate("March 14th, 2025"),
		EndDate:     event.NormalizeDate("March 16th, 2025"),
		StartTime:   "10:00 AM",
		EndTime:     "8:00 PM",
		Location:    "Pier 17, New York, NY",
		EventLink:   "https://example.com/events/spring-major",
		Description: "Three days of breaking on the water.\nRegistration closes March 10.",
		Brackets: []event.Bracket{
			{Name: "Bboy Open", Format: "1v1"},
			{Name: "Crew Clash", Format: "3v3"},
		},
	}

	csvContent, err := calendar.GenerateCSV(rec)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating CSV: %v\n", err)
		os.Exit(1)
	}
	icsContent, err := calendar.GenerateICS(rec)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating ICS: %v\n", err)
		os.Exit(1)
	}

	// Write to files (owner read/write only)
	files := map[string]string{
		"test-event.csv": csvContent,
		"test-event.ics": icsContent,
	}
	for name, content := range files {
		if err := os.WriteFile(name, []byte(content), 0600); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Generated calendar file: %s\n", name)
	}

	fmt.Println("\nTest them by:")
	fmt.Println("1. Importing test-event.csv into Google Calendar or Outlook")
	fmt.Println("2. Opening test-event.ics with your calendar app")
	fmt.Println("\nCSV preview:")
	fmt.Println("---")
	fmt.Print(csvContent)
}
