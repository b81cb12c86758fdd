// Package cli implements the command-line interface for event-csv.
//
// The cli package provides the Cobra-based commands: fetch scrapes one event
// page and prints the record as text, JSON, CSV or iCalendar; convert turns
// saved record JSON into a calendar file; serve runs the web form and JSON
// API. Configuration comes from the config package with flags applied last.
package cli
