// Package calendar converts event records into calendar import files.
//
// BuildRow produces the nine-column row used by calendar CSV importers and
// WriteCSV serializes rows with every field quoted. GenerateICS produces an
// iCalendar file for clients that prefer .ics imports.
package calendar
