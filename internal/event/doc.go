// Package event provides the record type extracted from an event page.
//
// A Record is built once per fetched page and handed on unchanged to the
// exporters. Dates are normalized to MM/DD/YYYY when they can be parsed and
// kept as-is otherwise; times are kept as free text.
package event
