// Package storage manages the files event-csv reads and writes.
//
// Exports are spooled into uniquely named files, one per request, so
// concurrent downloads never share a path. The caller releases each file once
// it has been sent. Record JSON, either one object or an array, is loaded and
// saved here as well.
package storage
