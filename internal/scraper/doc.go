// Package scraper extracts event records from rendered event pages.
//
// Each field has its own extractor that tolerates missing markup and falls
// back to an empty value. Location and time rows are told apart by the exact
// SVG path of their icon; dates are read next to the first icon on the page.
// All selectors and icon signatures live in Layout.
//
// Scraper ties a browser.Renderer to the extractors: it waits for the page to
// become ready, fails if it does not, and otherwise always returns a record.
package scraper
