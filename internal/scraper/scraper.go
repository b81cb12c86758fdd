package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/pfrederiksen/event-csv/internal/browser"
	"github.com/pfrederiksen/event-csv/internal/dom"
	"github.com/pfrederiksen/event-csv/internal/event"
	"github.com/pfrederiksen/event-csv/internal/logger"
	"github.com/pfrederiksen/event-csv/internal/metrics"
)

// Stage is a step of a single scrape
type Stage int

const (
	StageIdle Stage = iota
	StageFetching
	StageLoaded
	StageExtracting
	StageAssembled
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageFetching:
		return "fetching"
	case StageLoaded:
		return "loaded"
	case StageExtracting:
		return "extracting"
	case StageAssembled:
		return "assembled"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// Error reports the stage at which a scrape was abandoned
type Error struct {
	Stage Stage
	URL   string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Stage, e.URL, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Scraper loads an event page and turns it into an event.Record
type Scraper struct {
	renderer  browser.Renderer
	extractor *Extractor
	timeout   time.Duration
	log       *logger.Logger
	metrics   *metrics.Metrics
}

// Option configures a Scraper
type Option func(*Scraper)

// WithLayout replaces DefaultLayout
func WithLayout(layout Layout) Option {
	return func(s *Scraper) { s.extractor = NewExtractor(layout) }
}

// WithTimeout bounds the wait for the page to become ready
func WithTimeout(d time.Duration) Option {
	return func(s *Scraper) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithLogger sets the logger used for stage transitions
func WithLogger(l *logger.Logger) Option {
	return func(s *Scraper) { s.log = l }
}

// WithMetrics sets the collectors scrapes are recorded in
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Scraper) { s.metrics = m }
}

// New creates a new Scraper instance
func New(renderer browser.Renderer, opts ...Option) *Scraper {
	s := &Scraper{
		renderer:  renderer,
		extractor: NewExtractor(DefaultLayout),
		timeout:   browser.DefaultTimeout,
		log:       logger.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scrape renders url, waits for the page to be ready and extracts a record.
// A render failure or readiness timeout aborts the scrape; no partial
// record is ever returned.
func (s *Scraper) Scrape(ctx context.Context, url string) (*event.Record, error) {
	started := time.Now()
	stage := StageIdle
	advance := func(next Stage) {
		s.log.Debug("scrape stage", logger.Fields{"url": url, "from": stage.String(), "to": next.String()})
		stage = next
	}

	advance(StageFetching)
	markup, err := s.renderer.Render(ctx, url, s.extractor.Layout.Ready, s.timeout)
	if err != nil {
		outcome := metrics.OutcomeError
		if errors.Is(err, browser.ErrNotReady) {
			outcome = metrics.OutcomeNotReady
		}
		s.metrics.ObserveScrape(outcome, time.Since(started))
		s.log.Error("event page fetch failed", logger.Fields{"url": url, "outcome": outcome}, err)
		return nil, &Error{Stage: stage, URL: url, Err: err}
	}

	advance(StageLoaded)
	doc, err := dom.ParseString(markup)
	if err != nil {
		s.metrics.ObserveScrape(metrics.OutcomeError, time.Since(started))
		return nil, &Error{Stage: stage, URL: url, Err: err}
	}

	advance(StageExtracting)
	rec := s.extractor.Record(doc, url)
	s.recordMisses(rec)

	advance(StageAssembled)
	s.metrics.ObserveScrape(metrics.OutcomeOK, time.Since(started))
	s.log.Info("event scraped", logger.Fields{
		"url":      url,
		"title":    rec.Title,
		"brackets": len(rec.Brackets),
		"duration": time.Since(started).String(),
	})

	return rec, nil
}

// Parse extracts a record from rendered markup using DefaultLayout
func Parse(r io.Reader, sourceURL string) (*event.Record, error) {
	doc, err := dom.Parse(r)
	if err != nil {
		return nil, err
	}
	return NewExtractor(DefaultLayout).Record(doc, sourceURL), nil
}

// recordMisses counts the fields that came back empty
func (s *Scraper) recordMisses(rec *event.Record) {
	fields := map[string]string{
		"title":       rec.Title,
		"description": rec.Description,
		"location":    rec.Location,
		"start_date":  rec.StartDate,
		"start_time":  rec.StartTime,
	}
	for name, value := range fields {
		if value == "" {
			s.metrics.FieldMiss(name)
		}
	}
	if len(rec.Brackets) == 0 {
		s.metrics.FieldMiss("brackets")
	}
}
