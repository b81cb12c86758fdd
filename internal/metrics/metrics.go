// Package metrics holds the Prometheus collectors for scrapes and exports.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Scrape outcomes
const (
	OutcomeOK       = "ok"
	OutcomeNotReady = "not_ready"
	OutcomeError    = "error"
)

// Metrics groups the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	scrapes        *prometheus.CounterVec
	scrapeDuration prometheus.Histogram
	fieldMisses    *prometheus.CounterVec
	exports        *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
// Pass prometheus.DefaultRegisterer to expose them on the default handler.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		scrapes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "eventcsv",
			Name:      "scrapes_total",
			Help:      "Event page scrapes by outcome",
		}, []string{"outcome"}),
		scrapeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "eventcsv",
			Name:      "scrape_duration_seconds",
			Help:      "Time spent loading and extracting an event page",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30},
		}),
		fieldMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "eventcsv",
			Name:      "field_misses_total",
			Help:      "Fields that came back empty from an otherwise loaded page",
		}, []string{"field"}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "eventcsv",
			Name:      "exports_total",
			Help:      "Records exported by format",
		}, []string{"format"}),
	}

	reg.MustRegister(m.scrapes, m.scrapeDuration, m.fieldMisses, m.exports)
	return m
}

// ObserveScrape records one finished scrape
func (m *Metrics) ObserveScrape(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.scrapes.WithLabelValues(outcome).Inc()
	m.scrapeDuration.Observe(d.Seconds())
}

// FieldMiss counts a field that extracted to an empty value
func (m *Metrics) FieldMiss(field string) {
	if m == nil {
		return
	}
	m.fieldMisses.WithLabelValues(field).Inc()
}

// Export counts one exported record
func (m *Metrics) Export(format string) {
	if m == nil {
		return
	}
	m.exports.WithLabelValues(format).Inc()
}
