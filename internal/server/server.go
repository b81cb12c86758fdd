// Package server is the HTTP front end of event-csv.
//
// It serves a small form where a user pastes an event URL, shows the
// extracted record and offers it as a CSV or iCalendar download. The same
// operations are exposed as a JSON API for scripts.
package server

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pfrederiksen/event-csv/internal/event"
	"github.com/pfrederiksen/event-csv/internal/logger"
	"github.com/pfrederiksen/event-csv/internal/metrics"
	"github.com/pfrederiksen/event-csv/internal/storage"
)

//go:embed templates/*.html
var templateFS embed.FS

// maxBodyBytes caps form and JSON request bodies
const maxBodyBytes = 1 << 20

// Scraper turns an event URL into a record
type Scraper interface {
	Scrape(ctx context.Context, url string) (*event.Record, error)
}

// Deps are the collaborators a Server needs. Logger, Metrics and Gatherer
// are optional.
type Deps struct {
	Scraper  Scraper
	Storage  *storage.Storage
	Logger   *logger.Logger
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
}

type Server struct {
	addr       string
	scraper    Scraper
	store      *storage.Storage
	log        *logger.Logger
	metrics    *metrics.Metrics
	templates  *template.Template
	handler    http.Handler
	httpServer *http.Server
}

// New wires the routes. It panics only if the embedded templates are broken.
func New(addr string, deps Deps) *Server {
	s := &Server{
		addr:      addr,
		scraper:   deps.Scraper,
		store:     deps.Storage,
		log:       deps.Logger,
		metrics:   deps.Metrics,
		templates: template.Must(template.ParseFS(templateFS, "templates/*.html")),
	}
	if s.log == nil {
		s.log = logger.Default()
	}
	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleForm)
	mux.HandleFunc("POST /submit", s.handleSubmit)
	mux.HandleFunc("POST /download-csv", s.handleDownloadCSV)
	mux.HandleFunc("POST /download-ics", s.handleDownloadICS)
	mux.HandleFunc("POST /extract-event/{$}", s.handleExtractEvent)
	mux.HandleFunc("POST /download-csv/{$}", s.handleDownloadCSVFile)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	s.handler = s.withRequestLog(mux)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the routed handler, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	s.log.Info("http server starting", logger.Fields{"addr": s.addr})
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
