package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/pfrederiksen/event-csv/internal/browser"
	"github.com/pfrederiksen/event-csv/internal/calendar"
	"github.com/pfrederiksen/event-csv/internal/event"
	"github.com/pfrederiksen/event-csv/internal/logger"
	"github.com/pfrederiksen/event-csv/internal/storage"
)

type formPage struct {
	URL   string
	Error string
}

type resultPage struct {
	Event       *event.Record
	Brackets    []event.Bracket
	EventJSON   string
	Description string
}

// errorBody matches the {"detail": ...} shape API clients expect
type errorBody struct {
	Detail string `json:"detail"`
}

func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "form.html", formPage{})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		s.render(w, http.StatusBadRequest, "form.html", formPage{Error: "could not read the form"})
		return
	}

	url := strings.TrimSpace(r.PostFormValue("event_url"))
	if url == "" {
		s.render(w, http.StatusBadRequest, "form.html", formPage{Error: "event_url is required"})
		return
	}

	rec, err := s.scraper.Scrape(r.Context(), url)
	if err != nil {
		msg := err.Error()
		if errors.Is(err, browser.ErrNotReady) {
			msg = "The event page did not finish loading. Check the link and try again."
		}
		s.render(w, http.StatusBadGateway, "form.html", formPage{URL: url, Error: msg})
		return
	}

	data, err := json.Marshal(rec)
	if err != nil {
		s.render(w, http.StatusInternalServerError, "form.html", formPage{URL: url, Error: err.Error()})
		return
	}

	s.render(w, http.StatusOK, "result.html", resultPage{
		Event:       rec,
		Brackets:    rec.ValidBrackets(),
		EventJSON:   string(data),
		Description: calendar.ComposeDescription(rec),
	})
}

// handleDownloadCSV converts the record posted back from the result page
func (s *Server) handleDownloadCSV(w http.ResponseWriter, r *http.Request) {
	recs, ok := s.formRecords(w, r)
	if !ok {
		return
	}

	out, err := calendar.GenerateCSV(recs...)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.countExports("csv", len(recs))
	writeAttachment(w, "text/csv", "event.csv", out)
}

func (s *Server) handleDownloadICS(w http.ResponseWriter, r *http.Request) {
	recs, ok := s.formRecords(w, r)
	if !ok {
		return
	}

	var (
		out string
		err error
	)
	if len(recs) == 1 {
		out, err = calendar.GenerateICS(recs[0])
	} else {
		out, err = calendar.GenerateBulkICS(recs, "")
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.countExports("ics", len(recs))
	writeAttachment(w, "text/calendar", "event.ics", out)
}

func (s *Server) handleExtractEvent(w http.ResponseWriter, r *http.Request) {
	url := strings.TrimSpace(r.URL.Query().Get("url"))
	if url == "" {
		writeError(w, http.StatusBadRequest, errors.New("url query parameter is required"))
		return
	}

	rec, err := s.scraper.Scrape(r.Context(), url)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// handleDownloadCSVFile spools the CSV to its own file, streams it and
// removes the file once the response is written.
func (s *Server) handleDownloadCSVFile(w http.ResponseWriter, r *http.Request) {
	recs, err := storage.DecodeRecords(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	rows := make([]calendar.Row, 0, len(recs))
	for _, rec := range recs {
		rows = append(rows, calendar.BuildRow(rec))
	}

	file, err := s.store.Spool(".csv", func(out io.Writer) error {
		return calendar.WriteCSV(out, rows...)
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	defer func() {
		if err := file.Release(); err != nil {
			s.log.Warn("export file not removed", logger.Fields{"path": file.Path, "error": err.Error()})
		}
	}()

	f, err := os.Open(file.Path)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, f); err != nil {
		s.log.Warn("export stream interrupted", logger.Fields{"path": file.Path, "error": err.Error()})
		return
	}
	s.countExports("csv", len(recs))
}

// formRecords reads the event_json form field. On failure the 400 response
// has already been written.
func (s *Server) formRecords(w http.ResponseWriter, r *http.Request) ([]*event.Record, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return nil, false
	}

	raw := r.PostFormValue("event_json")
	if strings.TrimSpace(raw) == "" {
		writeError(w, http.StatusBadRequest, errors.New("event_json is required"))
		return nil, false
	}

	recs, err := storage.DecodeRecords(strings.NewReader(raw))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return nil, false
	}
	return recs, true
}

func (s *Server) countExports(format string, n int) {
	for i := 0; i < n; i++ {
		s.metrics.Export(format)
	}
}

func (s *Server) render(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		s.log.Error("template render failed", logger.Fields{"template": name}, err)
	}
}

func writeAttachment(w http.ResponseWriter, contentType, filename, body string) {
	w.Header().Set("Content-Type", contentType+"; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorBody{Detail: err.Error()})
}
