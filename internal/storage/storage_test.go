package storage

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/pfrederiksen/event-csv/internal/event"
)

func TestNew(t *testing.T) {
	tmpDir := t.TempDir()
	dir := filepath.Join(tmpDir, "nested", "exports")

	s, err := New(dir)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if s.Dir() != dir {
		t.Errorf("Dir() = %q, want %q", s.Dir(), dir)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("New() should create %s", dir)
	}
}

func TestNew_DefaultsToTempDir(t *testing.T) {
	s, err := New("")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if s.Dir() != os.TempDir() {
		t.Errorf("Dir() = %q, want %q", s.Dir(), os.TempDir())
	}
}

func TestSpool(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	file, err := s.Spool(".csv", func(w io.Writer) error {
		_, err := io.WriteString(w, "\"Subject\"\n")
		return err
	})
	if err != nil {
		t.Fatalf("Spool() error: %v", err)
	}

	if !strings.HasSuffix(file.Name, ".csv") {
		t.Errorf("Name = %q, want .csv suffix", file.Name)
	}
	if filepath.Base(file.Path) != file.Name {
		t.Errorf("Name %q does not match Path %q", file.Name, file.Path)
	}

	data, err := os.ReadFile(file.Path)
	if err != nil {
		t.Fatalf("reading spooled file: %v", err)
	}
	if string(data) != "\"Subject\"\n" {
		t.Errorf("content = %q", data)
	}

	if err := file.Release(); err != nil {
		t.Fatalf("Release() error: %v", err)
	}
	if _, err := os.Stat(file.Path); !os.IsNotExist(err) {
		t.Error("Release() should remove the file")
	}
	if err := file.Release(); err != nil {
		t.Errorf("second Release() error: %v", err)
	}
}

func TestSpool_WriteFailureRemovesFile(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	boom := errors.New("boom")
	_, err = s.Spool(".csv", func(w io.Writer) error {
		io.WriteString(w, "partial")
		return boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("Spool() error = %v, want %v", err, boom)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("partial export left behind: %d files", len(entries))
	}
}

func TestSpool_ConcurrentFilesAreIsolated(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	const n = 20
	var wg sync.WaitGroup
	paths := make(chan string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			file, err := s.Spool(".csv", func(w io.Writer) error { return nil })
			if err != nil {
				t.Errorf("Spool() error: %v", err)
				return
			}
			paths <- file.Path
		}()
	}
	wg.Wait()
	close(paths)

	seen := make(map[string]bool)
	for p := range paths {
		if seen[p] {
			t.Errorf("path %s handed out twice", p)
		}
		seen[p] = true
	}
	if len(seen) != n {
		t.Errorf("got %d distinct files, want %d", len(seen), n)
	}
}

func TestDecodeRecords(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantCount int
		wantTitle string
		wantErr   bool
	}{
		{
			name:      "single object",
			input:     `{"title":"Spring Major","start_date":"03/14/2025","brackets":[{"name":"Open","format":"1v1"}]}`,
			wantCount: 1,
			wantTitle: "Spring Major",
		},
		{
			name:      "array",
			input:     `[{"title":"One"},{"title":"Two"}]`,
			wantCount: 2,
			wantTitle: "One",
		},
		{
			name:      "surrounding whitespace",
			input:     "\n  {\"title\":\"Padded\"}\n",
			wantCount: 1,
			wantTitle: "Padded",
		},
		{name: "empty input", input: "  ", wantErr: true},
		{name: "empty array", input: "[]", wantErr: true},
		{name: "null", input: "null", wantErr: true},
		{name: "null element", input: "[null]", wantErr: true},
		{name: "invalid JSON", input: "{title", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs, err := DecodeRecords(strings.NewReader(tt.input))
			if tt.wantErr {
				if err == nil {
					t.Error("DecodeRecords() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeRecords() error: %v", err)
			}
			if len(recs) != tt.wantCount {
				t.Fatalf("got %d records, want %d", len(recs), tt.wantCount)
			}
			if recs[0].Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", recs[0].Title, tt.wantTitle)
			}
			for _, rec := range recs {
				if rec.Brackets == nil {
					t.Error("Brackets should never be nil after decoding")
				}
			}
		})
	}
}

func TestSaveAndLoadRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.json")
	recs := []*event.Record{
		{
			Title:     "Spring Major",
			StartDate: "03/14/2025",
			EventLink: "https://example.com/e/1",
			Brackets:  []event.Bracket{{Name: "Open", Format: "1v1"}},
		},
	}

	if err := SaveRecords(path, recs); err != nil {
		t.Fatalf("SaveRecords() error: %v", err)
	}

	loaded, err := LoadRecords(path)
	if err != nil {
		t.Fatalf("LoadRecords() error: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("got %d records, want 1", len(loaded))
	}
	if loaded[0].ID() != recs[0].ID() {
		t.Errorf("loaded record ID = %s, want %s", loaded[0].ID(), recs[0].ID())
	}
	if len(loaded[0].Brackets) != 1 || loaded[0].Brackets[0].Format != "1v1" {
		t.Errorf("Brackets = %+v", loaded[0].Brackets)
	}
}

func TestLoadRecords_MissingFile(t *testing.T) {
	if _, err := LoadRecords(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("LoadRecords() expected error for missing file")
	}
}
