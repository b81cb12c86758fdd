package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pfrederiksen/event-csv/internal/event"
)

// ErrNoRecords is returned when record input holds no events
var ErrNoRecords = errors.New("no event records in input")

// Storage hands out isolated export files under one directory
type Storage struct {
	dataDir string
}

// File is one spooled export. Release removes it; calling it more than
// once is harmless.
type File struct {
	Path string
	Name string
}

// New creates a new Storage instance. An empty dataDir uses the system
// temp directory.
func New(dataDir string) (*Storage, error) {
	if dataDir == "" {
		dataDir = os.TempDir()
	}

	// Expand ~ to home directory
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{
		dataDir: dataDir,
	}, nil
}

// Dir returns the directory files are spooled in
func (s *Storage) Dir() string {
	return s.dataDir
}

// Spool writes an export into a fresh uniquely named file with the given
// extension. On any failure the partial file is removed before returning.
func (s *Storage) Spool(ext string, write func(io.Writer) error) (*File, error) {
	f, err := os.CreateTemp(s.dataDir, "event-*"+ext)
	if err != nil {
		return nil, fmt.Errorf("creating export file: %w", err)
	}
	file := &File{Path: f.Name(), Name: filepath.Base(f.Name())}

	if err := write(f); err != nil {
		f.Close()
		file.Release()
		return nil, fmt.Errorf("writing export file: %w", err)
	}
	if err := f.Close(); err != nil {
		file.Release()
		return nil, fmt.Errorf("closing export file: %w", err)
	}

	return file, nil
}

// Release removes the spooled file
func (f *File) Release() error {
	if err := os.Remove(f.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing export file: %w", err)
	}
	return nil
}

// DecodeRecords reads either a single JSON record or a JSON array of records
func DecodeRecords(r io.Reader) ([]*event.Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading records: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, ErrNoRecords
	}

	var recs []*event.Record
	if data[0] == '[' {
		if err := json.Unmarshal(data, &recs); err != nil {
			return nil, fmt.Errorf("parsing records: %w", err)
		}
	} else {
		var rec event.Record
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("parsing record: %w", err)
		}
		recs = append(recs, &rec)
	}

	if len(recs) == 0 {
		return nil, ErrNoRecords
	}
	for _, rec := range recs {
		if rec == nil {
			return nil, fmt.Errorf("parsing records: %w", ErrNoRecords)
		}
		if rec.Brackets == nil {
			rec.Brackets = []event.Bracket{}
		}
	}
	return recs, nil
}

// LoadRecords reads records from a JSON file, or from stdin when path is "-"
func LoadRecords(path string) ([]*event.Record, error) {
	if path == "-" || path == "" {
		return DecodeRecords(os.Stdin)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening records: %w", err)
	}
	defer f.Close()

	return DecodeRecords(f)
}

// SaveRecords writes records to path as indented JSON
func SaveRecords(path string, recs []*event.Record) error {
	data, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding records: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing records: %w", err)
	}

	return nil
}
