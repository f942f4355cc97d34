// Package store persists the tracker's data file.
//
// The entire state is one JSON document keyed by company name. The
// on-disk format (plain JSON, 4-space indent) is shared with the
// original Python version of the tracker, so existing work_data.json
// files keep working unchanged.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mmr-tortoise/worklog/internal/model"
)

// DefaultFileName is the data file name used when no explicit path is
// configured. Relative to the working directory, like the original.
const DefaultFileName = "work_data.json"

// Store reads and writes the work data document at a fixed path.
type Store struct {
	path string
}

// New creates a Store for the given data file path. An empty path
// falls back to DefaultFileName.
func New(path string) *Store {
	if path == "" {
		path = DefaultFileName
	}
	return &Store{path: path}
}

// Path returns the data file path this store operates on.
func (s *Store) Path() string {
	return s.path
}

// Load reads the data file. A missing file is not an error: it yields
// an empty document, exactly like a first run.
func (s *Store) Load() (model.WorkData, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.WorkData{}, nil
		}
		return nil, fmt.Errorf("failed to read data file %s: %w", s.path, err)
	}

	var data model.WorkData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse data file %s: %w", s.path, err)
	}

	// Normalize nil inner structures so callers can index them freely.
	for _, company := range data {
		if company.Log == nil {
			company.Log = map[string]*model.LogEntry{}
		}
		if company.Tasks == nil {
			company.Tasks = []model.Task{}
		}
	}

	return data, nil
}

// Save writes the document back with 4-space indentation and a trailing
// newline. The parent directory is created if needed.
func (s *Store) Save(data model.WorkData) error {
	raw, err := json.MarshalIndent(data, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to serialize work data: %w", err)
	}
	raw = append(raw, '\n')

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create data directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write data file %s: %w", s.path, err)
	}
	return nil
}
