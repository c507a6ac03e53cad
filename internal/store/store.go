// Package store reads and writes resource snapshots in the data directory.
// Each resource kind lives in its own JSON document holding a single object
// whose only key names the kind, e.g. {"subreddits": [...]}.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"github.com/klauern/redditmigrate/internal/logging"
	"github.com/klauern/redditmigrate/internal/model"
	"github.com/klauern/redditmigrate/internal/ui"
)

// ErrMissingFile is returned by Load when a snapshot has not been downloaded.
var ErrMissingFile = errors.New("doesn't exist")

// Store reads and writes snapshots under one directory.
type Store struct {
	dir       string
	confirmer ui.Confirmer
	force     bool
}

// New creates a store rooted at dir. Existing files are only replaced after
// confirmer agrees, unless force is set.
func New(dir string, confirmer ui.Confirmer, force bool) *Store {
	return &Store{dir: dir, confirmer: confirmer, force: force}
}

// Path returns the snapshot path for kind.
func (s *Store) Path(kind model.Kind) string {
	return filepath.Join(s.dir, kind.FileName())
}

// LedgerPath returns the path of the skipped resources file.
func (s *Store) LedgerPath() string {
	return filepath.Join(s.dir, model.SkippedResourcesFile)
}

// Save writes records as the snapshot for kind. It reports false without
// error when the file exists and the user declines to overwrite it.
func Save[T any](s *Store, kind model.Kind, records []T) (bool, error) {
	if records == nil {
		records = []T{}
	}
	return s.write(s.Path(kind), map[string][]T{kind.Key(): records})
}

// Load reads the snapshot for kind. A missing file is reported as
// ErrMissingFile and never as an empty list.
func Load[T any](s *Store, kind model.Kind) ([]T, error) {
	path := s.Path(kind)

	// #nosec G304 - path is built from the configured data directory
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s %w", path, ErrMissingFile)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	raw, ok := doc[kind.Key()]
	if !ok {
		return nil, fmt.Errorf("failed to parse %s: missing %q key", path, kind.Key())
	}

	var records []T
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if records == nil {
		records = []T{}
	}

	logging.Debug("loaded snapshot", logging.Kind(kind.String()), logging.Path(path), logging.Count(len(records)))
	return records, nil
}

// WriteLedger writes the skipped resources file and returns its path.
func (s *Store) WriteLedger(ledger *model.SkipLedger) (string, bool, error) {
	path := s.LedgerPath()
	written, err := s.write(path, ledger)
	return path, written, err
}

func (s *Store) write(path string, doc any) (bool, error) {
	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return false, fmt.Errorf("failed to create data directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil && !s.force {
		ok, err := s.confirmer.Confirm(fmt.Sprintf("%s already exists. Do you want to overwrite it?", path))
		if err != nil {
			return false, err
		}
		if !ok {
			logging.Info("kept existing file", logging.Path(path))
			return false, nil
		}
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return false, fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}

	logging.Debug("wrote file", logging.Path(path))
	return true, nil
}
