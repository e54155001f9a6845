// Package checkpoint persists the last-synced date boundary between runs.
package checkpoint

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DateFormat is the on-disk and wire format for sync dates.
const DateFormat = "2006-01-02"

// Store reads and writes the last-synced date. A missing checkpoint is a
// valid initial state, reported via the second return value.
type Store interface {
	Load() (time.Time, bool, error)
	Save(day time.Time) error
}

// FileStore keeps the checkpoint as a single YYYY-MM-DD line on disk.
type FileStore struct {
	Path string
}

// Load reads the checkpoint date. ok is false when no checkpoint exists yet.
func (s *FileStore) Load() (time.Time, bool, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("reading checkpoint: %w", err)
	}

	raw := strings.TrimSpace(string(data))
	day, err := time.Parse(DateFormat, raw)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parsing checkpoint date %q: %w", raw, err)
	}
	return day, true, nil
}

// Save writes the checkpoint date, creating parent directories as needed.
func (s *FileStore) Save(day time.Time) error {
	if dir := filepath.Dir(s.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating checkpoint dir: %w", err)
		}
	}
	if err := os.WriteFile(s.Path, []byte(day.Format(DateFormat)), 0o644); err != nil {
		return fmt.Errorf("writing checkpoint: %w", err)
	}
	return nil
}
