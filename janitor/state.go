package janitor

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// Store persists the monitor-entry mapping and session statistics as two
// JSON documents. Every save is a full overwrite through a temp file and
// rename, so a crash mid-write never corrupts the previous state.
type Store struct {
	statePath string
	statsPath string
	logger    zerolog.Logger
}

// NewStore creates a store writing to the given file paths.
func NewStore(statePath, statsPath string, logger zerolog.Logger) *Store {
	return &Store{
		statePath: statePath,
		statsPath: statsPath,
		logger:    logger,
	}
}

// LoadEntries reads the persisted monitor entries. A missing file is not
// an error; the janitor simply starts with nothing monitored.
func (s *Store) LoadEntries() (map[string]*MonitorEntry, error) {
	data, err := os.ReadFile(s.statePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return make(map[string]*MonitorEntry), nil
		}
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	entries := make(map[string]*MonitorEntry)
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse state file: %w", err)
	}

	s.logger.Debug().Int("entries", len(entries)).Msg("Loaded monitor state")
	return entries, nil
}

// SaveEntries overwrites the state file with the given mapping.
func (s *Store) SaveEntries(entries map[string]*MonitorEntry) error {
	return writeJSON(s.statePath, entries)
}

// SaveStats overwrites the statistics file.
func (s *Store) SaveStats(stats *SessionStats) error {
	return writeJSON(s.statsPath, stats)
}

// writeJSON writes v to path atomically: temp file in the same directory,
// then rename over the target.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace %s: %w", filepath.Base(path), err)
	}
	return nil
}
