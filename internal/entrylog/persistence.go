package entrylog

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"workpulse/internal/access"
	"workpulse/internal/metrics"
)

const (
	EntriesFile = "entries.jsonl"
	RosterFile  = "roster.json"
)

// ReadEntries decodes one JSON entry per line. Blank lines are skipped; a
// malformed line fails the whole read with its line number.
func ReadEntries(r io.Reader) ([]metrics.Entry, error) {
	var entries []metrics.Entry
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		var e metrics.Entry
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading entries: %w", err)
	}
	return entries, nil
}

// WriteEntries encodes entries as JSON lines.
func WriteEntries(w io.Writer, entries []metrics.Entry) error {
	writer := bufio.NewWriter(w)
	encoder := json.NewEncoder(writer)
	for _, e := range entries {
		if err := encoder.Encode(e); err != nil {
			return fmt.Errorf("failed to encode entry: %w", err)
		}
	}
	return writer.Flush()
}

// ReadRoster decodes a directory document.
func ReadRoster(r io.Reader) (access.Roster, error) {
	var roster access.Roster
	if err := json.NewDecoder(r).Decode(&roster); err != nil {
		return access.Roster{}, fmt.Errorf("failed to decode roster: %w", err)
	}
	return roster, nil
}

// WriteRoster encodes a directory document.
func WriteRoster(w io.Writer, roster access.Roster) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(roster)
}

// ReadEntriesFile reads an entries JSONL file from disk.
func ReadEntriesFile(path string) ([]metrics.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	entries, err := ReadEntries(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return entries, nil
}

// ReadRosterFile reads a roster JSON file from disk.
func ReadRosterFile(path string) (access.Roster, error) {
	f, err := os.Open(path)
	if err != nil {
		return access.Roster{}, err
	}
	defer f.Close()
	return ReadRoster(f)
}

// Load fills the store from dir. Missing files are not an error.
func (s *Store) Load(ctx context.Context, dir string) error {
	roster, err := ReadRosterFile(filepath.Join(dir, RosterFile))
	switch {
	case err == nil:
		if err := s.PutRoster(ctx, roster); err != nil {
			return err
		}
	case !os.IsNotExist(err):
		return fmt.Errorf("failed to load roster: %w", err)
	}

	entries, err := ReadEntriesFile(filepath.Join(dir, EntriesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to load entries: %w", err)
	}
	if _, err := s.UpsertEntries(ctx, entries); err != nil {
		return err
	}

	log.Info().Str("dir", dir).Int("users", len(roster.Users)).Int("entries", len(entries)).Msg("Loaded entry log")
	return nil
}

// Save persists the store to dir, replacing both files atomically.
func (s *Store) Save(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}

	entries := s.AllEntries()
	if err := writeAtomic(filepath.Join(dir, EntriesFile), func(w io.Writer) error {
		return WriteEntries(w, entries)
	}); err != nil {
		return err
	}
	if err := writeAtomic(filepath.Join(dir, RosterFile), func(w io.Writer) error {
		return WriteRoster(w, s.Roster())
	}); err != nil {
		return err
	}

	log.Info().Str("dir", dir).Int("entries", len(entries)).Msg("Entry log saved")
	return nil
}

func writeAtomic(path string, write func(io.Writer) error) error {
	tmpPath := path + ".tmp"
	file, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	if err := write(file); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename %s: %w", filepath.Base(path), err)
	}
	return nil
}
