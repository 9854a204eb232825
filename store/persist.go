package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"deskcal/event"
)

// fileVersion identifies the current on-disk document layout.
const fileVersion = "1"

// persistenceFile is the on-disk document. Events are stored as
// rendered detail strings ("<name> at <time>\n<description>") keyed by
// ISO date, the format the application has always used, so the file
// stays human-readable and diff-friendly.
type persistenceFile struct {
	Version string              `json:"version"`
	SavedAt time.Time           `json:"saved_at"`
	Events  map[string][]string `json:"events"`
}

// FilePersister stores the event mapping as an indented JSON document.
// Writes go to a temporary file first and are renamed into place, so a
// crash mid-write never corrupts the existing file.
type FilePersister struct {
	path string
}

// NewFilePersister creates a persister writing to path. Parent
// directories are created on first save.
func NewFilePersister(path string) *FilePersister {
	return &FilePersister{path: path}
}

// Save writes the full mapping to disk.
func (p *FilePersister) Save(events map[string][]event.Record) error {
	doc := persistenceFile{
		Version: fileVersion,
		SavedAt: time.Now().UTC(),
		Events:  make(map[string][]string, len(events)),
	}
	for date, recs := range events {
		details := make([]string, 0, len(recs))
		for _, rec := range recs {
			details = append(details, rec.Detail())
		}
		doc.Events[date] = details
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal events: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	tmp := p.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write events file: %w", err)
	}
	if err := os.Rename(tmp, p.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace events file: %w", err)
	}
	return nil
}

// Load reads the mapping back from disk. A missing file returns an
// empty mapping. Files written by older versions of the application,
// which held the bare date -> details mapping without the envelope, are
// read transparently.
func (p *FilePersister) Load() (map[string][]event.Record, error) {
	// A stale temp file means a previous save never completed.
	if _, err := os.Stat(p.path + ".tmp"); err == nil {
		_ = os.Remove(p.path + ".tmp")
	}

	data, err := os.ReadFile(p.path)
	if os.IsNotExist(err) {
		return map[string][]event.Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read events file: %w", err)
	}

	var doc persistenceFile
	if uerr := json.Unmarshal(data, &doc); uerr != nil || doc.Version == "" {
		// Legacy layout: the mapping was the whole document.
		var legacy map[string][]string
		if lerr := json.Unmarshal(data, &legacy); lerr != nil {
			if uerr == nil {
				uerr = lerr
			}
			return nil, fmt.Errorf("decode events file: %w", uerr)
		}
		doc.Events = legacy
	}

	events := make(map[string][]event.Record, len(doc.Events))
	for date, details := range doc.Events {
		recs := make([]event.Record, 0, len(details))
		for _, detail := range details {
			rec, err := event.ParseDetail(detail)
			if err != nil {
				return nil, fmt.Errorf("decode events file: date %s: %w", date, err)
			}
			recs = append(recs, rec)
		}
		events[date] = recs
	}
	return events, nil
}
