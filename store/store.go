// Package store owns the durable mapping from calendar dates to user
// events. Dates are ISO YYYY-MM-DD strings; each date holds its records
// in insertion order. A date key exists only while it has at least one
// record. Every mutation is written through to the configured Persister
// before the call returns.
package store

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"deskcal/dateutil"
	"deskcal/event"
)

// Persister saves and restores the full date -> records mapping.
type Persister interface {
	Save(events map[string][]event.Record) error
	Load() (map[string][]event.Record, error)
}

// Store is the sole owner of stored event records.
type Store struct {
	mu        sync.RWMutex
	events    map[string][]event.Record
	persister Persister
	logger    *slog.Logger
}

// Dated pairs a record with the date it is stored under.
type Dated struct {
	Date   string
	Record event.Record
}

// New creates an empty store backed by the given persister.
func New(p Persister, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		events:    make(map[string][]event.Record),
		persister: p,
		logger:    logger,
	}
}

// Load replaces the in-memory state with the persisted one. A missing
// backing file yields an empty store, not an error.
func (s *Store) Load() error {
	loaded, err := s.persister.Load()
	if err != nil {
		return fmt.Errorf("load events: %w", err)
	}
	if loaded == nil {
		loaded = make(map[string][]event.Record)
	}
	// Drop any empty sequences a hand-edited file may contain.
	for date, recs := range loaded {
		if len(recs) == 0 {
			delete(loaded, date)
		}
	}

	s.mu.Lock()
	s.events = loaded
	s.mu.Unlock()

	s.logger.Info("event store loaded", "dates", len(loaded))
	return nil
}

// Add appends a record under the given date and persists.
func (s *Store) Add(date string, rec event.Record) error {
	return s.AddSeries([]string{date}, rec)
}

// AddSeries stores an independent copy of rec under every date, then
// persists once. The insert is all-or-nothing: if persistence fails the
// in-memory additions are rolled back.
func (s *Store) AddSeries(dates []string, rec event.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, date := range dates {
		s.events[date] = append(s.events[date], rec)
	}

	if err := s.save(); err != nil {
		for _, date := range dates {
			recs := s.events[date]
			s.events[date] = recs[:len(recs)-1]
			if len(s.events[date]) == 0 {
				delete(s.events, date)
			}
		}
		return err
	}
	return nil
}

// RemoveMatching deletes every record, on every date, for which the
// predicate holds. Dates left empty are pruned. Returns the number of
// records removed; persistence runs only when something was removed.
func (s *Store) RemoveMatching(pred func(event.Record) bool) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for date, recs := range s.events {
		kept := recs[:0:0]
		for _, rec := range recs {
			if pred(rec) {
				removed++
				continue
			}
			kept = append(kept, rec)
		}
		if len(kept) == 0 {
			delete(s.events, date)
		} else {
			s.events[date] = kept
		}
	}

	if removed == 0 {
		return 0, nil
	}
	if err := s.save(); err != nil {
		return removed, err
	}
	return removed, nil
}

// AllForMonth returns every stored record whose date falls in the given
// year and month, ordered by date, then by insertion order within each
// date.
func (s *Store) AllForMonth(year, month int) []Dated {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var dates []string
	for date := range s.events {
		if dateutil.SameMonth(date, year, month) {
			dates = append(dates, date)
		}
	}
	sort.Strings(dates)

	var out []Dated
	for _, date := range dates {
		for _, rec := range s.events[date] {
			out = append(out, Dated{Date: date, Record: rec})
		}
	}
	return out
}

// Records returns a copy of the records stored under date.
func (s *Store) Records(date string) []event.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recs := s.events[date]
	if len(recs) == 0 {
		return nil
	}
	out := make([]event.Record, len(recs))
	copy(out, recs)
	return out
}

// Dates returns all occupied dates in ascending order.
func (s *Store) Dates() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dates := make([]string, 0, len(s.events))
	for date := range s.events {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates
}

// save writes the full mapping through the persister. Caller holds the
// write lock.
func (s *Store) save() error {
	if err := s.persister.Save(s.events); err != nil {
		s.logger.Error("event store persistence failed", "err", err)
		return fmt.Errorf("persist events: %w", err)
	}
	return nil
}
