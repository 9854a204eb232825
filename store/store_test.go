package store

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deskcal/event"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.json")
	s := New(NewFilePersister(path), slog.New(slog.NewTextHandler(os.Stderr, nil)))
	require.NoError(t, s.Load())
	return s, path
}

func TestAddAndAllForMonth(t *testing.T) {
	s, _ := newTestStore(t)

	dentist := event.Record{Name: "Dentist", Time: "09:30 AM", Description: "bring card"}
	lunch := event.Record{Name: "Lunch", Time: "12:00 PM"}

	require.NoError(t, s.Add("2024-03-15", dentist))
	require.NoError(t, s.Add("2024-03-15", lunch))
	require.NoError(t, s.Add("2024-03-02", lunch))
	require.NoError(t, s.Add("2024-04-01", dentist))

	got := s.AllForMonth(2024, 3)
	require.Len(t, got, 3)
	// Date order first, insertion order within a date.
	assert.Equal(t, "2024-03-02", got[0].Date)
	assert.Equal(t, "2024-03-15", got[1].Date)
	assert.Equal(t, dentist, got[1].Record)
	assert.Equal(t, lunch, got[2].Record)

	assert.Empty(t, s.AllForMonth(2024, 5))
}

func TestAddSeriesStoresIndependentCopies(t *testing.T) {
	s, _ := newTestStore(t)

	rec := event.Record{Name: "Standup", Time: "09:00 AM"}
	dates := []string{"2024-01-01", "2024-01-08", "2024-01-15"}
	require.NoError(t, s.AddSeries(dates, rec))

	for _, date := range dates {
		recs := s.Records(date)
		require.Len(t, recs, 1)
		assert.Equal(t, rec, recs[0])
	}
	assert.Equal(t, dates, s.Dates())
}

func TestRemoveMatchingPrunesEmptyDates(t *testing.T) {
	s, _ := newTestStore(t)

	standup := event.Record{Name: "Standup", Time: "09:00 AM"}
	dentist := event.Record{Name: "Dentist", Time: "09:30 AM"}

	require.NoError(t, s.AddSeries([]string{"2024-01-01", "2024-01-08"}, standup))
	require.NoError(t, s.Add("2024-01-08", dentist))

	removed, err := s.RemoveMatching(standup.SameSeries)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	// 2024-01-01 became empty and must not linger as a key.
	assert.Equal(t, []string{"2024-01-08"}, s.Dates())
	assert.Equal(t, []event.Record{dentist}, s.Records("2024-01-08"))
}

func TestRemoveMatchingNoMatch(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.Add("2024-01-01", event.Record{Name: "A", Time: "01:00 PM"}))

	removed, err := s.RemoveMatching(func(event.Record) bool { return false })
	require.NoError(t, err)
	assert.Zero(t, removed)
	assert.Len(t, s.Records("2024-01-01"), 1)
}

func TestPersistenceRoundTrip(t *testing.T) {
	s, path := newTestStore(t)

	recs := []struct {
		date string
		rec  event.Record
	}{
		{"2024-03-15", event.Record{Name: "Dentist", Time: "09:30 AM", Description: "bring card"}},
		{"2024-03-15", event.Record{Name: "Lunch", Time: "12:00 PM"}},
		{"2024-07-04", event.Record{Name: "BBQ", Time: "05:00 PM", Description: "two lines\nof notes"}},
	}
	for _, r := range recs {
		require.NoError(t, s.Add(r.date, r.rec))
	}
	before := s.AllForMonth(2024, 3)

	// Fresh store reading the same file must reproduce the state exactly.
	reloaded := New(NewFilePersister(path), slog.Default())
	require.NoError(t, reloaded.Load())

	assert.Equal(t, before, reloaded.AllForMonth(2024, 3))
	assert.Equal(t, s.AllForMonth(2024, 7), reloaded.AllForMonth(2024, 7))
	assert.Equal(t, s.Dates(), reloaded.Dates())
}

func TestLoadLegacyFileLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	legacy := `{
  "2024-03-15": ["Dentist at 09:30 AM\nbring card"],
  "2024-03-16": []
}`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	s := New(NewFilePersister(path), slog.Default())
	require.NoError(t, s.Load())

	got := s.Records("2024-03-15")
	require.Len(t, got, 1)
	assert.Equal(t, event.Record{Name: "Dentist", Time: "09:30 AM", Description: "bring card"}, got[0])

	// Empty sequences from hand-edited files are dropped on load.
	assert.Equal(t, []string{"2024-03-15"}, s.Dates())
}

func TestLoadMissingFileStartsEmpty(t *testing.T) {
	s := New(NewFilePersister(filepath.Join(t.TempDir(), "nope", "events.json")), slog.Default())
	require.NoError(t, s.Load())
	assert.Empty(t, s.Dates())
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s := New(NewFilePersister(path), slog.Default())
	assert.Error(t, s.Load())
}
