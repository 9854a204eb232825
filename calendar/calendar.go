// Package calendar is the application core behind the UI: it owns the
// event store, the holiday cache, and the month view, and exposes the
// operations the presentation layer calls.
package calendar

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"deskcal/dateutil"
	"deskcal/event"
	"deskcal/holiday"
	"deskcal/recurrence"
	"deskcal/store"
	"deskcal/view"
)

// Calendar wires the core components together. All state lives here or
// in the owned components; there are no package-level globals.
type Calendar struct {
	events   *store.Store
	holidays *holiday.Cache
	builder  *view.Builder
	resolver *view.Resolver
	logger   *slog.Logger

	mu          sync.Mutex
	lastListing *view.Listing
}

// New assembles a calendar core over the given store and holiday cache.
func New(events *store.Store, holidays *holiday.Cache, logger *slog.Logger) *Calendar {
	if logger == nil {
		logger = slog.Default()
	}
	return &Calendar{
		events:   events,
		holidays: holidays,
		builder:  view.NewBuilder(holidays, events),
		resolver: view.NewResolver(holidays, events),
		logger:   logger,
	}
}

// AddEvent validates the input, expands the recurrence rule, and
// stores one record per occurrence date. The operation is atomic:
// validation happens before any mutation, and the whole series is
// persisted in a single write. Returns the occurrence dates stored.
func (c *Calendar) AddEvent(name, date, clock, description string, rule recurrence.Rule) ([]string, error) {
	rec, err := event.New(name, clock, description)
	if err != nil {
		return nil, err
	}
	start, err := dateutil.ParseISO(date)
	if err != nil {
		return nil, err
	}

	dates, err := recurrence.Expand(start, rule)
	if err != nil {
		return nil, err
	}
	if err := c.events.AddSeries(dates, rec); err != nil {
		return nil, err
	}

	c.logger.Info("event added",
		"name", rec.Name, "start", date, "rule", rule.String(), "occurrences", len(dates))
	return dates, nil
}

// ListMonth builds the merged holiday and event listing for a month.
// The listing is remembered so that entry IDs handed to the UI stay
// resolvable until the next ListMonth call.
func (c *Calendar) ListMonth(ctx context.Context, year, month int) (*view.Listing, error) {
	if year < 1 {
		return nil, fmt.Errorf("invalid year %d: expected a year greater than 0", year)
	}
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("invalid month %d: expected 1 through 12", month)
	}

	l := c.builder.BuildListing(ctx, year, month)

	c.mu.Lock()
	c.lastListing = l
	c.mu.Unlock()
	return l, nil
}

// ViewEntry resolves a listing reference (entry ID or rendered line)
// and returns its display detail: the holiday name, or the full event
// details for the entry's date.
func (c *Calendar) ViewEntry(ctx context.Context, ref string) (string, error) {
	target, err := c.resolver.Resolve(ctx, c.currentListing(), ref)
	if err != nil {
		return "", err
	}
	return c.resolver.Detail(target)
}

// DeleteEntry resolves a listing reference and deletes the matching
// event series across every date it occurs on. Holiday entries are
// read-only. Returns the number of records removed.
func (c *Calendar) DeleteEntry(ctx context.Context, ref string) (int, error) {
	target, err := c.resolver.Resolve(ctx, c.currentListing(), ref)
	if err != nil {
		return 0, err
	}
	removed, err := c.resolver.DeleteTarget(target)
	if err != nil {
		return removed, err
	}
	c.logger.Info("event series deleted",
		"name", target.Name, "time", target.Time, "removed", removed)
	return removed, nil
}

// Holidays returns the public holidays for a year, fetching and
// caching them on first request. Fetch failures yield an empty map.
func (c *Calendar) Holidays(ctx context.Context, year int) map[string]string {
	return c.holidays.Holidays(ctx, year)
}

func (c *Calendar) currentListing() *view.Listing {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastListing
}
