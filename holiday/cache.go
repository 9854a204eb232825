// Package holiday caches public holiday data per year.
//
// Each year is fetched from the configured Source at most once per
// process. A failed fetch is absorbed: it is logged, the year is cached
// as having no holidays, and no retry happens until restart. That keeps
// a flaky network from stalling every month view at the cost of blank
// holidays for the affected year.
package holiday

import (
	"context"
	"log/slog"
	"strconv"
	"sync"

	"github.com/samber/mo"
)

// Source provides the date -> name holiday mapping for a year.
type Source interface {
	Fetch(ctx context.Context, year int) (map[string]string, error)
}

// Cache memoizes per-year holiday lookups.
type Cache struct {
	mu     sync.Mutex
	source Source
	logger *slog.Logger
	years  map[int]map[string]string
}

// NewCache creates a cache backed by source.
func NewCache(source Source, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		source: source,
		logger: logger,
		years:  make(map[int]map[string]string),
	}
}

// Holidays returns the date -> name mapping for year, fetching it on
// first request. The returned map is a copy; mutating it does not
// affect the cache.
func (c *Cache) Holidays(ctx context.Context, year int) map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()

	cached, ok := c.years[year]
	if !ok {
		fetched, err := c.source.Fetch(ctx, year)
		if err != nil {
			c.logger.Warn("holiday fetch failed, caching empty year",
				"year", year, "err", err)
			fetched = map[string]string{}
		}
		if fetched == nil {
			fetched = map[string]string{}
		}
		c.years[year] = fetched
		cached = fetched
	}

	out := make(map[string]string, len(cached))
	for date, name := range cached {
		out[date] = name
	}
	return out
}

// Name looks up the holiday name for an ISO date, fetching that date's
// year if needed. Returns None for non-holidays and unparseable dates.
func (c *Cache) Name(ctx context.Context, date string) mo.Option[string] {
	if len(date) < 4 {
		return mo.None[string]()
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return mo.None[string]()
	}
	if name, ok := c.Holidays(ctx, year)[date]; ok {
		return mo.Some(name)
	}
	return mo.None[string]()
}
