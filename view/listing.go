// Package view builds the per-month listing shown to the user and maps
// listing entries back to the stored data they came from.
//
// Every entry carries an opaque generated ID next to its rendered
// label. Callers that kept the entry around resolve by ID, which needs
// no text parsing; resolving a bare rendered label is supported for
// callers that only have the displayed line.
package view

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/samber/mo"

	"deskcal/dateutil"
	"deskcal/event"
	"deskcal/holiday"
	"deskcal/store"
)

// Kind distinguishes the two entry sources in a listing.
type Kind int

const (
	KindHoliday Kind = iota
	KindUserEvent
)

func (k Kind) String() string {
	if k == KindHoliday {
		return "holiday"
	}
	return "event"
}

// Entry is one line of a month listing. Label is what the user sees;
// the remaining fields preserve the structured identity of the source
// so later resolution never has to re-parse the label.
type Entry struct {
	ID    string
	Date  string
	Label string
	Kind  Kind

	// HolidayName is set for KindHoliday entries.
	HolidayName string
	// Record is the underlying stored record for KindUserEvent entries.
	Record event.Record
}

// Listing is the merged month view: holidays first, then user events,
// each group in ascending date order. Always built fresh, never stored.
type Listing struct {
	Year    int
	Month   int
	Entries []Entry

	byID map[string]int
}

// Builder assembles month listings from the holiday cache and the
// event store.
type Builder struct {
	holidays *holiday.Cache
	events   *store.Store
}

// NewBuilder creates a listing builder over the given sources.
func NewBuilder(holidays *holiday.Cache, events *store.Store) *Builder {
	return &Builder{holidays: holidays, events: events}
}

// BuildListing merges holidays and stored events for the month. The
// first request for a year triggers the holiday fetch; a failed fetch
// simply yields a listing without holidays.
func (b *Builder) BuildListing(ctx context.Context, year, month int) *Listing {
	l := &Listing{
		Year:  year,
		Month: month,
		byID:  make(map[string]int),
	}

	yearHolidays := b.holidays.Holidays(ctx, year)
	var holidayDates []string
	for date := range yearHolidays {
		if dateutil.SameMonth(date, year, month) {
			holidayDates = append(holidayDates, date)
		}
	}
	sort.Strings(holidayDates)

	for _, date := range holidayDates {
		name := yearHolidays[date]
		l.add(Entry{
			Date:        date,
			Label:       fmt.Sprintf("%s: [Holiday] %s", date, name),
			Kind:        KindHoliday,
			HolidayName: name,
		})
	}

	for _, dated := range b.events.AllForMonth(year, month) {
		l.add(Entry{
			Date:   dated.Date,
			Label:  fmt.Sprintf("%s: %s", dated.Date, dated.Record.Headline()),
			Kind:   KindUserEvent,
			Record: dated.Record,
		})
	}

	return l
}

func (l *Listing) add(e Entry) {
	e.ID = uuid.NewString()
	l.byID[e.ID] = len(l.Entries)
	l.Entries = append(l.Entries, e)
}

// Entry looks up a listing entry by its opaque ID.
func (l *Listing) Entry(id string) mo.Option[Entry] {
	if l == nil {
		return mo.None[Entry]()
	}
	if i, ok := l.byID[id]; ok {
		return mo.Some(l.Entries[i])
	}
	return mo.None[Entry]()
}

// Labels returns the rendered lines in display order.
func (l *Listing) Labels() []string {
	labels := make([]string, len(l.Entries))
	for i, e := range l.Entries {
		labels[i] = e.Label
	}
	return labels
}

