package view

import (
	"context"
	"fmt"
	"strings"

	"deskcal/event"
	"deskcal/holiday"
	"deskcal/store"
)

// ResolveErrorType classifies resolution failures.
type ResolveErrorType int

const (
	// ErrMalformedEntry means the entry text could not be parsed into
	// a name and time.
	ErrMalformedEntry ResolveErrorType = iota
	// ErrNotDeletable means the entry resolved to a read-only target.
	ErrNotDeletable
	// ErrNoMatch means the resolved target matched no stored record.
	ErrNoMatch
)

// ResolveError reports why a listing entry could not be mapped to a
// stored record. The entry that failed is preserved for display.
type ResolveError struct {
	Type    ResolveErrorType
	Entry   string
	Message string
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("%s: %q", e.Message, e.Entry)
}

// Target is the structured outcome of resolving a listing entry.
type Target struct {
	Kind Kind
	Date string

	// HolidayName is set for holiday targets, which are read-only.
	HolidayName string

	// Name and Time identify the event series for user-event targets.
	// Deletion through such a target is series-wide: every record on
	// every date whose name and time match is removed.
	Name string
	Time string
}

// Deletable reports whether DeleteTarget may act on this target.
func (t Target) Deletable() bool { return t.Kind == KindUserEvent }

// matches is the series predicate: exact name and time, description
// ignored.
func (t Target) matches(rec event.Record) bool {
	return rec.Name == t.Name && rec.Time == t.Time
}

// Resolver maps listing entries back to stored records.
type Resolver struct {
	holidays *holiday.Cache
	events   *store.Store
}

// NewResolver creates a resolver over the given sources.
func NewResolver(holidays *holiday.Cache, events *store.Store) *Resolver {
	return &Resolver{holidays: holidays, events: events}
}

// Resolve maps ref to a target. ref is either an entry ID from listing
// (resolved structurally, no text parsing) or a rendered listing line
// of the form "<date>: <rest>". For lines, a date present in that
// year's holiday set resolves to the holiday; otherwise <rest> is split
// on the first " at " into the series name and time.
func (r *Resolver) Resolve(ctx context.Context, listing *Listing, ref string) (Target, error) {
	if entry, ok := listing.Entry(ref).Get(); ok {
		return targetFromEntry(entry), nil
	}
	return r.resolveLabel(ctx, ref)
}

func targetFromEntry(e Entry) Target {
	if e.Kind == KindHoliday {
		return Target{Kind: KindHoliday, Date: e.Date, HolidayName: e.HolidayName}
	}
	return Target{
		Kind: KindUserEvent,
		Date: e.Date,
		Name: e.Record.Name,
		Time: e.Record.Time,
	}
}

func (r *Resolver) resolveLabel(ctx context.Context, label string) (Target, error) {
	date, rest, ok := strings.Cut(label, ": ")
	if !ok {
		return Target{}, &ResolveError{
			Type:    ErrMalformedEntry,
			Entry:   label,
			Message: "entry is not of the form \"<date>: <details>\"",
		}
	}

	if name, ok := r.holidays.Name(ctx, date).Get(); ok {
		return Target{Kind: KindHoliday, Date: date, HolidayName: name}, nil
	}

	// "<name> at <time>", possibly followed by description lines.
	headline, _, _ := strings.Cut(rest, "\n")
	name, clock, ok := strings.Cut(headline, " at ")
	if !ok {
		return Target{}, &ResolveError{
			Type:    ErrMalformedEntry,
			Entry:   label,
			Message: "entry has no \" at \" separator between name and time",
		}
	}

	return Target{Kind: KindUserEvent, Date: date, Name: name, Time: clock}, nil
}

// Detail returns what the user sees when viewing a resolved target:
// the holiday name, or the full details of every record stored on the
// target's date.
func (r *Resolver) Detail(t Target) (string, error) {
	if t.Kind == KindHoliday {
		return t.HolidayName, nil
	}

	recs := r.events.Records(t.Date)
	if len(recs) == 0 {
		return "", &ResolveError{
			Type:    ErrNoMatch,
			Entry:   t.Date,
			Message: "no events stored on date",
		}
	}
	details := make([]string, len(recs))
	for i, rec := range recs {
		details[i] = rec.Detail()
	}
	return strings.Join(details, "\n"), nil
}

// DeleteTarget removes every instance of the target's series across
// all dates and returns how many records were removed. Holiday targets
// are rejected.
func (r *Resolver) DeleteTarget(t Target) (int, error) {
	if !t.Deletable() {
		return 0, &ResolveError{
			Type:    ErrNotDeletable,
			Entry:   t.Date,
			Message: "holidays cannot be deleted",
		}
	}

	removed, err := r.events.RemoveMatching(t.matches)
	if err != nil {
		return removed, err
	}
	if removed == 0 {
		return 0, &ResolveError{
			Type:    ErrNoMatch,
			Entry:   t.Name + " at " + t.Time,
			Message: "no stored event matches entry",
		}
	}
	return removed, nil
}
