// Package event defines the user event record and its wire representations.
//
// A record is identified as part of a recurring series by its Name and
// Time only. Description is deliberately excluded from identity: two
// records with the same name and time are the same series even when
// their descriptions differ, and series-wide operations treat them
// interchangeably.
package event

import (
	"fmt"
	"strings"
	"time"
)

// TimeLayout is the accepted clock format for events, e.g. "09:30 AM".
// The hour may be written with or without a leading zero.
const TimeLayout = "3:04 PM"

// detailSep joins name and time in the rendered detail string.
const detailSep = " at "

// Record is a single calendar event occurrence. Immutable once created;
// recurring series store one independent copy per occurrence date.
type Record struct {
	Name        string `json:"name"`
	Time        string `json:"time"`
	Description string `json:"description,omitempty"`
}

// ValidationError reports a field that failed input validation, with
// the format the user was expected to supply.
type ValidationError struct {
	Field    string
	Value    string
	Expected string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: expected %s", e.Field, e.Value, e.Expected)
}

// New validates name and clock time and returns a Record. Description
// is free-form and may be empty.
func New(name, clock, description string) (Record, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Record{}, &ValidationError{Field: "name", Value: name, Expected: "a non-empty event name"}
	}
	if err := ValidateClock(clock); err != nil {
		return Record{}, err
	}
	return Record{Name: name, Time: clock, Description: strings.TrimSpace(description)}, nil
}

// ValidateClock checks the HH:MM AM/PM clock format.
func ValidateClock(clock string) error {
	if _, err := time.Parse(TimeLayout, clock); err != nil {
		return &ValidationError{Field: "time", Value: clock, Expected: "HH:MM AM/PM"}
	}
	return nil
}

// SameSeries reports whether two records belong to the same recurring
// series: exact match on Name and Time, ignoring Description.
func (r Record) SameSeries(other Record) bool {
	return r.Name == other.Name && r.Time == other.Time
}

// Headline is the single-line rendering used in month listings:
// "<name> at <time>".
func (r Record) Headline() string {
	return r.Name + detailSep + r.Time
}

// Detail renders the full stored form: the headline, then the
// description on following lines when present.
func (r Record) Detail() string {
	if r.Description == "" {
		return r.Headline()
	}
	return r.Headline() + "\n" + r.Description
}

// ParseDetail reconstructs a Record from its Detail rendering. The name
// is everything before the first " at " on the first line; the
// description is everything after the first line break. The split on
// the first " at " mirrors the matching behavior elsewhere: a name
// containing " at " will be truncated at that point.
func ParseDetail(s string) (Record, error) {
	headline, description, _ := strings.Cut(s, "\n")
	name, clock, ok := strings.Cut(headline, detailSep)
	if !ok {
		return Record{}, fmt.Errorf("malformed event detail %q: missing %q separator", headline, detailSep)
	}
	return Record{Name: name, Time: clock, Description: description}, nil
}
