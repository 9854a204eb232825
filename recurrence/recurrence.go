// Package recurrence expands an event's start date into the full set of
// occurrence dates for its repeat rule.
//
// Rules map to fixed day intervals, not calendar-aware month or year
// stepping: Monthly is every 30 days and Yearly every 365, matching the
// behavior users have relied on. The interval policy is isolated in
// Rule so calendar-aware stepping could be introduced without touching
// the expansion itself.
package recurrence

import (
	"fmt"
	"strings"
	"time"

	"github.com/teambition/rrule-go"

	"deskcal/dateutil"
)

// Rule is an event repeat policy.
type Rule int

const (
	None Rule = iota
	Weekly
	Biweekly
	Monthly
	SemiAnnual
	Yearly
)

// horizonYears bounds expansion: no occurrence past December 31 of the
// start year plus this many years.
const horizonYears = 2

// intervalDays returns the fixed step for the rule, 0 for None.
func (r Rule) intervalDays() int {
	switch r {
	case Weekly:
		return 7
	case Biweekly:
		return 14
	case Monthly:
		return 30
	case SemiAnnual:
		return 182
	case Yearly:
		return 365
	default:
		return 0
	}
}

func (r Rule) String() string {
	switch r {
	case None:
		return "None"
	case Weekly:
		return "Weekly"
	case Biweekly:
		return "Biweekly"
	case Monthly:
		return "Monthly"
	case SemiAnnual:
		return "6 Months"
	case Yearly:
		return "Yearly"
	default:
		return fmt.Sprintf("Rule(%d)", int(r))
	}
}

// ParseRule maps a user-facing rule name to a Rule. Matching is
// case-insensitive; an empty string means None.
func ParseRule(s string) (Rule, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return None, nil
	case "weekly":
		return Weekly, nil
	case "biweekly":
		return Biweekly, nil
	case "monthly":
		return Monthly, nil
	case "6 months", "semiannual":
		return SemiAnnual, nil
	case "yearly":
		return Yearly, nil
	default:
		return None, fmt.Errorf("unknown recurrence rule %q", s)
	}
}

// Expand returns every occurrence date for an event starting at start
// under the given rule, in ascending order, as ISO date strings. The
// start date itself is always first. Occurrences stop at the last date
// on or before December 31 of (start year + 2).
func Expand(start time.Time, rule Rule) ([]string, error) {
	if rule == None {
		return []string{dateutil.FormatISO(start)}, nil
	}

	dtstart := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	until := time.Date(start.Year()+horizonYears, 12, 31, 0, 0, 0, 0, time.UTC)

	r, err := rrule.NewRRule(rrule.ROption{
		Freq:     rrule.DAILY,
		Interval: rule.intervalDays(),
		Dtstart:  dtstart,
		Until:    until,
	})
	if err != nil {
		return nil, fmt.Errorf("build recurrence rule %s: %w", rule, err)
	}

	occurrences := r.All()
	dates := make([]string, 0, len(occurrences))
	for _, occ := range occurrences {
		dates = append(dates, dateutil.FormatISO(occ))
	}
	return dates, nil
}
