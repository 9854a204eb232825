package calendar

import (
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"

	"deskcal/dateutil"
	"deskcal/event"
)

const icsProductID = "-//deskcal//Desktop Calendar//EN"

// defaultEventDuration is used for exported VEVENTs; stored events
// carry a start time but no end.
const defaultEventDuration = time.Hour

// ExportICS writes every stored event as a VEVENT in a single
// VCALENDAR, so other calendar software can import the data.
func (c *Calendar) ExportICS(w io.Writer) error {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, icsProductID)

	now := time.Now().UTC()
	for _, date := range c.events.Dates() {
		day, err := dateutil.ParseISO(date)
		if err != nil {
			// Stored keys are validated on the way in; a bad key means
			// a hand-edited file. Skip rather than fail the export.
			c.logger.Warn("skipping unparseable date in export", "date", date)
			continue
		}
		for _, rec := range c.events.Records(date) {
			start, err := occurrenceStart(day, rec)
			if err != nil {
				c.logger.Warn("skipping event with unparseable time in export",
					"date", date, "name", rec.Name, "err", err)
				continue
			}

			ev := ical.NewComponent(ical.CompEvent)
			ev.Props.SetText(ical.PropUID, uuid.NewString())
			ev.Props.SetText(ical.PropSummary, rec.Name)
			if rec.Description != "" {
				ev.Props.SetText(ical.PropDescription, rec.Description)
			}
			ev.Props.SetDateTime(ical.PropDateTimeStart, start)
			ev.Props.SetDateTime(ical.PropDateTimeEnd, start.Add(defaultEventDuration))
			ev.Props.SetDateTime(ical.PropDateTimeStamp, now)
			cal.Children = append(cal.Children, ev)
		}
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("encode calendar: %w", err)
	}
	return nil
}

// occurrenceStart combines a date with the record's clock time.
func occurrenceStart(day time.Time, rec event.Record) (time.Time, error) {
	clock, err := time.Parse(event.TimeLayout, rec.Time)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(),
		clock.Hour(), clock.Minute(), 0, 0, time.UTC), nil
}
