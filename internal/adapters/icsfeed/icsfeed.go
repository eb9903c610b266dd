// Package icsfeed serializes the event collection as an iCalendar
// document, the outward calendar surface consumed by other calendar
// clients.
package icsfeed

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/daybook/core/internal/domain/entities"
)

// BuildCalendar renders events as an iCalendar payload. Events without a
// time become all-day VEVENTs; timed events get a one hour duration, the
// conventional default for feeds that only know a start.
func BuildCalendar(events []entities.Event) ([]byte, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//Daybook//Calendar//EN")

	for i := range events {
		ev := &events[i]

		vevent := cal.AddEvent(ev.ID)
		vevent.SetSummary(ev.Title)
		if ev.Description != nil && *ev.Description != "" {
			vevent.SetDescription(*ev.Description)
		}
		vevent.SetCreatedTime(ev.CreatedAt)
		vevent.SetDtStampTime(ev.UpdatedAt)
		vevent.SetModifiedAt(ev.UpdatedAt)

		if ev.HasTime() {
			start, err := ev.StartInstant(time.Local)
			if err != nil {
				return nil, fmt.Errorf("event %s has an unparseable start: %w", ev.ID, err)
			}
			vevent.SetStartAt(start)
			vevent.SetEndAt(start.Add(time.Hour))
			continue
		}

		day, err := time.ParseInLocation(entities.DateLayout, ev.Date, time.Local)
		if err != nil {
			return nil, fmt.Errorf("event %s has an unparseable date: %w", ev.ID, err)
		}
		vevent.SetAllDayStartAt(day)
		vevent.SetAllDayEndAt(day.AddDate(0, 0, 1))
	}

	return []byte(cal.Serialize()), nil
}
