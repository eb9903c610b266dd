package entities

import (
	"errors"
	"strings"
	"time"
)

// Common errors
var (
	ErrEventNotFound   = errors.New("event not found")
	ErrInvalidTitle    = errors.New("event title must not be empty")
	ErrInvalidDate     = errors.New("event date must be in YYYY-MM-DD format")
	ErrInvalidTime     = errors.New("event time must be in HH:MM format")
	ErrInvalidReminder = errors.New("reminder minutes must be a positive integer and requires has_reminder")
	ErrStorageFailure  = errors.New("storage failure")
)

// Date/time layouts used throughout the application. Dates and times are
// stored as plain strings so the persisted record matches the layout in
// local storage exactly; they are only parsed when a wall-clock instant
// is needed.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"

	// DefaultStartTime is assumed for events without a time of day when
	// computing the reminder fire instant.
	DefaultStartTime = "09:00"
)

// Event represents a calendar entry on a specific date, optionally timed
// and optionally reminder-bearing. It is the sole persisted entity.
type Event struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     *string   `json:"description,omitempty"`
	Date            string    `json:"date"`
	Time            *string   `json:"time,omitempty"`
	HasReminder     bool      `json:"hasReminder"`
	ReminderMinutes *int      `json:"reminderMinutes,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Validate checks the invariants that must hold before an event may be
// persisted: non-empty title, well-formed date/time, and reminder minutes
// present if and only if the reminder flag is set.
func (e *Event) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return ErrInvalidTitle
	}

	if _, err := time.Parse(DateLayout, e.Date); err != nil {
		return ErrInvalidDate
	}

	if e.Time != nil {
		if _, err := time.Parse(TimeLayout, *e.Time); err != nil {
			return ErrInvalidTime
		}
	}

	if e.HasReminder {
		if e.ReminderMinutes == nil || *e.ReminderMinutes <= 0 {
			return ErrInvalidReminder
		}
	} else if e.ReminderMinutes != nil {
		return ErrInvalidReminder
	}

	return nil
}

// StartInstant combines the event's date with its time of day in the given
// location. Events without a time default to DefaultStartTime.
func (e *Event) StartInstant(loc *time.Location) (time.Time, error) {
	clock := DefaultStartTime
	if e.Time != nil {
		clock = *e.Time
	}

	start, err := time.ParseInLocation(DateLayout+" "+TimeLayout, e.Date+" "+clock, loc)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return start, nil
}

// StartKey is the sort key for the upcoming-events ordering. An event
// without a time keys as its bare date, which sorts before every timed
// event on the same date, so a timeless event always leads its day.
// Clients rely on that ordering.
func (e *Event) StartKey() string {
	if e.Time == nil {
		return e.Date
	}
	return e.Date + " " + *e.Time
}

// OccursOnOrAfter reports whether the event's date falls on or after the
// given day. Only the calendar date is compared; time of day is ignored.
func (e *Event) OccursOnOrAfter(day time.Time) bool {
	d, err := time.ParseInLocation(DateLayout, e.Date, day.Location())
	if err != nil {
		return false
	}
	midnight := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return !d.Before(midnight)
}

// HasTime reports whether the event carries a time of day.
func (e *Event) HasTime() bool {
	return e.Time != nil
}
