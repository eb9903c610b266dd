package icsfeed

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daybook/core/internal/domain/entities"
)

func strPtr(s string) *string { return &s }

func TestBuildCalendarEmpty(t *testing.T) {
	payload, err := BuildCalendar(nil)
	require.NoError(t, err)

	body := string(payload)
	assert.Contains(t, body, "BEGIN:VCALENDAR")
	assert.Contains(t, body, "END:VCALENDAR")
	assert.Contains(t, body, "METHOD:PUBLISH")
	assert.NotContains(t, body, "BEGIN:VEVENT")
}

func TestBuildCalendarTimedEvent(t *testing.T) {
	now := time.Date(2025, 1, 5, 12, 0, 0, 0, time.UTC)
	events := []entities.Event{{
		ID:          "evt-1",
		Title:       "Dentist",
		Description: strPtr("Bring insurance card"),
		Date:        "2025-01-10",
		Time:        strPtr("14:30"),
		CreatedAt:   now,
		UpdatedAt:   now,
	}}

	payload, err := BuildCalendar(events)
	require.NoError(t, err)

	body := string(payload)
	assert.Contains(t, body, "UID:evt-1")
	assert.Contains(t, body, "SUMMARY:Dentist")
	assert.Contains(t, body, "DESCRIPTION:Bring insurance card")
	start, err := events[0].StartInstant(time.Local)
	require.NoError(t, err)
	assert.Contains(t, body, "DTSTART:"+start.UTC().Format("20060102T150405Z"))
	// One hour default duration.
	assert.Contains(t, body, "DTEND:"+start.Add(time.Hour).UTC().Format("20060102T150405Z"))
}

func TestBuildCalendarAllDayEvent(t *testing.T) {
	now := time.Date(2025, 1, 5, 12, 0, 0, 0, time.UTC)
	events := []entities.Event{{
		ID:        "evt-2",
		Title:     "Holiday",
		Date:      "2025-01-10",
		CreatedAt: now,
		UpdatedAt: now,
	}}

	payload, err := BuildCalendar(events)
	require.NoError(t, err)

	body := string(payload)
	assert.Contains(t, body, "DTSTART;VALUE=DATE:20250110")
	assert.Contains(t, body, "DTEND;VALUE=DATE:20250111")
	assert.NotContains(t, body, "DTSTART:")
}

func TestBuildCalendarBadDate(t *testing.T) {
	events := []entities.Event{{ID: "evt-3", Title: "Broken", Date: "not-a-date"}}

	_, err := BuildCalendar(events)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "evt-3"))
}

func TestBuildCalendarOneVEventPerEvent(t *testing.T) {
	events := []entities.Event{
		{ID: "a", Title: "A", Date: "2025-01-10"},
		{ID: "b", Title: "B", Date: "2025-01-11", Time: strPtr("09:00")},
	}

	payload, err := BuildCalendar(events)
	require.NoError(t, err)

	assert.Equal(t, 2, strings.Count(string(payload), "BEGIN:VEVENT"))
}
