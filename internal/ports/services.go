package ports

import "time"

// CreateEventRequest carries the caller-supplied fields for a new event.
// The store assigns id and timestamps.
type CreateEventRequest struct {
	Title           string  `json:"title" validate:"required"`
	Description     *string `json:"description"`
	Date            string  `json:"date" validate:"required"`
	Time            *string `json:"time"`
	HasReminder     bool    `json:"hasReminder"`
	ReminderMinutes *int    `json:"reminderMinutes" validate:"omitempty,gt=0"`
}

// UpdateEventRequest carries a partial update; nil fields are left
// untouched. Clearing the reminder flag also clears the minutes.
type UpdateEventRequest struct {
	Title           *string `json:"title"`
	Description     *string `json:"description"`
	Date            *string `json:"date"`
	Time            *string `json:"time"`
	HasReminder     *bool   `json:"hasReminder"`
	ReminderMinutes *int    `json:"reminderMinutes" validate:"omitempty,gt=0"`
}

// ScheduleOutcome classifies the result of a reminder scheduling attempt.
type ScheduleOutcome string

const (
	// OutcomeScheduled means a delivery was armed and a handle returned.
	OutcomeScheduled ScheduleOutcome = "scheduled"
	// OutcomeNotRequested means the event does not ask for a reminder.
	OutcomeNotRequested ScheduleOutcome = "not_requested"
	// OutcomeWindowPassed means the computed fire instant is not in the future.
	OutcomeWindowPassed ScheduleOutcome = "window_passed"
	// OutcomePermissionDenied means notification permission was not granted.
	OutcomePermissionDenied ScheduleOutcome = "permission_denied"
	// OutcomePlatformError means the platform call failed; the failure is
	// swallowed and the reminder is silently not armed.
	OutcomePlatformError ScheduleOutcome = "platform_error"
)

// ScheduleResult is the outcome of a scheduling attempt. Handle and FireAt
// are meaningful only when Outcome is OutcomeScheduled.
type ScheduleResult struct {
	Outcome ScheduleOutcome `json:"outcome"`
	Handle  string          `json:"handle,omitempty"`
	FireAt  time.Time       `json:"fireAt,omitempty"`
}

// Scheduled reports whether the attempt armed a delivery.
func (r ScheduleResult) Scheduled() bool {
	return r.Outcome == OutcomeScheduled
}
