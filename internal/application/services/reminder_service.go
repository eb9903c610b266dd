package services

import (
	"context"
	"sync"
	"time"

	"github.com/daybook/core/internal/domain/entities"
	"github.com/daybook/core/internal/infrastructure/logger"
	"github.com/daybook/core/internal/ports"
)

// ReminderTitle is the fixed title of every reminder delivery; the body is
// the event's own title.
const ReminderTitle = "Event Reminder"

// ReminderService translates an event's reminder intent into a one-shot
// delivery at the right wall-clock time. Scheduling is best-effort: no path
// through Schedule fails the caller's save flow. Armed handles live only
// for the process lifetime; RearmAll rebuilds them after a restart.
type ReminderService struct {
	gateway ports.NotificationGateway
	clock   ports.Clock
	logger  *logger.Logger

	mu      sync.Mutex
	asked   bool
	byEvent map[string]string
}

// NewReminderService creates a new reminder service
func NewReminderService(gateway ports.NotificationGateway, clock ports.Clock, logger *logger.Logger) *ReminderService {
	return &ReminderService{
		gateway: gateway,
		clock:   clock,
		logger:  logger,
		byEvent: make(map[string]string),
	}
}

// Schedule computes the event's fire instant and arms a one-shot delivery.
// The returned result distinguishes every no-op path: the event asks for no
// reminder, the window has already passed, permission was denied, or the
// platform call failed. Platform failures are swallowed here so scheduling
// can never crash a save.
func (s *ReminderService) Schedule(ctx context.Context, event *entities.Event) ports.ScheduleResult {
	if !event.HasReminder || event.ReminderMinutes == nil {
		return ports.ScheduleResult{Outcome: ports.OutcomeNotRequested}
	}

	now := s.clock.Now()
	start, err := event.StartInstant(now.Location())
	if err != nil {
		s.logger.Warnw("Reminder skipped: unparseable event start", "event_id", event.ID, "date", event.Date)
		return ports.ScheduleResult{Outcome: ports.OutcomePlatformError}
	}

	fireAt := start.Add(-time.Duration(*event.ReminderMinutes) * time.Minute)
	if !fireAt.After(now) {
		return ports.ScheduleResult{Outcome: ports.OutcomeWindowPassed}
	}

	if !s.ensurePermission(ctx) {
		return ports.ScheduleResult{Outcome: ports.OutcomePermissionDenied}
	}

	note := ports.Notification{
		Title: ReminderTitle,
		Body:  event.Title,
		Tag:   event.ID,
	}
	handle, err := s.gateway.Schedule(ctx, fireAt, note)
	if err != nil {
		s.logger.Errorw("Reminder scheduling failed", "error", err, "event_id", event.ID)
		return ports.ScheduleResult{Outcome: ports.OutcomePlatformError}
	}

	s.mu.Lock()
	prior := s.byEvent[event.ID]
	s.byEvent[event.ID] = handle
	s.mu.Unlock()

	// Re-scheduling an event replaces its armed delivery.
	if prior != "" {
		if err := s.gateway.Cancel(ctx, prior); err != nil {
			s.logger.Warnw("Reminder cancel failed", "error", err, "event_id", event.ID, "handle", prior)
		}
	}

	s.logger.Infow("Reminder armed", "event_id", event.ID, "handle", handle, "fire_at", fireAt)

	return ports.ScheduleResult{Outcome: ports.OutcomeScheduled, Handle: handle, FireAt: fireAt}
}

// Cancel cancels the delivery correlated with the handle. Unknown or
// already-fired handles are a no-op, never an error.
func (s *ReminderService) Cancel(ctx context.Context, handle string) {
	if handle == "" {
		return
	}
	if err := s.gateway.Cancel(ctx, handle); err != nil {
		s.logger.Warnw("Reminder cancel failed", "error", err, "handle", handle)
	}

	s.mu.Lock()
	for eventID, h := range s.byEvent {
		if h == handle {
			delete(s.byEvent, eventID)
			break
		}
	}
	s.mu.Unlock()
}

// CancelForEvent cancels the armed reminder, if any, correlated with the
// given event id. Used by delete and re-schedule flows.
func (s *ReminderService) CancelForEvent(ctx context.Context, eventID string) {
	s.mu.Lock()
	handle, ok := s.byEvent[eventID]
	if ok {
		delete(s.byEvent, eventID)
	}
	s.mu.Unlock()

	if !ok {
		return
	}
	if err := s.gateway.Cancel(ctx, handle); err != nil {
		s.logger.Warnw("Reminder cancel failed", "error", err, "event_id", eventID, "handle", handle)
	}
}

// RequestPermission asks the platform for notification permission and
// reports whether it was granted.
func (s *ReminderService) RequestPermission(ctx context.Context) (bool, error) {
	s.mu.Lock()
	s.asked = true
	s.mu.Unlock()
	return s.gateway.RequestPermission(ctx)
}

// RearmAll arms a reminder for every given event whose fire instant is
// still in the future. Called at startup, since armed timers do not survive
// a process restart. Returns the number of reminders armed.
func (s *ReminderService) RearmAll(ctx context.Context, events []entities.Event) int {
	armed := 0
	for i := range events {
		result := s.Schedule(ctx, &events[i])
		if result.Scheduled() {
			armed++
		}
	}
	if armed > 0 {
		s.logger.Infow("Reminders re-armed", "count", armed)
	}
	return armed
}

// ensurePermission checks the platform permission, requesting it at most
// once per process when it was never granted.
func (s *ReminderService) ensurePermission(ctx context.Context) bool {
	if s.gateway.PermissionGranted(ctx) {
		return true
	}

	s.mu.Lock()
	alreadyAsked := s.asked
	s.asked = true
	s.mu.Unlock()

	if alreadyAsked {
		return false
	}

	granted, err := s.gateway.RequestPermission(ctx)
	if err != nil {
		s.logger.Warnw("Notification permission request failed", "error", err)
		return false
	}
	return granted
}
