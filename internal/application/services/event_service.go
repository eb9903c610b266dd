package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/daybook/core/internal/domain/entities"
	"github.com/daybook/core/internal/infrastructure/logger"
	"github.com/daybook/core/internal/ports"
)

// DefaultUpcomingLimit caps the upcoming-events query when the caller does
// not supply a limit.
const DefaultUpcomingLimit = 10

// EventService is the sole authority over the durable event collection.
// All reads and writes of events pass through it. The collection is read
// whole, mutated in memory and written back whole; the design assumes a
// single in-flight mutation at a time.
type EventService struct {
	repo   ports.EventRepository
	clock  ports.Clock
	logger *logger.Logger
}

// NewEventService creates a new event service
func NewEventService(repo ports.EventRepository, clock ports.Clock, logger *logger.Logger) *EventService {
	return &EventService{
		repo:   repo,
		clock:  clock,
		logger: logger,
	}
}

// ListAll returns every stored event in insertion order.
func (s *EventService) ListAll(ctx context.Context) ([]entities.Event, error) {
	events, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// ListByDate returns the events whose date equals the given YYYY-MM-DD
// date, compared exactly with no timezone normalization.
func (s *EventService) ListByDate(ctx context.Context, date string) ([]entities.Event, error) {
	if _, err := time.Parse(entities.DateLayout, date); err != nil {
		return nil, entities.ErrInvalidDate
	}

	events, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	matched := make([]entities.Event, 0)
	for _, ev := range events {
		if ev.Date == date {
			matched = append(matched, ev)
		}
	}
	return matched, nil
}

// Get retrieves an event by id.
func (s *EventService) Get(ctx context.Context, id string) (*entities.Event, error) {
	events, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	for i := range events {
		if events[i].ID == id {
			return &events[i], nil
		}
	}
	return nil, entities.ErrEventNotFound
}

// Create validates the request, assigns a fresh id and timestamps, appends
// the event to the collection and persists it.
func (s *EventService) Create(ctx context.Context, req ports.CreateEventRequest) (*entities.Event, error) {
	now := s.clock.Now()

	event := entities.Event{
		ID:              uuid.NewString(),
		Title:           strings.TrimSpace(req.Title),
		Description:     req.Description,
		Date:            req.Date,
		Time:            req.Time,
		HasReminder:     req.HasReminder,
		ReminderMinutes: req.ReminderMinutes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := event.Validate(); err != nil {
		return nil, err
	}

	events, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	events = append(events, event)
	if err := s.repo.Replace(ctx, events); err != nil {
		return nil, fmt.Errorf("failed to save event: %w", err)
	}

	s.logger.Infow("Event created", "event_id", event.ID, "title", event.Title, "date", event.Date)

	return &event, nil
}

// Update merges the supplied fields over the stored event, refreshes
// updatedAt and persists the collection. Unknown ids return
// entities.ErrEventNotFound without touching the store.
func (s *EventService) Update(ctx context.Context, id string, req ports.UpdateEventRequest) (*entities.Event, error) {
	events, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	idx := -1
	for i := range events {
		if events[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, entities.ErrEventNotFound
	}

	updated := events[idx]
	if req.Title != nil {
		updated.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		updated.Description = req.Description
	}
	if req.Date != nil {
		updated.Date = *req.Date
	}
	if req.Time != nil {
		updated.Time = req.Time
	}
	if req.HasReminder != nil {
		updated.HasReminder = *req.HasReminder
	}
	if req.ReminderMinutes != nil {
		updated.ReminderMinutes = req.ReminderMinutes
	}
	if !updated.HasReminder {
		updated.ReminderMinutes = nil
	}
	updated.UpdatedAt = s.clock.Now()

	if err := updated.Validate(); err != nil {
		return nil, err
	}

	events[idx] = updated
	if err := s.repo.Replace(ctx, events); err != nil {
		return nil, fmt.Errorf("failed to save event: %w", err)
	}

	s.logger.Infow("Event updated", "event_id", updated.ID, "title", updated.Title)

	return &updated, nil
}

// Delete removes the event with the given id. It reports whether a record
// was actually removed; the store is only rewritten when something was.
func (s *EventService) Delete(ctx context.Context, id string) (bool, error) {
	events, err := s.repo.List(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to list events: %w", err)
	}

	remaining := make([]entities.Event, 0, len(events))
	for _, ev := range events {
		if ev.ID != id {
			remaining = append(remaining, ev)
		}
	}

	if len(remaining) == len(events) {
		return false, nil
	}

	if err := s.repo.Replace(ctx, remaining); err != nil {
		return false, fmt.Errorf("failed to delete event: %w", err)
	}

	s.logger.Infow("Event deleted", "event_id", id)

	return true, nil
}

// Upcoming returns at most limit events whose date falls on or after the
// current calendar day, sorted ascending by effective start. Events without
// a time sort at the very start of their date, ahead of timed events.
func (s *EventService) Upcoming(ctx context.Context, limit int) ([]entities.Event, error) {
	if limit <= 0 {
		limit = DefaultUpcomingLimit
	}

	events, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	today := s.clock.Now()
	upcoming := make([]entities.Event, 0)
	for _, ev := range events {
		if ev.OccursOnOrAfter(today) {
			upcoming = append(upcoming, ev)
		}
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].StartKey() < upcoming[j].StartKey()
	})

	if len(upcoming) > limit {
		upcoming = upcoming[:limit]
	}
	return upcoming, nil
}
