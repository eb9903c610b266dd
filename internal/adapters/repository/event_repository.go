package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/daybook/core/internal/domain/entities"
	"github.com/daybook/core/internal/infrastructure/logger"
	"github.com/daybook/core/internal/ports"
)

// EventsKey is the single named record in local storage that holds the
// full event collection as a JSON array.
const EventsKey = "calendar_events"

// EventRepository persists the event collection as one JSON array under
// EventsKey in a key-value store. Reads fail closed: a missing record,
// unreadable storage or a corrupt payload yields an empty collection (and
// a log line), never an error; the next successful write repairs the
// record. Write failures are reported as entities.ErrStorageFailure.
type EventRepository struct {
	kv     ports.KeyValueStore
	logger *logger.Logger
}

// NewEventRepository creates a new event repository
func NewEventRepository(kv ports.KeyValueStore, logger *logger.Logger) *EventRepository {
	return &EventRepository{
		kv:     kv,
		logger: logger,
	}
}

// List returns the stored event collection.
func (r *EventRepository) List(ctx context.Context) ([]entities.Event, error) {
	raw, ok, err := r.kv.Get(ctx, EventsKey)
	if err != nil {
		r.logger.Errorw("Failed to read events from storage", "error", err, "key", EventsKey)
		return []entities.Event{}, nil
	}
	if !ok || raw == "" {
		return []entities.Event{}, nil
	}

	var events []entities.Event
	if err := json.Unmarshal([]byte(raw), &events); err != nil {
		r.logger.Errorw("Corrupt event record in storage", "error", err, "key", EventsKey)
		return []entities.Event{}, nil
	}
	if events == nil {
		events = []entities.Event{}
	}
	return events, nil
}

// Replace writes the full event collection back to storage.
func (r *EventRepository) Replace(ctx context.Context, events []entities.Event) error {
	if events == nil {
		events = []entities.Event{}
	}

	data, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("%w: encoding events: %v", entities.ErrStorageFailure, err)
	}

	if err := r.kv.Set(ctx, EventsKey, string(data)); err != nil {
		return fmt.Errorf("%w: writing events: %v", entities.ErrStorageFailure, err)
	}
	return nil
}
