package ports

import (
	"context"
	"time"

	"github.com/daybook/core/internal/domain/entities"
)

// EventRepository defines the interface for event collection persistence.
// The collection is read and written whole: List returns the full stored
// collection and Replace writes it back. Implementations must degrade read
// failures (missing record, corrupt payload) to an empty collection rather
// than propagating them; write failures are returned to the caller.
type EventRepository interface {
	List(ctx context.Context) ([]entities.Event, error)
	Replace(ctx context.Context, events []entities.Event) error
}

// KeyValueStore is the platform-facing text storage facility: named string
// records, last write wins. Get reports whether the record exists.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Clock abstracts wall-clock time so services can be tested against fixed
// instants. The location of the returned time is the location used for all
// date arithmetic.
type Clock interface {
	Now() time.Time
}

// Notification is the visible payload of a scheduled reminder. Tag
// correlates the delivery with the event it belongs to.
type Notification struct {
	Title string
	Body  string
	Tag   string
}

// NotificationGateway is the platform-facing, permission-gated one-shot
// notification facility. Schedule arms a delivery of note at fireAt and
// returns an opaque handle usable for cancellation. Cancel is best-effort:
// unknown or already-fired handles are a no-op.
type NotificationGateway interface {
	PermissionGranted(ctx context.Context) bool
	RequestPermission(ctx context.Context) (bool, error)
	Schedule(ctx context.Context, fireAt time.Time, note Notification) (string, error)
	Cancel(ctx context.Context, handle string) error
}
