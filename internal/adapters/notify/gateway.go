// Package notify implements the notification gateway port: permission
// gating, one-shot timers keyed by opaque handles, and pluggable delivery
// through a Sender.
package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/daybook/core/internal/infrastructure/logger"
	"github.com/daybook/core/internal/ports"
)

// Sender delivers a single notification payload.
type Sender interface {
	Send(ctx context.Context, note ports.Notification) error
	// Ready reports whether the sender can deliver at all (for example,
	// whether an API key is configured). An unready sender means
	// permission can never be granted.
	Ready() bool
}

// Reminder lifecycle states. Armed is entered when the timer is set; Fired
// and Cancelled are terminal.
type reminderState string

const (
	stateArmed     reminderState = "armed"
	stateFired     reminderState = "fired"
	stateCancelled reminderState = "cancelled"
)

type armedReminder struct {
	timer *time.Timer
	note  ports.Notification
	state reminderState
}

// TimerGateway arms one-shot deliveries with process-local timers. Handles
// are uuids; timers die with the process. Permission follows the platform
// model: it starts ungranted, RequestPermission asks once, and the answer
// is the configured policy gated on the sender being ready.
type TimerGateway struct {
	sender  Sender
	logger  *logger.Logger
	allowed bool

	mu      sync.Mutex
	granted bool
	timers  map[string]*armedReminder
}

// NewTimerGateway creates a gateway delivering through sender. allowed is
// the configured permission policy: when false, RequestPermission always
// answers no.
func NewTimerGateway(sender Sender, allowed bool, logger *logger.Logger) *TimerGateway {
	return &TimerGateway{
		sender:  sender,
		logger:  logger,
		allowed: allowed,
		timers:  make(map[string]*armedReminder),
	}
}

// PermissionGranted reports whether permission has been granted.
func (g *TimerGateway) PermissionGranted(_ context.Context) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.granted
}

// RequestPermission asks for permission and records the answer.
func (g *TimerGateway) RequestPermission(_ context.Context) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.granted = g.allowed && g.sender != nil && g.sender.Ready()
	return g.granted, nil
}

// Schedule arms a one-shot delivery of note at fireAt and returns its
// handle. A fireAt in the past fires immediately; callers gate on their
// own clock before arming.
func (g *TimerGateway) Schedule(_ context.Context, fireAt time.Time, note ports.Notification) (string, error) {
	if g.sender == nil {
		return "", errors.New("no notification sender configured")
	}

	handle := uuid.NewString()
	delay := time.Until(fireAt)
	if delay < 0 {
		delay = 0
	}

	g.mu.Lock()
	reminder := &armedReminder{note: note, state: stateArmed}
	reminder.timer = time.AfterFunc(delay, func() { g.fire(handle) })
	g.timers[handle] = reminder
	g.mu.Unlock()

	return handle, nil
}

// Cancel stops the delivery for handle. Unknown or already-fired handles
// are a no-op.
func (g *TimerGateway) Cancel(_ context.Context, handle string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	reminder, ok := g.timers[handle]
	if !ok || reminder.state != stateArmed {
		return nil
	}

	reminder.timer.Stop()
	reminder.state = stateCancelled
	delete(g.timers, handle)
	return nil
}

// ArmedCount returns the number of currently armed deliveries.
func (g *TimerGateway) ArmedCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	count := 0
	for _, r := range g.timers {
		if r.state == stateArmed {
			count++
		}
	}
	return count
}

func (g *TimerGateway) fire(handle string) {
	g.mu.Lock()
	reminder, ok := g.timers[handle]
	if !ok || reminder.state != stateArmed {
		g.mu.Unlock()
		return
	}
	reminder.state = stateFired
	delete(g.timers, handle)
	note := reminder.note
	g.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := g.sender.Send(ctx, note); err != nil {
		g.logger.Errorw("Reminder delivery failed", "error", err, "handle", handle, "tag", note.Tag)
		return
	}
	g.logger.Infow("Reminder delivered", "handle", handle, "tag", note.Tag)
}
