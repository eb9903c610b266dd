package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daybook/core/internal/infrastructure/logger"
	"github.com/daybook/core/internal/ports"
)

// captureSender records deliveries and signals each one.
type captureSender struct {
	mu        sync.Mutex
	delivered []ports.Notification
	sendErr   error
	ready     bool
	fired     chan struct{}
}

func newCaptureSender() *captureSender {
	return &captureSender{ready: true, fired: make(chan struct{}, 16)}
}

func (s *captureSender) Send(_ context.Context, note ports.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sendErr != nil {
		s.fired <- struct{}{}
		return s.sendErr
	}
	s.delivered = append(s.delivered, note)
	s.fired <- struct{}{}
	return nil
}

func (s *captureSender) Ready() bool { return s.ready }

func (s *captureSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.delivered)
}

func waitForFire(t *testing.T, s *captureSender) {
	t.Helper()
	select {
	case <-s.fired:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for delivery")
	}
}

func TestScheduleFiresAndDelivers(t *testing.T) {
	sender := newCaptureSender()
	gateway := NewTimerGateway(sender, true, logger.NewNop())

	note := ports.Notification{Title: "Event Reminder", Body: "Standup", Tag: "evt-1"}
	handle, err := gateway.Schedule(context.Background(), time.Now().Add(10*time.Millisecond), note)
	require.NoError(t, err)
	assert.NotEmpty(t, handle)
	assert.Equal(t, 1, gateway.ArmedCount())

	waitForFire(t, sender)
	assert.Equal(t, 1, sender.count())
	assert.Equal(t, note, sender.delivered[0])
	assert.Equal(t, 0, gateway.ArmedCount())
}

func TestCancelStopsDelivery(t *testing.T) {
	sender := newCaptureSender()
	gateway := NewTimerGateway(sender, true, logger.NewNop())

	handle, err := gateway.Schedule(context.Background(), time.Now().Add(time.Hour), ports.Notification{Tag: "evt-1"})
	require.NoError(t, err)
	require.Equal(t, 1, gateway.ArmedCount())

	require.NoError(t, gateway.Cancel(context.Background(), handle))
	assert.Equal(t, 0, gateway.ArmedCount())
	assert.Equal(t, 0, sender.count())

	// Cancelling again is a no-op.
	assert.NoError(t, gateway.Cancel(context.Background(), handle))
}

func TestCancelUnknownHandleIsNoop(t *testing.T) {
	gateway := NewTimerGateway(newCaptureSender(), true, logger.NewNop())
	assert.NoError(t, gateway.Cancel(context.Background(), "never-issued"))
}

func TestCancelAfterFireIsNoop(t *testing.T) {
	sender := newCaptureSender()
	gateway := NewTimerGateway(sender, true, logger.NewNop())

	handle, err := gateway.Schedule(context.Background(), time.Now().Add(5*time.Millisecond), ports.Notification{Tag: "evt-1"})
	require.NoError(t, err)

	waitForFire(t, sender)
	assert.NoError(t, gateway.Cancel(context.Background(), handle))
	assert.Equal(t, 1, sender.count())
}

func TestPermissionFlow(t *testing.T) {
	ctx := context.Background()

	sender := newCaptureSender()
	gateway := NewTimerGateway(sender, true, logger.NewNop())
	assert.False(t, gateway.PermissionGranted(ctx))

	granted, err := gateway.RequestPermission(ctx)
	require.NoError(t, err)
	assert.True(t, granted)
	assert.True(t, gateway.PermissionGranted(ctx))
}

func TestPermissionDeniedWhenDisabled(t *testing.T) {
	ctx := context.Background()

	gateway := NewTimerGateway(newCaptureSender(), false, logger.NewNop())
	granted, err := gateway.RequestPermission(ctx)
	require.NoError(t, err)
	assert.False(t, granted)
}

func TestPermissionDeniedWhenSenderUnready(t *testing.T) {
	ctx := context.Background()

	sender := newCaptureSender()
	sender.ready = false
	gateway := NewTimerGateway(sender, true, logger.NewNop())

	granted, err := gateway.RequestPermission(ctx)
	require.NoError(t, err)
	assert.False(t, granted)
}

func TestDeliveryFailureDoesNotPanic(t *testing.T) {
	sender := newCaptureSender()
	sender.sendErr = errors.New("smtp down")
	gateway := NewTimerGateway(sender, true, logger.NewNop())

	_, err := gateway.Schedule(context.Background(), time.Now().Add(5*time.Millisecond), ports.Notification{Tag: "evt-1"})
	require.NoError(t, err)

	waitForFire(t, sender)
	assert.Equal(t, 0, gateway.ArmedCount())
}
