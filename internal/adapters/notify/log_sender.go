package notify

import (
	"context"

	"github.com/daybook/core/internal/infrastructure/logger"
	"github.com/daybook/core/internal/ports"
)

// LogSender delivers reminders as structured log lines. It is the default
// sender and is always ready.
type LogSender struct {
	logger *logger.Logger
}

// NewLogSender creates a new log sender
func NewLogSender(logger *logger.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send logs the notification.
func (s *LogSender) Send(_ context.Context, note ports.Notification) error {
	s.logger.Infow("NOTIFICATION",
		"title", note.Title,
		"body", note.Body,
		"event_id", note.Tag,
	)
	return nil
}

// Ready always reports true.
func (s *LogSender) Ready() bool {
	return true
}
