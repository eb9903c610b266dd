package notify

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"

	"github.com/daybook/core/internal/infrastructure/logger"
	"github.com/daybook/core/internal/ports"
)

// ResendSender delivers reminders as email via the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
	to     string
	logger *logger.Logger
}

// NewResendSender creates a sender posting from/to the given addresses.
func NewResendSender(apiKey, from, to string, logger *logger.Logger) *ResendSender {
	var client *resend.Client
	if apiKey != "" {
		client = resend.NewClient(apiKey)
	}
	return &ResendSender{
		client: client,
		from:   from,
		to:     to,
		logger: logger,
	}
}

// Send emails the notification. Subject is the fixed reminder title; the
// body carries the event title and correlation id.
func (s *ResendSender) Send(ctx context.Context, note ports.Notification) error {
	if !s.Ready() {
		return fmt.Errorf("resend sender is not configured")
	}

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{s.to},
		Subject: note.Title,
		Text:    fmt.Sprintf("%s\n\nEvent: %s", note.Body, note.Tag),
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("resend send failed: %w", err)
	}

	s.logger.Infow("Reminder email sent", "message_id", sent.Id, "event_id", note.Tag)
	return nil
}

// Ready reports whether an API key and addresses are configured.
func (s *ResendSender) Ready() bool {
	return s.client != nil && s.from != "" && s.to != ""
}
