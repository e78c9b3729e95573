// Package notify emails barbers when the assistant books an appointment for
// them. Delivery is best-effort: a failed notification never fails the
// booking that triggered it.
package notify

import (
	"context"

	"github.com/wbarraza/barberflow/pkg/logging"
)

// EmailSender sends one email. Implementations can be swapped (SES, SMTP)
// without changing callers.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// EmailMessage is an email to be sent.
type EmailMessage struct {
	To      string
	ToName  string
	Subject string
	Body    string // plain text body
	HTML    string // optional HTML body
}

// StubEmailSender logs instead of sending, for local runs without SES.
type StubEmailSender struct {
	logger *logging.Logger
}

// NewStubEmailSender creates a stub email sender.
func NewStubEmailSender(logger *logging.Logger) *StubEmailSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &StubEmailSender{logger: logger}
}

// Send logs the email but doesn't actually send it.
func (s *StubEmailSender) Send(_ context.Context, msg EmailMessage) error {
	s.logger.Info("stub email sender: would send email", "to", msg.To, "subject", msg.Subject)
	return nil
}
