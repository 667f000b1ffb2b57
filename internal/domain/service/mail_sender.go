package service

import "context"

// Mail represents a single outbound email message.
type Mail struct {
	ToEmail  string // Recipient address.
	ToName   string // Recipient display name.
	Subject  string // Subject line.
	TextBody string // Plain text body.
	HTMLBody string // Optional HTML body.
}

// MailSender defines the interface for delivering outbound email.
// Failures are surfaced to the caller, which decides whether delivery
// is best effort or mandatory for the operation at hand.
type MailSender interface {
	// Send delivers a single message.
	Send(ctx context.Context, mail *Mail) error
}
