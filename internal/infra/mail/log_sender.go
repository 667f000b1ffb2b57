package mail

import (
	"context"
	"log/slog"

	"passport/internal/domain/service"
)

// logSender writes outbound mail to the application log instead of delivering it.
// Useful in development and automated tests.
type logSender struct {
	logger *slog.Logger
}

// NewLogSender creates a new log-only mail sender
func NewLogSender(logger *slog.Logger) service.MailSender {
	return &logSender{logger: logger}
}

// Send logs the message content at info level.
func (s *logSender) Send(ctx context.Context, mail *service.Mail) error {
	s.logger.InfoContext(ctx, "[LogMail] Outbound mail",
		slog.String("to", mail.ToEmail),
		slog.String("subject", mail.Subject),
		slog.String("body", mail.TextBody),
	)

	return nil
}
