// Package mail provides concrete implementations of the MailSender domain service.
package mail

import (
	"log/slog"

	"passport/config"
	"passport/internal/domain/constants"
	"passport/internal/domain/service"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// SenderParams holds dependencies for MailSender, injected by Fx
type SenderParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

// NewMailSender creates a MailSender based on configuration
func NewMailSender(params SenderParams) (service.MailSender, error) {
	cfg := params.Config.Mail
	logger := params.Logger

	// Without configuration, fall back to the log sender so development
	// environments never need a mail account.
	if cfg == nil || cfg.Provider == "" || cfg.Provider == constants.MailProviderLog {
		logger.Info("Using log mail sender")

		return NewLogSender(logger), nil
	}

	if cfg.Provider != constants.MailProviderHTTP {
		return nil, errors.Errorf("unknown mail provider: %s", cfg.Provider)
	}

	if cfg.Endpoint == "" {
		return nil, errors.New("endpoint is required for http mail provider")
	}
	if cfg.SenderEmail == "" {
		return nil, errors.New("sender email is required for http mail provider")
	}

	logger.Info("Using HTTP mail sender",
		slog.String("endpoint", cfg.Endpoint),
		slog.String("sender", cfg.SenderEmail),
	)

	return NewHTTPSender(cfg, logger), nil
}

// Module provides the mail FX module
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(NewMailSender),
)
