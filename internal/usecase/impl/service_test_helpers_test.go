package impl

import (
	"io"
	"log/slog"
	"time"

	"passport/config"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.HTTP.BaseURL = "https://passport.example.com"
	cfg.Auth = &config.AuthConfig{
		SessionTTLMinutes:    60,
		VerificationTokenTTL: 24 * time.Hour,
		ResetTokenTTL:        time.Hour,
	}

	return cfg
}
