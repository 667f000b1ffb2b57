package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"passport/config"
	"passport/internal/domain/service"

	"github.com/pkg/errors"
)

const httpSenderTimeout = 30 * time.Second

// httpSender implements MailSender against a JSON mail delivery API.
// The request shape follows the common transactional mail services that accept
// a single-message POST with a server token header.
type httpSender struct {
	endpoint    string
	apiToken    string
	senderEmail string
	senderName  string
	httpClient  *http.Client
	logger      *slog.Logger
}

// apiRequest is the JSON body sent to the mail API.
type apiRequest struct {
	From     string `json:"From"`
	To       string `json:"To"`
	Subject  string `json:"Subject"`
	TextBody string `json:"TextBody"`
	HTMLBody string `json:"HtmlBody,omitempty"`
}

// NewHTTPSender creates a new HTTP API mail sender
func NewHTTPSender(cfg *config.MailConfig, logger *slog.Logger) service.MailSender {
	return &httpSender{
		endpoint:    cfg.Endpoint,
		apiToken:    cfg.APIToken,
		senderEmail: cfg.SenderEmail,
		senderName:  cfg.SenderName,
		httpClient: &http.Client{
			Timeout: httpSenderTimeout,
		},
		logger: logger,
	}
}

// Send delivers a single message through the mail API.
func (s *httpSender) Send(ctx context.Context, mail *service.Mail) error {
	from := s.senderEmail
	if s.senderName != "" {
		from = fmt.Sprintf("%s <%s>", s.senderName, s.senderEmail)
	}

	to := mail.ToEmail
	if mail.ToName != "" {
		to = fmt.Sprintf("%s <%s>", mail.ToName, mail.ToEmail)
	}

	body, err := json.Marshal(apiRequest{
		From:     from,
		To:       to,
		Subject:  mail.Subject,
		TextBody: mail.TextBody,
		HTMLBody: mail.HTMLBody,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return errors.WithStack(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if s.apiToken != "" {
		req.Header.Set("X-Server-Token", s.apiToken)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return errors.WithStack(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// The response body tends to carry the API's reason for rejection.
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

		return errors.Errorf("mail API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	s.logger.InfoContext(ctx, "[HTTPMail] Mail delivered",
		slog.String("to", mail.ToEmail),
		slog.String("subject", mail.Subject),
	)

	return nil
}
