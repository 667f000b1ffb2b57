package mail

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"passport/config"
	"passport/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHTTPSender_Send(t *testing.T) {
	var gotBody apiRequest
	var gotToken string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Server-Token")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	sender := NewHTTPSender(&config.MailConfig{
		Provider:    "http",
		Endpoint:    server.URL,
		APIToken:    "test-token",
		SenderEmail: "noreply@example.com",
		SenderName:  "Passport",
	}, newTestLogger())

	err := sender.Send(context.Background(), &service.Mail{
		ToEmail:  "alice@example.com",
		ToName:   "Alice",
		Subject:  "Verify your email",
		TextBody: "Click the link to verify.",
	})
	require.NoError(t, err)

	assert.Equal(t, "test-token", gotToken)
	assert.Equal(t, "Passport <noreply@example.com>", gotBody.From)
	assert.Equal(t, "Alice <alice@example.com>", gotBody.To)
	assert.Equal(t, "Verify your email", gotBody.Subject)
	assert.Equal(t, "Click the link to verify.", gotBody.TextBody)
}

func TestHTTPSender_SendAPIFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"ErrorCode":300,"Message":"Invalid recipient"}`))
	}))
	defer server.Close()

	sender := NewHTTPSender(&config.MailConfig{
		Endpoint:    server.URL,
		SenderEmail: "noreply@example.com",
	}, newTestLogger())

	err := sender.Send(context.Background(), &service.Mail{
		ToEmail:  "bad@example.com",
		Subject:  "Verify your email",
		TextBody: "Click the link to verify.",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
	assert.Contains(t, err.Error(), "Invalid recipient")
}

func TestLogSender_Send(t *testing.T) {
	sender := NewLogSender(newTestLogger())

	err := sender.Send(context.Background(), &service.Mail{
		ToEmail:  "alice@example.com",
		Subject:  "Verify your email",
		TextBody: "Click the link to verify.",
	})
	assert.NoError(t, err)
}
