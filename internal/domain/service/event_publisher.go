package service

import (
	"context"
)

// Account lifecycle event types.
const (
	EventAccountRegistered    = "account.registered"
	EventAccountVerified      = "account.verified"
	EventAccountPasswordReset = "account.password_reset"
)

// AccountEvent represents an account lifecycle event published for downstream consumers.
type AccountEvent struct {
	RequestID  string `json:"request_id,omitempty"` // For distributed tracing
	Type       string `json:"type"`                 // One of the Event* constants
	UserID     string `json:"user_id"`
	Email      string `json:"email"`
	OccurredAt string `json:"occurred_at"` // RFC 3339 timestamp
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishAccountEvent publishes an account lifecycle event for async processing
	PublishAccountEvent(ctx context.Context, event *AccountEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
