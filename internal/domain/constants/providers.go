// Package constants holds shared configuration constant values.
package constants

// Pub/Sub provider identifiers.
const (
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
)

// Mail provider identifiers.
const (
	MailProviderLog  = "log"
	MailProviderHTTP = "http"
)
