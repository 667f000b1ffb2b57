// Package delivery defines the contract every transport implementation
// (HTTP, workers) exposes to the application entrypoint.
package delivery

import "context"

// Delivery is a long-running transport server managed by the fx lifecycle.
type Delivery interface {
	Serve(ctx context.Context) error
}
