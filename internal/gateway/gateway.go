// Package gateway implements the notification boundary: the core hands
// over an opaque notify address and a message, the gateway owns delivery.
package gateway

import "context"

// Notifier delivers a message to a participant-owned address. Delivery is
// best effort; callers must not roll back state on failure.
type Notifier interface {
	Notify(ctx context.Context, address, text string) error
}
