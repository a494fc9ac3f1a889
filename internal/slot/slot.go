// Package slot negotiates single-use upload locations with a chosen
// service: one request carrying filename, size and content type, one
// response carrying a write URL and a read URL.
package slot

import (
	"context"

	"github.com/avilovp/mediashuttle/internal/discovery"
)

// Slot is a one-time-use pair of locations issued for a single transfer.
// Slots are never cached or reused; a fresh one is requested per transfer.
type Slot struct {
	// PutURL receives the payload bytes via HTTP PUT.
	PutURL string
	// GetURL is the location shared publicly once the transfer succeeds.
	GetURL string
}

// Negotiator requests a slot from a service. Implementations make exactly
// one attempt; retry and fallback policy belongs to the caller and is not
// implemented anywhere in this engine.
type Negotiator interface {
	RequestSlot(ctx context.Context, svc discovery.Service, filename string, size int64, contentType string) (Slot, error)
}
