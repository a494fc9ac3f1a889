// Package slots issues single-use upload slots backed by S3-compatible
// object storage and keeps a ledger of what was issued to whom.
package slots

import (
	"context"
	"time"
)

// IssuedSlot is one ledger row: a slot handed to a user, before any bytes
// have necessarily been transferred.
type IssuedSlot struct {
	ID          string
	UserID      string
	ObjectKey   string
	Filename    string
	Size        int64
	ContentType string
	IssuedAt    time.Time
}

// Repository persists the slot ledger.
type Repository interface {
	Insert(ctx context.Context, s *IssuedSlot) error
	// IssuedBytesSince sums the sizes of slots issued to userID at or
	// after since. Quota enforcement counts issued slots, not confirmed
	// uploads; a client that requests slots and never uses them still
	// burns quota.
	IssuedBytesSince(ctx context.Context, userID string, since time.Time) (int64, error)
}
