// Package store defines the persistence collaborators the transfer
// pipelines depend on. Both are injected at construction; the engine never
// reaches for a process-wide instance.
package store

import "context"

// Transfer status values.
const (
	StatusPending  = "pending"
	StatusComplete = "completed"
	StatusFailed   = "failed"
)

// Transfer is the media record attached to a chat message: where the bytes
// live remotely (URL), where they live locally (Locator) and how far the
// transfer has progressed.
type Transfer struct {
	MessageID   string
	URL         string
	Locator     string
	Size        int64
	ContentType string
	Status      string
}

// MessageStore is the abstract message/media store. It returns
// common.ErrNotFound when the owning message record is missing.
type MessageStore interface {
	SaveTransfer(ctx context.Context, t *Transfer) error
	GetTransfer(ctx context.Context, messageID string) (*Transfer, error)
	UpdateTransfer(ctx context.Context, t *Transfer) error
}

// BlobStore holds media payload bytes and addresses them by opaque
// locators.
type BlobStore interface {
	Put(ctx context.Context, data []byte) (locator string, err error)
	Get(ctx context.Context, locator string) ([]byte, error)
}
