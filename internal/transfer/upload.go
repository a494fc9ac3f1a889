package transfer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/avilovp/mediashuttle/internal/common"
	"github.com/avilovp/mediashuttle/internal/cryptox"
	"github.com/avilovp/mediashuttle/internal/store"
	"github.com/avilovp/mediashuttle/internal/urlcodec"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// UploadRequest describes one outbound transfer. Exactly one of Data,
// Locator and Path supplies the payload bytes, checked in that order.
type UploadRequest struct {
	// MessageID ties the transfer to its owning message record. Empty
	// when the caller tracks completion itself.
	MessageID string

	Data    []byte
	Locator string
	Path    string

	// Filename is advertised during slot negotiation. Derived from Path
	// or generated when empty.
	Filename string

	// ContentType of the plaintext payload. Sniffed when empty.
	ContentType string

	// Encrypt wraps the payload in a fresh envelope whose key material
	// ends up in the shareable URL's fragment. The decision itself (the
	// chat session's encryption policy) is made by the caller.
	Encrypt bool
}

// UploadResult is delivered exactly once per request. On success URL is
// the final shareable link, marker-scheme and fragment included when the
// payload was encrypted.
type UploadResult struct {
	URL string
	Err error
}

// Upload starts one upload and returns its single-fire result channel.
// Failures always reach the channel carrying the specific error kind.
func (c *Coordinator) Upload(ctx context.Context, req UploadRequest) <-chan UploadResult {
	ch := make(chan UploadResult, 1)
	go func() {
		res := c.runUpload(ctx, req)
		if res.Err != nil {
			c.logger.Error(ctx, "upload failed", "message_id", req.MessageID, "error", res.Err)
		}
		ch <- res
	}()
	return ch
}

// runUpload executes the upload steps in order, short-circuiting on the
// first failure. No partial outcome is ever reported as success.
func (c *Coordinator) runUpload(ctx context.Context, req UploadRequest) UploadResult {
	fail := func(err error) UploadResult { return UploadResult{Err: err} }

	// Resolve source.
	data, err := c.resolveSource(ctx, req)
	if err != nil {
		return fail(err)
	}

	// Service check.
	svc, ok := c.registry.BestService()
	if !ok {
		return fail(common.ErrNoServers)
	}

	// Size check against the bytes that will actually travel: ciphertext
	// plus tag when encrypting, the plaintext length otherwise. No slot is
	// requested for an oversized payload.
	transmitted := int64(len(data))
	if req.Encrypt {
		transmitted = int64(cryptox.EncryptedLength(len(data)))
	}
	if transmitted > svc.MaxUploadSize {
		return fail(fmt.Errorf("%w: %d > %d", common.ErrExceedsMaxSize, transmitted, svc.MaxUploadSize))
	}

	// Conditional encryption.
	payload := data
	contentType := req.ContentType
	var env *cryptox.Envelope
	if req.Encrypt {
		env, err = cryptox.GenerateEnvelope()
		if err != nil {
			return fail(err)
		}
		payload, err = cryptox.Encrypt(data, env.Key, env.IV)
		if err != nil {
			return fail(err)
		}
		// Ciphertext carries no recognizable type.
		contentType = "application/octet-stream"
	} else if contentType == "" {
		contentType = mimetype.Detect(data).String()
	}

	// Slot negotiation: a single attempt, no fallback to another service.
	s, err := c.negotiator.RequestSlot(ctx, svc, c.filename(req), int64(len(payload)), contentType)
	if err != nil {
		return fail(fmt.Errorf("%w: slot negotiation: %w", common.ErrServer, err))
	}

	// Transfer.
	if err := c.putBytes(ctx, s.PutURL, payload, contentType); err != nil {
		return fail(err)
	}

	// Finalize URL.
	shareURL := s.GetURL
	if env != nil {
		shareURL, err = urlcodec.EmbedKey(s.GetURL, env)
		if err != nil {
			return fail(err)
		}
	}

	c.recordUploadComplete(ctx, req, shareURL, transmitted, contentType)

	c.logger.Info(ctx, "upload complete", "message_id", req.MessageID, "size", transmitted)
	return UploadResult{URL: shareURL}
}

// resolveSource picks the payload bytes from the request, the blob store
// or the filesystem.
func (c *Coordinator) resolveSource(ctx context.Context, req UploadRequest) ([]byte, error) {
	switch {
	case len(req.Data) > 0:
		return req.Data, nil
	case req.Locator != "":
		data, err := c.blobs.Get(ctx, req.Locator)
		if err != nil {
			return nil, fmt.Errorf("%w: locator %s: %v", common.ErrFileNotFound, req.Locator, err)
		}
		return data, nil
	case req.Path != "":
		data, err := os.ReadFile(req.Path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrFileNotFound, err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("%w: request carries no byte source", common.ErrFileNotFound)
	}
}

func (c *Coordinator) filename(req UploadRequest) string {
	if req.Filename != "" {
		return req.Filename
	}
	if req.Path != "" {
		return filepath.Base(req.Path)
	}
	return uuid.NewString()
}

// recordUploadComplete marks the owning message record, when there is
// one. Bookkeeping trouble after a successful transfer is logged, not
// turned into an upload failure.
func (c *Coordinator) recordUploadComplete(ctx context.Context, req UploadRequest, url string, size int64, contentType string) {
	if req.MessageID == "" || c.messages == nil {
		return
	}
	t := &store.Transfer{
		MessageID:   req.MessageID,
		URL:         url,
		Size:        size,
		ContentType: contentType,
		Status:      store.StatusComplete,
	}
	if err := c.messages.SaveTransfer(ctx, t); err != nil {
		c.logger.Warn(ctx, "uploaded but could not record transfer", "message_id", req.MessageID, "error", err)
	}
}
