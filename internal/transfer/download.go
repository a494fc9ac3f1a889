package transfer

import (
	"context"
	"errors"
	"fmt"

	"github.com/avilovp/mediashuttle/internal/common"
	"github.com/avilovp/mediashuttle/internal/cryptox"
	"github.com/avilovp/mediashuttle/internal/store"
	"github.com/avilovp/mediashuttle/internal/urlcodec"
)

// DownloadResult is delivered once to every caller waiting on the same
// resource. Locator addresses the stored plaintext in the blob store.
type DownloadResult struct {
	Locator string
	Err     error
}

// Download fetches a shareable link, decrypts it when the original URL
// carries key material, and persists the plaintext. Concurrent requests
// for the same resource (the normalized URL, fragment excluded) share one
// network fetch: later callers join the in-flight operation and receive
// its single outcome.
//
// Download-side failures are logged and terminate the operation without
// side effects; the result channel still reports them so embedding code
// can observe completion.
func (c *Coordinator) Download(ctx context.Context, rawURL, messageID string) <-chan DownloadResult {
	ch := make(chan DownloadResult, 1)

	key, err := urlcodec.DedupeKey(rawURL)
	if err != nil {
		c.logger.Warn(ctx, "unfetchable url", "url", rawURL, "error", err)
		ch <- DownloadResult{Err: err}
		return ch
	}

	c.mu.Lock()
	if op, ok := c.inflight[key]; ok {
		// Already fetching this resource; no second transfer starts.
		op.waiters = append(op.waiters, ch)
		c.mu.Unlock()
		return ch
	}
	op := &fetchOp{waiters: []chan DownloadResult{ch}}
	c.inflight[key] = op
	c.mu.Unlock()

	go func() {
		res := c.runDownload(ctx, rawURL, messageID)
		if res.Err != nil {
			c.logger.Warn(ctx, "download failed", "url", key, "error", res.Err)
		}

		c.mu.Lock()
		delete(c.inflight, key)
		waiters := op.waiters
		c.mu.Unlock()

		for _, w := range waiters {
			w <- res
		}
	}()
	return ch
}

func (c *Coordinator) runDownload(ctx context.Context, rawURL, messageID string) DownloadResult {
	// Key material is extracted from the original URL, fragment and all,
	// before the URL is normalized for fetching.
	env, encrypted := urlcodec.ExtractKey(rawURL)

	fetchURL, err := urlcodec.NormalizeForFetch(rawURL)
	if err != nil {
		return DownloadResult{Err: err}
	}

	data, err := c.getBytes(ctx, fetchURL)
	if err != nil {
		return DownloadResult{Err: err}
	}

	if encrypted {
		// A body at or below tag size holds no ciphertext; nothing may be
		// persisted from it.
		plaintext, err := cryptox.Decrypt(data, env.Key, env.IV)
		if err != nil {
			return DownloadResult{Err: err}
		}
		data = plaintext
	}

	locator, err := c.blobs.Put(ctx, data)
	if err != nil {
		return DownloadResult{Err: fmt.Errorf("%w: storing blob: %v", common.ErrUnknown, err)}
	}

	c.recordDownloadComplete(ctx, messageID, rawURL, locator, int64(len(data)))
	return DownloadResult{Locator: locator}
}

// recordDownloadComplete marks the owning message record as transferred.
// A missing record is an inconsistency worth reporting, not a crash.
func (c *Coordinator) recordDownloadComplete(ctx context.Context, messageID, url, locator string, size int64) {
	if messageID == "" || c.messages == nil {
		return
	}

	t, err := c.messages.GetTransfer(ctx, messageID)
	if errors.Is(err, common.ErrNotFound) {
		c.logger.Error(ctx, "downloaded media for a missing message record", "message_id", messageID, "url", url)
		return
	}
	if err != nil {
		c.logger.Warn(ctx, "could not read transfer record", "message_id", messageID, "error", err)
		return
	}

	t.Locator = locator
	t.Size = size
	t.Status = store.StatusComplete
	if err := c.messages.UpdateTransfer(ctx, t); err != nil {
		c.logger.Warn(ctx, "could not mark transfer complete", "message_id", messageID, "error", err)
	}
}
