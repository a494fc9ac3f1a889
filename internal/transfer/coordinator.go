// Package transfer orchestrates attachment uploads and downloads: it
// resolves payload bytes, applies the per-transfer encryption envelope,
// negotiates upload slots, moves bytes over HTTP and keeps the message
// store in step with the outcome.
package transfer

import (
	"net/http"
	"sync"

	"github.com/avilovp/mediashuttle/internal/discovery"
	"github.com/avilovp/mediashuttle/internal/logging"
	"github.com/avilovp/mediashuttle/internal/slot"
	"github.com/avilovp/mediashuttle/internal/store"
)

// Coordinator runs both pipelines. Every collaborator is injected; the
// coordinator owns no global state. Each request runs in its own
// goroutine and completes through a single-fire result channel; the only
// state shared between requests is the in-flight download set, mutated
// solely at operation start and finish under the coordinator's mutex.
//
// There is no cancellation once a slot is requested or a transfer is in
// flight; callers may abandon the result channel but the request runs to
// completion or failure. Timeouts are whatever the injected http.Client
// enforces.
type Coordinator struct {
	registry   *discovery.Registry
	negotiator slot.Negotiator
	blobs      store.BlobStore
	messages   store.MessageStore
	client     *http.Client
	logger     logging.Logger

	mu       sync.Mutex
	inflight map[string]*fetchOp
}

// fetchOp is one in-flight download. Later requests for the same resource
// join its waiter list instead of fetching again.
type fetchOp struct {
	waiters []chan DownloadResult
}

func NewCoordinator(
	registry *discovery.Registry,
	negotiator slot.Negotiator,
	blobs store.BlobStore,
	messages store.MessageStore,
	client *http.Client,
	logger logging.Logger,
) *Coordinator {
	if client == nil {
		client = http.DefaultClient
	}
	return &Coordinator{
		registry:   registry,
		negotiator: negotiator,
		blobs:      blobs,
		messages:   messages,
		client:     client,
		logger:     logger.With("module", "transfer"),
		inflight:   make(map[string]*fetchOp),
	}
}
