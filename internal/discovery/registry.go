package discovery

import (
	"context"
	"sync"

	"github.com/avilovp/mediashuttle/internal/logging"
)

// Registry holds the latest snapshot of eligible upload services. The
// snapshot is rebuilt wholesale on every refresh and replaced atomically;
// readers never observe a partially updated list and there is no history.
type Registry struct {
	transport Transport
	logger    logging.Logger

	mu       sync.RWMutex
	services []Service
	subs     []chan []Service
}

func NewRegistry(transport Transport, logger logging.Logger) *Registry {
	return &Registry{
		transport: transport,
		logger:    logger.With("module", "discovery"),
	}
}

// Refresh queries the discovery transport and rebuilds the service list
// from the returned records. Records lacking the upload feature or a
// positive size ceiling are dropped, never partially included.
func (r *Registry) Refresh(ctx context.Context) error {
	records, err := r.transport.Discover(ctx)
	if err != nil {
		return err
	}
	r.Rebuild(ctx, records)
	return nil
}

// Rebuild replaces the current snapshot with services derived from
// records, preserving discovery order. It also feeds the result to
// subscribers.
func (r *Registry) Rebuild(ctx context.Context, records []CapabilityRecord) {
	services := make([]Service, 0, len(records))
	for _, rec := range records {
		svc, ok := serviceFromRecord(rec)
		if !ok {
			r.logger.Debug(ctx, "record dropped", "address", rec.Address)
			continue
		}
		services = append(services, svc)
	}

	r.mu.Lock()
	r.services = services
	subs := make([]chan []Service, len(r.subs))
	copy(subs, r.subs)
	r.mu.Unlock()

	r.logger.Info(ctx, "service list rebuilt", "count", len(services))

	for _, ch := range subs {
		// Non-blocking: an undrained snapshot is discarded so a slow
		// subscriber always finds the newest one, and the refresh never
		// stalls.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- services:
		default:
		}
	}
}

// BestService returns the service uploads are sent to. Policy is first in
// discovery order; ties are broken by arrival order, not by size.
func (r *Registry) BestService() (Service, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.services) == 0 {
		return Service{}, false
	}
	return r.services[0], true
}

// CanUpload reports whether at least one eligible service is known.
func (r *Registry) CanUpload() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.services) > 0
}

// Services returns a copy of the current snapshot.
func (r *Registry) Services() []Service {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Service, len(r.services))
	copy(out, r.services)
	return out
}

// Subscribe returns a channel receiving each snapshot replacement. The
// channel is buffered by one; subscribers that fall behind see only the
// most recent snapshots.
func (r *Registry) Subscribe() <-chan []Service {
	ch := make(chan []Service, 1)
	r.mu.Lock()
	r.subs = append(r.subs, ch)
	r.mu.Unlock()
	return ch
}
