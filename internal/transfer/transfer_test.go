package transfer

import (
	"context"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/avilovp/mediashuttle/internal/common"
	"github.com/avilovp/mediashuttle/internal/discovery"
	"github.com/avilovp/mediashuttle/internal/logging"
	"github.com/avilovp/mediashuttle/internal/slot"
	"github.com/avilovp/mediashuttle/internal/store"
	"github.com/stretchr/testify/require"
)

// staticTransport feeds the registry a fixed record set.
type staticTransport struct {
	records []discovery.CapabilityRecord
}

func (s *staticTransport) Discover(ctx context.Context) ([]discovery.CapabilityRecord, error) {
	return s.records, nil
}

func registryWith(t *testing.T, services ...discovery.Service) *discovery.Registry {
	t.Helper()
	records := make([]discovery.CapabilityRecord, 0, len(services))
	for _, svc := range services {
		records = append(records, discovery.CapabilityRecord{
			Address:  svc.Address,
			Features: []string{common.UploadFeature},
			Forms: []discovery.Form{{
				Type:   common.UploadFeature,
				Fields: map[string]string{common.MaxFileSizeField: fmtInt(svc.MaxUploadSize)},
			}},
		})
	}
	r := discovery.NewRegistry(&staticTransport{records: records}, testLogger())
	require.NoError(t, r.Refresh(context.Background()))
	return r
}

func fmtInt(n int64) string {
	// strconv would do; kept local to avoid an import used once.
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	neg := n < 0
	if neg {
		n = -n
	}
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func testLogger() logging.Logger {
	return logging.NewText(io.Discard)
}

// fakeNegotiator hands out a fixed slot and counts requests.
type fakeNegotiator struct {
	slot  slot.Slot
	err   error
	calls atomic.Int32

	lastFilename    string
	lastSize        int64
	lastContentType string
}

func (f *fakeNegotiator) RequestSlot(ctx context.Context, svc discovery.Service, filename string, size int64, contentType string) (slot.Slot, error) {
	f.calls.Add(1)
	f.lastFilename = filename
	f.lastSize = size
	f.lastContentType = contentType
	if f.err != nil {
		return slot.Slot{}, f.err
	}
	return f.slot, nil
}

// memBlobs is an in-memory BlobStore.
type memBlobs struct {
	mu   sync.Mutex
	data map[string][]byte
	seq  int
}

func newMemBlobs() *memBlobs {
	return &memBlobs{data: make(map[string][]byte)}
}

func (m *memBlobs) Put(ctx context.Context, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	locator := "blob-" + fmtInt(int64(m.seq))
	m.data[locator] = append([]byte(nil), data...)
	return locator, nil
}

func (m *memBlobs) Get(ctx context.Context, locator string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.data[locator]
	if !ok {
		return nil, common.ErrNotFound
	}
	return data, nil
}

func (m *memBlobs) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}

// memMessages is an in-memory MessageStore.
type memMessages struct {
	mu        sync.Mutex
	transfers map[string]*store.Transfer
}

func newMemMessages() *memMessages {
	return &memMessages{transfers: make(map[string]*store.Transfer)}
}

func (m *memMessages) SaveTransfer(ctx context.Context, t *store.Transfer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *t
	m.transfers[t.MessageID] = &cp
	return nil
}

func (m *memMessages) GetTransfer(ctx context.Context, messageID string) (*store.Transfer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.transfers[messageID]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *memMessages) UpdateTransfer(ctx context.Context, t *store.Transfer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.transfers[t.MessageID]; !ok {
		return common.ErrNotFound
	}
	cp := *t
	m.transfers[t.MessageID] = &cp
	return nil
}

type testEnv struct {
	coord      *Coordinator
	registry   *discovery.Registry
	negotiator *fakeNegotiator
	blobs      *memBlobs
	messages   *memMessages
}

func newTestEnv(t *testing.T, client *http.Client, services ...discovery.Service) *testEnv {
	t.Helper()
	env := &testEnv{
		registry:   registryWith(t, services...),
		negotiator: &fakeNegotiator{},
		blobs:      newMemBlobs(),
		messages:   newMemMessages(),
	}
	env.coord = NewCoordinator(env.registry, env.negotiator, env.blobs, env.messages, client, testLogger())
	return env
}
