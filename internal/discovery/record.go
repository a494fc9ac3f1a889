// Package discovery maintains the set of upload services known from
// capability discovery and selects the service uploads go to.
package discovery

import (
	"context"
	"strconv"

	"github.com/avilovp/mediashuttle/internal/common"
)

// Form is a typed field set inside a capability record, mirroring the
// form-like element of the discovery protocol.
type Form struct {
	Type   string
	Fields map[string]string
}

// CapabilityRecord is the raw discovery payload for one remote address.
// It is consumed once to derive zero or one Service.
type CapabilityRecord struct {
	Address  string
	Features []string
	Forms    []Form
}

// Service is an upload service eligible to receive transfers. MaxUploadSize
// is always strictly positive; an unknown or zero ceiling disqualifies the
// record instead of being represented as 0.
type Service struct {
	Address       string
	MaxUploadSize int64
}

// Transport yields capability records for the remote addresses it knows
// about. The chat session is one implementation; HTTPTransport is another.
type Transport interface {
	Discover(ctx context.Context) ([]CapabilityRecord, error)
}

// serviceFromRecord derives a Service from a record. A record qualifies
// only when it advertises the upload feature and a form in the matching
// namespace declares a max-file-size strictly greater than zero.
func serviceFromRecord(rec CapabilityRecord) (Service, bool) {
	if !hasFeature(rec.Features, common.UploadFeature) {
		return Service{}, false
	}
	for _, f := range rec.Forms {
		if f.Type != common.UploadFeature {
			continue
		}
		raw, ok := f.Fields[common.MaxFileSizeField]
		if !ok {
			continue
		}
		size, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || size <= 0 {
			continue
		}
		return Service{Address: rec.Address, MaxUploadSize: size}, true
	}
	return Service{}, false
}

func hasFeature(features []string, want string) bool {
	for _, f := range features {
		if f == want {
			return true
		}
	}
	return false
}
