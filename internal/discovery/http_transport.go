package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// capabilitiesDoc is the JSON shape of a service's GET /capabilities
// response. It mirrors CapabilityRecord minus the address, which the
// transport already knows.
type capabilitiesDoc struct {
	Features []string `json:"features"`
	Forms    []struct {
		Type   string            `json:"type"`
		Fields map[string]string `json:"fields"`
	} `json:"forms"`
}

// HTTPTransport queries a fixed list of service base URLs for their
// capability documents. It is the standalone-deployment counterpart of
// the chat session's discovery exchange: one record per address, in
// configured order. Addresses that fail to answer yield no record rather
// than failing the whole discovery round.
type HTTPTransport struct {
	Addresses []string
	Client    *http.Client
}

func NewHTTPTransport(addresses []string, client *http.Client) *HTTPTransport {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPTransport{Addresses: addresses, Client: client}
}

func (t *HTTPTransport) Discover(ctx context.Context) ([]CapabilityRecord, error) {
	records := make([]CapabilityRecord, 0, len(t.Addresses))
	for _, addr := range t.Addresses {
		rec, err := t.query(ctx, addr)
		if err != nil {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func (t *HTTPTransport) query(ctx context.Context, addr string) (CapabilityRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr+"/capabilities", nil)
	if err != nil {
		return CapabilityRecord{}, err
	}

	resp, err := t.Client.Do(req)
	if err != nil {
		return CapabilityRecord{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return CapabilityRecord{}, fmt.Errorf("capabilities query failed: %s", resp.Status)
	}

	var doc capabilitiesDoc
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return CapabilityRecord{}, fmt.Errorf("decoding capabilities: %w", err)
	}

	rec := CapabilityRecord{Address: addr, Features: doc.Features}
	for _, f := range doc.Forms {
		rec.Forms = append(rec.Forms, Form{Type: f.Type, Fields: f.Fields})
	}
	return rec, nil
}
