package slot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/avilovp/mediashuttle/internal/common"
	"github.com/avilovp/mediashuttle/internal/discovery"
)

type slotRequest struct {
	Filename    string `json:"filename"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}

type slotResponse struct {
	PutURL string `json:"put_url"`
	GetURL string `json:"get_url"`
}

// HTTPNegotiator requests slots from a service's POST /slots endpoint.
// The service address from discovery is the endpoint's base URL.
type HTTPNegotiator struct {
	Client *http.Client
	// Token, when set, is sent as a bearer token on slot requests.
	Token string
}

func NewHTTPNegotiator(client *http.Client, token string) *HTTPNegotiator {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPNegotiator{Client: client, Token: token}
}

// RequestSlot performs the single negotiation exchange. Any decline or
// transport failure is wrapped in common.ErrNoSlot; there is no retry.
func (n *HTTPNegotiator) RequestSlot(ctx context.Context, svc discovery.Service, filename string, size int64, contentType string) (Slot, error) {
	body, err := json.Marshal(slotRequest{Filename: filename, Size: size, ContentType: contentType})
	if err != nil {
		return Slot{}, fmt.Errorf("%w: encoding request: %v", common.ErrNoSlot, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, svc.Address+"/slots", bytes.NewReader(body))
	if err != nil {
		return Slot{}, fmt.Errorf("%w: %v", common.ErrNoSlot, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if n.Token != "" {
		req.Header.Set("Authorization", "Bearer "+n.Token)
	}

	resp, err := n.Client.Do(req)
	if err != nil {
		return Slot{}, fmt.Errorf("%w: %v", common.ErrNoSlot, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return Slot{}, fmt.Errorf("%w: service declined: %s; body: %s", common.ErrNoSlot, resp.Status, string(b))
	}

	var sr slotResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return Slot{}, fmt.Errorf("%w: decoding response: %v", common.ErrNoSlot, err)
	}
	if sr.PutURL == "" || sr.GetURL == "" {
		return Slot{}, fmt.Errorf("%w: incomplete slot in response", common.ErrNoSlot)
	}

	return Slot{PutURL: sr.PutURL, GetURL: sr.GetURL}, nil
}
