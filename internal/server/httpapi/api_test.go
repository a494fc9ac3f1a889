package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avilovp/mediashuttle/internal/common"
	"github.com/avilovp/mediashuttle/internal/logging"
	"github.com/avilovp/mediashuttle/internal/server/auth"
	sc "github.com/avilovp/mediashuttle/internal/server/config"
	"github.com/avilovp/mediashuttle/internal/server/slots"
)

type stubIssuer struct {
	grant    *slots.Grant
	err      error
	userID   string
	filename string
	size     int64
	calls    int
}

func (s *stubIssuer) Issue(ctx context.Context, userID string, filename string, size int64, contentType string) (*slots.Grant, error) {
	s.calls++
	s.userID = userID
	s.filename = filename
	s.size = size
	if s.err != nil {
		return nil, s.err
	}
	return s.grant, nil
}

func newTestAPI(issuer *stubIssuer) (*API, *sc.Config) {
	cfg := &sc.Config{
		SecretKey:   "test-secret",
		MaxFileSize: 1000,
	}
	logger := logging.NewText(io.Discard)
	return NewAPI(issuer, cfg, logger), cfg
}

func bearerFor(t *testing.T, userID, secret string) string {
	t.Helper()
	token, err := auth.GenerateToken(userID, []byte(secret), time.Minute)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestCapabilities(t *testing.T) {
	api, _ := newTestAPI(&stubIssuer{})

	req := httptest.NewRequest(http.MethodGet, "/capabilities", nil)
	rec := httptest.NewRecorder()
	api.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var doc capabilitiesResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&doc))
	assert.Contains(t, doc.Features, common.UploadFeature)
	require.Len(t, doc.Forms, 1)
	assert.Equal(t, common.UploadFeature, doc.Forms[0].Type)
	assert.Equal(t, "1000", doc.Forms[0].Fields[common.MaxFileSizeField])
}

func postSlots(api *API, authHeader string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/slots", bytes.NewReader(body))
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	api.ServeHTTP(rec, req)
	return rec
}

func slotBody(t *testing.T, filename string, size int64) []byte {
	t.Helper()
	b, err := json.Marshal(slotRequest{Filename: filename, Size: size, ContentType: "image/png"})
	require.NoError(t, err)
	return b
}

func TestSlots_Success(t *testing.T) {
	issuer := &stubIssuer{grant: &slots.Grant{PutURL: "https://s3.test/put", GetURL: "https://s3.test/get"}}
	api, cfg := newTestAPI(issuer)

	rec := postSlots(api, bearerFor(t, "u1", cfg.SecretKey), slotBody(t, "photo.png", 500))

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp slotResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "https://s3.test/put", resp.PutURL)
	assert.Equal(t, "https://s3.test/get", resp.GetURL)

	assert.Equal(t, "u1", issuer.userID)
	assert.Equal(t, "photo.png", issuer.filename)
	assert.Equal(t, int64(500), issuer.size)
}

func TestSlots_MissingToken(t *testing.T) {
	issuer := &stubIssuer{}
	api, _ := newTestAPI(issuer)

	rec := postSlots(api, "", slotBody(t, "a.png", 10))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, issuer.calls)
}

func TestSlots_BadToken(t *testing.T) {
	issuer := &stubIssuer{}
	api, _ := newTestAPI(issuer)

	rec := postSlots(api, "Bearer not-a-token", slotBody(t, "a.png", 10))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, issuer.calls)
}

func TestSlots_TokenSignedWithWrongKey(t *testing.T) {
	issuer := &stubIssuer{}
	api, _ := newTestAPI(issuer)

	rec := postSlots(api, bearerFor(t, "u1", "other-secret"), slotBody(t, "a.png", 10))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, issuer.calls)
}

func TestSlots_MalformedBody(t *testing.T) {
	issuer := &stubIssuer{}
	api, cfg := newTestAPI(issuer)

	rec := postSlots(api, bearerFor(t, "u1", cfg.SecretKey), []byte("{not json"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, issuer.calls)
}

func TestSlots_TooLarge(t *testing.T) {
	issuer := &stubIssuer{err: common.ErrExceedsMaxSize}
	api, cfg := newTestAPI(issuer)

	rec := postSlots(api, bearerFor(t, "u1", cfg.SecretKey), slotBody(t, "big.bin", 2000))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestSlots_QuotaExceeded(t *testing.T) {
	issuer := &stubIssuer{err: common.ErrQuotaExceeded}
	api, cfg := newTestAPI(issuer)

	rec := postSlots(api, bearerFor(t, "u1", cfg.SecretKey), slotBody(t, "a.bin", 500))

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestSlots_IssuerFailure(t *testing.T) {
	issuer := &stubIssuer{err: errors.New("presign failed")}
	api, cfg := newTestAPI(issuer)

	rec := postSlots(api, bearerFor(t, "u1", cfg.SecretKey), slotBody(t, "a.bin", 500))

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp errorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.NotContains(t, resp.Error, "presign")
}

func TestSlots_MethodNotAllowed(t *testing.T) {
	api, _ := newTestAPI(&stubIssuer{})

	req := httptest.NewRequest(http.MethodGet, "/slots", nil)
	rec := httptest.NewRecorder()
	api.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
