// Package httpapi exposes the slot provider's public HTTP surface:
// capability discovery and slot negotiation.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/avilovp/mediashuttle/internal/common"
	"github.com/avilovp/mediashuttle/internal/logging"
	"github.com/avilovp/mediashuttle/internal/server/auth"
	sc "github.com/avilovp/mediashuttle/internal/server/config"
	"github.com/avilovp/mediashuttle/internal/server/slots"
)

// SlotIssuer issues presigned upload grants. *slots.Service implements it.
type SlotIssuer interface {
	Issue(ctx context.Context, userID string, filename string, size int64, contentType string) (*slots.Grant, error)
}

// API is the HTTP handler for the slot provider endpoint.
type API struct {
	mux    *http.ServeMux
	issuer SlotIssuer
	config *sc.Config
	logger logging.Logger
}

func NewAPI(issuer SlotIssuer, config *sc.Config, logger logging.Logger) *API {
	api := &API{
		mux:    http.NewServeMux(),
		issuer: issuer,
		config: config,
		logger: logger,
	}
	api.registerRoutes()
	return api
}

func (a *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mux.ServeHTTP(w, r)
}

func (a *API) registerRoutes() {
	a.mux.HandleFunc("GET /capabilities", a.capabilitiesHandler)
	a.mux.HandleFunc("POST /slots", a.slotsHandler)
}

type capabilityForm struct {
	Type   string            `json:"type"`
	Fields map[string]string `json:"fields"`
}

type capabilitiesResponse struct {
	Features []string         `json:"features"`
	Forms    []capabilityForm `json:"forms"`
}

type slotRequest struct {
	Filename    string `json:"filename"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}

type slotResponse struct {
	PutURL string `json:"put_url"`
	GetURL string `json:"get_url"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// capabilitiesHandler advertises the upload feature and size ceiling in
// the document shape the engine's discovery transport consumes.
func (a *API) capabilitiesHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, capabilitiesResponse{
		Features: []string{common.UploadFeature},
		Forms: []capabilityForm{
			{
				Type: common.UploadFeature,
				Fields: map[string]string{
					common.MaxFileSizeField: strconv.FormatInt(a.config.MaxFileSize, 10),
				},
			},
		},
	})
}

func (a *API) slotsHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := a.authenticate(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	var req slotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	grant, err := a.issuer.Issue(r.Context(), userID, req.Filename, req.Size, req.ContentType)
	if err != nil {
		a.logger.Warn(r.Context(), "slot request declined",
			"user_id", userID, "size", req.Size, "error", err.Error())
		switch {
		case errors.Is(err, common.ErrExceedsMaxSize):
			writeError(w, http.StatusRequestEntityTooLarge, err.Error())
		case errors.Is(err, common.ErrQuotaExceeded):
			writeError(w, http.StatusTooManyRequests, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "slot issuance failed")
		}
		return
	}

	a.logger.Info(r.Context(), "slot issued", "user_id", userID, "size", req.Size)
	writeJSON(w, http.StatusCreated, slotResponse{PutURL: grant.PutURL, GetURL: grant.GetURL})
}

func (a *API) authenticate(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", fmt.Errorf("%w: missing bearer token", common.ErrInvalidToken)
	}
	return auth.GetUserIDFromToken(token, []byte(a.config.SecretKey))
}
