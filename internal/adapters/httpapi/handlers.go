package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mikey/email-domain-verifier/internal/core"
	"go.uber.org/zap"
)

// maxBodyBytes caps request bodies
const maxBodyBytes = 4 << 20

// Verifier is the subset of core.VerifierService the API exposes
type Verifier interface {
	Classify(ctx context.Context, email string) (*core.VerificationResult, error)
	ClassifyBulk(ctx context.Context, emails []string) (*core.BulkVerificationResult, error)
	PopulateFrom(ctx context.Context, origin string, entries []string) (*core.PopulateResult, error)
	Status(ctx context.Context) (*core.StoreStatus, error)
}

// Handlers serves the verification API
type Handlers struct {
	verifier    Verifier
	logger      *zap.Logger
	maxBulkSize int
}

// NewHandlers creates the API handlers. maxBulkSize <= 0 disables the cap.
func NewHandlers(verifier Verifier, logger *zap.Logger, maxBulkSize int) *Handlers {
	return &Handlers{
		verifier:    verifier,
		logger:      logger,
		maxBulkSize: maxBulkSize,
	}
}

type verifyRequest struct {
	Email string `json:"email"`
}

type bulkVerifyRequest struct {
	Emails []string `json:"emails"`
}

type populateRequest struct {
	Domains []string `json:"domains"`
	Source  string   `json:"source"`
}

// Verify handles POST /api/verify/
func (h *Handlers) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.verifier.Classify(r.Context(), req.Email)
	if err != nil {
		h.storeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// BulkVerify handles POST /api/bulk-verify/
func (h *Handlers) BulkVerify(w http.ResponseWriter, r *http.Request) {
	var req bulkVerifyRequest
	if !h.decode(w, r, &req) {
		return
	}

	if len(req.Emails) == 0 {
		respondError(w, http.StatusBadRequest, "emails must be a non-empty list")
		return
	}
	if h.maxBulkSize > 0 && len(req.Emails) > h.maxBulkSize {
		respondError(w, http.StatusRequestEntityTooLarge, "too many emails in one request")
		return
	}

	result, err := h.verifier.ClassifyBulk(r.Context(), req.Emails)
	if err != nil {
		h.storeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Populate handles POST /api/populate/
func (h *Handlers) Populate(w http.ResponseWriter, r *http.Request) {
	var req populateRequest
	if !h.decode(w, r, &req) {
		return
	}

	origin := req.Source
	if origin == "" {
		origin = "api"
	}

	result, err := h.verifier.PopulateFrom(r.Context(), origin, req.Domains)
	if err != nil {
		h.storeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Status handles GET /api/status/
func (h *Handlers) Status(w http.ResponseWriter, r *http.Request) {
	status, err := h.verifier.Status(r.Context())
	if err != nil {
		h.storeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, status)
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func (h *Handlers) storeError(w http.ResponseWriter, err error) {
	h.logger.Error("Request failed", zap.Error(err))
	if errors.Is(err, core.ErrStoreUnavailable) {
		respondError(w, http.StatusServiceUnavailable, "domain store unavailable")
		return
	}
	respondError(w, http.StatusInternalServerError, "internal error")
}

// Response helpers

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
