package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/go-marketing-api/internal/application/batch"
	"github.com/go-marketing-api/internal/domain"
	"github.com/go-marketing-api/internal/pkg/validate"
	"github.com/go-marketing-api/internal/transport/http/middleware"
)

// BatchHandler handles email verification endpoints, both the synchronous
// verify call and the observable background batches.
type BatchHandler struct {
	svc batch.Service
}

func NewBatchHandler(svc batch.Service) *BatchHandler { return &BatchHandler{svc: svc} }

// VerifyResponse pairs the finalized batch with its per-email results.
type VerifyResponse struct {
	Batch   *domain.VerificationBatch   `json:"batch"`
	Results []domain.VerificationResult `json:"results"`
}

// StartResponse acknowledges a background batch run.
type StartResponse struct {
	BatchID  string         `json:"batch_id"`
	Status   string         `json:"status"`
	Progress batch.Progress `json:"progress"`
}

func decodeEmails(w http.ResponseWriter, r *http.Request) ([]string, bool) {
	var req domain.VerifyEmailsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return req.Emails, true
}

// Verify runs a batch synchronously and returns the full classification.
func (h *BatchHandler) Verify(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	emails, ok := decodeEmails(w, r)
	if !ok {
		return
	}
	b, results, err := h.svc.Run(r.Context(), claims.UserID, emails)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, VerifyResponse{Batch: b, Results: results})
}

// Create starts a background batch and returns 202 with its id.
func (h *BatchHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	emails, ok := decodeEmails(w, r)
	if !ok {
		return
	}
	handle, err := h.svc.Start(r.Context(), claims.UserID, emails)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, StartResponse{
		BatchID:  handle.BatchID,
		Status:   domain.BatchStatusPending,
		Progress: handle.Progress(),
	})
}

func (h *BatchHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	batches, err := h.svc.List(r.Context(), claims.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, batches)
}

func (h *BatchHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	b, err := h.svc.Get(r.Context(), claims.UserID, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *BatchHandler) Results(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	results, err := h.svc.Results(r.Context(), claims.UserID, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (h *BatchHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := h.svc.Cancel(r.Context(), claims.UserID, chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "cancellation requested"})
}
