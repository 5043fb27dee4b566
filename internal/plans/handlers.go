package plans

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/nutriplan/backend/internal/storage"
)

// Handler handles HTTP requests for plans.
type Handler struct {
	service *Service
}

// NewHandler creates a new plans handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleList handles GET /v1/plans?user_id=
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.URL.Query().Get("user_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "user_id is required and must be a UUID")
		return
	}

	list, err := h.service.List(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to list plans")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(ListPlansResponse{Plans: list})
}

// HandleCreate handles POST /v1/plans
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreatePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	plan, err := h.service.Create(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			writeError(w, http.StatusBadRequest, "invalid_request", validationMessage(err))
		case errors.Is(err, ErrDuplicateDate):
			writeError(w, http.StatusConflict, "duplicate_date", "Plan already exists for this date")
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", "Failed to create plan")
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(plan)
}

// HandleGet handles GET /v1/plans/{id}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "plan id must be a UUID")
		return
	}

	plan, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "Plan not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to get plan")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(plan)
}

// HandleDelete handles DELETE /v1/plans/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "plan id must be a UUID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "Plan not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to delete plan")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleCopy handles POST /v1/plans/copy
func (h *Handler) HandleCopy(w http.ResponseWriter, r *http.Request) {
	var req CopyPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	result, err := h.service.Copy(r.Context(), req)
	if err != nil {
		var copyErr *CopyFailedError
		switch {
		case errors.Is(err, ErrValidation):
			writeError(w, http.StatusBadRequest, "invalid_request", validationMessage(err))
		case errors.Is(err, ErrTargetNotFound):
			writeError(w, http.StatusNotFound, "not_found", "Target plan not found")
		case errors.As(err, &copyErr):
			writeError(w, http.StatusInternalServerError, "copy_failed", "Plan copy failed")
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", "Failed to copy plan")
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(result)
}

func validationMessage(err error) string {
	msg := err.Error()
	if idx := strings.Index(msg, ": "); idx >= 0 {
		return msg[idx+2:]
	}
	return msg
}

// writeError writes an error response in the standard format.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
