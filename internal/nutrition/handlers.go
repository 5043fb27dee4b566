package nutrition

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/nutriplan/backend/internal/storage"
)

// Handler handles HTTP requests for nutrition reports.
type Handler struct {
	service *Service
	plans   storage.PlansStorage
}

// NewHandler creates a new nutrition handler.
func NewHandler(service *Service, plans storage.PlansStorage) *Handler {
	return &Handler{service: service, plans: plans}
}

// HandleGet handles GET /v1/plans/{id}/nutrition
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	planID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "plan id must be a UUID")
		return
	}

	if _, err := h.plans.GetPlan(r.Context(), planID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "Plan not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to get plan")
		return
	}

	report, err := h.service.Aggregate(r.Context(), planID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to compute nutrition")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(report)
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
