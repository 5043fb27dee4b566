package reports

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
)

// Handler handles HTTP requests for plan reports.
type Handler struct {
	generator *Generator
}

// NewHandler creates a new reports handler.
func NewHandler(generator *Generator) *Handler {
	return &Handler{generator: generator}
}

// HandleGetPlanReport handles GET /v1/plans/{id}/report
func (h *Handler) HandleGetPlanReport(w http.ResponseWriter, r *http.Request) {
	planID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "plan id must be a UUID")
		return
	}

	data, err := h.generator.GeneratePlanPDF(r.Context(), planID)
	if err != nil {
		if errors.Is(err, ErrPlanNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "Plan not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to generate report")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=plan_%s.pdf", planID))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}

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
