package blocks

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/nutriplan/backend/internal/storage"
)

// Handler handles HTTP requests for meal blocks.
type Handler struct {
	service *Service
}

// NewHandler creates a new blocks handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleList handles GET /v1/blocks?plan_id=
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	planID, err := uuid.Parse(r.URL.Query().Get("plan_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "plan_id is required and must be a UUID")
		return
	}

	blks, err := h.service.List(r.Context(), planID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to list blocks")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(ListBlocksResponse{Blocks: blks})
}

// HandleCreate handles POST /v1/blocks
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateBlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	block, err := h.service.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, err, "Failed to create block")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(block)
}

// HandleUpdate handles PUT /v1/blocks/{id}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	blockID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "block id must be a UUID")
		return
	}

	var req UpdateBlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	block, err := h.service.Update(r.Context(), blockID, req)
	if err != nil {
		writeServiceError(w, err, "Failed to update block")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(block)
}

// HandleDelete handles DELETE /v1/blocks/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	blockID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "block id must be a UUID")
		return
	}

	if err := h.service.Delete(r.Context(), blockID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "Block not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to delete block")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	var valErr *ValidationError
	var conflictErr *ConflictError

	switch {
	case errors.As(err, &valErr):
		writeError(w, http.StatusBadRequest, "invalid_request", valErr.Error())
	case errors.As(err, &conflictErr):
		writeConflict(w, conflictErr.Block)
	case errors.Is(err, ErrPlanNotFound):
		writeError(w, http.StatusNotFound, "not_found", "Plan not found")
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", "Block not found")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", fallback)
	}
}

func writeConflict(w http.ResponseWriter, existing storage.Block) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusConflict)
	json.NewEncoder(w).Encode(ConflictResponse{
		Error: ConflictErrorDetail{
			Code:    "time_conflict",
			Message: "Block overlaps an existing block",
		},
		ExistingBlock: ConflictBlock{
			Type:      existing.Type,
			TimeStart: existing.TimeStart,
			TimeEnd:   existing.TimeEnd,
		},
	})
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
