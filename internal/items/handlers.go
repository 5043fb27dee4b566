package items

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/nutriplan/backend/internal/storage"
)

// Handler handles HTTP requests for block items.
type Handler struct {
	service *Service
}

// NewHandler creates a new items handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleList handles GET /v1/items?block_id=
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	blockID, err := uuid.Parse(r.URL.Query().Get("block_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "block_id is required and must be a UUID")
		return
	}

	list, err := h.service.List(r.Context(), blockID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to list items")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(ListItemsResponse{Items: list})
}

// HandleCreate handles POST /v1/items
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	item, err := h.service.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, err, "Failed to create item")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(item)
}

// HandleUpdate handles PATCH /v1/items/{id}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "item id must be a UUID")
		return
	}

	var req UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	item, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, err, "Failed to update item")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(item)
}

// HandleDelete handles DELETE /v1/items/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "item id must be a UUID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "Item not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to delete item")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	var valErr *ValidationError

	switch {
	case errors.As(err, &valErr):
		writeError(w, http.StatusBadRequest, "invalid_request", valErr.Error())
	case errors.Is(err, ErrBlockNotFound):
		writeError(w, http.StatusNotFound, "not_found", "Block not found")
	case errors.Is(err, ErrDishNotFound):
		writeError(w, http.StatusNotFound, "not_found", "Dish not found")
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", "Item not found")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", fallback)
	}
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
