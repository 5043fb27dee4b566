package dishes

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/nutriplan/backend/internal/storage"
)

// Handler handles HTTP requests for the dish catalog.
type Handler struct {
	service *Service
}

// NewHandler creates a new dishes handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleList handles GET /v1/dishes?query=
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to list dishes")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(ListDishesResponse{Dishes: list})
}

// HandleGet handles GET /v1/dishes/{id}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "dish id must be a UUID")
		return
	}

	dish, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "Dish not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to get dish")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(dish)
}

// HandleCreate handles POST /v1/dishes
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req UpsertDishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	dish, err := h.service.Create(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			writeError(w, http.StatusBadRequest, "invalid_request", validationMessage(err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to create dish")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(dish)
}

// HandleUpdate handles PUT /v1/dishes/{id}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "dish id must be a UUID")
		return
	}

	var req UpsertDishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	dish, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			writeError(w, http.StatusBadRequest, "invalid_request", validationMessage(err))
		case errors.Is(err, storage.ErrNotFound):
			writeError(w, http.StatusNotFound, "not_found", "Dish not found")
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", "Failed to update dish")
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(dish)
}

// HandleDelete handles DELETE /v1/dishes/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "dish id must be a UUID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "Dish not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to delete dish")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleUploadImage handles POST /v1/dishes/{id}/image (multipart upload)
func (h *Handler) HandleUploadImage(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "dish id must be a UUID")
		return
	}

	// Parse multipart form (max 32 MB in memory)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Failed to parse multipart form")
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing_file", "File is required")
		return
	}
	file.Close() // Close immediately, service will reopen

	if err := h.service.UploadImage(r.Context(), id, fileHeader); err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			writeError(w, http.StatusNotFound, "not_found", "Dish not found")
		case errors.Is(err, ErrFileTooLarge):
			writeError(w, http.StatusBadRequest, "file_too_large", fmt.Sprintf("File exceeds maximum size of %d MB", h.service.maxUploadMB))
		case errors.Is(err, ErrUnsupportedMime):
			writeError(w, http.StatusBadRequest, "unsupported_mime", "File type not supported")
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", "Failed to store image")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleGetImage handles GET /v1/dishes/{id}/image
func (h *Handler) HandleGetImage(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "dish id must be a UUID")
		return
	}

	img, err := h.service.GetImage(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound), errors.Is(err, ErrNoImage):
			writeError(w, http.StatusNotFound, "not_found", "Image not found")
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", "Failed to get image")
		}
		return
	}

	if img.URL != "" {
		http.Redirect(w, r, img.URL, http.StatusFound)
		return
	}

	w.Header().Set("Content-Type", img.ContentType)
	w.WriteHeader(http.StatusOK)
	w.Write(img.Data)
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
