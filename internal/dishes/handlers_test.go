package dishes

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/google/uuid"
	"github.com/nutriplan/backend/internal/storage/memory"
)

func newFixture(t *testing.T) (*memory.MemoryStorage, *Handler) {
	t.Helper()

	store := memory.New()
	t.Cleanup(func() { store.Close() })

	service := NewService(store.GetDishesStorage(), nil, 10, "image/jpeg,image/png", 900)
	return store, NewHandler(service)
}

func createDish(t *testing.T, handler *Handler, name string) DishDTO {
	t.Helper()

	body, _ := json.Marshal(UpsertDishRequest{Name: name, CaloriesPer100: 100})
	req := httptest.NewRequest(http.MethodPost, "/v1/dishes", bytes.NewReader(body))
	w := httptest.NewRecorder()
	handler.HandleCreate(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("create dish: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var dish DishDTO
	if err := json.NewDecoder(w.Body).Decode(&dish); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return dish
}

func TestHandleCreate_DefaultsUnit(t *testing.T) {
	_, handler := newFixture(t)

	dish := createDish(t, handler, "Каша")
	if dish.Unit != "г" {
		t.Fatalf("expected default unit г, got %q", dish.Unit)
	}
}

func TestHandleCreate_RequiresName(t *testing.T) {
	_, handler := newFixture(t)

	body, _ := json.Marshal(UpsertDishRequest{Name: "  "})
	req := httptest.NewRequest(http.MethodPost, "/v1/dishes", bytes.NewReader(body))
	w := httptest.NewRecorder()
	handler.HandleCreate(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestHandleList_Query(t *testing.T) {
	_, handler := newFixture(t)

	createDish(t, handler, "Гречка")
	createDish(t, handler, "Рис")

	req := httptest.NewRequest(http.MethodGet, "/v1/dishes?query=греч", nil)
	w := httptest.NewRecorder()
	handler.HandleList(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp ListDishesResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Dishes) != 1 || resp.Dishes[0].Name != "Гречка" {
		t.Fatalf("expected only Гречка, got %+v", resp.Dishes)
	}
}

func TestHandleUpdate_NotFound(t *testing.T) {
	_, handler := newFixture(t)

	body, _ := json.Marshal(UpsertDishRequest{Name: "Каша"})
	req := httptest.NewRequest(http.MethodPut, "/v1/dishes/"+uuid.NewString(), bytes.NewReader(body))
	req.SetPathValue("id", uuid.NewString())
	w := httptest.NewRecorder()
	handler.HandleUpdate(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func multipartImage(t *testing.T, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="photo.jpg"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write part: %v", err)
	}
	writer.Close()

	return &buf, writer.FormDataContentType()
}

func TestImageUploadAndDownload_LocalMode(t *testing.T) {
	_, handler := newFixture(t)
	dish := createDish(t, handler, "Салат")

	payload := []byte{0xFF, 0xD8, 0xFF, 0xE0}
	body, contentType := multipartImage(t, "image/jpeg", payload)

	req := httptest.NewRequest(http.MethodPost, "/v1/dishes/"+dish.ID.String()+"/image", body)
	req.Header.Set("Content-Type", contentType)
	req.SetPathValue("id", dish.ID.String())
	w := httptest.NewRecorder()
	handler.HandleUploadImage(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("upload: expected 204, got %d: %s", w.Code, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/dishes/"+dish.ID.String()+"/image", nil)
	req.SetPathValue("id", dish.ID.String())
	w = httptest.NewRecorder()
	handler.HandleGetImage(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("download: expected 200, got %d", w.Code)
	}
	if w.Header().Get("Content-Type") != "image/jpeg" {
		t.Fatalf("expected image/jpeg, got %q", w.Header().Get("Content-Type"))
	}
	if !bytes.Equal(w.Body.Bytes(), payload) {
		t.Fatal("downloaded bytes differ from uploaded")
	}
}

func TestImageUpload_RejectsMime(t *testing.T) {
	_, handler := newFixture(t)
	dish := createDish(t, handler, "Суп")

	body, contentType := multipartImage(t, "application/pdf", []byte("%PDF"))

	req := httptest.NewRequest(http.MethodPost, "/v1/dishes/"+dish.ID.String()+"/image", body)
	req.Header.Set("Content-Type", contentType)
	req.SetPathValue("id", dish.ID.String())
	w := httptest.NewRecorder()
	handler.HandleUploadImage(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for pdf upload, got %d", w.Code)
	}
}

func TestGetImage_NoImage(t *testing.T) {
	_, handler := newFixture(t)
	dish := createDish(t, handler, "Борщ")

	req := httptest.NewRequest(http.MethodGet, "/v1/dishes/"+dish.ID.String()+"/image", nil)
	req.SetPathValue("id", dish.ID.String())
	w := httptest.NewRecorder()
	handler.HandleGetImage(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestDeleteDish_KeepsWorking(t *testing.T) {
	store, handler := newFixture(t)
	dish := createDish(t, handler, "Плов")

	req := httptest.NewRequest(http.MethodDelete, "/v1/dishes/"+dish.ID.String(), nil)
	req.SetPathValue("id", dish.ID.String())
	w := httptest.NewRecorder()
	handler.HandleDelete(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}

	dishes, err := store.ListDishes(context.Background(), "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(dishes) != 0 {
		t.Fatalf("expected empty catalog, got %d", len(dishes))
	}
}
