package blocks

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/nutriplan/backend/internal/storage"
)

func setupHandler(t *testing.T) (*Handler, uuid.UUID) {
	t.Helper()
	store, planID := newTestPlan(t)
	return NewHandler(NewService(store.GetMealStorage())), planID
}

func TestHandleCreate_Success(t *testing.T) {
	handler, planID := setupHandler(t)

	body, _ := json.Marshal(CreateBlockRequest{
		PlanID: planID, Type: "breakfast", TimeStart: "08:00", TimeEnd: "09:00",
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/blocks", bytes.NewReader(body))
	req = req.WithContext(context.WithValue(req.Context(), "user_id", "user1"))

	w := httptest.NewRecorder()
	handler.HandleCreate(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var block BlockDTO
	if err := json.NewDecoder(w.Body).Decode(&block); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if block.ID == uuid.Nil || block.TimeStart != "08:00" {
		t.Fatalf("unexpected block: %+v", block)
	}
}

func TestHandleCreate_ConflictPayload(t *testing.T) {
	handler, planID := setupHandler(t)

	first, _ := json.Marshal(CreateBlockRequest{
		PlanID: planID, Type: "breakfast", TimeStart: "08:00", TimeEnd: "09:00",
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/blocks", bytes.NewReader(first))
	w := httptest.NewRecorder()
	handler.HandleCreate(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("setup block: %d", w.Code)
	}

	second, _ := json.Marshal(CreateBlockRequest{
		PlanID: planID, Type: "snack", TimeStart: "08:30", TimeEnd: "09:30",
	})
	req = httptest.NewRequest(http.MethodPost, "/v1/blocks", bytes.NewReader(second))
	w = httptest.NewRecorder()
	handler.HandleCreate(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}

	var resp ConflictResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error.Code != "time_conflict" {
		t.Fatalf("expected time_conflict code, got %q", resp.Error.Code)
	}
	if resp.ExistingBlock.Type != "breakfast" ||
		resp.ExistingBlock.TimeStart != "08:00" ||
		resp.ExistingBlock.TimeEnd != "09:00" {
		t.Fatalf("expected existing block details, got %+v", resp.ExistingBlock)
	}
}

func TestHandleCreate_MalformedTime(t *testing.T) {
	handler, planID := setupHandler(t)

	body, _ := json.Marshal(CreateBlockRequest{
		PlanID: planID, Type: "breakfast", TimeStart: "25:00", TimeEnd: "09:00",
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/blocks", bytes.NewReader(body))
	w := httptest.NewRecorder()
	handler.HandleCreate(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestHandleCreate_PlanNotFound(t *testing.T) {
	handler, _ := setupHandler(t)

	body, _ := json.Marshal(CreateBlockRequest{
		PlanID: uuid.New(), Type: "breakfast", TimeStart: "08:00", TimeEnd: "09:00",
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/blocks", bytes.NewReader(body))
	w := httptest.NewRecorder()
	handler.HandleCreate(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestHandleUpdate_NotFound(t *testing.T) {
	handler, _ := setupHandler(t)

	body, _ := json.Marshal(UpdateBlockRequest{Type: "lunch", TimeStart: "12:00", TimeEnd: "13:00"})
	req := httptest.NewRequest(http.MethodPut, "/v1/blocks/"+uuid.NewString(), bytes.NewReader(body))
	req.SetPathValue("id", uuid.NewString())
	w := httptest.NewRecorder()
	handler.HandleUpdate(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestHandleDelete(t *testing.T) {
	store, planID := newTestPlan(t)
	service := NewService(store.GetMealStorage())
	handler := NewHandler(service)

	block, err := service.Create(context.Background(), CreateBlockRequest{
		PlanID: planID, Type: "breakfast", TimeStart: "08:00", TimeEnd: "09:00",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/v1/blocks/"+block.ID.String(), nil)
	req.SetPathValue("id", block.ID.String())
	w := httptest.NewRecorder()
	handler.HandleDelete(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}

	if _, err := store.GetBlock(context.Background(), block.ID); err != storage.ErrNotFound {
		t.Fatalf("expected block gone, got %v", err)
	}
}
