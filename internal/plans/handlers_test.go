package plans

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestHandleCreate_Conflict(t *testing.T) {
	_, service, userID := newFixture(t)
	handler := NewHandler(service)

	body, _ := json.Marshal(CreatePlanRequest{UserID: userID, Date: "2026-03-01"})
	req := httptest.NewRequest(http.MethodPost, "/v1/plans", bytes.NewReader(body))
	w := httptest.NewRecorder()
	handler.HandleCreate(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("first create: expected 201, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/v1/plans", bytes.NewReader(body))
	w = httptest.NewRecorder()
	handler.HandleCreate(w, req)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate date, got %d", w.Code)
	}
}

func TestHandleCopy_Success(t *testing.T) {
	store, service, userID := newFixture(t)
	handler := NewHandler(service)

	source := mustPlan(t, store, userID, "2026-03-01")
	target := mustPlan(t, store, userID, "2026-03-02")
	mustBlock(t, store, source.ID, "breakfast", "08:00", "09:00", 100)

	body, _ := json.Marshal(CopyPlanRequest{SourcePlanID: source.ID, TargetPlanID: target.ID})
	req := httptest.NewRequest(http.MethodPost, "/v1/plans/copy", bytes.NewReader(body))
	w := httptest.NewRecorder()
	handler.HandleCopy(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp CopyPlanResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.CopiedBlocks != 1 || resp.CopiedItems != 1 {
		t.Fatalf("expected 1/1 copied, got %d/%d", resp.CopiedBlocks, resp.CopiedItems)
	}
}

func TestHandleCopy_TargetNotFound(t *testing.T) {
	store, service, userID := newFixture(t)
	handler := NewHandler(service)

	source := mustPlan(t, store, userID, "2026-03-01")

	body, _ := json.Marshal(CopyPlanRequest{SourcePlanID: source.ID, TargetPlanID: uuid.New()})
	req := httptest.NewRequest(http.MethodPost, "/v1/plans/copy", bytes.NewReader(body))
	w := httptest.NewRecorder()
	handler.HandleCopy(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestHandleCopy_SamePlan(t *testing.T) {
	store, service, userID := newFixture(t)
	handler := NewHandler(service)

	plan := mustPlan(t, store, userID, "2026-03-01")

	body, _ := json.Marshal(CopyPlanRequest{SourcePlanID: plan.ID, TargetPlanID: plan.ID})
	req := httptest.NewRequest(http.MethodPost, "/v1/plans/copy", bytes.NewReader(body))
	w := httptest.NewRecorder()
	handler.HandleCopy(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for source==target, got %d", w.Code)
	}
}

func TestHandleGet_NotFound(t *testing.T) {
	_, service, _ := newFixture(t)
	handler := NewHandler(service)

	req := httptest.NewRequest(http.MethodGet, "/v1/plans/"+uuid.NewString(), nil)
	req.SetPathValue("id", uuid.NewString())
	w := httptest.NewRecorder()
	handler.HandleGet(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
