package weights

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/nutriplan/backend/internal/storage"
	"github.com/nutriplan/backend/internal/storage/memory"
)

func newFixture(t *testing.T) (*Handler, uuid.UUID) {
	t.Helper()

	store := memory.New()
	t.Cleanup(func() { store.Close() })

	user := &storage.User{Name: "test"}
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	return NewHandler(NewService(store.GetWeightsStorage())), user.ID
}

func addEntry(t *testing.T, handler *Handler, userID uuid.UUID, date string, kg float64) WeightEntryDTO {
	t.Helper()

	body, _ := json.Marshal(AddWeightRequest{UserID: userID, Date: date, WeightKg: kg})
	req := httptest.NewRequest(http.MethodPost, "/v1/weights", bytes.NewReader(body))
	w := httptest.NewRecorder()
	handler.HandleAdd(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("add weight: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var entry WeightEntryDTO
	if err := json.NewDecoder(w.Body).Decode(&entry); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return entry
}

func TestHandleList_RangeFilterAndOrder(t *testing.T) {
	handler, userID := newFixture(t)

	addEntry(t, handler, userID, "2026-01-20", 81.5)
	addEntry(t, handler, userID, "2026-01-10", 82.0)
	addEntry(t, handler, userID, "2026-02-01", 80.9)

	req := httptest.NewRequest(http.MethodGet,
		"/v1/weights?user_id="+userID.String()+"&from=2026-01-01&to=2026-01-31", nil)
	w := httptest.NewRecorder()
	handler.HandleList(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp ListWeightsResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Entries) != 2 {
		t.Fatalf("expected 2 entries in range, got %d", len(resp.Entries))
	}
	if resp.Entries[0].Date != "2026-01-10" || resp.Entries[1].Date != "2026-01-20" {
		t.Fatalf("entries must be ordered by date ascending, got %+v", resp.Entries)
	}
}

func TestHandleAdd_Validation(t *testing.T) {
	handler, userID := newFixture(t)

	for _, req := range []AddWeightRequest{
		{UserID: userID, Date: "2026-01-10", WeightKg: 0},
		{UserID: userID, Date: "10.01.2026", WeightKg: 80},
		{UserID: uuid.Nil, Date: "2026-01-10", WeightKg: 80},
	} {
		body, _ := json.Marshal(req)
		r := httptest.NewRequest(http.MethodPost, "/v1/weights", bytes.NewReader(body))
		w := httptest.NewRecorder()
		handler.HandleAdd(w, r)
		if w.Code != http.StatusBadRequest {
			t.Errorf("request %+v: expected 400, got %d", req, w.Code)
		}
	}
}

func TestHandleDelete_OwnershipEnforced(t *testing.T) {
	handler, userID := newFixture(t)

	entry := addEntry(t, handler, userID, "2026-01-10", 82.0)

	// Another user cannot delete the entry.
	req := httptest.NewRequest(http.MethodDelete,
		"/v1/weights/"+entry.ID.String()+"?user_id="+uuid.NewString(), nil)
	req.SetPathValue("id", entry.ID.String())
	w := httptest.NewRecorder()
	handler.HandleDelete(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign user, got %d", w.Code)
	}

	// The owner can.
	req = httptest.NewRequest(http.MethodDelete,
		"/v1/weights/"+entry.ID.String()+"?user_id="+userID.String(), nil)
	req.SetPathValue("id", entry.ID.String())
	w = httptest.NewRecorder()
	handler.HandleDelete(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for owner, got %d", w.Code)
	}
}
