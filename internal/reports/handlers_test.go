package reports

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/nutriplan/backend/internal/nutrition"
	"github.com/nutriplan/backend/internal/storage"
	"github.com/nutriplan/backend/internal/storage/memory"
)

func newFixture(t *testing.T) (*memory.MemoryStorage, *Handler) {
	t.Helper()
	t.Setenv("SKIP_CUSTOM_FONT", "1")

	store := memory.New()
	t.Cleanup(func() { store.Close() })

	gen := NewGenerator(store.GetPlansStorage(), nutrition.NewService(store.GetMealStorage()))
	return store, NewHandler(gen)
}

func TestHandleGetPlanReport_ReturnsPDF(t *testing.T) {
	store, handler := newFixture(t)
	ctx := context.Background()

	user := &storage.User{Name: "test"}
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	plan := &storage.Plan{UserID: user.ID, Date: "2026-01-15"}
	if err := store.CreatePlan(ctx, plan); err != nil {
		t.Fatalf("create plan: %v", err)
	}
	dish := &storage.Dish{Name: "Гречка", CaloriesPer100: 200, ProteinsPer100: 10, FatsPer100: 2, CarbsPer100: 40}
	if err := store.CreateDish(ctx, dish); err != nil {
		t.Fatalf("create dish: %v", err)
	}

	err := store.InTx(ctx, func(tx storage.MealTx) error {
		block := &storage.Block{PlanID: plan.ID, Type: "breakfast", TimeStart: "08:00", TimeEnd: "08:30"}
		if err := tx.InsertBlock(ctx, block); err != nil {
			return err
		}
		return tx.InsertItem(ctx, &storage.Item{BlockID: block.ID, DishID: &dish.ID, Amount: 150})
	})
	if err != nil {
		t.Fatalf("seed blocks: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/plans/"+plan.ID.String()+"/report", nil)
	req.SetPathValue("id", plan.ID.String())
	w := httptest.NewRecorder()
	handler.HandleGetPlanReport(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("expected application/pdf, got %q", ct)
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")) {
		t.Errorf("body does not look like a PDF")
	}
}

func TestHandleGetPlanReport_EmptyPlan(t *testing.T) {
	store, handler := newFixture(t)
	ctx := context.Background()

	user := &storage.User{Name: "test"}
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	plan := &storage.Plan{UserID: user.ID, Date: "2026-01-16"}
	if err := store.CreatePlan(ctx, plan); err != nil {
		t.Fatalf("create plan: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/plans/"+plan.ID.String()+"/report", nil)
	req.SetPathValue("id", plan.ID.String())
	w := httptest.NewRecorder()
	handler.HandleGetPlanReport(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("an empty plan still produces a report, got %d", w.Code)
	}
}

func TestHandleGetPlanReport_NotFound(t *testing.T) {
	_, handler := newFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/plans/"+uuid.NewString()+"/report", nil)
	req.SetPathValue("id", uuid.NewString())
	w := httptest.NewRecorder()
	handler.HandleGetPlanReport(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
