package items

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/nutriplan/backend/internal/storage"
	"github.com/nutriplan/backend/internal/storage/memory"
)

type fixture struct {
	store   *memory.MemoryStorage
	service *Service
	handler *Handler
	blockID uuid.UUID
	dishID  uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.New()
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	user := &storage.User{Name: "test"}
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	plan := &storage.Plan{UserID: user.ID, Date: "2026-01-15"}
	if err := store.CreatePlan(ctx, plan); err != nil {
		t.Fatalf("create plan: %v", err)
	}
	block := &storage.Block{PlanID: plan.ID, Type: "breakfast", TimeStart: "08:00", TimeEnd: "09:00"}
	err := store.InTx(ctx, func(tx storage.MealTx) error {
		return tx.InsertBlock(ctx, block)
	})
	if err != nil {
		t.Fatalf("insert block: %v", err)
	}
	dish := &storage.Dish{Name: "Творог", CaloriesPer100: 120}
	if err := store.CreateDish(ctx, dish); err != nil {
		t.Fatalf("create dish: %v", err)
	}

	service := NewService(store.GetMealStorage(), store.GetDishesStorage())
	return &fixture{
		store:   store,
		service: service,
		handler: NewHandler(service),
		blockID: block.ID,
		dishID:  dish.ID,
	}
}

func TestHandleCreate_Success(t *testing.T) {
	f := newFixture(t)

	body, _ := json.Marshal(CreateItemRequest{BlockID: f.blockID, DishID: &f.dishID, Amount: 150})
	req := httptest.NewRequest(http.MethodPost, "/v1/items", bytes.NewReader(body))
	w := httptest.NewRecorder()
	f.handler.HandleCreate(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var item ItemDTO
	if err := json.NewDecoder(w.Body).Decode(&item); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if item.DishName == nil || *item.DishName != "Творог" {
		t.Fatalf("expected dish name joined, got %+v", item)
	}
}

func TestHandleCreate_BlockMissing(t *testing.T) {
	f := newFixture(t)

	body, _ := json.Marshal(CreateItemRequest{BlockID: uuid.New(), Amount: 100})
	req := httptest.NewRequest(http.MethodPost, "/v1/items", bytes.NewReader(body))
	w := httptest.NewRecorder()
	f.handler.HandleCreate(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestHandleCreate_DishMissing(t *testing.T) {
	f := newFixture(t)

	missing := uuid.New()
	body, _ := json.Marshal(CreateItemRequest{BlockID: f.blockID, DishID: &missing, Amount: 100})
	req := httptest.NewRequest(http.MethodPost, "/v1/items", bytes.NewReader(body))
	w := httptest.NewRecorder()
	f.handler.HandleCreate(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestHandleCreate_NonPositiveAmount(t *testing.T) {
	f := newFixture(t)

	body, _ := json.Marshal(CreateItemRequest{BlockID: f.blockID, Amount: 0})
	req := httptest.NewRequest(http.MethodPost, "/v1/items", bytes.NewReader(body))
	w := httptest.NewRecorder()
	f.handler.HandleCreate(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestUpdate_PartialFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	note := "с ягодами"
	created, err := f.service.Create(ctx, CreateItemRequest{BlockID: f.blockID, DishID: &f.dishID, Amount: 150, Note: &note})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	amount := 200.0
	updated, err := f.service.Update(ctx, created.ID, UpdateItemRequest{Amount: &amount})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated.Amount != 200 {
		t.Errorf("expected amount 200, got %v", updated.Amount)
	}
	if updated.Note == nil || *updated.Note != "с ягодами" {
		t.Errorf("note must survive amount-only update, got %v", updated.Note)
	}
}

func TestDelete_CascadeOnBlock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.service.Create(ctx, CreateItemRequest{BlockID: f.blockID, Amount: 100})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := f.store.DeleteBlock(ctx, f.blockID); err != nil {
		t.Fatalf("delete block: %v", err)
	}

	if _, err := f.store.GetItem(ctx, created.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("item must cascade with its block, got %v", err)
	}
}

func TestDishDelete_SetsItemDishNull(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.service.Create(ctx, CreateItemRequest{BlockID: f.blockID, DishID: &f.dishID, Amount: 100})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := f.store.DeleteDish(ctx, f.dishID); err != nil {
		t.Fatalf("delete dish: %v", err)
	}

	item, err := f.store.GetItem(ctx, created.ID)
	if err != nil {
		t.Fatalf("get item: %v", err)
	}
	if item.DishID != nil {
		t.Fatal("item must lose its dish reference when the dish is deleted")
	}
}
