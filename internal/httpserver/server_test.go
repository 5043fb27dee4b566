package httpserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nutriplan/backend/internal/config"
)

func TestHealthz(t *testing.T) {
	cfg := &config.Config{Port: 8080}
	srv := New(cfg)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()

	srv.mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp["status"] != "ok" {
		t.Errorf("expected status=ok, got %s", resp["status"])
	}
}

func TestHealthzMethodNotAllowed(t *testing.T) {
	cfg := &config.Config{Port: 8080}
	srv := New(cfg)

	req := httptest.NewRequest(http.MethodPost, "/healthz", nil)
	w := httptest.NewRecorder()

	srv.mux.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", w.Code)
	}
}

// TestRoutes_PlanLifecycle drives the wired routes end to end against the
// in-memory storage: user -> plan -> block -> nutrition report.
func TestRoutes_PlanLifecycle(t *testing.T) {
	cfg := &config.Config{Port: 8080}
	srv := New(cfg)

	do := func(method, path string, payload any) *httptest.ResponseRecorder {
		t.Helper()
		var req *http.Request
		if payload != nil {
			body, err := json.Marshal(payload)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			req = httptest.NewRequest(method, path, bytes.NewReader(body))
		} else {
			req = httptest.NewRequest(method, path, nil)
		}
		w := httptest.NewRecorder()
		srv.mux.ServeHTTP(w, req)
		return w
	}

	// Create a user.
	w := do(http.MethodPost, "/v1/users", map[string]any{"name": "Анна"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create user: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var user struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(w.Body).Decode(&user); err != nil {
		t.Fatalf("decode user: %v", err)
	}

	// Create a plan for the user.
	w = do(http.MethodPost, "/v1/plans", map[string]any{"user_id": user.ID, "date": "2026-01-15"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create plan: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var plan struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(w.Body).Decode(&plan); err != nil {
		t.Fatalf("decode plan: %v", err)
	}

	// Create a dish and a block holding it.
	w = do(http.MethodPost, "/v1/dishes", map[string]any{
		"name":             "Гречка",
		"calories_per_100": 200,
		"proteins_per_100": 10,
		"fats_per_100":     2,
		"carbs_per_100":    40,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create dish: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var dish struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(w.Body).Decode(&dish); err != nil {
		t.Fatalf("decode dish: %v", err)
	}

	w = do(http.MethodPost, "/v1/blocks", map[string]any{
		"plan_id":    plan.ID,
		"type":       "breakfast",
		"time_start": "08:00",
		"time_end":   "08:30",
		"items":      []map[string]any{{"dish_id": dish.ID, "amount": 150}},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create block: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	// An overlapping block is rejected with the conflicting slot.
	w = do(http.MethodPost, "/v1/blocks", map[string]any{
		"plan_id":    plan.ID,
		"type":       "snack",
		"time_start": "08:15",
		"time_end":   "09:00",
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("overlapping block: expected 409, got %d: %s", w.Code, w.Body.String())
	}

	// Nutrition totals reflect the single 150g serving.
	w = do(http.MethodGet, fmt.Sprintf("/v1/plans/%s/nutrition", plan.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("nutrition: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var report struct {
		TotalCalories int    `json:"total_calories"`
		MealTypes     string `json:"meal_types"`
	}
	if err := json.NewDecoder(w.Body).Decode(&report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.TotalCalories != 300 {
		t.Errorf("expected 300 kcal, got %d", report.TotalCalories)
	}
	if report.MealTypes == "" || report.MealTypes == "Нет блюд" {
		t.Errorf("expected a dish listing, got %q", report.MealTypes)
	}
}
