package nutrition

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fdg312/fueltrack/internal/goals"
	"github.com/fdg312/fueltrack/internal/session"
	"github.com/fdg312/fueltrack/internal/storage"
	"github.com/fdg312/fueltrack/internal/storage/memory"
)

func newTestHandler(t *testing.T) (*Handler, *session.Session) {
	t.Helper()
	s, err := session.New(context.Background(), memory.NewSlotStorage(), log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatalf("session.New failed: %v", err)
	}
	return NewHandler(s), s
}

func TestHandleGoals_Defaults(t *testing.T) {
	h, _ := newTestHandler(t)

	w := httptest.NewRecorder()
	h.HandleGoals(w, httptest.NewRequest(http.MethodGet, "/v1/goals", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var got goals.Goals
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	want := goals.Goals{Calories: 2200, Protein: 130, Carbs: 250, Fats: 70}
	if got != want {
		t.Errorf("goals = %+v, want %+v", got, want)
	}
}

func TestHandleGoals_DeficitApplies(t *testing.T) {
	h, s := newTestHandler(t)

	// Female profile seeds 2000 kcal maintenance; mild deficit cuts 15%.
	if _, err := s.CreateProfile(context.Background(), "Cut", "1234", storage.GenderFemale, storage.DeficitMild); err != nil {
		t.Fatalf("CreateProfile failed: %v", err)
	}

	w := httptest.NewRecorder()
	h.HandleGoals(w, httptest.NewRequest(http.MethodGet, "/v1/goals", nil))
	var got goals.Goals
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Calories != 1700 {
		t.Errorf("calorie goal = %d, want 1700", got.Calories)
	}
	if got.Protein != 130 {
		t.Errorf("protein goal = %d, want global 130", got.Protein)
	}
}

func TestHandleEstimate(t *testing.T) {
	h, s := newTestHandler(t)

	body := bytes.NewBufferString(`{"sex":"male","weightKg":80,"heightCm":180,"age":30,"activity":1.55}`)
	w := httptest.NewRecorder()
	h.HandleEstimate(w, httptest.NewRequest(http.MethodPost, "/v1/goals/estimate", body))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	var est goals.Estimate
	if err := json.NewDecoder(w.Body).Decode(&est); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if est.BMR != 1780 {
		t.Errorf("bmr = %v, want 1780", est.BMR)
	}
	if est.Moderate != est.Maintenance-500 {
		t.Errorf("moderate = %v, want maintenance-500", est.Moderate)
	}
	if got := s.ActiveProfile().MaintenanceCalories; got != 2759 {
		t.Errorf("persisted maintenance = %d, want 2759", got)
	}
}

func TestHandleEstimate_Unavailable(t *testing.T) {
	h, _ := newTestHandler(t)

	body := bytes.NewBufferString(`{"sex":"unspecified","weightKg":80,"heightCm":180,"age":30,"activity":1.55}`)
	w := httptest.NewRecorder()
	h.HandleEstimate(w, httptest.NewRequest(http.MethodPost, "/v1/goals/estimate", body))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(w.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	if envelope.Error.Code != "estimate_unavailable" {
		t.Errorf("error code = %q, want estimate_unavailable", envelope.Error.Code)
	}
}
