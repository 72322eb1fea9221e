package foodlog

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fdg312/fueltrack/internal/datekey"
	"github.com/fdg312/fueltrack/internal/session"
	"github.com/fdg312/fueltrack/internal/storage"
)

// Handler handles HTTP requests for the daily food log.
type Handler struct {
	session *session.Session
}

// NewHandler creates a new food log handler.
func NewHandler(s *session.Session) *Handler {
	return &Handler{session: s}
}

// HandleToday handles GET /v1/log/today
func (h *Handler) HandleToday(w http.ResponseWriter, r *http.Request) {
	response := TodayResponse{
		Date:   datekey.Today(),
		Items:  h.session.TodayEntries(),
		Totals: h.session.TodayTotals(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// HandleAddEntry handles POST /v1/log/entries
func (h *Handler) HandleAddEntry(w http.ResponseWriter, r *http.Request) {
	var req AddEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	entry := storage.FoodEntry{
		Name:     req.Name,
		Calories: req.Calories,
		Weight:   req.Weight,
		Protein:  req.Protein,
		Carbs:    req.Carbs,
		Fats:     req.Fats,
	}
	if err := h.session.AddEntry(r.Context(), entry); err != nil {
		if errors.Is(err, session.ErrInvalidEntry) {
			writeError(w, http.StatusBadRequest, "invalid_request", "name is required and calories must be within 1-5000")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to add entry")
		return
	}

	response := TodayResponse{
		Date:   datekey.Today(),
		Items:  h.session.TodayEntries(),
		Totals: h.session.TodayTotals(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(response)
}

// HandleClearToday handles DELETE /v1/log/today
func (h *Handler) HandleClearToday(w http.ResponseWriter, r *http.Request) {
	h.session.ClearToday(r.Context())

	response := TodayResponse{
		Date:   datekey.Today(),
		Items:  h.session.TodayEntries(),
		Totals: h.session.TodayTotals(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// HandleWeeklyTotals handles GET /v1/log/totals/weekly
func (h *Handler) HandleWeeklyTotals(w http.ResponseWriter, r *http.Request) {
	response := RangeTotalsResponse{Days: 7, Totals: h.session.WeeklyTotals()}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// HandleMonthlyTotals handles GET /v1/log/totals/monthly
func (h *Handler) HandleMonthlyTotals(w http.ResponseWriter, r *http.Request) {
	response := RangeTotalsResponse{Days: 30, Totals: h.session.MonthlyTotals()}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// HandleSuggestions handles GET /v1/foods/suggestions?q=
func (h *Handler) HandleSuggestions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	response := SuggestionsResponse{Items: h.session.FoodSuggestions(query)}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
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
