// Package nutrition exposes the calorie and macro goals over HTTP:
// the effective goal set of the active profile and the maintenance
// estimator.
package nutrition

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fdg312/fueltrack/internal/goals"
	"github.com/fdg312/fueltrack/internal/session"
)

type EstimateRequest struct {
	Sex      string  `json:"sex"`
	WeightKg float64 `json:"weightKg"`
	HeightCm float64 `json:"heightCm"`
	Age      int     `json:"age"`
	Activity float64 `json:"activity"`
}

// Handler handles HTTP requests for goals.
type Handler struct {
	session *session.Session
}

// NewHandler creates a new nutrition handler.
func NewHandler(s *session.Session) *Handler {
	return &Handler{session: s}
}

// HandleGoals handles GET /v1/goals
func (h *Handler) HandleGoals(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(h.session.Goals())
}

// HandleEstimate handles POST /v1/goals/estimate
//
// On success the rounded maintenance is written back onto the active
// profile, so the effective calorie goal moves immediately.
func (h *Handler) HandleEstimate(w http.ResponseWriter, r *http.Request) {
	var req EstimateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	est, err := h.session.EstimateMaintenance(r.Context(), req.Sex, req.WeightKg, req.HeightCm, req.Age, req.Activity)
	if err != nil {
		if errors.Is(err, goals.ErrEstimateUnavailable) {
			writeError(w, http.StatusBadRequest, "estimate_unavailable", "sex must be male or female and weight/height/age/activity must be positive")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to estimate maintenance")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(est)
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
