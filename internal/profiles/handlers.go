package profiles

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fdg312/fueltrack/internal/session"
)

// Handler handles HTTP requests for profile management.
type Handler struct {
	session *session.Session
}

// NewHandler creates a new profiles handler.
func NewHandler(s *session.Session) *Handler {
	return &Handler{session: s}
}

// HandleList handles GET /v1/profiles
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	all, activeID := h.session.Profiles()

	items := make([]ProfileDTO, len(all))
	for i, p := range all {
		items[i] = toDTO(p)
	}

	response := ListProfilesResponse{
		Items:           items,
		ActiveProfileID: activeID,
		FirstRun:        h.session.FirstRun(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// HandleActive handles GET /v1/profiles/active
func (h *Handler) HandleActive(w http.ResponseWriter, r *http.Request) {
	dto := toDTO(h.session.ActiveProfile())

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(dto)
}

// HandleCreate handles POST /v1/profiles
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	p, err := h.session.CreateProfile(r.Context(), req.Name, req.PIN, req.Gender, req.Deficit)
	if err != nil {
		writeValidationError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toDTO(p))
}

// HandleSetup handles POST /v1/profiles/setup
//
// Первичная настройка: сносит все профили и ставит один новый под
// PIN-ом. Не использовать как переименование.
func (h *Handler) HandleSetup(w http.ResponseWriter, r *http.Request) {
	var req SetupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	p, err := h.session.Setup(r.Context(), req.Name, req.PIN)
	if err != nil {
		writeValidationError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toDTO(p))
}

// HandleSwitch handles POST /v1/profiles/switch
//
// Without a pin the switch only succeeds for ungated targets; a gated
// target reports pin_required and the caller retries with the pin.
func (h *Handler) HandleSwitch(w http.ResponseWriter, r *http.Request) {
	var req SwitchProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}
	if req.ID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "id is required")
		return
	}

	var err error
	if req.PIN == "" {
		err = h.session.SwitchProfile(r.Context(), req.ID)
	} else {
		err = h.session.AuthenticateAndSwitch(r.Context(), req.ID, req.PIN)
	}
	if err != nil {
		switch {
		case errors.Is(err, session.ErrProfileNotFound):
			writeError(w, http.StatusNotFound, "profile_not_found", "Profile not found")
		case errors.Is(err, session.ErrPinRequired):
			writeError(w, http.StatusForbidden, "pin_required", "Profile is PIN protected")
		case errors.Is(err, session.ErrWrongPin):
			writeError(w, http.StatusForbidden, "wrong_pin", "Incorrect PIN")
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", "Failed to switch profile")
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(toDTO(h.session.ActiveProfile()))
}

// HandleDeleteActive handles DELETE /v1/profiles/active
func (h *Handler) HandleDeleteActive(w http.ResponseWriter, r *http.Request) {
	if err := h.session.DeleteActiveProfile(r.Context()); err != nil {
		if errors.Is(err, session.ErrLastProfile) {
			writeError(w, http.StatusConflict, "last_profile_undeletable", "The last profile cannot be deleted")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to delete profile")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(toDTO(h.session.ActiveProfile()))
}

func writeValidationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrNameRequired):
		writeError(w, http.StatusBadRequest, "invalid_request", "name is required")
	case errors.Is(err, session.ErrPinLength):
		writeError(w, http.StatusBadRequest, "invalid_request", "pin must be exactly 4 characters")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to save profile")
	}
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
