package profiles

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fdg312/fueltrack/internal/session"
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

func decodeError(t *testing.T, body *bytes.Buffer) string {
	t.Helper()
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(body).Decode(&envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	return envelope.Error.Code
}

func TestHandleList_FirstRun(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/profiles", nil)
	w := httptest.NewRecorder()
	h.HandleList(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp ListProfilesResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.FirstRun || len(resp.Items) != 0 {
		t.Errorf("expected first-run empty list, got %+v", resp)
	}
}

func TestHandleActive_SynthesizesDefault(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/profiles/active", nil)
	w := httptest.NewRecorder()
	h.HandleActive(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var dto ProfileDTO
	if err := json.NewDecoder(w.Body).Decode(&dto); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if dto.ID != "default" || dto.Name != "Me" || dto.Gated {
		t.Errorf("unexpected default profile: %+v", dto)
	}
}

func TestHandleCreate(t *testing.T) {
	h, _ := newTestHandler(t)

	body := bytes.NewBufferString(`{"name":"Alex","pin":"1234","gender":"male","deficit":"mild"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/profiles", body)
	w := httptest.NewRecorder()
	h.HandleCreate(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", w.Code, w.Body.String())
	}
	var dto ProfileDTO
	if err := json.NewDecoder(w.Body).Decode(&dto); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if dto.MaintenanceCalories != 2500 || !dto.Gated || dto.Deficit != "mild" {
		t.Errorf("unexpected created profile: %+v", dto)
	}
}

func TestHandleCreate_BadPin(t *testing.T) {
	h, _ := newTestHandler(t)

	body := bytes.NewBufferString(`{"name":"Alex","pin":"12"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/profiles", body)
	w := httptest.NewRecorder()
	h.HandleCreate(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if code := decodeError(t, w.Body); code != "invalid_request" {
		t.Errorf("error code = %q, want invalid_request", code)
	}
}

func TestHandleSwitch_PinFlow(t *testing.T) {
	h, s := newTestHandler(t)
	ctx := context.Background()

	_ = s.ActiveProfile() // synthesize default
	gated, err := s.CreateProfile(ctx, "Sam", "4321", "", "")
	if err != nil {
		t.Fatalf("CreateProfile failed: %v", err)
	}
	if err := s.SwitchProfile(ctx, "default"); err != nil {
		t.Fatalf("switch to default failed: %v", err)
	}

	// No pin against a gated profile.
	body := bytes.NewBufferString(`{"id":"` + gated.ID + `"}`)
	w := httptest.NewRecorder()
	h.HandleSwitch(w, httptest.NewRequest(http.MethodPost, "/v1/profiles/switch", body))
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
	if code := decodeError(t, w.Body); code != "pin_required" {
		t.Errorf("error code = %q, want pin_required", code)
	}

	// Wrong pin.
	body = bytes.NewBufferString(`{"id":"` + gated.ID + `","pin":"0000"}`)
	w = httptest.NewRecorder()
	h.HandleSwitch(w, httptest.NewRequest(http.MethodPost, "/v1/profiles/switch", body))
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
	if code := decodeError(t, w.Body); code != "wrong_pin" {
		t.Errorf("error code = %q, want wrong_pin", code)
	}

	// Correct pin.
	body = bytes.NewBufferString(`{"id":"` + gated.ID + `","pin":"4321"}`)
	w = httptest.NewRecorder()
	h.HandleSwitch(w, httptest.NewRequest(http.MethodPost, "/v1/profiles/switch", body))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	var dto ProfileDTO
	if err := json.NewDecoder(w.Body).Decode(&dto); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if dto.ID != gated.ID {
		t.Errorf("active after switch = %q, want %q", dto.ID, gated.ID)
	}
}

func TestHandleSwitch_NotFound(t *testing.T) {
	h, s := newTestHandler(t)
	_ = s.ActiveProfile()

	body := bytes.NewBufferString(`{"id":"missing"}`)
	w := httptest.NewRecorder()
	h.HandleSwitch(w, httptest.NewRequest(http.MethodPost, "/v1/profiles/switch", body))

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestHandleDeleteActive_LastProfile(t *testing.T) {
	h, s := newTestHandler(t)
	_ = s.ActiveProfile()

	w := httptest.NewRecorder()
	h.HandleDeleteActive(w, httptest.NewRequest(http.MethodDelete, "/v1/profiles/active", nil))

	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", w.Code)
	}
	if code := decodeError(t, w.Body); code != "last_profile_undeletable" {
		t.Errorf("error code = %q, want last_profile_undeletable", code)
	}
}

func TestHandleDeleteActive(t *testing.T) {
	h, s := newTestHandler(t)
	ctx := context.Background()

	_ = s.ActiveProfile()
	if _, err := s.CreateProfile(ctx, "Sam", "1111", "", ""); err != nil {
		t.Fatalf("CreateProfile failed: %v", err)
	}

	w := httptest.NewRecorder()
	h.HandleDeleteActive(w, httptest.NewRequest(http.MethodDelete, "/v1/profiles/active", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	var dto ProfileDTO
	if err := json.NewDecoder(w.Body).Decode(&dto); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if dto.ID != "default" {
		t.Errorf("active after delete = %q, want default", dto.ID)
	}
}

func TestHandleSetup_ReplacesProfiles(t *testing.T) {
	h, s := newTestHandler(t)

	_ = s.ActiveProfile()

	body := bytes.NewBufferString(`{"name":"Owner","pin":"2468"}`)
	w := httptest.NewRecorder()
	h.HandleSetup(w, httptest.NewRequest(http.MethodPost, "/v1/profiles/setup", body))

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", w.Code, w.Body.String())
	}

	profiles, _ := s.Profiles()
	if len(profiles) != 1 || profiles[0].Name != "Owner" {
		t.Errorf("store after setup = %+v, want single Owner profile", profiles)
	}
}
