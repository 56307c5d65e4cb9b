package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"curtaincall/internal/models"
	"curtaincall/internal/repository"
	"curtaincall/internal/service"
)

func TestSettingsHandler_GetAll(t *testing.T) {
	settings := &mockSettings{getAllResp: []models.Setting{
		{Key: models.KeyCurtainStatus, Value: "CLOSED", Description: "Current curtain position state"},
		{Key: models.KeyAutoMode, Value: "0", Description: "Automatic decision making on sensor ingest"},
	}}
	r := newTestRouter(&service.Service{Settings: settings})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/settings", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	var out map[string]struct {
		Value       string `json:"value"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out[models.KeyCurtainStatus].Value != "CLOSED" {
		t.Fatalf("unexpected map: %+v", out)
	}
	if out[models.KeyAutoMode].Description == "" {
		t.Fatalf("description missing: %+v", out)
	}
}

func TestSettingsHandler_Update(t *testing.T) {
	settings := &mockSettings{}
	r := newTestRouter(&service.Service{Settings: settings})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/settings",
		strings.NewReader(`{"key": "auto_mode", "value": "1"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	if settings.lastSetKey != "auto_mode" || settings.lastSetValue != "1" {
		t.Fatalf("set(%q, %q), want (auto_mode, 1)", settings.lastSetKey, settings.lastSetValue)
	}
}

func TestSettingsHandler_Update_EmptyValueBinds(t *testing.T) {
	settings := &mockSettings{}
	r := newTestRouter(&service.Service{Settings: settings})

	// "" is a legal value for some keys; the pointer binding must accept it.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/settings",
		strings.NewReader(`{"key": "curtain_status", "value": ""}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	if settings.lastSetKey != "curtain_status" || settings.lastSetValue != "" {
		t.Fatalf("set(%q, %q), want (curtain_status, \"\")", settings.lastSetKey, settings.lastSetValue)
	}
}

func TestSettingsHandler_Update_UnknownKey(t *testing.T) {
	settings := &mockSettings{setErr: repository.ErrSettingNotFound}
	r := newTestRouter(&service.Service{Settings: settings})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/settings",
		strings.NewReader(`{"key": "bogus", "value": "x"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown key, got %d (%s)", w.Code, w.Body.String())
	}
}

func TestSettingsHandler_Update_MissingFields(t *testing.T) {
	settings := &mockSettings{}
	r := newTestRouter(&service.Service{Settings: settings})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/settings",
		strings.NewReader(`{"key": "auto_mode"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
