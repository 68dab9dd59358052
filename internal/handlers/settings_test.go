package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"tank_control/internal/config"
	"tank_control/internal/models"
	"tank_control/internal/service"
)

func doJSON(t *testing.T, r http.Handler, method, target, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf *bytes.Buffer
	if body != "" {
		buf = bytes.NewBufferString(body)
	} else {
		buf = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, target, buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range authHeader(token) {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetSettings(t *testing.T) {
	st := &mockSettings{params: models.DefaultControlParameters()}
	s := &service.Service{
		Authorization: &mockAuth{parseID: 1},
		Settings:      st,
	}
	r := newTestRouter(s)

	w := doJSON(t, r, http.MethodGet, "/api/v1/settings", "", "tok")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	var got models.ControlParameters
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.SetpointC != 60 || got.HysteresisC != 2 || got.PumpDelaySec != 60 {
		t.Fatalf("unexpected params: %+v", got)
	}
}

func TestSaveTemperatureSettings(t *testing.T) {
	st := &mockSettings{}
	s := &service.Service{
		Authorization: &mockAuth{parseID: 1},
		Settings:      st,
	}
	r := newTestRouter(s)

	body := `{"setpoint_c":65,"hysteresis_c":1.5,"max_temperature_c":80}`
	w := doJSON(t, r, http.MethodPost, "/api/v1/settings/temperature", body, "tok")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	if st.lastTemp.SetpointC != 65 || st.lastTemp.HysteresisC != 1.5 || st.lastTemp.MaxTemperatureC != 80 {
		t.Fatalf("service got %+v", st.lastTemp)
	}

	// missing field → 400, service untouched
	calls := st.tempCalls
	w = doJSON(t, r, http.MethodPost, "/api/v1/settings/temperature", `{"setpoint_c":65}`, "tok")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for partial body, got %d", w.Code)
	}
	if st.tempCalls != calls {
		t.Fatalf("service called despite bad body")
	}

	// zero values are legitimate input for the service to validate
	st.tempErr = fmt.Errorf("%w: setpoint out of range", config.ErrInvalidParameter)
	w = doJSON(t, r, http.MethodPost, "/api/v1/settings/temperature", `{"setpoint_c":0,"hysteresis_c":0.5,"max_temperature_c":85}`, "tok")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for validation error, got %d (body=%s)", w.Code, w.Body.String())
	}
}

func TestSavePumpSettings(t *testing.T) {
	st := &mockSettings{}
	s := &service.Service{
		Authorization: &mockAuth{parseID: 1},
		Settings:      st,
	}
	r := newTestRouter(s)

	w := doJSON(t, r, http.MethodPost, "/api/v1/settings/pump", `{"pump_delay_sec":120}`, "tok")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	if st.lastPumpSec != 120 {
		t.Fatalf("service got delay=%d", st.lastPumpSec)
	}

	// zero is a valid delay
	w = doJSON(t, r, http.MethodPost, "/api/v1/settings/pump", `{"pump_delay_sec":0}`, "tok")
	if w.Code != http.StatusOK {
		t.Fatalf("zero delay rejected: status=%d, body=%s", w.Code, w.Body.String())
	}
	if st.lastPumpSec != 0 {
		t.Fatalf("service got delay=%d, want 0", st.lastPumpSec)
	}
}

func TestSaveSystemSettings(t *testing.T) {
	st := &mockSettings{}
	s := &service.Service{
		Authorization: &mockAuth{parseID: 1},
		Settings:      st,
	}
	r := newTestRouter(s)

	body := `{"update_interval_sec":10,"sensor_timeout_sec":20,"data_retention_days":30,"heating_system_enabled":false}`
	w := doJSON(t, r, http.MethodPost, "/api/v1/settings/system", body, "tok")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	got := st.lastSystem
	if got.UpdateIntervalSec != 10 || got.SensorTimeoutSec != 20 || got.DataRetentionDays != 30 || got.HeatingSystemEnabled {
		t.Fatalf("service got %+v", got)
	}
}

func TestSaveManualOverride(t *testing.T) {
	st := &mockSettings{}
	s := &service.Service{
		Authorization: &mockAuth{parseID: 1},
		Settings:      st,
	}
	r := newTestRouter(s)

	body := `{"manual_override":true,"manual_heating":true,"manual_pump":false}`
	w := doJSON(t, r, http.MethodPost, "/api/v1/settings/manual", body, "tok")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	if !st.lastOverride || !st.lastHeating || st.lastPump {
		t.Fatalf("service got override=%v heating=%v pump=%v", st.lastOverride, st.lastHeating, st.lastPump)
	}

	// manual_override is required; heating/pump default to false
	w = doJSON(t, r, http.MethodPost, "/api/v1/settings/manual", `{"manual_heating":true}`, "tok")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without manual_override, got %d", w.Code)
	}

	// clearing the override
	w = doJSON(t, r, http.MethodPost, "/api/v1/settings/manual", `{"manual_override":false}`, "tok")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	if st.lastOverride {
		t.Fatalf("override not cleared")
	}
}

func TestSettingsRequireAuth(t *testing.T) {
	s := &service.Service{
		Authorization: &mockAuth{parseErr: fmt.Errorf("bad token")},
		Settings:      &mockSettings{},
	}
	r := newTestRouter(s)

	w := doJSON(t, r, http.MethodGet, "/api/v1/settings", "", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}
}
