package handlers

import (
	"context"
	"net/http"
	"time"

	"tank_control/internal/config"
	"tank_control/internal/models"
	"tank_control/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockSettings struct {
	params models.ControlParameters

	tempErr   error
	pumpErr   error
	systemErr error
	manualErr error

	lastTemp     config.TemperatureSettings
	lastPumpSec  int
	lastSystem   config.SystemSettings
	lastOverride bool
	lastHeating  bool
	lastPump     bool

	tempCalls   int
	manualCalls int
}

func (m *mockSettings) Get(ctx context.Context) models.ControlParameters { return m.params }
func (m *mockSettings) UpdateTemperature(ctx context.Context, t config.TemperatureSettings) error {
	m.tempCalls++
	m.lastTemp = t
	return m.tempErr
}
func (m *mockSettings) UpdatePump(ctx context.Context, delaySec int) error {
	m.lastPumpSec = delaySec
	return m.pumpErr
}
func (m *mockSettings) UpdateSystem(ctx context.Context, s config.SystemSettings) error {
	m.lastSystem = s
	return m.systemErr
}
func (m *mockSettings) SetManual(ctx context.Context, override, heating, pump bool) error {
	m.manualCalls++
	m.lastOverride = override
	m.lastHeating = heating
	m.lastPump = pump
	return m.manualErr
}

type mockMonitoring struct {
	state models.SystemState
	err   error
}

func (m *mockMonitoring) GetState(ctx context.Context) (models.SystemState, error) {
	return m.state, m.err
}

type mockHistory struct {
	readings []models.StoredReading
	events   []models.ControlEvent
	actions  []models.ControlAction
	stats    models.TemperatureStats
	err      error

	lastTempFilter  service.TempFilter
	lastLogFilter   service.LogFilter
	lastRangeFilter service.RangeFilter
	lastWindow      time.Duration
}

func (m *mockHistory) Temperatures(ctx context.Context, f service.TempFilter) ([]models.StoredReading, error) {
	m.lastTempFilter = f
	return m.readings, m.err
}
func (m *mockHistory) Events(ctx context.Context, f service.LogFilter) ([]models.ControlEvent, error) {
	m.lastLogFilter = f
	return m.events, m.err
}
func (m *mockHistory) Actions(ctx context.Context, f service.RangeFilter) ([]models.ControlAction, error) {
	m.lastRangeFilter = f
	return m.actions, m.err
}
func (m *mockHistory) Statistics(ctx context.Context, window time.Duration) (models.TemperatureStats, error) {
	m.lastWindow = window
	return m.stats, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, NewHub(), nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
