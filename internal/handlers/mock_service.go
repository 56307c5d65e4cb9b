package handlers

import (
	"context"

	"curtaincall/internal/models"
	"curtaincall/internal/service"

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

type mockSensors struct {
	recordRes  service.RecordResult
	recordErr  error
	latestResp []models.SensorReading
	latestErr  error

	lastRecord service.RecordParams
	lastLimit  int
}

func (m *mockSensors) Record(ctx context.Context, p service.RecordParams) (service.RecordResult, error) {
	m.lastRecord = p
	return m.recordRes, m.recordErr
}
func (m *mockSensors) Latest(ctx context.Context, limit int) ([]models.SensorReading, error) {
	m.lastLimit = limit
	return m.latestResp, m.latestErr
}

type mockCommands struct {
	submitResp models.Command
	submitErr  error
	pollResp   *service.DeliveredCommand
	pollErr    error

	lastSubmit service.SubmitParams
	pollCalls  int
}

func (m *mockCommands) Submit(ctx context.Context, p service.SubmitParams) (models.Command, error) {
	m.lastSubmit = p
	return m.submitResp, m.submitErr
}
func (m *mockCommands) PollNext(ctx context.Context) (*service.DeliveredCommand, error) {
	m.pollCalls++
	return m.pollResp, m.pollErr
}

type mockSettings struct {
	getResp    string
	getErr     error
	getAllResp []models.Setting
	getAllErr  error
	setErr     error

	lastSetKey   string
	lastSetValue string
}

func (m *mockSettings) Get(ctx context.Context, key string) (string, error) {
	return m.getResp, m.getErr
}
func (m *mockSettings) GetAll(ctx context.Context) ([]models.Setting, error) {
	return m.getAllResp, m.getAllErr
}
func (m *mockSettings) Set(ctx context.Context, key, value string) error {
	m.lastSetKey = key
	m.lastSetValue = value
	return m.setErr
}

type mockDeviceLog struct {
	resp []models.DeviceLogEntry
	err  error

	lastFilter service.LogFilter
}

func (m *mockDeviceLog) List(ctx context.Context, f service.LogFilter) ([]models.DeviceLogEntry, error) {
	m.lastFilter = f
	return m.resp, m.err
}

type mockAIBridge struct {
	outcome *service.AIOutcome
	err     error

	lastInput string
}

func (m *mockAIBridge) Decide(ctx context.Context, userInput string) (*service.AIOutcome, error) {
	m.lastInput = userInput
	return m.outcome, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil, false)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func newGuardedRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil, true)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}
