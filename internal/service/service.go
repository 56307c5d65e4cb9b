package service

import (
	"context"
	"time"

	"curtaincall/internal/models"
	"curtaincall/internal/repository"
)

// Sensors accepts device readings and serves the dashboard's history view.
type Sensors interface {
	Record(ctx context.Context, p RecordParams) (RecordResult, error)
	Latest(ctx context.Context, limit int) ([]models.SensorReading, error)
}

// Commands is the command queue: submission with supersession, and the
// device's one-shot poll.
type Commands interface {
	Submit(ctx context.Context, p SubmitParams) (models.Command, error)
	PollNext(ctx context.Context) (*DeliveredCommand, error)
}

// Settings reads and mutates the fixed set of configuration rows.
type Settings interface {
	Get(ctx context.Context, key string) (string, error)
	GetAll(ctx context.Context) ([]models.Setting, error)
	Set(ctx context.Context, key, value string) error
}

// DeviceLog exposes the append-only audit trail.
type DeviceLog interface {
	List(ctx context.Context, f LogFilter) ([]models.DeviceLogEntry, error)
}

// AIBridge turns free-text user intent plus current sensor context into a
// queued command via the external model.
type AIBridge interface {
	Decide(ctx context.Context, userInput string) (*AIOutcome, error)
}

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Config carries the pieces of runtime configuration the services need.
type Config struct {
	AI   AIConfig
	Auth AuthConfig
}

type AuthConfig struct {
	SigningKey string
	TokenTTL   time.Duration
}

// Service aggregates all sub-services.
type Service struct {
	Sensors
	Commands
	Settings
	DeviceLog
	AIBridge
	Authorization
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, cfg Config) *Service {
	commands := NewCommandService(repos.Commands, repos.Settings, repos.DeviceLog)
	return &Service{
		Sensors:       NewSensorService(repos.Sensors, repos.Settings, commands),
		Commands:      commands,
		Settings:      NewSettingsService(repos.Settings),
		DeviceLog:     NewDeviceLogService(repos.DeviceLog),
		AIBridge:      NewAIBridgeService(cfg.AI, repos.Sensors, repos.Settings, repos.DeviceLog, commands),
		Authorization: NewAuthService(repos.Auth, cfg.Auth),
	}
}
