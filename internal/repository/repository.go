package repository

import (
	"context"
	"database/sql"

	"curtaincall/internal/models"
)

type SensorRepo interface {
	Insert(ctx context.Context, r models.SensorReading) (int64, error)
	Latest(ctx context.Context, limit int) ([]models.SensorReading, error)
}

type SettingsRepo interface {
	Get(ctx context.Context, key string) (string, error)
	GetAll(ctx context.Context) ([]models.Setting, error)
	Update(ctx context.Context, key, value string) error
}

// CommandRepo owns every transition of Command.status; no other component
// writes to the command_queue table.
type CommandRepo interface {
	// SubmitPending marks all PENDING rows SUPERSEDED and inserts cmd as the
	// single new PENDING row, atomically. Returns the new command id.
	SubmitPending(ctx context.Context, cmd models.Command) (int64, error)
	// ClaimNext atomically selects the newest PENDING row, marks every
	// PENDING row EXECUTED and returns the claimed one. Returns nil when the
	// queue is empty.
	ClaimNext(ctx context.Context) (*models.Command, error)
}

type DeviceLogRepo interface {
	Append(ctx context.Context, e models.DeviceLogEntry) error
	List(ctx context.Context, limit int, source string) ([]models.DeviceLogEntry, error)
}

type Authorization interface {
	Create(username, hash string) (int, error)
	GetByUsername(username string) (*models.User, error)
}

type Repository struct {
	Sensors   SensorRepo
	Settings  SettingsRepo
	Commands  CommandRepo
	DeviceLog DeviceLogRepo
	Auth      Authorization
}

func NewRepository(conn *sql.DB) *Repository {
	return &Repository{
		Sensors:   NewSensorSQLite(conn),
		Settings:  NewSettingsSQLite(conn),
		Commands:  NewCommandSQLite(conn),
		DeviceLog: NewDeviceLogSQLite(conn),
		Auth:      NewUserRepository(conn),
	}
}
