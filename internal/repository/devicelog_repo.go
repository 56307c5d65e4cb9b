package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"curtaincall/internal/models"

	"github.com/google/uuid"
)

type DeviceLogSQLite struct {
	db *sql.DB
}

func NewDeviceLogSQLite(db *sql.DB) *DeviceLogSQLite { return &DeviceLogSQLite{db: db} }

var _ DeviceLogRepo = (*DeviceLogSQLite)(nil)

const (
	insertDeviceLogSQL = `
		INSERT INTO device_logs (id, action, speed, source, reason,
			sensor_temperature, sensor_humidity, sensor_light, user_input, logged_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	selectDeviceLogsSQL = `
		SELECT id, action, speed, source, reason,
			sensor_temperature, sensor_humidity, sensor_light, user_input, logged_at
		FROM device_logs
	`
)

// Append inserts a new audit entry. If ID or LoggedAt are empty, they're set.
func (r *DeviceLogSQLite) Append(ctx context.Context, e models.DeviceLogEntry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.LoggedAt.IsZero() {
		e.LoggedAt = time.Now().UTC()
	} else {
		e.LoggedAt = e.LoggedAt.UTC()
	}

	_, err := r.db.ExecContext(ctx, insertDeviceLogSQL,
		e.ID,
		e.Action,
		e.Speed,
		e.Source,
		e.Reason,
		e.SensorTemperature,
		e.SensorHumidity,
		e.SensorLight,
		e.UserInput,
		e.LoggedAt,
	)
	if err != nil {
		return fmt.Errorf("insert device log: %w", err)
	}
	return nil
}

// List returns up to limit entries, newest first, optionally filtered by source.
func (r *DeviceLogSQLite) List(ctx context.Context, limit int, source string) ([]models.DeviceLogEntry, error) {
	q := selectDeviceLogsSQL
	args := []any{}
	if source != "" {
		q += " WHERE source = ?"
		args = append(args, source)
	}
	q += " ORDER BY logged_at DESC, id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("select device logs: %w", err)
	}
	defer rows.Close()

	out := make([]models.DeviceLogEntry, 0, limit)
	for rows.Next() {
		var (
			e     models.DeviceLogEntry
			temp  sql.NullFloat64
			hum   sql.NullFloat64
			light sql.NullInt64
			input sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.Action, &e.Speed, &e.Source, &e.Reason,
			&temp, &hum, &light, &input, &e.LoggedAt); err != nil {
			return nil, err
		}
		if temp.Valid {
			e.SensorTemperature = &temp.Float64
		}
		if hum.Valid {
			e.SensorHumidity = &hum.Float64
		}
		if light.Valid {
			v := int(light.Int64)
			e.SensorLight = &v
		}
		if input.Valid {
			e.UserInput = &input.String
		}
		e.LoggedAt = e.LoggedAt.UTC()
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
