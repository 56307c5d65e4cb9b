package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"curtaincall/internal/models"
)

type SensorSQLite struct {
	db *sql.DB
}

func NewSensorSQLite(db *sql.DB) *SensorSQLite { return &SensorSQLite{db: db} }

var _ SensorRepo = (*SensorSQLite)(nil)

const (
	insertSensorSQL = `
		INSERT INTO sensor_data (temperature, humidity, light_level, recorded_at)
		VALUES (?, ?, ?, ?)
	`

	selectLatestSensorSQL = `
		SELECT id, temperature, humidity, light_level, recorded_at
		FROM sensor_data ORDER BY recorded_at DESC, id DESC LIMIT ?
	`
)

// Insert appends a reading. A zero RecordedAt is set to time.Now().UTC().
func (r *SensorSQLite) Insert(ctx context.Context, reading models.SensorReading) (int64, error) {
	ts := reading.RecordedAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	} else {
		ts = ts.UTC()
	}

	res, err := r.db.ExecContext(ctx, insertSensorSQL,
		reading.Temperature,
		reading.Humidity,
		reading.LightLevel,
		ts,
	)
	if err != nil {
		return 0, fmt.Errorf("insert sensor reading: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get sensor reading id: %w", err)
	}
	return id, nil
}

// Latest returns up to limit readings, newest first.
func (r *SensorSQLite) Latest(ctx context.Context, limit int) ([]models.SensorReading, error) {
	rows, err := r.db.QueryContext(ctx, selectLatestSensorSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("select sensor readings: %w", err)
	}
	defer rows.Close()

	out := make([]models.SensorReading, 0, limit)
	for rows.Next() {
		var s models.SensorReading
		if err := rows.Scan(&s.ID, &s.Temperature, &s.Humidity, &s.LightLevel, &s.RecordedAt); err != nil {
			return nil, err
		}
		s.RecordedAt = s.RecordedAt.UTC()
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
