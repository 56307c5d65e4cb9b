package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"curtaincall/internal/models"
)

// ErrSettingNotFound is returned when a key is absent from the settings table.
// The fixed universe of keys is seeded at InitDB; Update never creates rows.
var ErrSettingNotFound = errors.New("setting key not found")

type SettingsSQLite struct {
	db *sql.DB
}

func NewSettingsSQLite(db *sql.DB) *SettingsSQLite { return &SettingsSQLite{db: db} }

var _ SettingsRepo = (*SettingsSQLite)(nil)

const (
	selectSettingSQL  = `SELECT setting_value FROM settings WHERE setting_key = ?`
	selectSettingsSQL = `SELECT setting_key, setting_value, description FROM settings ORDER BY id ASC`
	updateSettingSQL  = `UPDATE settings SET setting_value = ? WHERE setting_key = ?`
)

func (r *SettingsSQLite) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, selectSettingSQL, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrSettingNotFound
		}
		return "", fmt.Errorf("select setting %q: %w", key, err)
	}
	return value, nil
}

func (r *SettingsSQLite) GetAll(ctx context.Context) ([]models.Setting, error) {
	rows, err := r.db.QueryContext(ctx, selectSettingsSQL)
	if err != nil {
		return nil, fmt.Errorf("select settings: %w", err)
	}
	defer rows.Close()

	var out []models.Setting
	for rows.Next() {
		var s models.Setting
		if err := rows.Scan(&s.Key, &s.Value, &s.Description); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update mutates an existing key in place. Unknown keys fail with
// ErrSettingNotFound instead of being created.
func (r *SettingsSQLite) Update(ctx context.Context, key, value string) error {
	res, err := r.db.ExecContext(ctx, updateSettingSQL, value, key)
	if err != nil {
		return fmt.Errorf("update setting %q: %w", key, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for setting %q: %w", key, err)
	}
	if affected == 0 {
		return ErrSettingNotFound
	}
	return nil
}
