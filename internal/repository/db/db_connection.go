package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const sqliteDriverName = "sqlite"

// InitDB opens/creates a SQLite DB file and ensures tables and seed rows exist.
func InitDB(path string) (*sql.DB, error) {
	conn, err := sql.Open(sqliteDriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %q: %w", path, err)
	}

	// SQLite is not great with many writers; a single connection also makes
	// the supersede-then-insert and claim-then-retire transactions serialize.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA foreign_keys = ON;",
		"PRAGMA busy_timeout = 5000;",
	} {
		if _, err := conn.Exec(pragma); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if err := ensureSchema(conn); err != nil {
		_ = conn.Close()
		return nil, err
	}

	// Fail fast if the DB cannot be reached
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return conn, nil
}

const schemaSensorData = `
CREATE TABLE IF NOT EXISTS sensor_data (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    temperature REAL NOT NULL,
    humidity REAL NOT NULL,
    light_level INTEGER NOT NULL,
    recorded_at TIMESTAMP NOT NULL
);
`

const schemaSettings = `
CREATE TABLE IF NOT EXISTS settings (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    setting_key TEXT UNIQUE NOT NULL,
    setting_value TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT ''
);
`

const schemaCommandQueue = `
CREATE TABLE IF NOT EXISTS command_queue (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    action TEXT NOT NULL,
    speed INTEGER NOT NULL,
    target_position INTEGER NOT NULL DEFAULT -1,
    source TEXT NOT NULL,
    reason TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT 'PENDING',
    created_at TIMESTAMP NOT NULL,
    executed_at TIMESTAMP
);
`

const schemaDeviceLogs = `
CREATE TABLE IF NOT EXISTS device_logs (
    id TEXT PRIMARY KEY,
    action TEXT NOT NULL,
    speed INTEGER NOT NULL,
    source TEXT NOT NULL,
    reason TEXT NOT NULL DEFAULT '',
    sensor_temperature REAL,
    sensor_humidity REAL,
    sensor_light INTEGER,
    user_input TEXT,
    logged_at TIMESTAMP NOT NULL
);
`

const schemaUsers = `
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT UNIQUE NOT NULL,
    password_hash TEXT NOT NULL
);
`

// seedSettings inserts the fixed universe of setting keys. INSERT OR IGNORE
// keeps existing values untouched across restarts.
const seedSettings = `
INSERT OR IGNORE INTO settings (setting_key, setting_value, description) VALUES
    ('curtain_status', 'UNKNOWN', 'Last delivered curtain state'),
    ('auto_mode', '0', 'Evaluate thresholds on every sensor reading (1=on)'),
    ('light_threshold_high', '800', 'Close curtain above this light level'),
    ('light_threshold_low', '200', 'Open curtain below this light level'),
    ('temp_threshold_high', '35', 'Close curtain above this temperature (°C)');
`

func ensureSchema(conn *sql.DB) error {
	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer func() {
		// In case of panic, rollback to avoid leaving an open transaction
		_ = tx.Rollback()
	}()

	for i, stmt := range []string{
		schemaSensorData,
		schemaSettings,
		schemaCommandQueue,
		schemaDeviceLogs,
		schemaUsers,
		seedSettings,
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema transaction: %w", err)
	}
	return nil
}
