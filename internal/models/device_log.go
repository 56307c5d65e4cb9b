package models

import "time"

// DeviceLogEntry is a single audit record. Entries are written when a command
// is delivered to the device and when the AI bridge accepts a command, and are
// never mutated afterwards.
type DeviceLogEntry struct {
	ID       string    `json:"id"`
	Action   string    `json:"action"`
	Speed    int       `json:"speed"`
	Source   string    `json:"source"` // MANUAL | AI | AUTO
	Reason   string    `json:"reason"`
	LoggedAt time.Time `json:"logged_at"`

	// Sensor context and the user's original text, present on AI entries only.
	SensorTemperature *float64 `json:"sensor_temperature,omitempty"`
	SensorHumidity    *float64 `json:"sensor_humidity,omitempty"`
	SensorLight       *int     `json:"sensor_light,omitempty"`
	UserInput         *string  `json:"user_input,omitempty"`
}
