package models

import "time"

// SensorReading is one sample reported by the device. Rows are append-only.
type SensorReading struct {
	ID          int64     `json:"id"`
	Temperature float64   `json:"temperature"` // °C
	Humidity    float64   `json:"humidity"`    // %
	LightLevel  int       `json:"light_level"` // 0-1023 LDR scale, higher = brighter
	RecordedAt  time.Time `json:"recorded_at"`
}
