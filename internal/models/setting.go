package models

// Known setting keys. The settings table is seeded with exactly these rows
// and the API never creates or deletes keys at runtime.
const (
	KeyCurtainStatus = "curtain_status"
	KeyAutoMode      = "auto_mode"
	KeyLightHigh     = "light_threshold_high"
	KeyLightLow      = "light_threshold_low"
	KeyTempHigh      = "temp_threshold_high"
)

// Setting is a named configuration value, mutated in place by key.
type Setting struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Description string `json:"description"`
}
