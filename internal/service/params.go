package service

// Motor speeds by command origin. Manual dashboard moves use a gentle fixed
// speed; the autopilot always drives at full speed.
const (
	ManualSpeed = 70
	AutoSpeed   = 255
)

// SubmitParams describes a command submission from any source.
type SubmitParams struct {
	Action         string
	Speed          int
	TargetPosition int // models.PositionUnspecified when absent
	Source         string
	Reason         string
}

// DeliveredCommand is what the device receives from a successful poll.
type DeliveredCommand struct {
	CommandID      int64  `json:"command_id"`
	Action         string `json:"action"`
	Speed          int    `json:"speed"`
	TargetPosition int    `json:"target_position"`
}

// RecordParams is a validated sensor reading to persist.
type RecordParams struct {
	Temperature float64
	Humidity    float64
	LightLevel  int
}

// AutoCommand mirrors the command the autopilot fired for a reading, echoed
// back to the device in the ingest response.
type AutoCommand struct {
	Action string `json:"action"`
	Speed  int    `json:"speed"`
	Reason string `json:"reason"`
}

// RecordResult is the outcome of a sensor ingest.
type RecordResult struct {
	ID          int64
	AutoCommand *AutoCommand // nil unless auto-mode fired
}

// LogFilter narrows the audit trail listing.
type LogFilter struct {
	Limit  int    // clamped to [1, 100]; 0 means the default of 20
	Source string // "", MANUAL, AI or AUTO
}
