package models

import "time"

// Command actions accepted from the dashboard, the AI bridge and the autopilot.
const (
	ActionOpen  = "OPEN"
	ActionClose = "CLOSE"
	ActionStop  = "STOP"
	// ActionNone is the poll response token when the queue is empty.
	ActionNone = "NONE"
)

// Command origins.
const (
	SourceManual = "MANUAL"
	SourceAI     = "AI"
	SourceAuto   = "AUTO"
)

// Command lifecycle states. A superseded command was replaced by a newer
// submission before the device ever saw it; an executed one was delivered.
const (
	StatusPending    = "PENDING"
	StatusExecuted   = "EXECUTED"
	StatusSuperseded = "SUPERSEDED"
)

// Curtain status values kept in the settings row `curtain_status`.
const (
	CurtainOpen    = "OPEN"
	CurtainClosed  = "CLOSED"
	CurtainMoving  = "MOVING"
	CurtainStopped = "STOPPED"
	CurtainUnknown = "UNKNOWN"
)

// PositionUnspecified marks a command without an explicit target position.
const PositionUnspecified = -1

// Command is one queued instruction for the curtain motor.
type Command struct {
	ID             int64      `json:"id"`
	Action         string     `json:"action"` // OPEN | CLOSE | STOP
	Speed          int        `json:"speed"`  // 0-255 motor PWM
	TargetPosition int        `json:"target_position"`
	Source         string     `json:"source"` // MANUAL | AI | AUTO
	Reason         string     `json:"reason"`
	Status         string     `json:"status"` // PENDING | EXECUTED | SUPERSEDED
	CreatedAt      time.Time  `json:"created_at"`
	ExecutedAt     *time.Time `json:"executed_at,omitempty"`
}
