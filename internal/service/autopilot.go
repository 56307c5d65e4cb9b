package service

import (
	"context"
	"fmt"
	"strconv"

	"curtaincall/internal/models"
	"curtaincall/internal/repository"
)

// Threshold defaults used when a settings row is missing or not numeric.
const (
	DefaultLightHigh = 800
	DefaultLightLow  = 200
	DefaultTempHigh  = 35.0
)

// Thresholds are the trigger points the autopilot evaluates against.
type Thresholds struct {
	LightHigh int
	LightLow  int
	TempHigh  float64
}

// AutoInput is everything the decision function needs.
type AutoInput struct {
	LightLevel    int
	Temperature   float64
	CurrentStatus string
	Thresholds    Thresholds
}

// AutoDecision is a command the autopilot wants submitted.
type AutoDecision struct {
	Action string
	Reason string
}

// EvaluateAuto is the pure threshold decision. The close rule is always
// checked first; it does not assume lightLow < lightHigh.
//
//  1. too bright or too hot, and not already closed -> CLOSE
//  2. dark enough, and not already open -> OPEN
//  3. otherwise no decision
func EvaluateAuto(in AutoInput) *AutoDecision {
	t := in.Thresholds

	if (in.LightLevel > t.LightHigh || in.Temperature > t.TempHigh) && in.CurrentStatus != models.CurtainClosed {
		return &AutoDecision{
			Action: models.ActionClose,
			Reason: fmt.Sprintf("Auto-close: Light=%d (threshold=%d), Temp=%.1f°C (threshold=%.1f°C)",
				in.LightLevel, t.LightHigh, in.Temperature, t.TempHigh),
		}
	}

	if in.LightLevel < t.LightLow && in.CurrentStatus != models.CurtainOpen {
		return &AutoDecision{
			Action: models.ActionOpen,
			Reason: fmt.Sprintf("Auto-open: Light=%d (threshold=%d)", in.LightLevel, t.LightLow),
		}
	}

	return nil
}

// loadThresholds reads the threshold settings, falling back to defaults for
// rows that are missing or fail to parse.
func loadThresholds(ctx context.Context, settings repository.SettingsRepo) Thresholds {
	t := Thresholds{
		LightHigh: DefaultLightHigh,
		LightLow:  DefaultLightLow,
		TempHigh:  DefaultTempHigh,
	}
	if v, err := settings.Get(ctx, models.KeyLightHigh); err == nil {
		if n, perr := strconv.Atoi(v); perr == nil {
			t.LightHigh = n
		}
	}
	if v, err := settings.Get(ctx, models.KeyLightLow); err == nil {
		if n, perr := strconv.Atoi(v); perr == nil {
			t.LightLow = n
		}
	}
	if v, err := settings.Get(ctx, models.KeyTempHigh); err == nil {
		if f, perr := strconv.ParseFloat(v, 64); perr == nil {
			t.TempHigh = f
		}
	}
	return t
}

// loadCurtainStatus reads the cached status, defaulting to UNKNOWN.
func loadCurtainStatus(ctx context.Context, settings repository.SettingsRepo) string {
	v, err := settings.Get(ctx, models.KeyCurtainStatus)
	if err != nil || v == "" {
		return models.CurtainUnknown
	}
	return v
}
