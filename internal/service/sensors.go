package service

import (
	"context"

	"curtaincall/internal/models"
	"curtaincall/internal/repository"
)

const (
	defaultSensorLimit = 1
	maxSensorLimit     = 100

	autoModeOn = "1"
)

type SensorService struct {
	sensorRepo   repository.SensorRepo
	settingsRepo repository.SettingsRepo
	commands     Commands
}

func NewSensorService(sensorRepo repository.SensorRepo, settingsRepo repository.SettingsRepo, commands Commands) *SensorService {
	return &SensorService{sensorRepo: sensorRepo, settingsRepo: settingsRepo, commands: commands}
}

var _ Sensors = (*SensorService)(nil)

// Record persists a reading and, when auto-mode is on, evaluates the
// thresholds against it. A fired decision is submitted through the command
// queue (superseding whatever was pending) and echoed back to the caller.
func (s *SensorService) Record(ctx context.Context, p RecordParams) (RecordResult, error) {
	id, err := s.sensorRepo.Insert(ctx, models.SensorReading{
		Temperature: p.Temperature,
		Humidity:    p.Humidity,
		LightLevel:  p.LightLevel,
	})
	if err != nil {
		return RecordResult{}, err
	}

	res := RecordResult{ID: id}

	mode, err := s.settingsRepo.Get(ctx, models.KeyAutoMode)
	if err != nil || mode != autoModeOn {
		// Auto-mode off or unreadable; the reading is already stored.
		return res, nil
	}

	decision := EvaluateAuto(AutoInput{
		LightLevel:    p.LightLevel,
		Temperature:   p.Temperature,
		CurrentStatus: loadCurtainStatus(ctx, s.settingsRepo),
		Thresholds:    loadThresholds(ctx, s.settingsRepo),
	})
	if decision == nil {
		return res, nil
	}

	if _, err := s.commands.Submit(ctx, SubmitParams{
		Action:         decision.Action,
		Speed:          AutoSpeed,
		TargetPosition: models.PositionUnspecified,
		Source:         models.SourceAuto,
		Reason:         decision.Reason,
	}); err != nil {
		return RecordResult{}, err
	}

	res.AutoCommand = &AutoCommand{
		Action: decision.Action,
		Speed:  AutoSpeed,
		Reason: decision.Reason,
	}
	return res, nil
}

// Latest returns up to limit readings, newest first. Limit is defaulted to 1
// and clamped to 100, matching the dashboard contract.
func (s *SensorService) Latest(ctx context.Context, limit int) ([]models.SensorReading, error) {
	if limit <= 0 {
		limit = defaultSensorLimit
	}
	if limit > maxSensorLimit {
		limit = maxSensorLimit
	}
	return s.sensorRepo.Latest(ctx, limit)
}
