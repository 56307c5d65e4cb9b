package service

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"curtaincall/internal/models"
	"curtaincall/internal/repository"
)

type CommandService struct {
	commandRepo  repository.CommandRepo
	settingsRepo repository.SettingsRepo
	logRepo      repository.DeviceLogRepo
}

func NewCommandService(commandRepo repository.CommandRepo, settingsRepo repository.SettingsRepo, logRepo repository.DeviceLogRepo) *CommandService {
	return &CommandService{commandRepo: commandRepo, settingsRepo: settingsRepo, logRepo: logRepo}
}

var _ Commands = (*CommandService)(nil)

// percentPattern matches an integer immediately followed by a percent sign,
// e.g. "Move to 42%". Kept as a fallback for commands submitted without an
// explicit target position.
var percentPattern = regexp.MustCompile(`(\d+)%`)

// ExtractTargetPosition pulls a percentage out of a reason string, returning
// models.PositionUnspecified when none is present.
func ExtractTargetPosition(reason string) int {
	m := percentPattern.FindStringSubmatch(reason)
	if m == nil {
		return models.PositionUnspecified
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return models.PositionUnspecified
	}
	return n
}

func validAction(action string) bool {
	switch action {
	case models.ActionOpen, models.ActionClose, models.ActionStop:
		return true
	}
	return false
}

func validSource(source string) bool {
	switch source {
	case models.SourceManual, models.SourceAI, models.SourceAuto:
		return true
	}
	return false
}

// Submit validates the command and inserts it as the single pending one.
// Older pending commands are superseded inside the same storage transaction:
// only the newest instruction ever matters. The cached curtain status is left
// alone here; it tracks delivered commands only (see PollNext).
func (s *CommandService) Submit(ctx context.Context, p SubmitParams) (models.Command, error) {
	action := strings.ToUpper(strings.TrimSpace(p.Action))
	if !validAction(action) {
		return models.Command{}, ErrInvalidAction
	}

	source := strings.ToUpper(strings.TrimSpace(p.Source))
	if source == "" {
		source = models.SourceManual
	}
	if !validSource(source) {
		return models.Command{}, ErrInvalidSource
	}

	cmd := models.Command{
		Action:         action,
		Speed:          p.Speed,
		TargetPosition: p.TargetPosition,
		Source:         source,
		Reason:         p.Reason,
		Status:         models.StatusPending,
	}

	id, err := s.commandRepo.SubmitPending(ctx, cmd)
	if err != nil {
		return models.Command{}, err
	}
	cmd.ID = id
	return cmd, nil
}

// deliveredStatus maps a delivered action to the curtain status it implies.
func deliveredStatus(action string) string {
	switch action {
	case models.ActionClose:
		return models.CurtainClosed
	case models.ActionStop:
		return models.CurtainStopped
	default:
		return models.CurtainOpen
	}
}

// PollNext claims the newest pending command for the device. On delivery the
// cached curtain status is updated and an audit entry is appended. Returns
// nil when nothing is pending; the handler answers with the NONE token.
func (s *CommandService) PollNext(ctx context.Context) (*DeliveredCommand, error) {
	cmd, err := s.commandRepo.ClaimNext(ctx)
	if err != nil {
		return nil, err
	}
	if cmd == nil {
		return nil, nil
	}

	target := cmd.TargetPosition
	if target < 0 {
		target = ExtractTargetPosition(cmd.Reason)
	}

	if err := s.settingsRepo.Update(ctx, models.KeyCurtainStatus, deliveredStatus(cmd.Action)); err != nil {
		return nil, err
	}

	if err := s.logRepo.Append(ctx, models.DeviceLogEntry{
		Action: cmd.Action,
		Speed:  cmd.Speed,
		Source: cmd.Source,
		Reason: cmd.Reason,
	}); err != nil {
		return nil, err
	}

	return &DeliveredCommand{
		CommandID:      cmd.ID,
		Action:         cmd.Action,
		Speed:          cmd.Speed,
		TargetPosition: target,
	}, nil
}
