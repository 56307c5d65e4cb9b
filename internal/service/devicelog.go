package service

import (
	"context"
	"strings"

	"curtaincall/internal/models"
	"curtaincall/internal/repository"
)

const (
	defaultLogLimit = 20
	maxLogLimit     = 100
)

type DeviceLogService struct {
	logRepo repository.DeviceLogRepo
}

func NewDeviceLogService(logRepo repository.DeviceLogRepo) *DeviceLogService {
	return &DeviceLogService{logRepo: logRepo}
}

var _ DeviceLog = (*DeviceLogService)(nil)

// normalizeSourceFilter uppercases the filter and drops values outside the
// known source set, matching the dashboard contract.
func normalizeSourceFilter(source string) string {
	source = strings.ToUpper(strings.TrimSpace(source))
	switch source {
	case models.SourceManual, models.SourceAI, models.SourceAuto:
		return source
	}
	return ""
}

// List returns audit entries, newest first.
func (s *DeviceLogService) List(ctx context.Context, f LogFilter) ([]models.DeviceLogEntry, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = defaultLogLimit
	}
	if limit > maxLogLimit {
		limit = maxLogLimit
	}
	return s.logRepo.List(ctx, limit, normalizeSourceFilter(f.Source))
}
