package service

import (
	"context"
	"time"

	"curtaincall/internal/models"
	"curtaincall/internal/repository"
)

// In-memory repo fakes shared by the service tests. They implement the real
// supersession/claim semantics so queue invariants can be asserted without a
// database.

type fakeSettingsRepo struct {
	values  map[string]string
	getErr  error
	updErr  error
	updates []models.Setting
}

func newFakeSettings(values map[string]string) *fakeSettingsRepo {
	if values == nil {
		values = map[string]string{}
	}
	return &fakeSettingsRepo{values: values}
}

func (f *fakeSettingsRepo) Get(ctx context.Context, key string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	v, ok := f.values[key]
	if !ok {
		return "", repository.ErrSettingNotFound
	}
	return v, nil
}

func (f *fakeSettingsRepo) GetAll(ctx context.Context) ([]models.Setting, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	out := make([]models.Setting, 0, len(f.values))
	for k, v := range f.values {
		out = append(out, models.Setting{Key: k, Value: v})
	}
	return out, nil
}

func (f *fakeSettingsRepo) Update(ctx context.Context, key, value string) error {
	if f.updErr != nil {
		return f.updErr
	}
	if _, ok := f.values[key]; !ok {
		return repository.ErrSettingNotFound
	}
	f.values[key] = value
	f.updates = append(f.updates, models.Setting{Key: key, Value: value})
	return nil
}

type fakeCommandRepo struct {
	commands  []models.Command
	nextID    int64
	submitErr error
	claimErr  error
}

func (f *fakeCommandRepo) SubmitPending(ctx context.Context, cmd models.Command) (int64, error) {
	if f.submitErr != nil {
		return 0, f.submitErr
	}
	now := time.Now().UTC()
	for i := range f.commands {
		if f.commands[i].Status == models.StatusPending {
			f.commands[i].Status = models.StatusSuperseded
			f.commands[i].ExecutedAt = &now
		}
	}
	f.nextID++
	cmd.ID = f.nextID
	cmd.Status = models.StatusPending
	cmd.CreatedAt = now
	f.commands = append(f.commands, cmd)
	return cmd.ID, nil
}

func (f *fakeCommandRepo) ClaimNext(ctx context.Context) (*models.Command, error) {
	if f.claimErr != nil {
		return nil, f.claimErr
	}
	now := time.Now().UTC()
	var newest *models.Command
	for i := range f.commands {
		if f.commands[i].Status != models.StatusPending {
			continue
		}
		f.commands[i].Status = models.StatusExecuted
		f.commands[i].ExecutedAt = &now
		if newest == nil || f.commands[i].ID > newest.ID {
			newest = &f.commands[i]
		}
	}
	if newest == nil {
		return nil, nil
	}
	out := *newest
	return &out, nil
}

func (f *fakeCommandRepo) pendingCount() int {
	n := 0
	for _, c := range f.commands {
		if c.Status == models.StatusPending {
			n++
		}
	}
	return n
}

type fakeSensorRepo struct {
	readings  []models.SensorReading
	nextID    int64
	insertErr error
	latestErr error
}

func (f *fakeSensorRepo) Insert(ctx context.Context, r models.SensorReading) (int64, error) {
	if f.insertErr != nil {
		return 0, f.insertErr
	}
	f.nextID++
	r.ID = f.nextID
	if r.RecordedAt.IsZero() {
		r.RecordedAt = time.Now().UTC()
	}
	f.readings = append(f.readings, r)
	return r.ID, nil
}

func (f *fakeSensorRepo) Latest(ctx context.Context, limit int) ([]models.SensorReading, error) {
	if f.latestErr != nil {
		return nil, f.latestErr
	}
	out := make([]models.SensorReading, 0, limit)
	for i := len(f.readings) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.readings[i])
	}
	return out, nil
}

type fakeLogRepo struct {
	entries   []models.DeviceLogEntry
	appendErr error
	listErr   error
	lastLimit int
	lastSrc   string
}

func (f *fakeLogRepo) Append(ctx context.Context, e models.DeviceLogEntry) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.entries = append(f.entries, e)
	return nil
}

func (f *fakeLogRepo) List(ctx context.Context, limit int, source string) ([]models.DeviceLogEntry, error) {
	f.lastLimit = limit
	f.lastSrc = source
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.DeviceLogEntry
	for i := len(f.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if source == "" || f.entries[i].Source == source {
			out = append(out, f.entries[i])
		}
	}
	return out, nil
}

// Interface conformance for the fakes.
var (
	_ repository.SettingsRepo  = (*fakeSettingsRepo)(nil)
	_ repository.CommandRepo   = (*fakeCommandRepo)(nil)
	_ repository.SensorRepo    = (*fakeSensorRepo)(nil)
	_ repository.DeviceLogRepo = (*fakeLogRepo)(nil)
)
