package service

import (
	"context"
	"testing"

	"curtaincall/internal/models"
)

func TestDeviceLogService_List_NormalizesFilter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		filter    LogFilter
		wantLimit int
		wantSrc   string
	}{
		{"defaults", LogFilter{}, 20, ""},
		{"clamped limit", LogFilter{Limit: 500}, 100, ""},
		{"lowercase source", LogFilter{Limit: 5, Source: "ai"}, 5, models.SourceAI},
		{"unknown source ignored", LogFilter{Limit: 5, Source: "ROBOT"}, 5, ""},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			logs := &fakeLogRepo{}
			svc := NewDeviceLogService(logs)

			if _, err := svc.List(context.Background(), tc.filter); err != nil {
				t.Fatalf("List: %v", err)
			}
			if logs.lastLimit != tc.wantLimit {
				t.Fatalf("limit = %d, want %d", logs.lastLimit, tc.wantLimit)
			}
			if logs.lastSrc != tc.wantSrc {
				t.Fatalf("source = %q, want %q", logs.lastSrc, tc.wantSrc)
			}
		})
	}
}
