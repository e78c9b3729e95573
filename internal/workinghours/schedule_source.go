package workinghours

import (
	"context"
	"time"

	"github.com/wbarraza/barberflow/internal/schedule"
)

// ScheduleSource adapts a Repository to the slot generator's HoursSource.
type ScheduleSource struct {
	repo Repository
}

// NewScheduleSource wraps a repository for use by schedule.Generator.
func NewScheduleSource(repo Repository) *ScheduleSource {
	if repo == nil {
		panic("workinghours: repository required")
	}
	return &ScheduleSource{repo: repo}
}

// WorkingWindow implements schedule.HoursSource.
func (s *ScheduleSource) WorkingWindow(ctx context.Context, providerID string, weekday time.Weekday) (*schedule.WorkingWindow, error) {
	entry, err := s.repo.GetForWeekday(ctx, providerID, weekday)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, nil
	}
	return &schedule.WorkingWindow{
		Weekday: time.Weekday(entry.DayOfWeek),
		Start:   entry.StartTime,
		End:     entry.EndTime,
	}, nil
}
