package appointments

import (
	"context"
	"time"

	"github.com/wbarraza/barberflow/internal/schedule"
)

// LedgerSource adapts a Repository to the slot generator's read-only view.
type LedgerSource struct {
	repo Repository
}

// NewLedgerSource wraps a repository for use by schedule.Generator.
func NewLedgerSource(repo Repository) *LedgerSource {
	if repo == nil {
		panic("appointments: repository required")
	}
	return &LedgerSource{repo: repo}
}

// ScheduledIntervals implements schedule.LedgerSource.
func (s *LedgerSource) ScheduledIntervals(ctx context.Context, providerID string, from, to time.Time) ([]schedule.Interval, error) {
	appts, err := s.repo.ListScheduled(ctx, providerID, from, to)
	if err != nil {
		return nil, err
	}
	intervals := make([]schedule.Interval, 0, len(appts))
	for _, a := range appts {
		intervals = append(intervals, schedule.Interval{Start: a.StartAt, End: a.EndAt})
	}
	return intervals, nil
}
