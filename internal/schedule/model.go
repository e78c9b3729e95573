package schedule

import (
	"context"
	"time"
)

// DateLayout is the ISO key format used for per-day availability maps.
const DateLayout = "2006-01-02"

// Slot is a fixed-duration candidate appointment interval.
type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// DayAvailability maps ISO calendar dates to that day's open slots,
// ordered by start time ascending. Days without working hours map to
// an empty list, never a missing key.
type DayAvailability map[string][]Slot

// WorkingWindow is the open/close template for one weekday.
// Start and End are wall-clock "HH:MM" strings in the shop timezone.
type WorkingWindow struct {
	Weekday time.Weekday
	Start   string
	End     string
}

// Interval is a booked [Start, End) range read from the ledger.
type Interval struct {
	Start time.Time
	End   time.Time
}

// HoursSource yields the active working window for a provider on a weekday.
// A nil window with nil error means the provider does not work that day.
type HoursSource interface {
	WorkingWindow(ctx context.Context, providerID string, weekday time.Weekday) (*WorkingWindow, error)
}

// LedgerSource lists scheduled intervals for a provider overlapping [from, to).
// Canceled and completed appointments are excluded by the implementation.
type LedgerSource interface {
	ScheduledIntervals(ctx context.Context, providerID string, from, to time.Time) ([]Interval, error)
}
