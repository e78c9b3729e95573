package schedule

import (
	"context"
	"sort"
	"time"
)

// WeekDays is the size of the rolling availability window.
const WeekDays = 7

// WeeklyAvailability computes per-day open slots for WeekDays consecutive
// calendar dates starting at startDate inclusive. Every date in the window is
// present in the result, mapped to an empty list when the provider does not
// work that day.
func (g *Generator) WeeklyAvailability(ctx context.Context, providerID string, startDate time.Time, now time.Time) (DayAvailability, error) {
	startDate = startDate.In(g.loc)
	availability := make(DayAvailability, WeekDays)

	for i := 0; i < WeekDays; i++ {
		day := startDate.AddDate(0, 0, i)
		slots, err := g.DailySlots(ctx, providerID, day, now)
		if err != nil {
			return nil, err
		}
		availability[day.Format(DateLayout)] = slots
	}
	return availability, nil
}

// SortedDates returns the availability keys in chronological order.
func (a DayAvailability) SortedDates() []string {
	dates := make([]string, 0, len(a))
	for d := range a {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

// Flatten returns all slots across days in date order, capped at limit.
// A non-positive limit means no cap.
func (a DayAvailability) Flatten(limit int) []Slot {
	var out []Slot
	for _, date := range a.SortedDates() {
		for _, slot := range a[date] {
			out = append(out, slot)
			if limit > 0 && len(out) == limit {
				return out
			}
		}
	}
	return out
}
