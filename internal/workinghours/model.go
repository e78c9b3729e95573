package workinghours

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Entry is a provider's recurring open/close window for one weekday.
// DayOfWeek follows time.Weekday numbering: 0 = Sunday .. 6 = Saturday.
type Entry struct {
	ID         string    `json:"id"`
	ProviderID string    `json:"provider_id"`
	DayOfWeek  int       `json:"day_of_week"`
	StartTime  string    `json:"start_time"`
	EndTime    string    `json:"end_time"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

// SetEntry is one weekday window in a wholesale template replacement.
type SetEntry struct {
	DayOfWeek int    `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

var wallClockRE = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)

// Validate checks a single template entry.
func (e *SetEntry) Validate() error {
	if e.DayOfWeek < 0 || e.DayOfWeek > 6 {
		return ErrInvalidWeekday
	}
	if !wallClockRE.MatchString(e.StartTime) || !wallClockRE.MatchString(e.EndTime) {
		return ErrInvalidTime
	}
	if wallClockMinutes(e.StartTime) >= wallClockMinutes(e.EndTime) {
		return ErrStartNotBeforeEnd
	}
	return nil
}

// ValidateSet checks a full replacement template: each entry valid, at most
// one entry per weekday.
func ValidateSet(entries []SetEntry) error {
	seen := make(map[int]bool, len(entries))
	for i := range entries {
		if err := entries[i].Validate(); err != nil {
			return err
		}
		if seen[entries[i].DayOfWeek] {
			return ErrDuplicateWeekday
		}
		seen[entries[i].DayOfWeek] = true
	}
	return nil
}

func wallClockMinutes(hhmm string) int {
	parts := strings.SplitN(hhmm, ":", 2)
	hour, _ := strconv.Atoi(parts[0])
	minute, _ := strconv.Atoi(parts[1])
	return hour*60 + minute
}
