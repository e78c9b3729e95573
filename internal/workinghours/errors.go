package workinghours

import "errors"

var (
	// ErrInvalidWeekday is returned when a day index is outside 0..6.
	ErrInvalidWeekday = errors.New("day_of_week must be between 0 and 6")

	// ErrInvalidTime is returned when a wall-clock string is not HH:MM.
	ErrInvalidTime = errors.New("time must be HH:MM in 24-hour format")

	// ErrStartNotBeforeEnd is returned when a window does not open before it closes.
	ErrStartNotBeforeEnd = errors.New("start_time must be before end_time")

	// ErrDuplicateWeekday is returned when a template repeats a weekday.
	ErrDuplicateWeekday = errors.New("at most one entry per weekday")
)
