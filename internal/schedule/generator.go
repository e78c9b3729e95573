package schedule

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var scheduleTracer = otel.Tracer("barberflow.internal.schedule")

// DefaultSlotDuration is the appointment granularity when none is configured.
const DefaultSlotDuration = 60 * time.Minute

// Generator computes bookable slots from working-hours templates and the
// booking ledger. It holds no mutable state and is safe for concurrent use.
type Generator struct {
	hours    HoursSource
	ledger   LedgerSource
	duration time.Duration
	loc      *time.Location
}

// NewGenerator wires a slot generator. A non-positive duration falls back to
// DefaultSlotDuration; a nil location falls back to UTC.
func NewGenerator(hours HoursSource, ledger LedgerSource, duration time.Duration, loc *time.Location) *Generator {
	if hours == nil {
		panic("schedule: hours source required")
	}
	if ledger == nil {
		panic("schedule: ledger source required")
	}
	if duration <= 0 {
		duration = DefaultSlotDuration
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Generator{hours: hours, ledger: ledger, duration: duration, loc: loc}
}

// SlotDuration returns the configured granularity.
func (g *Generator) SlotDuration() time.Duration {
	return g.duration
}

// Location returns the shop timezone used for day boundaries.
func (g *Generator) Location() *time.Location {
	return g.loc
}

// DailySlots returns the open slots for a provider on a calendar date,
// chronological and possibly empty. Slots starting before now are excluded,
// as are slots overlapping any scheduled appointment. The current time is a
// parameter so callers and tests control it explicitly.
func (g *Generator) DailySlots(ctx context.Context, providerID string, date time.Time, now time.Time) ([]Slot, error) {
	ctx, span := scheduleTracer.Start(ctx, "schedule.daily_slots")
	defer span.End()
	span.SetAttributes(attribute.String("barberflow.provider_id", providerID))

	date = date.In(g.loc)

	window, err := g.hours.WorkingWindow(ctx, providerID, date.Weekday())
	if err != nil {
		return nil, fmt.Errorf("schedule: load working hours: %w", err)
	}
	if window == nil {
		return []Slot{}, nil
	}

	openAt, err := atWallClock(date, window.Start, g.loc)
	if err != nil {
		return nil, fmt.Errorf("schedule: bad start time %q: %w", window.Start, err)
	}
	closeAt, err := atWallClock(date, window.End, g.loc)
	if err != nil {
		return nil, fmt.Errorf("schedule: bad end time %q: %w", window.End, err)
	}
	if !openAt.Before(closeAt) {
		return []Slot{}, nil
	}

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, g.loc)
	booked, err := g.ledger.ScheduledIntervals(ctx, providerID, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("schedule: load booked intervals: %w", err)
	}

	slots := []Slot{}
	for cur := openAt; !cur.Add(g.duration).After(closeAt); cur = cur.Add(g.duration) {
		slotEnd := cur.Add(g.duration)
		if cur.Before(now) {
			continue
		}
		if overlapsAny(cur, slotEnd, booked) {
			continue
		}
		slots = append(slots, Slot{Start: cur, End: slotEnd})
	}
	return slots, nil
}

// IsSlotAvailable reports whether [start, end) is free of scheduled
// appointments for the provider. It is the single conflict check used both
// for generation-time filtering and the pre-commit re-check; the ledger's
// own constraint remains the final arbiter under concurrent confirms.
func (g *Generator) IsSlotAvailable(ctx context.Context, providerID string, start, end time.Time) (bool, error) {
	booked, err := g.ledger.ScheduledIntervals(ctx, providerID, start, end)
	if err != nil {
		return false, fmt.Errorf("schedule: load booked intervals: %w", err)
	}
	return !overlapsAny(start, end, booked), nil
}

// atWallClock anchors an "HH:MM" wall-clock string onto a calendar date.
func atWallClock(date time.Time, hhmm string, loc *time.Location) (time.Time, error) {
	hour, minute, err := parseWallClock(hhmm)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, loc), nil
}

func parseWallClock(hhmm string) (int, int, error) {
	parts := strings.SplitN(hhmm, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("want HH:MM, got %q", hhmm)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("bad hour in %q", hhmm)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("bad minute in %q", hhmm)
	}
	return hour, minute, nil
}
