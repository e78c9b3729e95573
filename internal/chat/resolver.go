// Package chat resolves scheduling conversations: it classifies an inbound
// message, consults availability and the booking service, and produces the
// Spanish reply for the client. Each turn is stateless; multi-message flows
// re-derive their context from the ledger on every call.
package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/wbarraza/barberflow/internal/appointments"
	"github.com/wbarraza/barberflow/internal/intent"
	"github.com/wbarraza/barberflow/internal/schedule"
	"github.com/wbarraza/barberflow/pkg/logging"
)

var chatTracer = otel.Tracer("barberflow.internal.chat")

// Action describes what the resolver did with a turn.
type Action string

const (
	ActionBooked       Action = "booked"
	ActionSuggestions  Action = "suggestions"
	ActionAvailability Action = "availability"
	ActionCanceled     Action = "canceled"
	ActionDisambiguate Action = "disambiguate"
	ActionNone         Action = "none"
)

const (
	maxSuggestedSlots   = 10
	maxCancelCandidates = 3

	defaultBookingNotes = "Cita agendada via asistente"
)

// Turn is one inbound message to resolve. A zero Now means the wall clock.
type Turn struct {
	ProviderID string
	ClientRef  string
	Text       string
	Now        time.Time
}

// TurnResult is the resolved outcome of a turn. ResponseText is always set;
// the remaining fields depend on the action taken.
type TurnResult struct {
	ResponseText   string                     `json:"response_text"`
	Intent         intent.Parsed              `json:"intent"`
	Action         Action                     `json:"action"`
	Availability   schedule.DayAvailability   `json:"availability,omitempty"`
	SuggestedSlots []schedule.Slot            `json:"suggested_slots,omitempty"`
	Appointment    *appointments.Appointment  `json:"appointment,omitempty"`
	Candidates     []appointments.Appointment `json:"candidates,omitempty"`
}

// Resolver drives the per-turn state machine.
type Resolver struct {
	generator *schedule.Generator
	bookings  *appointments.Service
	logger    *logging.Logger
}

// NewResolver wires a turn resolver.
func NewResolver(generator *schedule.Generator, bookings *appointments.Service, logger *logging.Logger) *Resolver {
	if generator == nil {
		panic("chat: generator cannot be nil")
	}
	if bookings == nil {
		panic("chat: bookings service cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Resolver{generator: generator, bookings: bookings, logger: logger}
}

// Resolve runs one chat turn to completion. Lookup failures such as an
// unknown provider come back as a declined TurnResult, not an error; only
// collaborator failures (ledger unreachable) propagate.
func (r *Resolver) Resolve(ctx context.Context, turn Turn) (*TurnResult, error) {
	ctx, span := chatTracer.Start(ctx, "chat.resolve", trace.WithAttributes(
		attribute.String("barberflow.provider_id", turn.ProviderID),
	))
	defer span.End()

	now := turn.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.In(r.generator.Location())

	parsed := intent.Extract(turn.Text)
	span.SetAttributes(attribute.String("barberflow.intent", string(parsed.Tag)))

	var (
		result *TurnResult
		err    error
	)
	switch parsed.Tag {
	case intent.TagCancel:
		result, err = r.resolveCancel(ctx, turn, parsed, now)
	case intent.TagBook:
		result, err = r.resolveBook(ctx, turn, parsed, now)
	case intent.TagQuery:
		result, err = r.resolveQuery(ctx, turn, parsed, now)
	case intent.TagGreeting:
		result = &TurnResult{
			ResponseText: "¡Hola! Soy el asistente de la barbería. Puedo mostrarte horarios disponibles, agendar una cita o cancelarla. ¿En qué te ayudo?",
			Intent:       parsed,
			Action:       ActionNone,
		}
	default:
		result = &TurnResult{
			ResponseText: "No entendí tu mensaje. Puedes escribir, por ejemplo: \"quiero una cita el viernes a las 3pm\" o \"qué horarios tienen\".",
			Intent:       parsed,
			Action:       ActionNone,
		}
	}
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	r.logger.Info("chat turn resolved",
		"provider_id", turn.ProviderID,
		"intent", parsed.Tag,
		"action", result.Action,
	)
	return result, nil
}

func (r *Resolver) resolveBook(ctx context.Context, turn Turn, parsed intent.Parsed, now time.Time) (*TurnResult, error) {
	availability, err := r.generator.WeeklyAvailability(ctx, turn.ProviderID, now, now)
	if err != nil {
		return nil, err
	}

	if !parsed.HasSpecificDetails() {
		suggested := availability.Flatten(maxSuggestedSlots)
		text := "Estos son algunos horarios disponibles esta semana:\n" + renderSlotList(suggested, r.generator.Location()) +
			"\nDime el día y la hora que prefieras."
		if len(suggested) == 0 {
			text = "Por ahora no tenemos horarios disponibles esta semana. Escríbenos de nuevo pronto."
		}
		return &TurnResult{
			ResponseText:   text,
			Intent:         parsed,
			Action:         ActionSuggestions,
			Availability:   availability,
			SuggestedSlots: suggested,
		}, nil
	}

	slot := bestSlot(availability, *parsed.Weekday, parsed.TimeOfDay, r.generator.Location())
	if slot == nil {
		return r.availabilityFallback(parsed, availability,
			"Ese día no tengo horarios disponibles."), nil
	}

	free, err := r.generator.IsSlotAvailable(ctx, turn.ProviderID, slot.Start, slot.End)
	if err != nil {
		return nil, err
	}
	if !free {
		return r.availabilityFallback(parsed, availability,
			"Ese horario acaba de ocuparse."), nil
	}

	appt, err := r.bookings.Confirm(ctx, &appointments.CreateRequest{
		ProviderID: turn.ProviderID,
		ClientRef:  turn.ClientRef,
		StartAt:    slot.Start,
		EndAt:      slot.End,
		Notes:      defaultBookingNotes,
	})
	switch {
	case err == nil:
		return &TurnResult{
			ResponseText: fmt.Sprintf("¡Listo! Tu cita quedó agendada para el %s.", renderSlotMoment(*slot, r.generator.Location())),
			Intent:       parsed,
			Action:       ActionBooked,
			Appointment:  appt,
		}, nil
	case errors.Is(err, appointments.ErrSlotConflict):
		// Two clients raced for the slot; the other one won. Offer the
		// week again instead of failing the turn.
		return r.availabilityFallback(parsed, availability,
			"Ese horario acaba de ocuparse."), nil
	case errors.Is(err, appointments.ErrProviderNotFound):
		return &TurnResult{
			ResponseText: "No encontré ese barbero. Verifica el nombre e intenta de nuevo.",
			Intent:       parsed,
			Action:       ActionNone,
		}, nil
	default:
		return nil, err
	}
}

func (r *Resolver) resolveQuery(ctx context.Context, turn Turn, parsed intent.Parsed, now time.Time) (*TurnResult, error) {
	availability, err := r.generator.WeeklyAvailability(ctx, turn.ProviderID, now, now)
	if err != nil {
		return nil, err
	}

	text := renderAvailability(availability, r.generator.Location())
	if text == "" {
		text = "Esta semana no tenemos horarios disponibles. Escríbenos de nuevo pronto."
	}
	return &TurnResult{
		ResponseText: text,
		Intent:       parsed,
		Action:       ActionAvailability,
		Availability: availability,
	}, nil
}

func (r *Resolver) resolveCancel(ctx context.Context, turn Turn, parsed intent.Parsed, now time.Time) (*TurnResult, error) {
	upcoming, err := r.bookings.UpcomingForClient(ctx, turn.ProviderID, turn.ClientRef, now)
	if err != nil {
		return nil, err
	}

	filtered := upcoming
	if target, ok := dayFilter(turn.Text, parsed, now, r.generator.Location()); ok {
		filtered = filterByDate(upcoming, target, r.generator.Location())
	}

	switch len(filtered) {
	case 0:
		text := "No tienes citas próximas agendadas."
		if len(upcoming) > 0 {
			text = "No encontré citas tuyas para ese día."
		}
		return &TurnResult{ResponseText: text, Intent: parsed, Action: ActionNone}, nil
	case 1:
		appt, err := r.bookings.Cancel(ctx, filtered[0].ID)
		if err != nil {
			if errors.Is(err, appointments.ErrNotFound) {
				return &TurnResult{
					ResponseText: "Esa cita ya no está activa.",
					Intent:       parsed,
					Action:       ActionNone,
				}, nil
			}
			return nil, err
		}
		return &TurnResult{
			ResponseText: fmt.Sprintf("Tu cita del %s fue cancelada.", renderAppointmentMoment(*appt, r.generator.Location())),
			Intent:       parsed,
			Action:       ActionCanceled,
			Appointment:  appt,
		}, nil
	default:
		candidates := filtered
		if len(candidates) > maxCancelCandidates {
			candidates = candidates[:maxCancelCandidates]
		}
		return &TurnResult{
			ResponseText: renderCancelCandidates(candidates, r.generator.Location()),
			Intent:       parsed,
			Action:       ActionDisambiguate,
			Candidates:   candidates,
		}, nil
	}
}

func (r *Resolver) availabilityFallback(parsed intent.Parsed, availability schedule.DayAvailability, lead string) *TurnResult {
	rendered := renderAvailability(availability, r.generator.Location())
	text := lead + " Estos son los horarios de la semana:\n" + rendered
	if rendered == "" {
		text = lead + " Por ahora no hay horarios disponibles esta semana."
	}
	return &TurnResult{
		ResponseText: text,
		Intent:       parsed,
		Action:       ActionAvailability,
		Availability: availability,
	}
}

// bestSlot picks the slot on the requested weekday whose start is nearest the
// requested wall-clock time. Without a time, the weekday's earliest slot
// wins. Equidistant candidates keep the first one found in date order.
func bestSlot(availability schedule.DayAvailability, weekday time.Weekday, timeOfDay string, loc *time.Location) *schedule.Slot {
	var (
		best     *schedule.Slot
		bestDiff time.Duration
	)
	for _, date := range availability.SortedDates() {
		day, err := time.ParseInLocation(schedule.DateLayout, date, loc)
		if err != nil || day.Weekday() != weekday {
			continue
		}

		slots := availability[date]
		if len(slots) == 0 {
			continue
		}
		if timeOfDay == "" {
			slot := slots[0]
			return &slot
		}

		wanted, err := time.ParseInLocation("15:04", timeOfDay, loc)
		if err != nil {
			slot := slots[0]
			return &slot
		}
		target := time.Date(day.Year(), day.Month(), day.Day(), wanted.Hour(), wanted.Minute(), 0, 0, loc)

		for i := range slots {
			diff := slots[i].Start.Sub(target)
			if diff < 0 {
				diff = -diff
			}
			if best == nil || diff < bestDiff {
				slot := slots[i]
				best = &slot
				bestDiff = diff
			}
		}
	}
	return best
}

// dayFilter maps a day reference in the text to a concrete calendar date.
// "hoy" and "mañana" are literal; a weekday name maps to its next occurrence,
// today included.
func dayFilter(text string, parsed intent.Parsed, now time.Time, loc *time.Location) (time.Time, bool) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	switch {
	case intent.MentionsToday(text):
		return today, true
	case intent.MentionsTomorrow(text):
		return today.AddDate(0, 0, 1), true
	case parsed.Weekday != nil:
		ahead := (int(*parsed.Weekday) - int(today.Weekday()) + 7) % 7
		return today.AddDate(0, 0, ahead), true
	}
	return time.Time{}, false
}

func filterByDate(appts []appointments.Appointment, date time.Time, loc *time.Location) []appointments.Appointment {
	want := date.In(loc).Format(schedule.DateLayout)
	out := make([]appointments.Appointment, 0, len(appts))
	for _, appt := range appts {
		if appt.StartAt.In(loc).Format(schedule.DateLayout) == want {
			out = append(out, appt)
		}
	}
	return out
}
