package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/wbarraza/barberflow/internal/appointments"
	"github.com/wbarraza/barberflow/internal/barbers"
	"github.com/wbarraza/barberflow/pkg/logging"
)

// Service emails the barber whenever the assistant confirms a booking.
type Service struct {
	email     EmailSender
	directory barbers.Repository
	loc       *time.Location
	logger    *logging.Logger
}

// NewService creates a booking notifier. A nil location falls back to UTC.
func NewService(email EmailSender, directory barbers.Repository, loc *time.Location, logger *logging.Logger) *Service {
	if email == nil {
		panic("notify: email sender cannot be nil")
	}
	if directory == nil {
		panic("notify: barber directory cannot be nil")
	}
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{email: email, directory: directory, loc: loc, logger: logger}
}

var _ appointments.BookingNotifier = (*Service)(nil)

// NotifyBookingConfirmed emails the barber about a new appointment. Errors
// are logged, never returned: the booking already committed.
func (s *Service) NotifyBookingConfirmed(ctx context.Context, appt *appointments.Appointment) {
	barber, err := s.directory.GetByID(ctx, appt.ProviderID)
	if err != nil {
		s.logger.Error("booking notification skipped: barber lookup failed",
			"error", err, "provider_id", appt.ProviderID)
		return
	}
	if barber.Email == "" {
		s.logger.Debug("booking notification skipped: barber has no email",
			"provider_id", appt.ProviderID)
		return
	}

	start := appt.StartAt.In(s.loc)
	msg := EmailMessage{
		To:      barber.Email,
		ToName:  barber.Name,
		Subject: fmt.Sprintf("Nueva cita: %s", start.Format("02/01 15:04")),
		Body: fmt.Sprintf(
			"Hola %s,\n\nTienes una nueva cita.\n\nFecha: %s\nHora: %s - %s\nCliente: %s\nNotas: %s\n",
			barber.Name,
			start.Format("Monday 02/01/2006"),
			start.Format("15:04"),
			appt.EndAt.In(s.loc).Format("15:04"),
			appt.ClientRef,
			appt.Notes,
		),
	}

	if err := s.email.Send(ctx, msg); err != nil {
		s.logger.Error("booking notification failed", "error", err, "to", barber.Email)
		return
	}
	s.logger.Info("booking notification sent", "to", barber.Email, "appointment_id", appt.ID)
}
