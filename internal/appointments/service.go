package appointments

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wbarraza/barberflow/internal/barbers"
	"github.com/wbarraza/barberflow/pkg/logging"
)

var appointmentsTracer = otel.Tracer("barberflow.internal.appointments")

// BookingNotifier is told about confirmed bookings. Implementations must not
// block the booking path on delivery problems.
type BookingNotifier interface {
	NotifyBookingConfirmed(ctx context.Context, appt *Appointment)
}

// Service owns the booking write path.
type Service struct {
	repo      Repository
	directory barbers.Repository
	notifier  BookingNotifier
	logger    *logging.Logger
}

// NewService constructs an appointments service. The directory and notifier
// are optional; a nil directory skips provider existence checks.
func NewService(repo Repository, directory barbers.Repository, notifier BookingNotifier, logger *logging.Logger) *Service {
	if repo == nil {
		panic("appointments: repository required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{repo: repo, directory: directory, notifier: notifier, logger: logger}
}

// Confirm books the interval. Returns ErrProviderNotFound for unknown
// providers and ErrSlotConflict when the interval lost the race.
func (s *Service) Confirm(ctx context.Context, req *CreateRequest) (*Appointment, error) {
	ctx, span := appointmentsTracer.Start(ctx, "appointments.confirm")
	defer span.End()
	span.SetAttributes(
		attribute.String("barberflow.provider_id", req.ProviderID),
		attribute.String("barberflow.client_ref", req.ClientRef),
	)

	if s.directory != nil {
		if _, err := s.directory.GetByID(ctx, req.ProviderID); err != nil {
			if errors.Is(err, barbers.ErrNotFound) {
				return nil, ErrProviderNotFound
			}
			span.RecordError(err)
			return nil, err
		}
	}

	appt, err := s.repo.Create(ctx, req)
	if err != nil {
		if errors.Is(err, ErrSlotConflict) {
			s.logger.Info("booking lost slot race",
				"provider_id", req.ProviderID, "start_at", req.StartAt)
			return nil, err
		}
		span.RecordError(err)
		return nil, err
	}

	s.logger.Info("appointment confirmed",
		"appointment_id", appt.ID,
		"provider_id", appt.ProviderID,
		"start_at", appt.StartAt,
	)
	if s.notifier != nil {
		s.notifier.NotifyBookingConfirmed(ctx, appt)
	}
	return appt, nil
}

// Cancel marks an appointment canceled.
func (s *Service) Cancel(ctx context.Context, id string) (*Appointment, error) {
	ctx, span := appointmentsTracer.Start(ctx, "appointments.cancel")
	defer span.End()
	span.SetAttributes(attribute.String("barberflow.appointment_id", id))

	appt, err := s.repo.UpdateStatus(ctx, id, StatusCanceled)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			span.RecordError(err)
		}
		return nil, err
	}
	s.logger.Info("appointment canceled", "appointment_id", appt.ID, "provider_id", appt.ProviderID)
	return appt, nil
}

// UpdateStatus transitions an appointment to the given status.
func (s *Service) UpdateStatus(ctx context.Context, id string, status Status) (*Appointment, error) {
	return s.repo.UpdateStatus(ctx, id, status)
}

// GetByID returns the appointment or ErrNotFound.
func (s *Service) GetByID(ctx context.Context, id string) (*Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

// UpcomingForClient lists a client's scheduled appointments, soonest first.
func (s *Service) UpcomingForClient(ctx context.Context, providerID, clientRef string, after time.Time) ([]Appointment, error) {
	return s.repo.ListScheduledForClient(ctx, providerID, clientRef, after)
}
