package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wbarraza/barberflow/internal/appointments"
	"github.com/wbarraza/barberflow/internal/barbers"
	"github.com/wbarraza/barberflow/pkg/logging"
)

type recordingEmailSender struct {
	sent []EmailMessage
	err  error
}

func (s *recordingEmailSender) Send(_ context.Context, msg EmailMessage) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func testAppointment() *appointments.Appointment {
	return &appointments.Appointment{
		ID:         "appt-1",
		ProviderID: "barber-1",
		ClientRef:  "+5215550001",
		StartAt:    time.Date(2025, time.March, 14, 15, 0, 0, 0, time.UTC),
		EndAt:      time.Date(2025, time.March, 14, 16, 0, 0, 0, time.UTC),
		Status:     appointments.StatusScheduled,
		Notes:      "Cita agendada via asistente",
	}
}

func TestNotifyBookingConfirmedEmailsBarber(t *testing.T) {
	dir := barbers.NewInMemoryRepository()
	dir.Add(barbers.Barber{ID: "barber-1", Name: "Luis", Email: "luis@example.com"})
	sender := &recordingEmailSender{}
	svc := NewService(sender, dir, time.UTC, logging.Default())

	svc.NotifyBookingConfirmed(context.Background(), testAppointment())

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	require.Equal(t, "luis@example.com", msg.To)
	require.Contains(t, msg.Subject, "14/03 15:00")
	require.Contains(t, msg.Body, "+5215550001")
	require.Contains(t, msg.Body, "15:00 - 16:00")
}

func TestNotifyBookingConfirmedSkipsUnknownBarber(t *testing.T) {
	sender := &recordingEmailSender{}
	svc := NewService(sender, barbers.NewInMemoryRepository(), time.UTC, logging.Default())

	svc.NotifyBookingConfirmed(context.Background(), testAppointment())

	require.Empty(t, sender.sent)
}

func TestNotifyBookingConfirmedSkipsBarberWithoutEmail(t *testing.T) {
	dir := barbers.NewInMemoryRepository()
	dir.Add(barbers.Barber{ID: "barber-1", Name: "Luis"})
	sender := &recordingEmailSender{}
	svc := NewService(sender, dir, time.UTC, logging.Default())

	svc.NotifyBookingConfirmed(context.Background(), testAppointment())

	require.Empty(t, sender.sent)
}

func TestNotifyBookingConfirmedSwallowsSendErrors(t *testing.T) {
	dir := barbers.NewInMemoryRepository()
	dir.Add(barbers.Barber{ID: "barber-1", Name: "Luis", Email: "luis@example.com"})
	sender := &recordingEmailSender{err: errors.New("ses down")}
	svc := NewService(sender, dir, time.UTC, logging.Default())

	// Must not panic or propagate; the booking already committed.
	svc.NotifyBookingConfirmed(context.Background(), testAppointment())
	require.Empty(t, sender.sent)
}
