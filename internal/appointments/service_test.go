package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wbarraza/barberflow/internal/barbers"
	"github.com/wbarraza/barberflow/pkg/logging"
)

type recordingNotifier struct {
	confirmed []*Appointment
}

func (n *recordingNotifier) NotifyBookingConfirmed(_ context.Context, appt *Appointment) {
	n.confirmed = append(n.confirmed, appt)
}

func seededDirectory() *barbers.InMemoryRepository {
	dir := barbers.NewInMemoryRepository()
	dir.Add(barbers.Barber{ID: "barber-1", Name: "Luis", Email: "luis@example.com"})
	return dir
}

func TestServiceConfirmNotifies(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := NewService(NewInMemoryRepository(), seededDirectory(), notifier, logging.Default())

	appt, err := svc.Confirm(context.Background(), createReq(day.Add(13*time.Hour), day.Add(14*time.Hour)))
	require.NoError(t, err)
	require.Len(t, notifier.confirmed, 1)
	require.Equal(t, appt.ID, notifier.confirmed[0].ID)
}

func TestServiceConfirmUnknownProvider(t *testing.T) {
	svc := NewService(NewInMemoryRepository(), seededDirectory(), nil, logging.Default())

	req := createReq(day.Add(13*time.Hour), day.Add(14*time.Hour))
	req.ProviderID = "barber-ghost"
	_, err := svc.Confirm(context.Background(), req)
	require.ErrorIs(t, err, ErrProviderNotFound)
}

func TestServiceConfirmConflictSkipsNotification(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := NewService(NewInMemoryRepository(), seededDirectory(), notifier, logging.Default())
	ctx := context.Background()

	_, err := svc.Confirm(ctx, createReq(day.Add(13*time.Hour), day.Add(14*time.Hour)))
	require.NoError(t, err)

	_, err = svc.Confirm(ctx, createReq(day.Add(13*time.Hour), day.Add(14*time.Hour)))
	require.ErrorIs(t, err, ErrSlotConflict)
	require.Len(t, notifier.confirmed, 1)
}

func TestServiceConfirmWithoutDirectory(t *testing.T) {
	svc := NewService(NewInMemoryRepository(), nil, nil, logging.Default())

	_, err := svc.Confirm(context.Background(), createReq(day.Add(13*time.Hour), day.Add(14*time.Hour)))
	require.NoError(t, err, "nil directory skips the existence check")
}

func TestServiceCancel(t *testing.T) {
	svc := NewService(NewInMemoryRepository(), nil, nil, logging.Default())
	ctx := context.Background()

	appt, err := svc.Confirm(ctx, createReq(day.Add(13*time.Hour), day.Add(14*time.Hour)))
	require.NoError(t, err)

	canceled, err := svc.Cancel(ctx, appt.ID)
	require.NoError(t, err)
	require.Equal(t, StatusCanceled, canceled.Status)

	_, err = svc.Cancel(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestServiceConfirmAfterCancelReopensSlot(t *testing.T) {
	svc := NewService(NewInMemoryRepository(), nil, nil, logging.Default())
	ctx := context.Background()

	appt, err := svc.Confirm(ctx, createReq(day.Add(13*time.Hour), day.Add(14*time.Hour)))
	require.NoError(t, err)
	_, err = svc.Cancel(ctx, appt.ID)
	require.NoError(t, err)

	_, err = svc.Confirm(ctx, createReq(day.Add(13*time.Hour), day.Add(14*time.Hour)))
	require.NoError(t, err)
}
