package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"
)

func TestPostgresCreateReturnsRow(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	start := day.Add(13 * time.Hour)
	end := day.Add(14 * time.Hour)
	mock.ExpectQuery("INSERT INTO appointments").
		WithArgs(pgxmock.AnyArg(), "barber-1", "+5215550001", start, end, "corte").
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now().UTC()))

	repo := NewPostgresRepositoryWithConn(mock)
	req := createReq(start, end)
	req.Notes = "corte"
	appt, err := repo.Create(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, StatusScheduled, appt.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCreateMapsExclusionToConflict(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	start := day.Add(13 * time.Hour)
	end := day.Add(14 * time.Hour)
	mock.ExpectQuery("INSERT INTO appointments").
		WithArgs(pgxmock.AnyArg(), "barber-1", "+5215550001", start, end, "").
		WillReturnError(&pgconn.PgError{Code: exclusionViolation, ConstraintName: "appointments_no_overlap"})

	repo := NewPostgresRepositoryWithConn(mock)
	_, err = repo.Create(context.Background(), createReq(start, end))
	require.ErrorIs(t, err, ErrSlotConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdateStatusNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	cols := []string{"id", "provider_id", "client_ref", "start_at", "end_at", "status", "coalesce", "created_at"}
	mock.ExpectQuery("UPDATE appointments SET status").
		WithArgs("missing", "canceled").
		WillReturnRows(pgxmock.NewRows(cols))

	repo := NewPostgresRepositoryWithConn(mock)
	_, err = repo.UpdateStatus(context.Background(), "missing", StatusCanceled)
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresListScheduled(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now().UTC()
	cols := []string{"id", "provider_id", "client_ref", "start_at", "end_at", "status", "coalesce", "created_at"}
	rows := pgxmock.NewRows(cols).
		AddRow("a-1", "barber-1", "+5215550001", day.Add(10*time.Hour), day.Add(11*time.Hour), "scheduled", "", now).
		AddRow("a-2", "barber-1", "+5215550002", day.Add(16*time.Hour), day.Add(17*time.Hour), "scheduled", "", now)
	mock.ExpectQuery("SELECT .+ FROM appointments").
		WithArgs("barber-1", day, day.AddDate(0, 0, 1)).
		WillReturnRows(rows)

	repo := NewPostgresRepositoryWithConn(mock)
	listed, err := repo.ListScheduled(context.Background(), "barber-1", day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, listed, 2)
	require.Equal(t, "a-1", listed[0].ID)
	require.Equal(t, StatusScheduled, listed[0].Status)
	require.NoError(t, mock.ExpectationsWereMet())
}
