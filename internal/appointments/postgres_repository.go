package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// exclusionViolation is the Postgres error code raised by the
// appointments_no_overlap EXCLUDE constraint. That constraint is the final
// arbiter of the booking race: two concurrent confirms for the same interval
// cannot both commit.
const exclusionViolation = "23P01"

type pgxConn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores the booking ledger in Postgres.
type PostgresRepository struct {
	conn pgxConn
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("appointments: pgx pool required")
	}
	return &PostgresRepository{conn: pool}
}

// NewPostgresRepositoryWithConn allows injecting mocks for tests.
func NewPostgresRepositoryWithConn(conn pgxConn) *PostgresRepository {
	return &PostgresRepository{conn: conn}
}

const appointmentColumns = `id, provider_id, client_ref, start_at, end_at, status, COALESCE(notes, ''), created_at`

// Create inserts a scheduled row. Overlap with another scheduled row for the
// same provider trips the exclusion constraint and maps to ErrSlotConflict.
func (r *PostgresRepository) Create(ctx context.Context, req *CreateRequest) (*Appointment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	appt := &Appointment{
		ID:         uuid.NewString(),
		ProviderID: req.ProviderID,
		ClientRef:  req.ClientRef,
		StartAt:    req.StartAt,
		EndAt:      req.EndAt,
		Status:     StatusScheduled,
		Notes:      req.Notes,
	}
	query := `
		INSERT INTO appointments (id, provider_id, client_ref, start_at, end_at, status, notes)
		VALUES ($1, $2, $3, $4, $5, 'scheduled', $6)
		RETURNING created_at
	`
	err := r.conn.QueryRow(ctx, query,
		appt.ID, appt.ProviderID, appt.ClientRef, appt.StartAt, appt.EndAt, appt.Notes,
	).Scan(&appt.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == exclusionViolation {
			return nil, ErrSlotConflict
		}
		return nil, fmt.Errorf("appointments: insert: %w", err)
	}
	return appt, nil
}

// GetByID returns the appointment or ErrNotFound.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`
	appt, err := scanAppointment(r.conn.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("appointments: select: %w", err)
	}
	return appt, nil
}

// UpdateStatus transitions an appointment to the given status.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, status Status) (*Appointment, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	query := `
		UPDATE appointments SET status = $2
		WHERE id = $1
		RETURNING ` + appointmentColumns
	appt, err := scanAppointment(r.conn.QueryRow(ctx, query, id, string(status)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("appointments: update status: %w", err)
	}
	return appt, nil
}

// ListScheduled returns scheduled rows overlapping [from, to), by start time.
func (r *PostgresRepository) ListScheduled(ctx context.Context, providerID string, from, to time.Time) ([]Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE provider_id = $1 AND status = 'scheduled'
		  AND start_at < $3 AND end_at > $2
		ORDER BY start_at ASC
	`
	return r.queryAppointments(ctx, query, providerID, from, to)
}

// ListScheduledForClient returns the client's upcoming rows, soonest first.
func (r *PostgresRepository) ListScheduledForClient(ctx context.Context, providerID, clientRef string, after time.Time) ([]Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE provider_id = $1 AND client_ref = $2 AND status = 'scheduled'
		  AND start_at >= $3
		ORDER BY start_at ASC
	`
	return r.queryAppointments(ctx, query, providerID, clientRef, after)
}

func (r *PostgresRepository) queryAppointments(ctx context.Context, query string, args ...any) ([]Appointment, error) {
	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("appointments: query: %w", err)
	}
	defer rows.Close()

	var out []Appointment
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("appointments: scan: %w", err)
		}
		out = append(out, *appt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("appointments: iterate: %w", err)
	}
	return out, nil
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var appt Appointment
	var status string
	if err := row.Scan(
		&appt.ID, &appt.ProviderID, &appt.ClientRef,
		&appt.StartAt, &appt.EndAt, &status, &appt.Notes, &appt.CreatedAt,
	); err != nil {
		return nil, err
	}
	appt.Status = Status(status)
	return &appt, nil
}
