package workinghours

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

// pgxConn is the subset of pgxpool.Pool the repository needs, so tests can
// inject pgxmock.
type pgxConn interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores working-hours templates in Postgres.
type PostgresRepository struct {
	conn pgxConn
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("workinghours: pgx pool required")
	}
	return &PostgresRepository{conn: pool}
}

// NewPostgresRepositoryWithConn allows injecting mocks for tests.
func NewPostgresRepositoryWithConn(conn pgxConn) *PostgresRepository {
	return &PostgresRepository{conn: conn}
}

// Replace deletes the provider's template and inserts the new set in one
// transaction, so readers never observe a partially replaced week.
func (r *PostgresRepository) Replace(ctx context.Context, providerID string, entries []SetEntry) ([]Entry, error) {
	if err := ValidateSet(entries); err != nil {
		return nil, err
	}

	tx, err := r.conn.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("workinghours: begin replace: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM working_hours WHERE provider_id = $1`, providerID); err != nil {
		return nil, fmt.Errorf("workinghours: clear template: %w", err)
	}

	replaced := make([]Entry, 0, len(entries))
	for _, e := range entries {
		entry := Entry{
			ID:         uuid.NewString(),
			ProviderID: providerID,
			DayOfWeek:  e.DayOfWeek,
			StartTime:  e.StartTime,
			EndTime:    e.EndTime,
			IsActive:   true,
		}
		query := `
			INSERT INTO working_hours (id, provider_id, day_of_week, start_time, end_time, is_active)
			VALUES ($1, $2, $3, $4, $5, TRUE)
			RETURNING created_at
		`
		if err := tx.QueryRow(ctx, query,
			entry.ID, providerID, entry.DayOfWeek, entry.StartTime, entry.EndTime,
		).Scan(&entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("workinghours: insert entry: %w", err)
		}
		replaced = append(replaced, entry)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("workinghours: commit replace: %w", err)
	}
	return replaced, nil
}

// ListForProvider returns the active template ordered by weekday.
func (r *PostgresRepository) ListForProvider(ctx context.Context, providerID string) ([]Entry, error) {
	query := `
		SELECT id, provider_id, day_of_week, start_time, end_time, is_active, created_at
		FROM working_hours
		WHERE provider_id = $1 AND is_active
		ORDER BY day_of_week ASC
	`
	rows, err := r.conn.Query(ctx, query, providerID)
	if err != nil {
		return nil, fmt.Errorf("workinghours: list: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.ProviderID, &e.DayOfWeek, &e.StartTime, &e.EndTime, &e.IsActive, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("workinghours: scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("workinghours: iterate entries: %w", err)
	}
	return entries, nil
}

// GetForWeekday returns the active entry for the weekday, or nil when absent.
func (r *PostgresRepository) GetForWeekday(ctx context.Context, providerID string, weekday time.Weekday) (*Entry, error) {
	query := `
		SELECT id, provider_id, day_of_week, start_time, end_time, is_active, created_at
		FROM working_hours
		WHERE provider_id = $1 AND day_of_week = $2 AND is_active
		LIMIT 1
	`
	var e Entry
	err := r.conn.QueryRow(ctx, query, providerID, int(weekday)).
		Scan(&e.ID, &e.ProviderID, &e.DayOfWeek, &e.StartTime, &e.EndTime, &e.IsActive, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("workinghours: get for weekday: %w", err)
	}
	return &e, nil
}
