// Package barbers is the provider directory: a read-mostly registry the
// scheduling core consults for existence checks and notification contacts.
package barbers

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a barber does not exist.
var ErrNotFound = errors.New("barber not found")

// Barber is a service provider.
type Barber struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Repository defines the provider directory.
type Repository interface {
	GetByID(ctx context.Context, id string) (*Barber, error)
	List(ctx context.Context) ([]Barber, error)
}

// InMemoryRepository is a map-backed directory for tests and local runs.
type InMemoryRepository struct {
	mu      sync.RWMutex
	barbers map[string]Barber
}

// NewInMemoryRepository creates an empty directory.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{barbers: make(map[string]Barber)}
}

// Add registers a barber, assigning an id when absent, and returns it.
func (r *InMemoryRepository) Add(b Barber) Barber {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
	r.mu.Lock()
	r.barbers[b.ID] = b
	r.mu.Unlock()
	return b
}

// GetByID returns the barber or ErrNotFound.
func (r *InMemoryRepository) GetByID(_ context.Context, id string) (*Barber, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.barbers[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &b, nil
}

// List returns all barbers.
func (r *InMemoryRepository) List(_ context.Context) ([]Barber, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Barber, 0, len(r.barbers))
	for _, b := range r.barbers {
		out = append(out, b)
	}
	return out, nil
}

// PostgresRepository reads the directory from Postgres.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("barbers: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

// GetByID returns the barber or ErrNotFound.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Barber, error) {
	query := `SELECT id, name, COALESCE(email, ''), COALESCE(phone, ''), created_at FROM barbers WHERE id = $1`
	var b Barber
	if err := r.pool.QueryRow(ctx, query, id).Scan(&b.ID, &b.Name, &b.Email, &b.Phone, &b.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("barbers: select: %w", err)
	}
	return &b, nil
}

// List returns all barbers ordered by name.
func (r *PostgresRepository) List(ctx context.Context) ([]Barber, error) {
	query := `SELECT id, name, COALESCE(email, ''), COALESCE(phone, ''), created_at FROM barbers ORDER BY name ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("barbers: list: %w", err)
	}
	defer rows.Close()

	var out []Barber
	for rows.Next() {
		var b Barber
		if err := rows.Scan(&b.ID, &b.Name, &b.Email, &b.Phone, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("barbers: scan: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("barbers: iterate: %w", err)
	}
	return out, nil
}
