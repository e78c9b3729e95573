package workinghours

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines storage for working-hours templates.
type Repository interface {
	// Replace swaps a provider's whole weekly template atomically.
	Replace(ctx context.Context, providerID string, entries []SetEntry) ([]Entry, error)
	// ListForProvider returns the active template ordered by weekday.
	ListForProvider(ctx context.Context, providerID string) ([]Entry, error)
	// GetForWeekday returns the active entry for a weekday, or nil when the
	// provider does not work that day.
	GetForWeekday(ctx context.Context, providerID string, weekday time.Weekday) (*Entry, error)
}

// InMemoryRepository keeps templates in a map, for tests and local runs.
type InMemoryRepository struct {
	mu      sync.RWMutex
	entries map[string][]Entry
}

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{entries: make(map[string][]Entry)}
}

// Replace swaps the provider's template under the lock.
func (r *InMemoryRepository) Replace(_ context.Context, providerID string, entries []SetEntry) ([]Entry, error) {
	if err := ValidateSet(entries); err != nil {
		return nil, err
	}

	replaced := make([]Entry, 0, len(entries))
	now := time.Now().UTC()
	for _, e := range entries {
		replaced = append(replaced, Entry{
			ID:         uuid.NewString(),
			ProviderID: providerID,
			DayOfWeek:  e.DayOfWeek,
			StartTime:  e.StartTime,
			EndTime:    e.EndTime,
			IsActive:   true,
			CreatedAt:  now,
		})
	}
	sort.Slice(replaced, func(i, j int) bool { return replaced[i].DayOfWeek < replaced[j].DayOfWeek })

	r.mu.Lock()
	r.entries[providerID] = replaced
	r.mu.Unlock()

	out := make([]Entry, len(replaced))
	copy(out, replaced)
	return out, nil
}

// ListForProvider returns a copy of the provider's active template.
func (r *InMemoryRepository) ListForProvider(_ context.Context, providerID string) ([]Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.entries[providerID]
	out := make([]Entry, 0, len(stored))
	for _, e := range stored {
		if e.IsActive {
			out = append(out, e)
		}
	}
	return out, nil
}

// GetForWeekday returns the active entry for the weekday, if any.
func (r *InMemoryRepository) GetForWeekday(_ context.Context, providerID string, weekday time.Weekday) (*Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.entries[providerID] {
		if e.IsActive && e.DayOfWeek == int(weekday) {
			entry := e
			return &entry, nil
		}
	}
	return nil, nil
}
