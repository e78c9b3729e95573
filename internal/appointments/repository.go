package appointments

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wbarraza/barberflow/internal/schedule"
)

// Repository defines storage for the booking ledger. Create is the only
// write path that races; implementations must serialize it per provider so
// two concurrent bookings for the same interval cannot both commit.
type Repository interface {
	Create(ctx context.Context, req *CreateRequest) (*Appointment, error)
	GetByID(ctx context.Context, id string) (*Appointment, error)
	UpdateStatus(ctx context.Context, id string, status Status) (*Appointment, error)
	// ListScheduled returns scheduled appointments for a provider overlapping
	// [from, to), ordered by start time.
	ListScheduled(ctx context.Context, providerID string, from, to time.Time) ([]Appointment, error)
	// ListScheduledForClient returns a client's scheduled appointments with a
	// provider starting at or after the given time, soonest first.
	ListScheduledForClient(ctx context.Context, providerID, clientRef string, after time.Time) ([]Appointment, error)
}

// InMemoryRepository keeps the ledger in memory, for tests and local runs.
// A single mutex serializes writes, which also closes the check-then-act
// race for the in-memory case.
type InMemoryRepository struct {
	mu    sync.RWMutex
	byID  map[string]*Appointment
	order []string
}

// NewInMemoryRepository creates an empty in-memory ledger.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{byID: make(map[string]*Appointment)}
}

// Create books the interval unless a scheduled appointment overlaps it.
func (r *InMemoryRepository) Create(_ context.Context, req *CreateRequest) (*Appointment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range r.order {
		existing := r.byID[id]
		if existing.ProviderID != req.ProviderID || existing.Status != StatusScheduled {
			continue
		}
		if schedule.Overlaps(req.StartAt, req.EndAt, existing.StartAt, existing.EndAt) {
			return nil, ErrSlotConflict
		}
	}

	appt := &Appointment{
		ID:         uuid.NewString(),
		ProviderID: req.ProviderID,
		ClientRef:  req.ClientRef,
		StartAt:    req.StartAt,
		EndAt:      req.EndAt,
		Status:     StatusScheduled,
		Notes:      req.Notes,
		CreatedAt:  time.Now().UTC(),
	}
	r.byID[appt.ID] = appt
	r.order = append(r.order, appt.ID)

	out := *appt
	return &out, nil
}

// GetByID returns the appointment or ErrNotFound.
func (r *InMemoryRepository) GetByID(_ context.Context, id string) (*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	appt, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *appt
	return &out, nil
}

// UpdateStatus transitions an appointment to the given status.
func (r *InMemoryRepository) UpdateStatus(_ context.Context, id string, status Status) (*Appointment, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	appt, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	appt.Status = status
	out := *appt
	return &out, nil
}

// ListScheduled returns scheduled appointments overlapping [from, to).
func (r *InMemoryRepository) ListScheduled(_ context.Context, providerID string, from, to time.Time) ([]Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Appointment
	for _, id := range r.order {
		appt := r.byID[id]
		if appt.ProviderID != providerID || appt.Status != StatusScheduled {
			continue
		}
		if schedule.Overlaps(appt.StartAt, appt.EndAt, from, to) {
			out = append(out, *appt)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartAt.Before(out[j].StartAt) })
	return out, nil
}

// ListScheduledForClient returns the client's upcoming appointments, soonest first.
func (r *InMemoryRepository) ListScheduledForClient(_ context.Context, providerID, clientRef string, after time.Time) ([]Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Appointment
	for _, id := range r.order {
		appt := r.byID[id]
		if appt.ProviderID != providerID || appt.ClientRef != clientRef || appt.Status != StatusScheduled {
			continue
		}
		if appt.StartAt.Before(after) {
			continue
		}
		out = append(out, *appt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartAt.Before(out[j].StartAt) })
	return out, nil
}
