package appointments

import (
	"strings"
	"time"
)

// Status is the lifecycle state of an appointment.
type Status string

const (
	// StatusScheduled marks a confirmed upcoming appointment. Only scheduled
	// rows participate in conflict checks.
	StatusScheduled Status = "scheduled"
	// StatusCanceled marks an appointment the client or shop called off.
	StatusCanceled Status = "canceled"
	// StatusDone marks a completed appointment.
	StatusDone Status = "done"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusCanceled, StatusDone:
		return true
	}
	return false
}

// Appointment is a booked interval in the ledger.
type Appointment struct {
	ID         string    `json:"id"`
	ProviderID string    `json:"provider_id"`
	ClientRef  string    `json:"client_ref"`
	StartAt    time.Time `json:"start_at"`
	EndAt      time.Time `json:"end_at"`
	Status     Status    `json:"status"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// CreateRequest carries the fields needed to book an interval.
type CreateRequest struct {
	ProviderID string    `json:"provider_id"`
	ClientRef  string    `json:"client_ref"`
	StartAt    time.Time `json:"start_at"`
	EndAt      time.Time `json:"end_at"`
	Notes      string    `json:"notes"`
}

// Validate checks the request shape. Temporal well-formedness only; conflict
// detection belongs to the repository.
func (r *CreateRequest) Validate() error {
	if strings.TrimSpace(r.ProviderID) == "" {
		return ErrMissingProvider
	}
	if strings.TrimSpace(r.ClientRef) == "" {
		return ErrMissingClientRef
	}
	if r.StartAt.IsZero() || r.EndAt.IsZero() || !r.StartAt.Before(r.EndAt) {
		return ErrInvalidInterval
	}
	return nil
}
