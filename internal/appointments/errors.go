package appointments

import "errors"

var (
	// ErrNotFound is returned when an appointment does not exist.
	ErrNotFound = errors.New("appointment not found")

	// ErrSlotConflict is returned when the interval overlaps an existing
	// scheduled appointment for the provider.
	ErrSlotConflict = errors.New("slot already booked")

	// ErrProviderNotFound is returned when the provider does not exist.
	ErrProviderNotFound = errors.New("provider not found")

	// ErrMissingProvider is returned when the provider id is empty.
	ErrMissingProvider = errors.New("provider id is required")

	// ErrMissingClientRef is returned when the client reference is empty.
	ErrMissingClientRef = errors.New("client reference is required")

	// ErrInvalidInterval is returned when start/end are zero or inverted.
	ErrInvalidInterval = errors.New("start must be before end")

	// ErrInvalidStatus is returned for unknown status values.
	ErrInvalidStatus = errors.New("invalid appointment status")
)
