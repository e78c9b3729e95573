package appointments

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/wbarraza/barberflow/internal/schedule"
	"github.com/wbarraza/barberflow/pkg/logging"
)

// Handler handles HTTP requests for appointments.
type Handler struct {
	service   *Service
	generator *schedule.Generator
	logger    *logging.Logger
	now       func() time.Time
}

// NewHandler creates an appointments handler.
func NewHandler(service *Service, generator *schedule.Generator, logger *logging.Logger) *Handler {
	if service == nil {
		panic("appointments: service required")
	}
	if generator == nil {
		panic("appointments: generator required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, generator: generator, logger: logger, now: time.Now}
}

// ConfirmRequest is the body for POST /ai/appointments/confirm.
type ConfirmRequest struct {
	BarberID    string    `json:"barber_id"`
	ClientPhone string    `json:"client_phone"`
	StartAt     time.Time `json:"start_at"`
	EndAt       time.Time `json:"end_at"`
	Notes       string    `json:"notes"`
}

// ConfirmResponse reports a confirmed booking.
type ConfirmResponse struct {
	Success     bool         `json:"success"`
	Message     string       `json:"message"`
	Appointment *Appointment `json:"appointment"`
}

// Confirm handles POST /ai/appointments/confirm. The availability re-check
// narrows the window between slot presentation and commit; the ledger
// constraint still decides races that slip through.
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	var req ConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	createReq := &CreateRequest{
		ProviderID: req.BarberID,
		ClientRef:  req.ClientPhone,
		StartAt:    req.StartAt,
		EndAt:      req.EndAt,
		Notes:      req.Notes,
	}
	if createReq.Notes == "" {
		createReq.Notes = "Cita agendada via asistente"
	}
	if err := createReq.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	available, err := h.generator.IsSlotAvailable(r.Context(), req.BarberID, req.StartAt, req.EndAt)
	if err != nil {
		h.logger.Error("availability re-check failed", "error", err, "provider_id", req.BarberID)
		http.Error(w, "failed to verify availability", http.StatusInternalServerError)
		return
	}
	if !available {
		http.Error(w, "El horario seleccionado ya no está disponible", http.StatusConflict)
		return
	}

	appt, err := h.service.Confirm(r.Context(), createReq)
	if err != nil {
		h.writeConfirmError(w, err, req.BarberID)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(ConfirmResponse{
		Success:     true,
		Message:     "✅ ¡Cita confirmada! Te esperamos el " + appt.StartAt.In(h.generator.Location()).Format("Monday 02/01 15:04"),
		Appointment: appt,
	})
}

func (h *Handler) writeConfirmError(w http.ResponseWriter, err error, providerID string) {
	switch {
	case errors.Is(err, ErrSlotConflict):
		http.Error(w, "El horario seleccionado ya no está disponible", http.StatusConflict)
	case errors.Is(err, ErrProviderNotFound):
		http.Error(w, "Barbero no encontrado", http.StatusNotFound)
	case errors.Is(err, ErrMissingProvider), errors.Is(err, ErrMissingClientRef), errors.Is(err, ErrInvalidInterval):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.logger.Error("failed to confirm appointment", "error", err, "provider_id", providerID)
		http.Error(w, "Error confirmando la cita", http.StatusInternalServerError)
	}
}

// Get handles GET /appointments/{appointmentID}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "appointmentID")
	appt, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "appointment not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to load appointment", "error", err, "appointment_id", id)
		http.Error(w, "failed to load appointment", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(appt)
}

// UpdateStatusRequest is the body for PATCH /appointments/{appointmentID}/status.
type UpdateStatusRequest struct {
	Status Status `json:"status"`
}

// UpdateStatus handles PATCH /appointments/{appointmentID}/status.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "appointmentID")

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	appt, err := h.service.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			http.Error(w, "appointment not found", http.StatusNotFound)
		case errors.Is(err, ErrInvalidStatus):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			h.logger.Error("failed to update status", "error", err, "appointment_id", id)
			http.Error(w, "failed to update status", http.StatusInternalServerError)
		}
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(appt)
}
