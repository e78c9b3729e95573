package workinghours

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wbarraza/barberflow/pkg/logging"
)

// Handler handles HTTP requests for working-hours templates.
type Handler struct {
	repo   Repository
	logger *logging.Logger
}

// NewHandler creates a working-hours handler.
func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

// SetRequest is the body for PUT /barbers/{barberID}/working-hours.
type SetRequest struct {
	WorkingHours []SetEntry `json:"working_hours"`
}

// SetResponse echoes the stored template.
type SetResponse struct {
	Success      bool    `json:"success"`
	WorkingHours []Entry `json:"working_hours"`
}

// Set handles PUT /barbers/{barberID}/working-hours requests. The provider's
// previous template is discarded wholesale.
func (h *Handler) Set(w http.ResponseWriter, r *http.Request) {
	providerID := chi.URLParam(r, "barberID")
	if providerID == "" {
		http.Error(w, "missing barber id", http.StatusBadRequest)
		return
	}

	var req SetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode working hours", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.WorkingHours) == 0 {
		http.Error(w, "working_hours is required", http.StatusBadRequest)
		return
	}

	entries, err := h.repo.Replace(r.Context(), providerID, req.WorkingHours)
	if err != nil {
		if isValidationError(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("failed to replace working hours", "error", err, "provider_id", providerID)
		http.Error(w, "failed to save working hours", http.StatusInternalServerError)
		return
	}

	h.logger.Info("working hours replaced", "provider_id", providerID, "entries", len(entries))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SetResponse{Success: true, WorkingHours: entries})
}

// List handles GET /barbers/{barberID}/working-hours requests.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	providerID := chi.URLParam(r, "barberID")
	if providerID == "" {
		http.Error(w, "missing barber id", http.StatusBadRequest)
		return
	}

	entries, err := h.repo.ListForProvider(r.Context(), providerID)
	if err != nil {
		h.logger.Error("failed to list working hours", "error", err, "provider_id", providerID)
		http.Error(w, "failed to list working hours", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"working_hours": entries})
}

func isValidationError(err error) bool {
	return errors.Is(err, ErrInvalidWeekday) ||
		errors.Is(err, ErrInvalidTime) ||
		errors.Is(err, ErrStartNotBeforeEnd) ||
		errors.Is(err, ErrDuplicateWeekday)
}
