package barbers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wbarraza/barberflow/pkg/logging"
)

// Handler exposes the barber directory over HTTP.
type Handler struct {
	repo   Repository
	logger *logging.Logger
}

// NewHandler creates a barbers handler.
func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	if repo == nil {
		panic("barbers: repository required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

// List handles GET /admin/barbers.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	listed, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list barbers", "error", err)
		http.Error(w, "failed to list barbers", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string][]Barber{"barbers": listed})
}

// Get handles GET /admin/barbers/{barberID}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "barberID")
	barber, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "barber not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to load barber", "error", err, "barber_id", id)
		http.Error(w, "failed to load barber", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(barber)
}
