package schedule

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/wbarraza/barberflow/pkg/logging"
)

// Handler exposes read-only availability over HTTP.
type Handler struct {
	generator *Generator
	logger    *logging.Logger
	now       func() time.Time
}

// NewHandler creates an availability handler.
func NewHandler(generator *Generator, logger *logging.Logger) *Handler {
	if generator == nil {
		panic("schedule: generator required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{generator: generator, logger: logger, now: time.Now}
}

// DailySlotsResponse is the body for GET /ai/slots.
type DailySlotsResponse struct {
	BarberID string `json:"barber_id"`
	Date     string `json:"date"`
	Slots    []Slot `json:"slots"`
}

// DailySlots handles GET /ai/slots?barberId=...&date=YYYY-MM-DD.
func (h *Handler) DailySlots(w http.ResponseWriter, r *http.Request) {
	barberID := r.URL.Query().Get("barberId")
	if barberID == "" {
		http.Error(w, "barberId is required", http.StatusBadRequest)
		return
	}
	dateStr := r.URL.Query().Get("date")
	date, err := time.ParseInLocation(DateLayout, dateStr, h.generator.Location())
	if err != nil {
		http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	slots, err := h.generator.DailySlots(r.Context(), barberID, date, h.now())
	if err != nil {
		h.logger.Error("failed to compute daily slots", "error", err, "provider_id", barberID)
		http.Error(w, "failed to compute slots", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(DailySlotsResponse{BarberID: barberID, Date: dateStr, Slots: slots})
}

// WeeklyAvailabilityResponse is the body for GET /ai/availability.
type WeeklyAvailabilityResponse struct {
	BarberID     string          `json:"barber_id"`
	StartDate    string          `json:"start_date"`
	Availability DayAvailability `json:"availability"`
}

// WeeklyAvailability handles GET /ai/availability?barberId=...&startDate=YYYY-MM-DD.
// startDate defaults to today.
func (h *Handler) WeeklyAvailability(w http.ResponseWriter, r *http.Request) {
	barberID := r.URL.Query().Get("barberId")
	if barberID == "" {
		http.Error(w, "barberId is required", http.StatusBadRequest)
		return
	}

	now := h.now().In(h.generator.Location())
	start := now
	if s := r.URL.Query().Get("startDate"); s != "" {
		parsed, err := time.ParseInLocation(DateLayout, s, h.generator.Location())
		if err != nil {
			http.Error(w, "startDate must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		start = parsed
	}

	availability, err := h.generator.WeeklyAvailability(r.Context(), barberID, start, now)
	if err != nil {
		h.logger.Error("failed to compute availability", "error", err, "provider_id", barberID)
		http.Error(w, "failed to compute availability", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(WeeklyAvailabilityResponse{
		BarberID:     barberID,
		StartDate:    start.Format(DateLayout),
		Availability: availability,
	})
}

// SlotCheckResponse is the body for GET /ai/slots/check.
type SlotCheckResponse struct {
	Available bool `json:"available"`
}

// CheckSlot handles GET /ai/slots/check?barberId=...&start=...&end=... with
// RFC 3339 timestamps.
func (h *Handler) CheckSlot(w http.ResponseWriter, r *http.Request) {
	barberID := r.URL.Query().Get("barberId")
	if barberID == "" {
		http.Error(w, "barberId is required", http.StatusBadRequest)
		return
	}
	start, err := time.Parse(time.RFC3339, r.URL.Query().Get("start"))
	if err != nil {
		http.Error(w, "start must be RFC 3339", http.StatusBadRequest)
		return
	}
	end, err := time.Parse(time.RFC3339, r.URL.Query().Get("end"))
	if err != nil {
		http.Error(w, "end must be RFC 3339", http.StatusBadRequest)
		return
	}
	if !start.Before(end) {
		http.Error(w, "start must be before end", http.StatusBadRequest)
		return
	}

	available, err := h.generator.IsSlotAvailable(r.Context(), barberID, start, end)
	if err != nil {
		h.logger.Error("failed to check slot", "error", err, "provider_id", barberID)
		http.Error(w, "failed to check slot", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SlotCheckResponse{Available: available})
}
