package chat

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/wbarraza/barberflow/internal/observability/metrics"
	"github.com/wbarraza/barberflow/pkg/logging"
)

// Handler exposes the synchronous chat endpoint used by the web widget and
// manual testing. The WhatsApp path goes through the queue instead.
type Handler struct {
	resolver *Resolver
	metrics  *metrics.ChatMetrics
	logger   *logging.Logger
	now      func() time.Time
}

// NewHandler creates a chat handler. Metrics are optional.
func NewHandler(resolver *Resolver, m *metrics.ChatMetrics, logger *logging.Logger) *Handler {
	if resolver == nil {
		panic("chat: resolver cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{resolver: resolver, metrics: m, logger: logger, now: time.Now}
}

// TurnRequest is the body for POST /ai/chat.
type TurnRequest struct {
	Message     string `json:"message"`
	BarberID    string `json:"barber_id"`
	ClientPhone string `json:"client_phone"`
}

// ResolveTurn handles POST /ai/chat.
func (h *Handler) ResolveTurn(w http.ResponseWriter, r *http.Request) {
	var req TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.BarberID) == "" {
		http.Error(w, "barber_id is required", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.ClientPhone) == "" {
		http.Error(w, "client_phone is required", http.StatusBadRequest)
		return
	}

	result, err := h.resolver.Resolve(r.Context(), Turn{
		ProviderID: req.BarberID,
		ClientRef:  req.ClientPhone,
		Text:       req.Message,
		Now:        h.now(),
	})
	if err != nil {
		h.logger.Error("chat turn failed", "error", err, "provider_id", req.BarberID)
		http.Error(w, "failed to process message", http.StatusInternalServerError)
		return
	}
	h.metrics.ObserveTurn(string(result.Intent.Tag), string(result.Action))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}
