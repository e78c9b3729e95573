package messaging

import (
	"net/http"
	"strings"
	"time"

	"github.com/wbarraza/barberflow/internal/chat"
	"github.com/wbarraza/barberflow/internal/observability/metrics"
	"github.com/wbarraza/barberflow/pkg/logging"
)

const twimlAck = `<?xml version="1.0" encoding="UTF-8"?><Response></Response>`

// WebhookHandler accepts Twilio WhatsApp webhooks, acks immediately with
// empty TwiML, and hands the message to the chat queue. The actual reply
// goes out asynchronously through the worker.
type WebhookHandler struct {
	publisher  *chat.Publisher
	metrics    *metrics.MessagingMetrics
	logger     *logging.Logger
	authToken  string
	webhookURL string
	barberID   string
	now        func() time.Time
}

// NewWebhookHandler wires the inbound webhook. An empty authToken disables
// signature validation, for local development only. barberID is the provider
// the shop's WhatsApp number books for.
func NewWebhookHandler(publisher *chat.Publisher, m *metrics.MessagingMetrics, logger *logging.Logger, authToken, webhookURL, barberID string) *WebhookHandler {
	if publisher == nil {
		panic("messaging: publisher cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &WebhookHandler{
		publisher:  publisher,
		metrics:    m,
		logger:     logger,
		authToken:  authToken,
		webhookURL: webhookURL,
		barberID:   barberID,
		now:        time.Now,
	}
}

// HandleInbound handles POST /webhook/whatsapp.
func (h *WebhookHandler) HandleInbound(w http.ResponseWriter, r *http.Request) {
	started := h.now()
	status := "accepted"
	defer func() {
		h.metrics.ObserveInbound(status)
		h.metrics.ObserveWebhookLatency(status, time.Since(started).Seconds())
	}()

	if h.authToken != "" && !ValidateTwilioSignature(r, h.authToken, h.webhookURL) {
		status = "rejected"
		h.logger.Warn("webhook signature validation failed", "remote_addr", r.RemoteAddr)
		http.Error(w, "invalid signature", http.StatusForbidden)
		return
	}

	req, err := ParseWebhook(r)
	if err != nil {
		status = "malformed"
		http.Error(w, "invalid webhook payload", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Body) == "" || req.From == "" {
		status = "ignored"
		h.writeAck(w)
		return
	}

	job := chat.TurnJob{
		MessageSid: req.MessageSid,
		ProviderID: h.barberID,
		From:       StripChannelPrefix(req.From),
		Body:       req.Body,
		ReceivedAt: started,
	}
	if err := h.publisher.EnqueueTurn(r.Context(), job); err != nil {
		status = "enqueue_failed"
		h.logger.Error("failed to enqueue inbound message", "error", err, "message_sid", req.MessageSid)
		http.Error(w, "failed to accept message", http.StatusInternalServerError)
		return
	}

	h.logger.Info("inbound whatsapp message accepted", "message_sid", req.MessageSid, "from", job.From)
	h.writeAck(w)
}

func (h *WebhookHandler) writeAck(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/xml")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(twimlAck))
}
