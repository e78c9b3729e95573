// Package router assembles the HTTP surface: public AI/chat endpoints, the
// Twilio webhook, and the JWT-protected admin routes.
package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wbarraza/barberflow/internal/appointments"
	"github.com/wbarraza/barberflow/internal/barbers"
	"github.com/wbarraza/barberflow/internal/chat"
	httpmiddleware "github.com/wbarraza/barberflow/internal/http/middleware"
	"github.com/wbarraza/barberflow/internal/messaging"
	"github.com/wbarraza/barberflow/internal/schedule"
	"github.com/wbarraza/barberflow/internal/workinghours"
	"github.com/wbarraza/barberflow/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger *logging.Logger

	ScheduleHandler     *schedule.Handler
	ChatHandler         *chat.Handler
	AppointmentsHandler *appointments.Handler
	WorkingHoursHandler *workinghours.Handler
	BarbersHandler      *barbers.Handler
	WebhookHandler      *messaging.WebhookHandler
	MetricsHandler      http.Handler

	AdminAuthSecret    string
	CORSAllowedOrigins []string

	// Webhook rate limiting; zero disables it.
	WebhookRatePerSec float64
	WebhookBurst      int
}

// New creates a chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", handleHealth)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	if cfg.WebhookHandler != nil {
		r.Group(func(webhook chi.Router) {
			if cfg.WebhookRatePerSec > 0 {
				webhook.Use(httpmiddleware.RateLimit(cfg.WebhookRatePerSec, cfg.WebhookBurst))
			}
			webhook.Post("/webhook/whatsapp", cfg.WebhookHandler.HandleInbound)
		})
	}

	r.Route("/ai", func(ai chi.Router) {
		if cfg.ChatHandler != nil {
			ai.Post("/chat", cfg.ChatHandler.ResolveTurn)
		}
		if cfg.ScheduleHandler != nil {
			ai.Get("/slots", cfg.ScheduleHandler.DailySlots)
			ai.Get("/slots/check", cfg.ScheduleHandler.CheckSlot)
			ai.Get("/availability", cfg.ScheduleHandler.WeeklyAvailability)
		}
		if cfg.AppointmentsHandler != nil {
			ai.Post("/appointments/confirm", cfg.AppointmentsHandler.Confirm)
		}
	})

	if cfg.AdminAuthSecret != "" {
		r.Route("/admin", func(admin chi.Router) {
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
			if cfg.BarbersHandler != nil {
				admin.Get("/barbers", cfg.BarbersHandler.List)
				admin.Get("/barbers/{barberID}", cfg.BarbersHandler.Get)
			}
			if cfg.WorkingHoursHandler != nil {
				admin.Get("/barbers/{barberID}/working-hours", cfg.WorkingHoursHandler.List)
				admin.Put("/barbers/{barberID}/working-hours", cfg.WorkingHoursHandler.Set)
			}
			if cfg.AppointmentsHandler != nil {
				admin.Get("/appointments/{appointmentID}", cfg.AppointmentsHandler.Get)
				admin.Patch("/appointments/{appointmentID}/status", cfg.AppointmentsHandler.UpdateStatus)
			}
		})
	}

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
