package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wbarraza/barberflow/cmd/mainconfig"
	"github.com/wbarraza/barberflow/internal/api/router"
	"github.com/wbarraza/barberflow/internal/appointments"
	"github.com/wbarraza/barberflow/internal/barbers"
	"github.com/wbarraza/barberflow/internal/chat"
	appconfig "github.com/wbarraza/barberflow/internal/config"
	"github.com/wbarraza/barberflow/internal/messaging"
	"github.com/wbarraza/barberflow/internal/notify"
	"github.com/wbarraza/barberflow/internal/observability/metrics"
	"github.com/wbarraza/barberflow/internal/schedule"
	"github.com/wbarraza/barberflow/internal/workinghours"
	"github.com/wbarraza/barberflow/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting barberflow API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	loc, err := time.LoadLocation(cfg.ShopTimezone)
	if err != nil {
		logger.Error("invalid SHOP_TIMEZONE", "error", err, "timezone", cfg.ShopTimezone)
		os.Exit(1)
	}

	ctx := context.Background()

	// Initialize repositories
	var (
		barberRepo barbers.Repository
		hoursRepo  workinghours.Repository
		apptRepo   appointments.Repository
	)
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to postgres", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		barberRepo = barbers.NewPostgresRepository(pool)
		hoursRepo = workinghours.NewPostgresRepository(pool)
		apptRepo = appointments.NewPostgresRepository(pool)
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory repositories")
		barberRepo = barbers.NewInMemoryRepository()
		hoursRepo = workinghours.NewInMemoryRepository()
		apptRepo = appointments.NewInMemoryRepository()
	}

	awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}

	// Slot generation and booking services
	generator := schedule.NewGenerator(
		workinghours.NewScheduleSource(hoursRepo),
		appointments.NewLedgerSource(apptRepo),
		time.Duration(cfg.SlotDurationMinutes)*time.Minute,
		loc,
	)

	var emailSender notify.EmailSender = notify.NewStubEmailSender(logger)
	if cfg.NotifyFromEmail != "" {
		emailSender = notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.NotifyFromEmail,
			FromName:  cfg.NotifyFromName,
		}, logger)
	}
	notifier := notify.NewService(emailSender, barberRepo, loc, logger)

	bookings := appointments.NewService(apptRepo, barberRepo, notifier, logger)
	resolver := chat.NewResolver(generator, bookings, logger)

	chatMetrics := metrics.NewChatMetrics(nil)
	messagingMetrics := metrics.NewMessagingMetrics(nil)

	// Queue for webhook turns. With the memory queue the worker runs inside
	// this process; otherwise the chat-worker binary consumes from SQS.
	var (
		publisher *chat.Publisher
		worker    *chat.Worker
	)
	if cfg.UseMemoryQueue {
		mq := chat.NewMemoryQueue(64)
		publisher = chat.NewPublisher(mq, logger)
		worker = chat.NewWorker(resolver, mq, buildReplier(cfg, logger), logger,
			chat.WithWorkerCount(cfg.WorkerCount),
			chat.WithChatMetrics(chatMetrics),
		)
	} else {
		sqsClient := sqs.NewFromConfig(awsCfg)
		publisher = chat.NewPublisher(chat.NewSQSQueue(sqsClient, cfg.ChatQueueURL), logger)
	}

	// Initialize handlers
	webhookURL := cfg.PublicBaseURL + "/webhook/whatsapp"
	routerCfg := &router.Config{
		Logger:              logger,
		ScheduleHandler:     schedule.NewHandler(generator, logger),
		ChatHandler:         chat.NewHandler(resolver, chatMetrics, logger),
		AppointmentsHandler: appointments.NewHandler(bookings, generator, logger),
		WorkingHoursHandler: workinghours.NewHandler(hoursRepo, logger),
		BarbersHandler:      barbers.NewHandler(barberRepo, logger),
		WebhookHandler:      messaging.NewWebhookHandler(publisher, messagingMetrics, logger, cfg.TwilioAuthToken, webhookURL, cfg.DefaultBarberID),
		MetricsHandler:      promhttp.Handler(),
		AdminAuthSecret:     cfg.AdminJWTSecret,
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
		WebhookRatePerSec:   5,
		WebhookBurst:        10,
	}
	r := router.New(routerCfg)

	workerCtx, stopWorker := context.WithCancel(ctx)
	defer stopWorker()
	if worker != nil {
		worker.Start(workerCtx)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	if worker != nil {
		stopWorker()
		worker.Wait()
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

// buildReplier picks the outbound channel for in-process chat workers. Without
// Twilio credentials replies are only logged, which keeps local development
// usable.
func buildReplier(cfg *appconfig.Config, logger *logging.Logger) chat.ReplyMessenger {
	if cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" && cfg.TwilioFromNumber != "" {
		return messaging.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber, logger)
	}
	return logReplier{logger: logger}
}

type logReplier struct {
	logger *logging.Logger
}

func (l logReplier) SendReply(_ context.Context, to, body string) error {
	l.logger.Info("reply (twilio not configured)", "to", to, "body", body)
	return nil
}
