package main

import (
	"context"
	"crypto/tls"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/wbarraza/barberflow/cmd/mainconfig"
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

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting barberflow chat worker", "env", cfg.Env)

	if cfg.ChatQueueURL == "" {
		logger.Error("CHAT_QUEUE_URL is required")
		os.Exit(1)
	}

	loc, err := time.LoadLocation(cfg.ShopTimezone)
	if err != nil {
		logger.Error("invalid SHOP_TIMEZONE", "error", err, "timezone", cfg.ShopTimezone)
		os.Exit(1)
	}

	ctx := context.Background()

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

	queue := chat.NewSQSQueue(sqs.NewFromConfig(awsCfg), cfg.ChatQueueURL)

	redisOpts := &redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
	if cfg.RedisTLS {
		redisOpts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	rdb := redis.NewClient(redisOpts)
	defer func() { _ = rdb.Close() }()
	dedupe := messaging.NewRedisDedupe(rdb, cfg.DedupeTTL)

	worker := chat.NewWorker(
		resolver,
		queue,
		buildReplier(cfg, logger),
		logger,
		chat.WithWorkerCount(cfg.WorkerCount),
		chat.WithDedupeStore(dedupe),
		chat.WithChatMetrics(metrics.NewChatMetrics(nil)),
	)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	worker.Start(runCtx)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down chat worker...")
	cancel()

	doneCtx, doneCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer doneCancel()

	waitCh := make(chan struct{})
	go func() {
		worker.Wait()
		close(waitCh)
	}()

	select {
	case <-waitCh:
		logger.Info("chat worker stopped")
	case <-doneCtx.Done():
		logger.Error("chat worker shutdown timed out", "error", doneCtx.Err())
	}
}

// buildReplier picks the outbound channel. Without Twilio credentials replies
// are only logged, which keeps local runs against LocalStack usable.
func buildReplier(cfg *appconfig.Config, logger *logging.Logger) chat.ReplyMessenger {
	if cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" && cfg.TwilioFromNumber != "" {
		return messaging.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber, logger)
	}
	logger.Warn("twilio credentials not set, replies will be logged only")
	return logReplier{logger: logger}
}

type logReplier struct {
	logger *logging.Logger
}

func (l logReplier) SendReply(_ context.Context, to, body string) error {
	l.logger.Info("reply (twilio not configured)", "to", to, "body", body)
	return nil
}
