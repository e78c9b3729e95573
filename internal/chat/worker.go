package chat

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/wbarraza/barberflow/internal/observability/metrics"
	"github.com/wbarraza/barberflow/pkg/logging"
)

const (
	defaultWorkerCount = 2
	defaultWaitSeconds = 2
	defaultBatchSize   = 5

	maxWaitSeconds      = 20
	maxReceiveBatchSize = 10

	deleteTimeout = 5 * time.Second
)

// ReplyMessenger delivers the resolved response back to the client.
type ReplyMessenger interface {
	SendReply(ctx context.Context, to, body string) error
}

// DedupeStore remembers processed message SIDs so webhook retries do not
// double-book.
type DedupeStore interface {
	AlreadyProcessed(ctx context.Context, messageSid string) (bool, error)
	MarkProcessed(ctx context.Context, messageSid string) error
}

// Worker consumes chat turns from the queue, resolves them, and replies.
type Worker struct {
	resolver *Resolver
	queue    queueClient
	replier  ReplyMessenger
	logger   *logging.Logger

	cfg workerConfig
	wg  sync.WaitGroup
}

type workerConfig struct {
	workers          int
	receiveWaitSecs  int
	receiveBatchSize int
	dedupe           DedupeStore
	metrics          *metrics.ChatMetrics
}

// WorkerOption customizes worker behavior.
type WorkerOption func(*workerConfig)

// WithWorkerCount sets how many consumer goroutines to run.
func WithWorkerCount(n int) WorkerOption {
	return func(c *workerConfig) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithReceiveWait sets the long-poll wait in seconds.
func WithReceiveWait(seconds int) WorkerOption {
	return func(c *workerConfig) {
		if seconds > 0 && seconds <= maxWaitSeconds {
			c.receiveWaitSecs = seconds
		}
	}
}

// WithReceiveBatchSize sets how many messages to pull per receive.
func WithReceiveBatchSize(n int) WorkerOption {
	return func(c *workerConfig) {
		if n > 0 && n <= maxReceiveBatchSize {
			c.receiveBatchSize = n
		}
	}
}

// WithDedupeStore enables message-SID deduplication.
func WithDedupeStore(store DedupeStore) WorkerOption {
	return func(c *workerConfig) {
		c.dedupe = store
	}
}

// WithChatMetrics records per-turn counters.
func WithChatMetrics(m *metrics.ChatMetrics) WorkerOption {
	return func(c *workerConfig) {
		c.metrics = m
	}
}

// NewWorker wires a queue consumer.
func NewWorker(resolver *Resolver, queue queueClient, replier ReplyMessenger, logger *logging.Logger, opts ...WorkerOption) *Worker {
	if resolver == nil {
		panic("chat: resolver cannot be nil")
	}
	if queue == nil {
		panic("chat: queue cannot be nil")
	}
	if replier == nil {
		panic("chat: reply messenger cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}

	cfg := workerConfig{
		workers:          defaultWorkerCount,
		receiveWaitSecs:  defaultWaitSeconds,
		receiveBatchSize: defaultBatchSize,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Worker{
		resolver: resolver,
		queue:    queue,
		replier:  replier,
		logger:   logger,
		cfg:      cfg,
	}
}

// Start launches the consumer goroutines. They stop when ctx is canceled.
func (w *Worker) Start(ctx context.Context) {
	for i := 0; i < w.cfg.workers; i++ {
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			w.consume(ctx)
		}()
	}
	w.logger.Info("chat worker started", "workers", w.cfg.workers)
}

// Wait blocks until all consumer goroutines have exited.
func (w *Worker) Wait() {
	w.wg.Wait()
}

func (w *Worker) consume(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		messages, err := w.queue.Receive(ctx, w.cfg.receiveBatchSize, w.cfg.receiveWaitSecs)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			w.logger.Error("chat queue receive failed", "error", err)
			continue
		}

		for _, msg := range messages {
			w.handle(ctx, msg)
			w.deleteMessage(msg)
		}
	}
}

// handle resolves one queued turn. Failures are logged, not retried: the
// message is deleted either way so a poison payload cannot wedge the queue.
func (w *Worker) handle(ctx context.Context, msg queueMessage) {
	var payload queuePayload
	if err := json.Unmarshal([]byte(msg.Body), &payload); err != nil {
		w.logger.Error("chat job decode failed", "message_id", msg.ID, "error", err)
		return
	}
	if payload.Kind != jobTypeTurn {
		w.logger.Warn("chat job has unknown kind", "job_id", payload.ID, "kind", payload.Kind)
		return
	}
	turn := payload.Turn

	if w.cfg.dedupe != nil && turn.MessageSid != "" {
		seen, err := w.cfg.dedupe.AlreadyProcessed(ctx, turn.MessageSid)
		if err != nil {
			w.logger.Error("chat dedupe check failed", "message_sid", turn.MessageSid, "error", err)
		} else if seen {
			w.logger.Info("chat turn already processed", "message_sid", turn.MessageSid)
			return
		}
	}

	result, err := w.resolver.Resolve(ctx, Turn{
		ProviderID: turn.ProviderID,
		ClientRef:  turn.From,
		Text:       turn.Body,
		Now:        turn.ReceivedAt,
	})
	if err != nil {
		w.logger.Error("chat turn resolve failed", "job_id", payload.ID, "error", err)
		return
	}
	w.cfg.metrics.ObserveTurn(string(result.Intent.Tag), string(result.Action))

	if err := w.replier.SendReply(ctx, turn.From, result.ResponseText); err != nil {
		w.logger.Error("chat reply send failed", "job_id", payload.ID, "to", turn.From, "error", err)
		return
	}

	if w.cfg.dedupe != nil && turn.MessageSid != "" {
		if err := w.cfg.dedupe.MarkProcessed(ctx, turn.MessageSid); err != nil {
			w.logger.Error("chat dedupe mark failed", "message_sid", turn.MessageSid, "error", err)
		}
	}
}

func (w *Worker) deleteMessage(msg queueMessage) {
	ctx, cancel := context.WithTimeout(context.Background(), deleteTimeout)
	defer cancel()

	if err := w.queue.Delete(ctx, msg.ReceiptHandle); err != nil {
		w.logger.Error("chat queue delete failed", "message_id", msg.ID, "error", err)
	}
}
