package chat

import (
	"context"
	"fmt"

	"github.com/wbarraza/barberflow/pkg/logging"
)

// Publisher enqueues chat turns for asynchronous processing by the worker.
type Publisher struct {
	queue  queueClient
	logger *logging.Logger
}

// NewPublisher creates a queue-backed publisher.
func NewPublisher(queue queueClient, logger *logging.Logger) *Publisher {
	if queue == nil {
		panic("chat: queue cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Publisher{queue: queue, logger: logger}
}

// EnqueueTurn publishes an inbound message for the worker to resolve.
func (p *Publisher) EnqueueTurn(ctx context.Context, turn TurnJob) error {
	if ctx == nil {
		ctx = context.Background()
	}

	payload, body, err := encodePayload(jobTypeTurn, turn)
	if err != nil {
		return err
	}

	if err := p.queue.Send(ctx, body); err != nil {
		return fmt.Errorf("chat: failed to enqueue turn: %w", err)
	}

	p.logger.Debug("chat turn enqueued", "job_id", payload.ID, "message_sid", turn.MessageSid)
	return nil
}
