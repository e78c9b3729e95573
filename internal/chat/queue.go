package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type queueClient interface {
	Send(ctx context.Context, body string) error
	Receive(ctx context.Context, maxMessages int, waitSeconds int) ([]queueMessage, error)
	Delete(ctx context.Context, receiptHandle string) error
}

type queueMessage struct {
	ID            string
	Body          string
	ReceiptHandle string
}

type jobType string

const jobTypeTurn jobType = "turn"

// TurnJob is the queued form of an inbound client message.
type TurnJob struct {
	MessageSid string    `json:"message_sid"`
	ProviderID string    `json:"provider_id"`
	From       string    `json:"from"`
	Body       string    `json:"body"`
	ReceivedAt time.Time `json:"received_at"`
}

type queuePayload struct {
	ID   string  `json:"id"`
	Kind jobType `json:"kind"`
	Turn TurnJob `json:"turn"`
}

func encodePayload(kind jobType, turn TurnJob) (queuePayload, string, error) {
	payload := queuePayload{
		ID:   uuid.NewString(),
		Kind: kind,
		Turn: turn,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return queuePayload{}, "", fmt.Errorf("chat: failed to encode payload: %w", err)
	}
	return payload, string(body), nil
}
