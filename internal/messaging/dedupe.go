package messaging

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wbarraza/barberflow/internal/chat"
)

const dedupeKeyPrefix = "barberflow:webhook:sid:"

// DefaultDedupeTTL bounds how long a processed MessageSid is remembered.
// Twilio retries webhooks for far less than a day.
const DefaultDedupeTTL = 24 * time.Hour

// RedisDedupe remembers processed Twilio MessageSids so webhook retries do
// not produce duplicate replies or double bookings.
type RedisDedupe struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisDedupe wraps a redis client. A non-positive ttl falls back to
// DefaultDedupeTTL.
func NewRedisDedupe(client *redis.Client, ttl time.Duration) *RedisDedupe {
	if client == nil {
		panic("messaging: redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = DefaultDedupeTTL
	}
	return &RedisDedupe{client: client, ttl: ttl}
}

var _ chat.DedupeStore = (*RedisDedupe)(nil)

// AlreadyProcessed reports whether the SID has been handled within the TTL.
func (d *RedisDedupe) AlreadyProcessed(ctx context.Context, messageSid string) (bool, error) {
	n, err := d.client.Exists(ctx, dedupeKeyPrefix+messageSid).Result()
	if err != nil {
		return false, fmt.Errorf("messaging: dedupe lookup: %w", err)
	}
	return n > 0, nil
}

// MarkProcessed records the SID for the configured TTL.
func (d *RedisDedupe) MarkProcessed(ctx context.Context, messageSid string) error {
	if err := d.client.Set(ctx, dedupeKeyPrefix+messageSid, "1", d.ttl).Err(); err != nil {
		return fmt.Errorf("messaging: dedupe mark: %w", err)
	}
	return nil
}
