package chat

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wbarraza/barberflow/pkg/logging"
)

type recordingReplier struct {
	mu      sync.Mutex
	replies []string
}

func (r *recordingReplier) SendReply(_ context.Context, _ string, body string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.replies = append(r.replies, body)
	return nil
}

func (r *recordingReplier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.replies)
}

func (r *recordingReplier) last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.replies) == 0 {
		return ""
	}
	return r.replies[len(r.replies)-1]
}

type mapDedupe struct {
	mu   sync.Mutex
	seen map[string]bool
}

func newMapDedupe() *mapDedupe {
	return &mapDedupe{seen: make(map[string]bool)}
}

func (d *mapDedupe) AlreadyProcessed(_ context.Context, sid string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.seen[sid], nil
}

func (d *mapDedupe) MarkProcessed(_ context.Context, sid string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seen[sid] = true
	return nil
}

func TestMemoryQueueRoundTrip(t *testing.T) {
	q := NewMemoryQueue(4)
	ctx := context.Background()

	require.NoError(t, q.Send(ctx, "one"))
	require.NoError(t, q.Send(ctx, "two"))

	messages, err := q.Receive(ctx, 10, 1)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	require.Equal(t, "one", messages[0].Body)
	require.NoError(t, q.Delete(ctx, messages[0].ReceiptHandle))
}

func TestMemoryQueueReceiveTimesOut(t *testing.T) {
	q := NewMemoryQueue(1)

	messages, err := q.Receive(context.Background(), 1, 1)
	require.NoError(t, err)
	require.Empty(t, messages)
}

func TestPublisherEnqueuesDecodablePayload(t *testing.T) {
	q := NewMemoryQueue(1)
	pub := NewPublisher(q, logging.Default())

	err := pub.EnqueueTurn(context.Background(), TurnJob{
		MessageSid: "SM123",
		ProviderID: "barber-1",
		From:       "+5215550001",
		Body:       "hola",
	})
	require.NoError(t, err)

	messages, err := q.Receive(context.Background(), 1, 1)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	require.Contains(t, messages[0].Body, `"kind":"turn"`)
	require.Contains(t, messages[0].Body, `"SM123"`)
}

func TestWorkerResolvesAndReplies(t *testing.T) {
	f := newFixture(t)
	q := NewMemoryQueue(8)
	replier := &recordingReplier{}
	worker := NewWorker(f.resolver, q, replier, logging.Default(),
		WithWorkerCount(1), WithReceiveWait(1), WithReceiveBatchSize(2))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	worker.Start(ctx)

	pub := NewPublisher(q, logging.Default())
	require.NoError(t, pub.EnqueueTurn(ctx, TurnJob{
		MessageSid: "SM1",
		ProviderID: "barber-1",
		From:       "+5215550001",
		Body:       "quiero una cita el viernes a las 3pm",
		ReceivedAt: monday,
	}))

	require.Eventually(t, func() bool { return replier.count() == 1 }, 3*time.Second, 20*time.Millisecond)
	require.Contains(t, replier.last(), "viernes 14/03")

	cancel()
	worker.Wait()
}

func TestWorkerSkipsDuplicateMessageSid(t *testing.T) {
	f := newFixture(t)
	q := NewMemoryQueue(8)
	replier := &recordingReplier{}
	worker := NewWorker(f.resolver, q, replier, logging.Default(),
		WithWorkerCount(1), WithReceiveWait(1), WithDedupeStore(newMapDedupe()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	worker.Start(ctx)

	pub := NewPublisher(q, logging.Default())
	job := TurnJob{
		MessageSid: "SM-dup",
		ProviderID: "barber-1",
		From:       "+5215550001",
		Body:       "hola",
		ReceivedAt: monday,
	}
	require.NoError(t, pub.EnqueueTurn(ctx, job))
	require.Eventually(t, func() bool { return replier.count() == 1 }, 3*time.Second, 20*time.Millisecond)

	require.NoError(t, pub.EnqueueTurn(ctx, job))
	time.Sleep(200 * time.Millisecond)
	require.Equal(t, 1, replier.count(), "retried webhook must not produce a second reply")

	cancel()
	worker.Wait()
}

func TestWorkerIgnoresMalformedPayload(t *testing.T) {
	f := newFixture(t)
	q := NewMemoryQueue(8)
	replier := &recordingReplier{}
	worker := NewWorker(f.resolver, q, replier, logging.Default(),
		WithWorkerCount(1), WithReceiveWait(1))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	worker.Start(ctx)

	require.NoError(t, q.Send(ctx, "not json"))

	pub := NewPublisher(q, logging.Default())
	require.NoError(t, pub.EnqueueTurn(ctx, TurnJob{
		ProviderID: "barber-1",
		From:       "+5215550001",
		Body:       "hola",
		ReceivedAt: monday,
	}))

	require.Eventually(t, func() bool { return replier.count() == 1 }, 3*time.Second, 20*time.Millisecond)

	cancel()
	worker.Wait()
}
