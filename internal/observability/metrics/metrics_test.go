package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestChatMetricsObserve(t *testing.T) {
	m := NewChatMetrics(prometheus.NewRegistry())
	m.ObserveTurn("book", "booked")
	m.ObserveBooking("confirmed")
}

func TestMessagingMetricsObserve(t *testing.T) {
	m := NewMessagingMetrics(prometheus.NewRegistry())
	m.ObserveInbound("accepted")
	m.ObserveOutbound("sent")
	m.ObserveWebhookLatency("accepted", 0.5)
}

func TestMetricsNilSafe(t *testing.T) {
	var c *ChatMetrics
	c.ObserveTurn("query", "availability")
	c.ObserveBooking("conflict")

	var m *MessagingMetrics
	m.ObserveInbound("accepted")
	m.ObserveOutbound("sent")
	m.ObserveWebhookLatency("accepted", 0.1)
}
