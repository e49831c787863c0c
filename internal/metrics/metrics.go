package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WebhookEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "barberconnect",
		Name:      "webhook_events_total",
		Help:      "Payment provider webhook deliveries by provider, event type and outcome.",
	}, []string{"provider", "type", "outcome"})

	PaymentAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "barberconnect",
		Name:      "payment_attempts_total",
		Help:      "Charges and invoice payments attempted against a provider.",
	}, []string{"provider", "outcome"})

	SMSSends = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "barberconnect",
		Name:      "sms_sends_total",
		Help:      "Queue notifications by outcome (sent, skipped, failed).",
	}, []string{"outcome"})
)
