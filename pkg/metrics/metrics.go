package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	quotesIssued = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cabbie",
			Name:      "quotes_issued_total",
			Help:      "Count of fare quotes by service type.",
		},
		[]string{"service_type"},
	)

	bookingStatus = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cabbie",
			Name:      "booking_status_total",
			Help:      "Count of bookings entering a status.",
		},
		[]string{"status"},
	)

	paymentSessions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cabbie",
			Name:      "payment_sessions_total",
			Help:      "Count of checkout requests by outcome (created, reused).",
		},
		[]string{"outcome"},
	)

	webhookEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cabbie",
			Name:      "stripe_webhook_events_total",
			Help:      "Count of verified Stripe webhook events by type.",
		},
		[]string{"type"},
	)

	mailsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cabbie",
			Name:      "mails_total",
			Help:      "Count of outgoing emails by template and result.",
		},
		[]string{"template", "result"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(quotesIssued, bookingStatus, paymentSessions, webhookEvents, mailsSent)
	})
}

func IncQuote(serviceType string) {
	quotesIssued.WithLabelValues(serviceType).Inc()
}

func IncBookingStatus(status string) {
	bookingStatus.WithLabelValues(status).Inc()
}

func IncPaymentSession(outcome string) {
	paymentSessions.WithLabelValues(outcome).Inc()
}

func IncWebhookEvent(eventType string) {
	webhookEvents.WithLabelValues(eventType).Inc()
}

func IncMail(template string, err error) {
	result := "ok"
	if err != nil {
		result = "failed"
	}
	mailsSent.WithLabelValues(template, result).Inc()
}
