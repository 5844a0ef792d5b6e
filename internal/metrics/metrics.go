package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ReservationTransitions counts successful status transitions by target
	// status and actor role.
	ReservationTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gigbook_reservation_transitions_total",
		Help: "Successful reservation status transitions",
	}, []string{"status", "actor"})

	// PaymentsSettled counts payments by final status.
	PaymentsSettled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gigbook_payments_settled_total",
		Help: "Payments that reached a final status",
	}, []string{"status", "type"})

	// NotificationFailures counts notification dispatches that were dropped.
	NotificationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gigbook_notification_failures_total",
		Help: "Notification dispatches that failed and were swallowed",
	})

	// WebhookReplays counts webhook deliveries dropped by the idempotency
	// guard.
	WebhookReplays = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gigbook_webhook_replays_total",
		Help: "Webhook deliveries dropped as duplicates",
	})
)
