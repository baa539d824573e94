package monitor

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ResultSuccess      = "success"
	ResultInvalid      = "invalid"
	ResultUnauthorized = "unauthorized"
	ResultFailed       = "failed"
	ResultTimeout      = "timeout"
)

var (
	Submissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "volunteer_submissions_total",
			Help: "Volunteer applications received, by outcome",
		},
		[]string{"result"},
	)

	Approvals = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "volunteer_approvals_total",
			Help: "Approval link visits, by outcome",
		},
		[]string{"result"},
	)

	Deliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "volunteer_deliveries_total",
			Help: "Outbound email attempts, by provider and outcome",
		},
		[]string{"provider", "result"},
	)

	DeliveryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "volunteer_delivery_duration_seconds",
			Help:    "Time spent waiting on the delivery provider",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"provider"},
	)

	Alerts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "volunteer_alerts_total",
			Help: "Secondary alerts (SMS, chat), by channel and outcome",
		},
		[]string{"channel", "result"},
	)
)

// ObserveDelivery records one provider call.
func ObserveDelivery(provider, result string, elapsed time.Duration) {
	Deliveries.WithLabelValues(provider, result).Inc()
	DeliveryDuration.WithLabelValues(provider).Observe(elapsed.Seconds())
}
