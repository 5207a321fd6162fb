package metrics

import "github.com/prometheus/client_golang/prometheus"

// NewRateLimitExceededTotal returns a Prometheus counter for the number of rejected HTTP requests due to rate limiting
func NewRateLimitExceededTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rate_limit_exceeded_total",
		Help: "Total number of rejected HTTP requests due to rate limiting",
	})
}

// NewPackageAssignmentsTotal returns a Prometheus counter for confirmed package assignments
func NewPackageAssignmentsTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "package_assignments_total",
		Help: "Total number of packages bound to patients through the assignment workflow",
	})
}

// NewDeliveriesExpiredTotal returns a Prometheus counter for pending deliveries failed by the timeout sweep
func NewDeliveriesExpiredTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "deliveries_expired_total",
		Help: "Total number of pending deliveries marked failed after their response timeout elapsed",
	})
}

// NewStatusTransitionsTotal returns a Prometheus counter vector for delivery status transitions, labeled from/to
func NewStatusTransitionsTotal() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "delivery_status_transitions_total",
		Help: "Total number of delivery status transitions",
	}, []string{"from", "to"})
}
