package app

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"medtrack/internal/metrics"
)

type metricsOut struct {
	dig.Out

	RateLimitExceededTotal  prometheus.Counter `name:"rate_limit_exceeded_total"`
	PackageAssignmentsTotal prometheus.Counter `name:"package_assignments_total"`
	DeliveriesExpiredTotal  prometheus.Counter `name:"deliveries_expired_total"`
	StatusTransitionsTotal  *prometheus.CounterVec
}

// provideMetrics registers the service counters with the default registry.
// An already registered collector is reused so rebuilding the container in
// one process does not fail.
func provideMetrics() (metricsOut, error) {
	rateLimit, err := registerCounter("rate_limit_exceeded_total", metrics.NewRateLimitExceededTotal())
	if err != nil {
		return metricsOut{}, err
	}
	assignments, err := registerCounter("package_assignments_total", metrics.NewPackageAssignmentsTotal())
	if err != nil {
		return metricsOut{}, err
	}
	expired, err := registerCounter("deliveries_expired_total", metrics.NewDeliveriesExpiredTotal())
	if err != nil {
		return metricsOut{}, err
	}
	transitions, err := registerCounterVec("delivery_status_transitions_total", metrics.NewStatusTransitionsTotal())
	if err != nil {
		return metricsOut{}, err
	}
	return metricsOut{
		RateLimitExceededTotal:  rateLimit,
		PackageAssignmentsTotal: assignments,
		DeliveriesExpiredTotal:  expired,
		StatusTransitionsTotal:  transitions,
	}, nil
}

func registerCounter(name string, c prometheus.Counter) (prometheus.Counter, error) {
	if err := prometheus.DefaultRegisterer.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
		}
		return nil, fmt.Errorf("register %s: %w", name, err)
	}
	return c, nil
}

func registerCounterVec(name string, v *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if err := prometheus.DefaultRegisterer.Register(v); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
		}
		return nil, fmt.Errorf("register %s: %w", name, err)
	}
	return v, nil
}
