package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	statusTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "provider_dashboard",
			Name:      "booking_transitions_total",
			Help:      "Booking status transitions by target status and outcome.",
		},
		[]string{"target", "outcome"},
	)

	assignments = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "provider_dashboard",
			Name:      "provider_assignments_total",
			Help:      "Provider assignment operations by kind and outcome.",
		},
		[]string{"kind", "outcome"},
	)

	payoutRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "provider_dashboard",
			Name:      "payout_requests_total",
			Help:      "Payout requests by method and outcome.",
		},
		[]string{"method", "outcome"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(statusTransitions, assignments, payoutRequests)
	})
}

// IncTransition increments the transition counter.
func IncTransition(target, outcome string) {
	statusTransitions.WithLabelValues(target, outcome).Inc()
}

// IncAssignment increments the assignment counter.
func IncAssignment(kind, outcome string) {
	assignments.WithLabelValues(kind, outcome).Inc()
}

// IncPayout increments the payout request counter.
func IncPayout(method, outcome string) {
	payoutRequests.WithLabelValues(method, outcome).Inc()
}
