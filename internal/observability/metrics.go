package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registered once on the default registry; /metrics serves them.
var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fittings_http_requests_total",
		Help: "HTTP requests by method, route template and status code",
	}, []string{"method", "route", "code"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fittings_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	statusTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fittings_status_transitions_total",
		Help: "Applied status changes by record kind and target status",
	}, []string{"kind", "status"})

	rescheduleConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fittings_reschedule_conflicts_total",
		Help: "Reschedules rejected because the day was already taken",
	})

	usersRegistered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fittings_users_registered_total",
		Help: "Total number of registered users",
	})
)

func ObserveHTTPRequest(method, route string, code int, elapsed time.Duration) {
	httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func IncStatusTransition(kind, status string) {
	statusTransitions.WithLabelValues(kind, status).Inc()
}

func IncRescheduleConflict() {
	rescheduleConflicts.Inc()
}

func IncUserRegistered() {
	usersRegistered.Inc()
}
