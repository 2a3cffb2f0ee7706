package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// Metrics holds the Prometheus collectors for the API.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Project access policy outcomes
	AccessDecisionsTotal *prometheus.CounterVec

	// Scheduled maintenance
	CronRunsTotal *prometheus.CounterVec
}

// Get returns the process-wide metrics, registering them on first use.
//
// Metrics:
//   - http_requests_total{method,route,status}
//   - http_request_duration_seconds{method,route}
//   - project_access_decisions_total{action,role,allowed}
//   - cron_job_runs_total{job,result}
func Get() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = &Metrics{
			RequestsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "http_requests_total",
					Help: "Total number of HTTP requests handled",
				},
				[]string{"method", "route", "status"},
			),

			RequestDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "http_request_duration_seconds",
					Help:    "Duration of HTTP requests in seconds",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"method", "route"},
			),

			AccessDecisionsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "project_access_decisions_total",
					Help: "Total number of project access policy decisions",
				},
				[]string{"action", "role", "allowed"},
			),

			CronRunsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "cron_job_runs_total",
					Help: "Total number of scheduled job runs",
				},
				[]string{"job", "result"}, // "ok" or "error"
			),
		}
	})
	return globalMetrics
}

func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.RequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) RecordDecision(action, role string, allowed bool) {
	m.AccessDecisionsTotal.WithLabelValues(action, role, strconv.FormatBool(allowed)).Inc()
}

func (m *Metrics) RecordCronRun(job string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.CronRunsTotal.WithLabelValues(job, result).Inc()
}
