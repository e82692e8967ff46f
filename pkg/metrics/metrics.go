// Package metrics содержит Prometheus-метрики сервиса
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор метрик сервиса бронирований
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	dbQueryDuration   *prometheus.HistogramVec
	dbConnectionsOpen *prometheus.GaugeVec
	dbConnectionsIdle *prometheus.GaugeVec

	sweepExpiredTotal prometheus.Counter
	sweepErrorsTotal  prometheus.Counter
	sweepDuration     prometheus.Histogram
}

// New регистрирует и возвращает метрики сервиса
func New(serviceName string) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		httpRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),

		httpRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),

		dbQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: constLabels,
			Buckets:     []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"operation"}),

		dbConnectionsOpen: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_connections_open",
			Help:        "Number of open database connections",
			ConstLabels: constLabels,
		}, []string{"state"}),

		dbConnectionsIdle: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_connections_idle",
			Help:        "Number of idle database connections",
			ConstLabels: constLabels,
		}, []string{"state"}),

		sweepExpiredTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "booking_sweep_expired_total",
			Help:        "Total number of bookings finalized by the expiration sweep",
			ConstLabels: constLabels,
		}),

		sweepErrorsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "booking_sweep_errors_total",
			Help:        "Total number of per-booking errors during the expiration sweep",
			ConstLabels: constLabels,
		}),

		sweepDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:        "booking_sweep_duration_seconds",
			Help:        "Expiration sweep duration in seconds",
			ConstLabels: constLabels,
			Buckets:     []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}
}

// ObserveHTTPRequest записывает метрики HTTP-запроса
func (m *Metrics) ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// ObserveDBQuery записывает длительность запроса к БД
func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration) {
	m.dbQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// SetDBConnections обновляет gauge-метрики connection pool
func (m *Metrics) SetDBConnections(open, idle, inUse int) {
	m.dbConnectionsOpen.WithLabelValues("open").Set(float64(open))
	m.dbConnectionsOpen.WithLabelValues("in_use").Set(float64(inUse))
	m.dbConnectionsIdle.WithLabelValues("idle").Set(float64(idle))
}

// ObserveSweep записывает результаты одного прохода expiration sweep
func (m *Metrics) ObserveSweep(expired, errors int, duration time.Duration) {
	m.sweepExpiredTotal.Add(float64(expired))
	m.sweepErrorsTotal.Add(float64(errors))
	m.sweepDuration.Observe(duration.Seconds())
}
