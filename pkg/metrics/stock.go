package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Stock operation outcomes.
const (
	OutcomeSuccess           = "success"
	OutcomeInsufficientStock = "insufficient_stock"
	OutcomeNotFound          = "not_found"
	OutcomeError             = "error"
)

// StockMetrics records ledger checkout and checkin activity.
type StockMetrics struct {
	duration   *prometheus.HistogramVec
	operations *prometheus.CounterVec
}

// NewStockMetrics registers the stock metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewStockMetrics(reg prometheus.Registerer) *StockMetrics {
	if reg == nil {
		return &StockMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "labstock_stock_operation_duration_seconds",
		Help:    "Duration of stock ledger operations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"action"})
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "labstock_stock_operations_total",
		Help: "Stock ledger operations by action and outcome.",
	}, []string{"action", "outcome"})
	reg.MustRegister(duration, operations)
	return &StockMetrics{
		duration:   duration,
		operations: operations,
	}
}

// Observe records one finished operation.
func (s *StockMetrics) Observe(action, outcome string, elapsed time.Duration) {
	if s == nil || s.operations == nil {
		return
	}
	action = normalizeLabel(action)
	s.operations.WithLabelValues(action, normalizeLabel(outcome)).Inc()
	s.duration.WithLabelValues(action).Observe(elapsed.Seconds())
}

// Handler exposes the gatherer over HTTP in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
