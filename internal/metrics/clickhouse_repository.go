package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	clickhouseOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hashinsight7000",
		Subsystem: "clickhouse_repository",
		Name:      "operations_total",
		Help:      "Count of ClickHouse repository operations.",
	}, []string{"operation", "network", "status"})
	clickhouseOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "hashinsight7000",
		Subsystem: "clickhouse_repository",
		Name:      "operation_duration_seconds",
		Help:      "Duration of ClickHouse repository operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "network", "status"})
)

// ClickhouseRepository records metrics for ClickHouse repository operations.
type ClickhouseRepository struct{}

// NewClickhouseRepository constructs a metrics collector for the repository.
func NewClickhouseRepository() *ClickhouseRepository {
	return &ClickhouseRepository{}
}

// Observe records a single repository operation outcome and duration.
func (m ClickhouseRepository) Observe(operation, network string, err error, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}
	if network == "" {
		network = "unknown"
	}

	clickhouseOperationsTotal.WithLabelValues(operation, network, status).Inc()
	clickhouseOperationDuration.WithLabelValues(operation, network, status).Observe(time.Since(started).Seconds())
}
