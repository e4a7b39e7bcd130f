package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	btcRPCRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hashinsight7000",
		Subsystem: "btc_rpc_client",
		Name:      "operations_total",
		Help:      "Count of batched BTC node RPC round trips.",
	}, []string{"operation", "network", "status"})
	btcRPCRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "hashinsight7000",
		Subsystem: "btc_rpc_client",
		Name:      "operation_duration_seconds",
		Help:      "Duration of batched BTC node RPC round trips.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "network", "status"})
)

// ObserveBTCRPC records a single batched RPC round trip outcome and duration.
func ObserveBTCRPC(operation, network string, err error, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}
	if network == "" {
		network = "unknown"
	}

	btcRPCRequestsTotal.WithLabelValues(operation, network, status).Inc()
	btcRPCRequestDuration.WithLabelValues(operation, network, status).Observe(time.Since(started).Seconds())
}
