package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TransactionOutcomes counts classified authorization outcomes by label:
	// charge, authorize, review, declined, error.
	TransactionOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_gateway_transaction_outcomes_total",
		Help: "Authorization outcomes by flavor",
	}, []string{"outcome"})

	// ProcessorLatency observes round-trip latency of remote payment API calls.
	ProcessorLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_gateway_processor_latency_seconds",
		Help:    "Latency of remote payment API calls",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	// ReversalCalls counts authorization reversals actually sent, after the
	// idempotency guard.
	ReversalCalls = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checkout_gateway_auth_reversals_total",
		Help: "Authorization reversal requests issued",
	})
)
