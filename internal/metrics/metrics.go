// Package metrics defines the Prometheus series exposed on /metrics,
// the way the teacher's metrics package wires one histogram for its
// single concern — generalized here to the handful of gauges and
// histograms a cluster node's operator actually watches.
package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "liftctl"

var (
	assignmentLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    namespace + "_assignment_latency_seconds",
		Help:    "Time from a hall call being queued to it being assigned to a node.",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2},
	})

	hallQueueDepth = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: namespace + "_hall_queue_depth",
		Help: "Number of unassigned or unacknowledged hall calls known to this node's Master Core.",
	})

	peerCount = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: namespace + "_peer_count",
		Help: "Number of live peers in this node's peer table.",
	})

	nodeRole = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: namespace + "_node_role",
		Help: "1 for the role this node currently holds, 0 otherwise.",
	}, []string{"role"})

	ordersAssigned = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: namespace + "_orders_assigned_total",
		Help: "Hall orders this node's Master Core has assigned, by outcome.",
	}, []string{"outcome"})

	circuitBreakerState = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: namespace + "_hardware_circuit_breaker_state",
		Help: "0=closed, 1=half-open, 2=open for the hardware driver's circuit breaker.",
	})
)

func init() {
	prometheus.MustRegister(assignmentLatency, hallQueueDepth, peerCount, nodeRole, ordersAssigned, circuitBreakerState)
}

// ObserveAssignmentLatency records the time a hall call spent queued
// before being assigned.
func ObserveAssignmentLatency(seconds float64) {
	assignmentLatency.Observe(seconds)
}

// SetHallQueueDepth publishes the current hall queue size.
func SetHallQueueDepth(n int) {
	hallQueueDepth.Set(float64(n))
}

// SetPeerCount publishes the current peer table size.
func SetPeerCount(n int) {
	peerCount.Set(float64(n))
}

// SetRole zeroes every role gauge except the current one.
func SetRole(current string) {
	for _, role := range []string{"master", "master_backup", "slave"} {
		v := 0.0
		if role == current {
			v = 1.0
		}
		nodeRole.WithLabelValues(role).Set(v)
	}
}

// IncOrdersAssigned counts one assignment outcome ("ok" or "no_peer").
func IncOrdersAssigned(outcome string) {
	ordersAssigned.WithLabelValues(outcome).Inc()
}

// SetCircuitBreakerState publishes the hardware driver's breaker state
// (0=closed, 1=half-open, 2=open).
func SetCircuitBreakerState(state int) {
	circuitBreakerState.Set(float64(state))
}
