// Package telemetry wraps the OpenTelemetry tracer the rest of this
// module's ambient stack uses for cross-node diagnostics, trimmed from
// the teacher's multi-backend telemetry provider down to the one
// backend this module actually ships with: a span per hall-call
// assignment round, exportable to whatever OTLP collector an operator
// points the process's global TracerProvider at.
package telemetry

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "liftctl"

// Tracer returns the module-wide tracer. When no TracerProvider has
// been configured (the common case outside of an OTLP-enabled
// deployment), otel's global provider defaults to a no-op, so spans
// cost nothing unless an operator wires a real exporter.
func Tracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

var (
	assignmentRoundsOnce sync.Once
	assignmentRounds     metric.Int64Counter
)

// AssignmentRoundsCounter returns the otel counter of completed
// assignment rounds, built lazily against whatever global MeterProvider
// is configured (a no-op meter outside of an OTLP-enabled deployment).
func AssignmentRoundsCounter() metric.Int64Counter {
	assignmentRoundsOnce.Do(func() {
		c, _ := otel.Meter(tracerName).Int64Counter(
			"liftctl.assignment_rounds",
			metric.WithDescription("Master Core assignment rounds run by this node."),
		)
		assignmentRounds = c
	})
	return assignmentRounds
}

// StartAssignment opens a span covering one Master Core assignment
// round (§4.2), tagged with the queue depth and peer count it is
// working against.
func StartAssignment(ctx context.Context, queueDepth, peerCount int) (context.Context, trace.Span) {
	return Tracer().Start(ctx, "master.assign",
		trace.WithAttributes(
			attribute.Int("hall_queue_depth", queueDepth),
			attribute.Int("peer_count", peerCount),
		),
	)
}
