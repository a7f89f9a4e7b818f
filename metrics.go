package gocbkvx

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

var (
	meter = otel.Meter("github.com/couchbase/gocbkvx",
		metric.WithInstrumentationVersion(buildVersion))

	tracer = otel.Tracer("github.com/couchbase/gocbkvx")
)

var (
	// clientFailures tracks the number of operations which completed with a
	// locally synthesized failure rather than a server status.
	clientFailures, _ = meter.Int64Counter("gocbkvx.client_failures")

	// configPushes tracks the number of NotMyVBucket responses which carried
	// a replacement bucket configuration.
	configPushes, _ = meter.Int64Counter("gocbkvx.config_pushes")
)
