package gocbkvx

import (
	"context"
	"net"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// OpTelem produces the tracing span and duration metric for each operation.
type OpTelem interface {
	BeginOp(ctx context.Context, bucketName string, opName string) (context.Context, OpTelemOp)
}

type OpTelemOp interface {
	IsRecording() bool
	MarkSent()
	MarkReceived()
	RecordServerDuration(d time.Duration)
	End(ctx context.Context, err error)
}

type opTelem struct {
	remoteHost string
	remotePort int
	tracer     trace.Tracer

	durationMetric metric.Float64Histogram
	attribsCache   *cowCache[opTelemKey, attribute.Set]
}

var _ OpTelem = (*opTelem)(nil)

type opTelemKey struct {
	bucketName string
	opName     string
}

func hostPortFromAddr(addr string) (string, int) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return addr, 0
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return host, 0
	}

	return host, port
}

// NewOpTelem returns telemetry for operations sent to remoteAddr, which is
// expected to be in host:port form.
func NewOpTelem(remoteAddr string) OpTelem {
	return newOpTelem(remoteAddr, tracer)
}

func newOpTelem(remoteAddr string, tracer trace.Tracer) *opTelem {
	remoteHost, remotePort := hostPortFromAddr(remoteAddr)

	durationMetric, _ := meter.Float64Histogram("db.client.operation.duration",
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10))

	attribsCache := newCowCache(
		func(k opTelemKey) attribute.Set {
			return attribute.NewSet(
				semconv.DBSystemCouchbase,
				semconv.ServerAddress(remoteHost),
				semconv.ServerPort(remotePort),
				semconv.DBNamespace(k.bucketName),
				semconv.DBOperationName(k.opName),
			)
		})

	return &opTelem{
		remoteHost:     remoteHost,
		remotePort:     remotePort,
		tracer:         tracer,
		durationMetric: durationMetric,
		attribsCache:   attribsCache,
	}
}

type opTelemOp struct {
	parent *opTelem

	startTime  time.Time
	bucketName string
	opName     string
	span       trace.Span
}

func (k *opTelem) BeginOp(
	ctx context.Context,
	bucketName string,
	opName string,
) (context.Context, OpTelemOp) {
	startTime := time.Now()

	ctx, span := k.tracer.Start(ctx, "memcached/"+opName,
		trace.WithSpanKind(trace.SpanKindClient))
	if span.IsRecording() {
		span.SetAttributes(
			semconv.ServerAddress(k.remoteHost),
			semconv.ServerPort(k.remotePort),
			semconv.DBNamespace(bucketName),
			semconv.RPCMethod(opName),
			semconv.RPCSystemKey.String("memcached"))
	}

	return ctx, &opTelemOp{
		parent:     k,
		startTime:  startTime,
		span:       span,
		bucketName: bucketName,
		opName:     opName,
	}
}

func (k *opTelemOp) IsRecording() bool {
	return k.span.IsRecording()
}

func (k *opTelemOp) MarkSent() {
	k.span.AddEvent("SENT")
}

func (k *opTelemOp) MarkReceived() {
	k.span.AddEvent("RECEIVED")
}

func (k *opTelemOp) RecordServerDuration(d time.Duration) {
	if k.span.IsRecording() {
		k.span.SetAttributes(attribute.Int("db.couchbase.server_duration",
			int(d/time.Microsecond)))
	}
}

func (k *opTelemOp) recordDurationMetric(ctx context.Context, d time.Duration) {
	switch otel.GetMeterProvider().(type) {
	case metricnoop.MeterProvider:
		return
	}

	attribs := k.parent.attribsCache.Get(opTelemKey{
		bucketName: k.bucketName,
		opName:     k.opName,
	})

	dtimeSecs := float64(d) / float64(time.Second)
	k.parent.durationMetric.Record(ctx, dtimeSecs, metric.WithAttributeSet(attribs))
}

func (k *opTelemOp) End(ctx context.Context, err error) {
	etime := time.Now()
	dtime := etime.Sub(k.startTime)

	if err != nil {
		k.span.RecordError(err)
	}
	k.span.End()

	// we dont record the metric if the context has been cancelled in any
	// way, since its not representative of the actual time taken...
	if ctx.Err() == nil {
		k.recordDurationMetric(ctx, dtime)
	}
}
