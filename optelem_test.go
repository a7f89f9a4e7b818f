package gocbkvx

import (
	"context"
	"testing"
	"time"

	"github.com/couchbase/gocbkvx/memdx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func newTestTelem(t *testing.T) (*opTelem, *tracetest.SpanRecorder) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
	})

	return newOpTelem("10.0.0.1:11210", tp.Tracer("test")), sr
}

func spanEventNames(span sdktrace.ReadOnlySpan) []string {
	var names []string
	for _, event := range span.Events() {
		names = append(names, event.Name)
	}
	return names
}

func spanAttr(span sdktrace.ReadOnlySpan, key attribute.Key) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestHostPortFromAddr(t *testing.T) {
	host, port := hostPortFromAddr("10.0.0.1:11210")
	assert.Equal(t, "10.0.0.1", host)
	assert.Equal(t, 11210, port)

	host, port = hostPortFromAddr("[::1]:11207")
	assert.Equal(t, "::1", host)
	assert.Equal(t, 11207, port)

	host, port = hostPortFromAddr("localhost")
	assert.Equal(t, "localhost", host)
	assert.Equal(t, 0, port)
}

func TestOpTelemSpan(t *testing.T) {
	telem, sr := newTestTelem(t)
	f := newTestFactory(t, &OpFactoryOptions{Telemetry: telem})

	op := f.Get(&GetRequest{Key: testKey(), VBucket: NewVBucket(1, "default")})
	_, err := op.WriteContext(context.Background())
	require.NoError(t, err)
	assert.Empty(t, sr.Ended())

	duraBody, err := memdx.EncodeServerDurationExtFrame(2 * time.Millisecond)
	require.NoError(t, err)
	framingExtras, err := memdx.AppendExtFrame(memdx.ExtFrameCodeResServerDuration, duraBody, nil)
	require.NoError(t, err)

	res := completeTestOp(t, op, &memdx.Packet{
		Status:        memdx.StatusSuccess,
		FramingExtras: framingExtras,
		Extras:        []byte{0x04, 0x00, 0x00, 0x00},
		Value:         []byte("value"),
	})
	require.True(t, res.Success)

	spans := sr.Ended()
	require.Len(t, spans, 1)

	span := spans[0]
	assert.Equal(t, "memcached/GET", span.Name())
	assert.Equal(t, trace.SpanKindClient, span.SpanKind())
	assert.Equal(t, []string{"SENT", "RECEIVED"}, spanEventNames(span))

	dura, ok := spanAttr(span, "db.couchbase.server_duration")
	require.True(t, ok)
	assert.Equal(t, int64(res.ServerDuration/time.Microsecond), dura.AsInt64())

	ns, ok := spanAttr(span, "db.namespace")
	require.True(t, ok)
	assert.Equal(t, "default", ns.AsString())
}

func TestOpTelemRecordsError(t *testing.T) {
	telem, sr := newTestTelem(t)
	f := newTestFactory(t, &OpFactoryOptions{Telemetry: telem})

	op := f.Get(&GetRequest{Key: testKey(), VBucket: NewVBucket(1, "default")})
	_, err := op.Write()
	require.NoError(t, err)

	require.NoError(t, op.Read(testResponse(t, op, &memdx.Packet{
		Status: memdx.StatusSuccess,
		Opaque: op.Opaque() + 100,
	})))
	res := op.GetResult()
	require.Equal(t, memdx.StatusClientFailure, res.Status)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Contains(t, spanEventNames(spans[0]), "exception")
}

func TestOpTelemNotStartedWithoutWrite(t *testing.T) {
	telem, sr := newTestTelem(t)
	f := newTestFactory(t, &OpFactoryOptions{Telemetry: telem})

	op := f.Noop()
	res := completeTestOp(t, op, &memdx.Packet{Status: memdx.StatusSuccess})
	require.True(t, res.Success)
	assert.Empty(t, sr.Ended())
}
