package tracing_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/rise-and-shine/cqsdata/tracing"
)

func restoreProvider(t *testing.T) {
	t.Helper()

	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
}

func TestInitGlobalTracerDisabled(t *testing.T) {
	restoreProvider(t)

	shutdown, err := tracing.InitGlobalTracer(tracing.Config{Disable: true}, "weatherapi", "test")
	require.NoError(t, err)
	require.NoError(t, shutdown())

	_, span := otel.Tracer("test").Start(context.Background(), "noop")
	assert.False(t, span.SpanContext().IsValid())
}

// recordingExporter keeps exported spans after Shutdown, unlike
// tracetest.InMemoryExporter which resets them.
type recordingExporter struct {
	mu       sync.Mutex
	spans    tracetest.SpanStubs
	shutdown bool
}

func (e *recordingExporter) ExportSpans(_ context.Context, spans []sdktrace.ReadOnlySpan) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.spans = append(e.spans, tracetest.SpanStubsFromReadOnlySpans(spans)...)
	return nil
}

func (e *recordingExporter) Shutdown(context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.shutdown = true
	return nil
}

func (e *recordingExporter) recorded() (tracetest.SpanStubs, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.spans, e.shutdown
}

func TestInitWithExporter(t *testing.T) {
	restoreProvider(t)
	exporter := &recordingExporter{}

	shutdown := tracing.InitWithExporter(
		tracing.Config{SampleRate: 1, Tags: map[string]string{"env": "test"}},
		exporter, "weatherapi", "1.2.3",
	)

	ctx, span := otel.Tracer("test").Start(context.Background(), "list forecasts")
	assert.Equal(t, span.SpanContext().TraceID().String(), tracing.GetStartingTraceID(ctx))
	span.End()

	spans, closed := exporter.recorded()
	assert.Empty(t, spans, "spans are batched until flushed")
	assert.False(t, closed)

	require.NoError(t, shutdown())

	spans, closed = exporter.recorded()
	assert.True(t, closed)
	require.Len(t, spans, 1)
	assert.Equal(t, "list forecasts", spans[0].Name)

	attrs := map[string]string{}
	for _, kv := range spans[0].Resource.Attributes() {
		attrs[string(kv.Key)] = kv.Value.AsString()
	}
	assert.Equal(t, "weatherapi", attrs["service.name"])
	assert.Equal(t, "1.2.3", attrs["service.version"])
	assert.Equal(t, "test", attrs["env"])
}

func TestGetStartingTraceIDWithoutSpan(t *testing.T) {
	id := tracing.GetStartingTraceID(context.Background())
	assert.True(t, strings.HasPrefix(id, "man-"))
}
