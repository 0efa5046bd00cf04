// Package tracing installs the process-wide OpenTelemetry tracer provider. The
// broker tracing wrapper, the HTTP tracing middleware and the bun query hook all
// obtain their tracers from the otel globals set here.
package tracing

import (
	"context"

	"github.com/code19m/errx"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.23.1"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// ShutdownFunc flushes buffered spans and closes the exporter.
type ShutdownFunc func() error

// InitGlobalTracer exports spans of serviceName to the OTLP collector in cfg.
func InitGlobalTracer(cfg Config, serviceName, serviceVersion string) (ShutdownFunc, error) {
	if cfg.Disable {
		otel.SetTracerProvider(noop.NewTracerProvider())
		return func() error { return nil }, nil
	}

	exporter, err := otlptrace.New(context.Background(), otlptracegrpc.NewClient(
		otlptracegrpc.WithEndpoint(cfg.endpoint()),
		otlptracegrpc.WithInsecure(),
		otlptracegrpc.WithTimeout(exportTimeout),
		otlptracegrpc.WithReconnectionPeriod(reconnectPeriod),
	))
	if err != nil {
		return nil, errx.Wrap(err, errx.WithDetails(errx.D{"endpoint": cfg.endpoint()}))
	}

	return InitWithExporter(cfg, exporter, serviceName, serviceVersion), nil
}

// InitWithExporter is InitGlobalTracer with a caller supplied exporter.
func InitWithExporter(cfg Config, exporter sdktrace.SpanExporter, serviceName, serviceVersion string) ShutdownFunc {
	attrs := []attribute.KeyValue{
		semconv.ServiceName(serviceName),
		semconv.ServiceVersion(serviceVersion),
	}
	for k, v := range cfg.Tags {
		attrs = append(attrs, attribute.String(k, v))
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(resource.NewWithAttributes(semconv.SchemaURL, attrs...)),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRate))),
		sdktrace.WithBatcher(exporter,
			sdktrace.WithBatchTimeout(batchTimeout),
			sdktrace.WithMaxQueueSize(maxQueueSize),
			sdktrace.WithMaxExportBatchSize(maxExportBatchSize),
		),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{},
	))

	return func() error {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := tp.ForceFlush(ctx); err != nil {
			return errx.Wrap(err)
		}
		if err := tp.Shutdown(ctx); err != nil {
			return errx.Wrap(err)
		}
		return nil
	}
}

// GetStartingTraceID returns the trace id of the span in ctx, or "man-<uuid>" when
// ctx holds no valid span.
func GetStartingTraceID(ctx context.Context) string {
	if id := trace.SpanContextFromContext(ctx).TraceID(); id.IsValid() {
		return id.String()
	}
	return "man-" + uuid.NewString()
}
