// Package telemetry configures OpenTelemetry tracing.
//
// Request spans carry the standard http.* attributes plus:
//   - result.status is the Result status written for the request
//   - result.fault is set when the request ended in a recovered fault
package telemetry

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "result-service/http"

// Tracer returns the package-level tracer.
func Tracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// InitTraceProvider installs a trace provider exporting over OTLP gRPC.
// An empty endpoint leaves the global noop provider in place.
// The returned function flushes and stops the provider.
func InitTraceProvider(ctx context.Context, endpoint, service, version string) (func(context.Context) error, error) {
	if endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("create OTLP exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithHost(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String(service),
			semconv.ServiceVersionKey.String(version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(tp)

	return tp.Shutdown, nil
}

// StartRequestSpan starts the server span for r. The span is named after
// the method only; EndRequestSpan adds the route pattern.
func StartRequestSpan(r *http.Request) (context.Context, trace.Span) {
	return Tracer().Start(r.Context(), r.Method,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			semconv.HTTPRequestMethodKey.String(r.Method),
			semconv.URLPath(r.URL.Path),
		),
	)
}

// EndRequestSpan records the response code on span and ends it. A
// non-empty pattern such as "GET /notes/{id}" becomes the span name and
// the http.route attribute. Codes of 500 and above mark the span as failed.
func EndRequestSpan(span trace.Span, pattern string, code int) {
	if pattern != "" {
		span.SetName(pattern)
		span.SetAttributes(semconv.HTTPRoute(routeOf(pattern)))
	}
	span.SetAttributes(semconv.HTTPResponseStatusCode(code))
	if code >= http.StatusInternalServerError {
		span.SetStatus(codes.Error, http.StatusText(code))
	}
	span.End()
}

// RecordFault marks the span in ctx as ended by a fault.
func RecordFault(ctx context.Context, message string) {
	span := trace.SpanFromContext(ctx)
	span.SetAttributes(attribute.Bool("result.fault", true))
	span.AddEvent("fault", trace.WithAttributes(attribute.String("message", message)))
	span.SetStatus(codes.Error, message)
}

// RecordResultStatus annotates the span in ctx with the Result status.
func RecordResultStatus(ctx context.Context, status string) {
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("result.status", status))
}

// routeOf strips the optional method prefix from a ServeMux pattern.
func routeOf(pattern string) string {
	if _, route, ok := strings.Cut(pattern, " "); ok {
		return route
	}
	return pattern
}
