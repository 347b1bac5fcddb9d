package httpapi

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const handlerSpanPrefix = "httpapi.Handler."

var apiTracer = otel.Tracer("cricket-auction/internal/interfaces/httpapi")

// startSpan opens a child span for handler entry points only. Requests that
// the tracing middleware filtered out (health checks) carry no parent and get
// the parent's no-op span back.
func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() || !strings.HasPrefix(name, handlerSpanPrefix) {
		return ctx, parent
	}

	opts := []trace.SpanStartOption{trace.WithSpanKind(trace.SpanKindInternal)}
	if requestID := requestIDFromContext(ctx); requestID != "" {
		opts = append(opts, trace.WithAttributes(attribute.String("http.request_id", requestID)))
	}
	return apiTracer.Start(ctx, name, opts...)
}
