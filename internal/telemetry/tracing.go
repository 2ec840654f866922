package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// CreateChildSpan starts a span under the context's current span.
func CreateChildSpan(ctx context.Context, name string, attrs []attribute.KeyValue) (context.Context, trace.Span) {
	tracer := otel.Tracer("taskapi")

	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// AddSpanError records err and marks the span as failed.
func AddSpanError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
