package service

import (
	"context"
	"errors"

	"github.com/mrops-br/cafe-inventory-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// resultOf maps an operation error onto the "result" metric attribute
func resultOf(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInvalidArgument):
		return "invalid"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	default:
		return "failure"
	}
}

// recordOutcome sets the span status and counts the operation
func recordOutcome(ctx context.Context, span trace.Span, counter metric.Int64Counter, operation string, err error) {
	result := resultOf(err)
	counter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("result", result),
		),
	)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, result)
		return
	}
	span.SetStatus(codes.Ok, operation+" succeeded")
}
