package usecase

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var usecaseTracer = otel.Tracer("cricket-auction/internal/usecase")

// startUsecaseSpan opens a child span only under an existing trace, so
// background callers and tests never start root spans.
func startUsecaseSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	parent := trace.SpanFromContext(ctx)
	if name == "" || !parent.SpanContext().IsValid() {
		return ctx, parent
	}
	return usecaseTracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func auctionAttrs(playerID int64, year int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int64("auction.player_id", playerID),
		attribute.Int("auction.year", year),
	}
}

func teamSeasonAttrs(teamID int64, season int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int64("team.id", teamID),
		attribute.Int("season", season),
	}
}
