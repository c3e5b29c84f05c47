package usecase

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const tracerName = "github.com/riskibarqy/cfb-edge/internal/usecase"

// startUsecaseSpan only continues a trace that is already running. Calls from
// the cache sweeper or from tests without a request stay span-free.
func startUsecaseSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if name == "" || !trace.SpanContextFromContext(ctx).IsValid() {
		return ctx, noop.Span{}
	}
	tracer := trace.SpanFromContext(ctx).TracerProvider().Tracer(tracerName)
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func seasonAttr(season int) attribute.KeyValue {
	return attribute.Int("cfb.season", season)
}

func (q SlateQuery) spanAttrs() []attribute.KeyValue {
	return []attribute.KeyValue{
		seasonAttr(q.Year),
		attribute.Int("cfb.week", q.Week),
		attribute.String("cfb.season_type", string(q.SeasonType)),
	}
}
