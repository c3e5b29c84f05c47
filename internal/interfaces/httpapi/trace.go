package httpapi

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const handlerSpanPrefix = "httpapi.Handler."

const tracerName = "github.com/riskibarqy/cfb-edge/internal/interfaces/httpapi"

// startSpan opens a child span for Handler methods only. Middleware and
// response helpers run inside the otelhttp request span, and routes the
// otelhttp filter drops (healthz, docs) get no spans at all.
func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if !tracesHandler(name) || !trace.SpanContextFromContext(ctx).IsValid() {
		return ctx, noop.Span{}
	}
	tracer := trace.SpanFromContext(ctx).TracerProvider().Tracer(tracerName)
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func tracesHandler(name string) bool {
	return strings.HasPrefix(name, handlerSpanPrefix)
}

func seasonAttrs(year, week int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int("cfb.season", year),
		attribute.Int("cfb.week", week),
	}
}
