// Package telemetry records progress as OpenTelemetry span events.
//
// The tracer comes from the global provider, so nothing is exported unless
// the embedding program installs one.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/agbru/nqdm/internal/stats"
)

const (
	tracerName = "github.com/agbru/nqdm"
	spanName   = "nqdm.run"
	eventName  = "progress.step"
)

// StartRun opens the span covering one progress run.
func StartRun(ctx context.Context, kind string, total int, hasTotal bool) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{attribute.String("nqdm.kind", kind)}
	if hasTotal {
		attrs = append(attrs, attribute.Int("nqdm.total", total))
	}
	return otel.Tracer(tracerName).Start(ctx, spanName, trace.WithAttributes(attrs...))
}

// Callback returns a progress callback adding one event per step to span.
func Callback(span trace.Span) func(stats.Snapshot) error {
	return func(s stats.Snapshot) error {
		attrs := []attribute.KeyValue{
			attribute.Int("current", s.Current),
			attribute.Float64("ratio", s.Ratio),
			attribute.Float64("items_per_second", s.Throughput),
			attribute.Int64("elapsed_ms", s.Elapsed.Milliseconds()),
		}
		if s.HasETA {
			attrs = append(attrs, attribute.Int64("eta_ms", s.ETA.Milliseconds()))
		}
		span.AddEvent(eventName, trace.WithAttributes(attrs...))
		return nil
	}
}

// End closes span, marking it failed when err is non-nil.
func End(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
