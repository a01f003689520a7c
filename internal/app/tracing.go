package app

import (
	"context"
	"log/slog"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// logSpanProcessor logs every ended stage span at debug level with its
// duration and attributes.
type logSpanProcessor struct {
	logger *slog.Logger
}

var _ sdktrace.SpanProcessor = logSpanProcessor{}

func (p logSpanProcessor) OnStart(context.Context, sdktrace.ReadWriteSpan) {}

func (p logSpanProcessor) OnEnd(s sdktrace.ReadOnlySpan) {
	args := []any{"span", s.Name(), "duration", s.EndTime().Sub(s.StartTime()), "status", s.Status().Code.String()}
	for _, kv := range s.Attributes() {
		args = append(args, string(kv.Key), kv.Value.Emit())
	}
	p.logger.Debug("Span ended.", args...)
}

func (p logSpanProcessor) Shutdown(context.Context) error   { return nil }
func (p logSpanProcessor) ForceFlush(context.Context) error { return nil }

// newTracerProvider returns a provider whose spans are only logged.
func newTracerProvider(logger *slog.Logger) *sdktrace.TracerProvider {
	return sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(logSpanProcessor{logger: logger}))
}
