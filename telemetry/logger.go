// Package telemetry provides structured logging for all components.
package telemetry

import (
	"os"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// SpanHook adds trace and span IDs to every log entry and marks the span
// failed on error-level logs.
type SpanHook struct{}

func (h SpanHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	ctx := e.GetCtx()
	if ctx == nil {
		return
	}

	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return
	}

	e.Str("trace_id", span.SpanContext().TraceID().String())
	e.Str("span_id", span.SpanContext().SpanID().String())

	if level == zerolog.ErrorLevel {
		span.SetStatus(codes.Error, msg)
	}
}

// Logger wraps zerolog with span correlation.
type Logger struct {
	zerolog.Logger
}

// NewLogger creates a logger tagged with the component name. Output goes to
// stderr so report files on stdout stay clean.
func NewLogger(component string) *Logger {
	logger := zerolog.New(os.Stderr).
		With().
		Timestamp().
		Str("component", component).
		Logger().
		Hook(SpanHook{})

	return &Logger{Logger: logger}
}
