package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldConversionID is the standardized key for the per-conversion identifier.
	FieldConversionID = "conversion_id"
	// FieldStep is the standardized key for the pipeline step (stage, run, read, publish).
	FieldStep = "step"
	// FieldEventType classifies noteworthy log lines for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint suggests a next step next to warnings and errors.
	FieldErrorHint = "error_hint"
)

type contextKey string

const (
	conversionIDKey contextKey = "conversion_id"
	stepKey         contextKey = "step"
)

// WithConversionID annotates context with the conversion identifier.
func WithConversionID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, conversionIDKey, id)
}

// ConversionIDFromContext extracts the conversion identifier if present.
func ConversionIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	if v, ok := ctx.Value(conversionIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithStep annotates context with the pipeline step name.
func WithStep(ctx context.Context, step string) context.Context {
	if step == "" {
		return ctx
	}
	return context.WithValue(ctx, stepKey, step)
}

// StepFromContext returns the pipeline step if present.
func StepFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	if v, ok := ctx.Value(stepKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	fields := make([]slog.Attr, 0, 2)
	if id, ok := ConversionIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldConversionID, id))
	}
	if step, ok := StepFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldStep, step))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
