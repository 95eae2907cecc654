package logger

import (
	"context"
	"time"
)

// contextKey is a private type for context keys to avoid collisions
type contextKey struct{}

// logContextKey is the key for LogContext in context.Context
var logContextKey = contextKey{}

// LogContext holds operation-scoped logging context. The codec itself never
// creates one (it has no request lifecycle); callers that invoke the codec
// from within a request-handling loop can attach one so that fault and
// must-understand-rejection log lines carry trace correlation.
type LogContext struct {
	TraceID   string    // OpenTelemetry trace ID
	SpanID    string    // OpenTelemetry span ID
	TypeName  string    // Descriptor.TypeName of the sample being processed
	Dialect   string    // resolved dialect name (CDR, XCDR1, XCDR2)
	StartTime time.Time // for duration calculation
}

// WithContext returns a new context with the given LogContext
func WithContext(ctx context.Context, lc *LogContext) context.Context {
	return context.WithValue(ctx, logContextKey, lc)
}

// FromContext retrieves the LogContext from context, or nil if not present
func FromContext(ctx context.Context) *LogContext {
	if ctx == nil {
		return nil
	}
	lc, _ := ctx.Value(logContextKey).(*LogContext)
	return lc
}

// NewLogContext creates a new LogContext for a sample of the given type.
func NewLogContext(typeName string) *LogContext {
	return &LogContext{
		TypeName:  typeName,
		StartTime: time.Now(),
	}
}

// Clone creates a copy of the LogContext
func (lc *LogContext) Clone() *LogContext {
	if lc == nil {
		return nil
	}
	return &LogContext{
		TraceID:   lc.TraceID,
		SpanID:    lc.SpanID,
		TypeName:  lc.TypeName,
		Dialect:   lc.Dialect,
		StartTime: lc.StartTime,
	}
}

// WithDialect returns a copy with the resolved dialect name set
func (lc *LogContext) WithDialect(dialect string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.Dialect = dialect
	}
	return clone
}

// WithTrace returns a copy with trace info set
func (lc *LogContext) WithTrace(traceID, spanID string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.TraceID = traceID
		clone.SpanID = spanID
	}
	return clone
}

// DurationMs returns the duration since StartTime in milliseconds
func (lc *LogContext) DurationMs() float64 {
	if lc == nil || lc.StartTime.IsZero() {
		return 0
	}
	return float64(time.Since(lc.StartTime).Microseconds()) / 1000.0
}
