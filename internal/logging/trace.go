package logging

import (
	"context"
	"crypto/rand"
	"os"
	"time"

	"github.com/oklog/ulid/v2"
)

// EnvTraceID lets callers pin the trace ID of a run.
const EnvTraceID = "KEPLER_TRACE_ID"

type traceIDKey struct{}

// NewTraceID returns a new ULID string.
func NewTraceID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}

// ContextWithTraceID returns a copy of ctx carrying traceID.
func ContextWithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

// TraceIDFromContext returns the trace ID stored in ctx, or "".
func TraceIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(traceIDKey{}).(string); ok {
		return id
	}
	return ""
}

// GetOrGenerateTraceID returns the trace ID in ctx, generating one if absent.
// KEPLER_TRACE_ID overrides generation so external tooling can correlate runs.
func GetOrGenerateTraceID(ctx context.Context) string {
	if id := TraceIDFromContext(ctx); id != "" {
		return id
	}
	if id := os.Getenv(EnvTraceID); id != "" {
		return id
	}
	return NewTraceID()
}

// IsValidTraceID reports whether id parses as a ULID.
func IsValidTraceID(id string) bool {
	_, err := ulid.ParseStrict(id)
	return err == nil
}
