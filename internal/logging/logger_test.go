package logging

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerWithPath_Levels(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"WARN", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"bogus", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			result := NewLoggerWithPath(Config{Level: tt.level, Output: OutputStderr})
			assert.Equal(t, tt.want, result.Logger.GetLevel())
			assert.False(t, result.UsingFile)
		})
	}
}

func TestNewLoggerWithPath_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "kepler.log")

	result := NewLoggerWithPath(Config{Level: "info", Format: FormatJSON, Output: OutputFile, File: path})
	require.True(t, result.UsingFile)
	assert.Equal(t, path, result.FilePath)

	result.Logger.Info().Str("operation", "solve").Msg("hello")
	require.NoError(t, result.Close())
	require.NoError(t, result.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"operation":"solve"`)
	assert.Contains(t, string(data), `"message":"hello"`)
}

func TestNewLoggerWithPath_FallbackWhenFileMissing(t *testing.T) {
	result := NewLoggerWithPath(Config{Output: OutputFile})
	assert.False(t, result.UsingFile)
	assert.True(t, result.FallbackUsed)
	assert.NotEmpty(t, result.FallbackReason)
	assert.NoError(t, result.Close())
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	ctx := logger.WithContext(context.Background())
	ctx = ContextWithTraceID(ctx, "01J0000000000000000000TEST")

	FromContext(ctx).Info().Msg("traced")
	assert.Contains(t, buf.String(), `"trace_id":"01J0000000000000000000TEST"`)

	// No logger in context: disabled, must not panic.
	FromContext(context.Background()).Info().Msg("dropped")
}

func TestComponentLogger(t *testing.T) {
	var buf bytes.Buffer
	l := ComponentLogger(zerolog.New(&buf), "engine")
	l.Info().Msg("x")
	assert.Contains(t, buf.String(), `"component":"engine"`)
}

func TestTraceIDs(t *testing.T) {
	id := NewTraceID()
	assert.True(t, IsValidTraceID(id))
	assert.False(t, IsValidTraceID("not-a-ulid"))

	ctx := ContextWithTraceID(context.Background(), id)
	assert.Equal(t, id, TraceIDFromContext(ctx))
	assert.Equal(t, id, GetOrGenerateTraceID(ctx))
	assert.Empty(t, TraceIDFromContext(context.Background()))

	t.Setenv(EnvTraceID, "pinned")
	assert.Equal(t, "pinned", GetOrGenerateTraceID(context.Background()))
}

func TestPrintMessages(t *testing.T) {
	var buf bytes.Buffer
	PrintLogPathMessage(&buf, "/tmp/x.log")
	PrintFallbackWarning(&buf, "denied")
	assert.Contains(t, buf.String(), "Logging to /tmp/x.log")
	assert.Contains(t, buf.String(), "denied")
}
