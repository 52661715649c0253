package log

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCslLogger_LevelFilter(t *testing.T) {
	base, err := NewCslLogger()
	require.NoError(t, err)

	var buf bytes.Buffer
	logger := base.WithOutput(&buf).WithLevel("warn")
	ctx := context.Background()

	logger.Debug(ctx, "debug %d", 1)
	logger.Info(ctx, "info %d", 2)
	logger.Warn(ctx, "warn %d", 3)
	logger.Error(ctx, "error %d", 4)

	out := buf.String()
	assert.NotContains(t, out, "[DEBUG]")
	assert.NotContains(t, out, "[INFO]")
	assert.Contains(t, out, "[WARN] warn 3")
	assert.Contains(t, out, "[ERROR] error 4")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, LevelEmergency, ParseLevel(" emergency "))
	assert.Equal(t, LevelInfo, ParseLevel("chatty"))
}

func TestCslLogger_SetLevel(t *testing.T) {
	base, err := NewCslLogger()
	require.NoError(t, err)

	var buf bytes.Buffer
	logger := base.WithOutput(&buf).WithLevel("error")
	ctx := context.Background()

	logger.Info(ctx, "hidden")
	logger.SetLevel("debug")
	assert.Equal(t, LevelDebug, logger.Level())
	logger.Debug(ctx, "shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "[DEBUG] shown")
}
