package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"log/slog"
	"strings"
	"testing"

	"github.com/amp-labs/kvcollection/logger"
	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigureLoggingWithOptions(t *testing.T) { //nolint:paralleltest
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	t.Run("json output carries the subsystem", func(t *testing.T) {
		var buf bytes.Buffer

		logger.ConfigureLoggingWithOptions(logger.Options{
			Subsystem: "kvc-test",
			JSON:      true,
			MinLevel:  slog.LevelInfo,
			Output:    &buf,
		})

		logger.Get().Info("hello", "entries", 3)
		logger.Get().Debug("filtered out")

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 1)

		var record map[string]any
		require.NoError(t, json.Unmarshal([]byte(lines[0]), &record))
		assert.Equal(t, "hello", record["msg"])
		assert.Equal(t, "kvc-test", record["subsystem"])
		assert.InDelta(t, 3.0, record["entries"], 0)
	})

	t.Run("legacy log package is redirected", func(t *testing.T) {
		var buf bytes.Buffer

		logger.ConfigureLoggingWithOptions(logger.Options{
			Subsystem: "kvc-test",
			Output:    &buf,
		})

		log.Println("from the old logger")

		assert.Contains(t, buf.String(), "from the old logger")
		assert.Contains(t, buf.String(), "level=INFO")
	})
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	level, err := logger.ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	level, err = logger.ParseLevel(" WARN ")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)

	_, err = logger.ParseLevel("loud")
	require.ErrorIs(t, err, logger.ErrInvalidLogLevel)
}

func TestContextHelpers(t *testing.T) {
	t.Parallel()

	t.Run("context logger is preferred", func(t *testing.T) {
		t.Parallel()

		ctx := logger.WithLogger(t.Context(), slogt.New(t))
		assert.True(t, logger.HasLogger(ctx))
		assert.False(t, logger.HasLogger(t.Context()))

		logger.Get(ctx).Info("routed to the test log")
	})

	t.Run("subsystem override", func(t *testing.T) {
		t.Parallel()

		ctx := logger.WithSubsystem(t.Context(), "convert")
		assert.Equal(t, "convert", logger.GetSubsystem(ctx))
	})

	t.Run("values accumulate without sharing", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		base := logger.WithLogger(t.Context(), slog.New(slog.NewTextHandler(&buf, nil)))
		parent := logger.With(base, "a", 1)
		left := logger.With(parent, "b", 2)
		right := logger.With(parent, "c", 3)

		logger.Get(left).Info("left")
		logger.Get(right).Info("right")

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 2)
		assert.Contains(t, lines[0], "a=1 b=2")
		assert.NotContains(t, lines[1], "b=2")
		assert.Contains(t, lines[1], "a=1 c=3")
	})

	t.Run("muted contexts drop output", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		ctx := logger.WithLogger(context.Background(), slog.New(slog.NewTextHandler(&buf, nil)))
		logger.Get(logger.WithMuted(ctx, true)).Error("silenced")
		logger.Get(logger.WithMuted(ctx, false)).Error("kept")

		assert.NotContains(t, buf.String(), "silenced")
		assert.Contains(t, buf.String(), "kept")
	})
}
