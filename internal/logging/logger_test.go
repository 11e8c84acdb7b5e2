package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
		wantErr  bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{" error ", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level, err := ParseLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, level)
		})
	}
}

func TestJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Level: slog.LevelDebug, Format: "json", Output: &buf})

	logger.WithComponent("render").
		With("file", "page.yml").
		Error(context.Background(), errors.New("boom"), "render failed", "nodes", 3)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "render failed", entry["msg"])
	assert.Equal(t, "render", entry["component"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "page.yml", entry["file"])
	assert.Equal(t, float64(3), entry["nodes"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Level: slog.LevelWarn, Output: &buf})
	ctx := context.Background()

	logger.Debug(ctx, "debug message")
	logger.Info(ctx, "info message")
	assert.Empty(t, buf.String())

	logger.Warn(ctx, nil, "warn message")
	assert.Contains(t, buf.String(), "warn message")
	assert.NotContains(t, buf.String(), "error=", "a nil error adds no attribute")
}

func TestDebugLevelEmitsDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Level: slog.LevelDebug, Output: &buf})

	logger.Debug(context.Background(), "tree loaded", "depth", 4)

	assert.Contains(t, buf.String(), "tree loaded")
	assert.Contains(t, buf.String(), "depth=4")
}

func TestWithDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	parent := NewLogger(Config{Output: &buf})
	_ = parent.With("child_only", true)

	parent.Info(context.Background(), "parent message")

	assert.NotContains(t, buf.String(), "child_only")
}

func TestWithComponentReplaces(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Output: &buf}).WithComponent("watcher").WithComponent("render")

	logger.Info(context.Background(), "done")

	assert.Equal(t, 1, strings.Count(buf.String(), "component="))
	assert.Contains(t, buf.String(), "component=render")
}

func TestNopLogger(t *testing.T) {
	logger := NewNopLogger()
	assert.NotPanics(t, func() {
		logger.With("k", "v").Error(context.Background(), errors.New("x"), "discarded")
	})
}

func TestOperation(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Level: slog.LevelDebug, Output: &buf})

	op := StartOperation(logger, "render")
	op.End(context.Background(), "bytes", 12)

	out := buf.String()
	assert.Contains(t, out, "render finished")
	assert.Contains(t, out, "operation=render")
	assert.Contains(t, out, "bytes=12")
	assert.Contains(t, out, "elapsed_ms=")

	buf.Reset()
	op.EndWithError(context.Background(), errors.New("bad"))
	assert.Contains(t, buf.String(), "render failed")
	assert.Contains(t, buf.String(), "error=bad")
}

func TestOpen(t *testing.T) {
	t.Run("without a directory", func(t *testing.T) {
		var buf bytes.Buffer
		logger, closeLog, err := Open(Config{Output: &buf})
		require.NoError(t, err)

		logger.Info(context.Background(), "to the stream")
		assert.NoError(t, closeLog())
		assert.Contains(t, buf.String(), "to the stream")
	})

	t.Run("stream and file", func(t *testing.T) {
		var buf bytes.Buffer
		dir := filepath.Join(t.TempDir(), "logs")

		logger, closeLog, err := Open(Config{Format: "json", Output: &buf, Dir: dir})
		require.NoError(t, err)

		logger.WithComponent("watch").Info(context.Background(), "changed", "path", "page.yml")
		logger.Debug(context.Background(), "below the level")
		require.NoError(t, closeLog())

		data, err := os.ReadFile(filepath.Join(dir, logFileName(time.Now())))
		require.NoError(t, err)

		for _, out := range []string{buf.String(), string(data)} {
			assert.Contains(t, out, `"msg":"changed"`)
			assert.Contains(t, out, `"component":"watch"`)
			assert.NotContains(t, out, "below the level")
		}
	})

	t.Run("path traversal", func(t *testing.T) {
		_, closeLog, err := Open(Config{Dir: "../../../etc"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "path traversal")
		assert.NoError(t, closeLog())
	})
}

func TestFanoutEnabled(t *testing.T) {
	quiet := slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError})
	chatty := slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelDebug})
	ctx := context.Background()

	assert.True(t, fanout{quiet, chatty}.Enabled(ctx, slog.LevelDebug))
	assert.False(t, fanout{quiet}.Enabled(ctx, slog.LevelInfo))
}
