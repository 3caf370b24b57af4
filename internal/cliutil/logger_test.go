package cliutil

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHandlerWritesToFileRegardlessOfLevel(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}, false)
	logger := slog.New(h)

	logger.Info("hello", "k", "v")
	require.Contains(t, buf.String(), "INFO: hello k=v")
}

func TestHandlerEnabledFollowsConfiguredLevel(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}, false)

	require.True(t, h.Enabled(context.Background(), slog.LevelInfo))
	require.False(t, h.Enabled(context.Background(), slog.LevelDebug))
}

func TestHandlerNilFileStillReportsEnabled(t *testing.T) {
	h := NewHandler(nil, &slog.HandlerOptions{Level: slog.LevelInfo}, false)
	require.True(t, h.Enabled(context.Background(), slog.LevelWarn))

	logger := slog.New(h)
	logger.Warn("no file configured")
}

func TestHandlerWithAttrsPreservesConfig(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}, false)
	withAttrs := h.WithAttrs([]slog.Attr{slog.String("job", "1")})

	logger := slog.New(withAttrs)
	logger.Info("tagged")
	require.True(t, strings.Contains(buf.String(), "tagged"))
}
