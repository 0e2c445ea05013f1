package logging

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestSetupWritesToFile(t *testing.T) {
	cfg := DefaultConfig()
	cfg.File = filepath.Join(t.TempDir(), "logs", "yourmovie.log")

	logger, closeFn, err := Setup(cfg)
	require.NoError(t, err)
	logger.Info("frame saved", "path", "files/pic00.jpg")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(cfg.File)
	require.NoError(t, err)
	assert.Contains(t, string(data), "frame saved")
	assert.Same(t, logger, L())
}

func TestFromContext(t *testing.T) {
	assert.Equal(t, L(), From(context.Background()))

	custom := slog.New(slog.NewTextHandler(os.Stderr, nil))
	ctx := With(context.Background(), custom)
	assert.Same(t, custom, From(ctx))
}
