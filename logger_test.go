package vend_test

import (
	"bytes"
	"log/slog"
	"testing"

	vend "github.com/goliatone/go-vend"
	"github.com/stretchr/testify/assert"
)

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" DEBUG ": slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}

	for input, expected := range tests {
		assert.Equal(t, expected, vend.ParseLogLevel(input), input)
	}
}

func TestTextLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := vend.NewTextLogger(&buf, "warn")

	logger.Info("request dispatched", "endpoint", "wallet.get")
	logger.Warn("dropping persisted user without token")

	out := buf.String()
	assert.NotContains(t, out, "request dispatched")
	assert.Contains(t, out, "dropping persisted user without token")
	assert.Contains(t, out, "component=vend")
	assert.Contains(t, out, "level=WARN")
}
