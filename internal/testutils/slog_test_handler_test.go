package testutils

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestSlogHandler(t *testing.T) {
	logger, h := NewTestLogger()

	logger.With(slog.String("component", "test")).Info("first", slog.Int("n", 1))
	logger.Warn("second")

	entries := h.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "test", entries[0]["component"])
	assert.Equal(t, int64(1), entries[0]["n"])
	assert.Equal(t, "WARN", entries[1]["level"])
	assert.NotContains(t, entries[1], "component")

	e, ok := h.Find("second")
	require.True(t, ok)
	assert.Equal(t, "second", e["message"])

	h.Clear()
	assert.Empty(t, h.Entries())
}
