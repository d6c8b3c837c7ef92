package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestNewFormats(t *testing.T) {
	var b bytes.Buffer
	l, err := New(&b, FormatJSON, slog.LevelInfo)
	require.NoError(t, err)
	l.Debug("hidden")
	l.Info("needles loaded", "count", 3)
	assert.NotContains(t, b.String(), "hidden")
	assert.Contains(t, b.String(), `"count":3`)

	b.Reset()
	l, err = New(&b, FormatText, slog.LevelInfo)
	require.NoError(t, err)
	l.Info("needles loaded", "count", 3)
	assert.Contains(t, b.String(), "count=3")

	_, err = New(&b, "xml", slog.LevelInfo)
	assert.Error(t, err)
}
