// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"", slog.LevelInfo, false},
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"trace", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, "json", slog.LevelInfo)
	require.NoError(t, err)

	log.With("document", "gazette.pdf").Warn("dropped incomplete vacancy", "vacancy", "VN-1")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "dropped incomplete vacancy", entry["msg"])
	assert.Equal(t, "gazette.pdf", entry["document"])
	assert.Equal(t, "VN-1", entry["vacancy"])
}

func TestNew_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, "text", slog.LevelWarn)
	require.NoError(t, err)

	log.Debug("debug message")
	log.Info("info message")
	log.Error("error message")

	out := buf.String()
	assert.NotContains(t, out, "debug message")
	assert.NotContains(t, out, "info message")
	assert.True(t, strings.Contains(out, "error message"))
}

func TestNew_UnknownFormat(t *testing.T) {
	_, err := New(nil, "xml", slog.LevelInfo)
	assert.Error(t, err)
}

func TestNoop(t *testing.T) {
	log := Noop()
	log.Info("ignored", "k", "v")
	assert.Equal(t, log, log.With("k", "v"))
}
