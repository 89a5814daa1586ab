package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},

		{"DEBUG", LevelDebug},
		{"WARNING", LevelWarn},
		{"Error", LevelError},
		{"dEbUg", LevelDebug},

		// Empty string keeps the CLI default
		{"", LevelWarn},

		// Unrecognized defaults to Info
		{"trace", LevelInfo},
		{"fatal", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := ParseLevel(tt.input)
			if result != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
	}{
		{"json", FormatJSON},
		{"JSON", FormatJSON},
		{"Json", FormatJSON},
		{"text", FormatText},
		{"", FormatText},
		{"yaml", FormatText},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseFormat(tt.input))
		})
	}
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelDebug, Format: FormatJSON, Output: &buf})

	logger.Debug("stencil pass", "pass", 1)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "stencil pass", record["msg"])
	assert.Equal(t, float64(1), record["pass"])
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelWarn, Format: FormatText, Output: &buf})

	logger.Debug("hidden")
	logger.Warn("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
}

func TestNew_Tee(t *testing.T) {
	var primary, tee bytes.Buffer
	logger := New(Config{Level: LevelInfo, Format: FormatText, Output: &primary, Tee: &tee})

	logger.Info("rendered", "file", "a.txt")

	assert.Contains(t, primary.String(), "file=a.txt")
	assert.True(t, strings.HasPrefix(tee.String(), "{"), "tee should receive JSON, got %q", tee.String())
	assert.Contains(t, tee.String(), `"file":"a.txt"`)
}

func TestNew_TeeKeepsItsOwnLevel(t *testing.T) {
	var primary, tee bytes.Buffer
	logger := New(Config{Level: LevelWarn, Output: &primary, Tee: &tee, TeeLevel: LevelDebug})

	logger.With("strategy", "batch").Debug("stencil pass", "pass", 2)

	assert.Empty(t, primary.String())
	var record map[string]any
	require.NoError(t, json.Unmarshal(tee.Bytes(), &record))
	assert.Equal(t, "batch", record["strategy"])
	assert.Equal(t, float64(2), record["pass"])
}

func TestNop(t *testing.T) {
	logger := Nop()
	require.NotNil(t, logger)
	// Must not panic
	logger.Error("discarded")
}
