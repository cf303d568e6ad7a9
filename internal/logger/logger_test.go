package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T, level, format string, color bool) *bytes.Buffer {
	t.Helper()
	buf := new(bytes.Buffer)
	InitWithWriter(buf, level, format, color)
	t.Cleanup(func() {
		InitWithWriter(os.Stderr, "WARN", "text", false)
	})
	return buf
}

func TestLevelFiltering(t *testing.T) {
	t.Run("debug shows everything", func(t *testing.T) {
		buf := capture(t, "DEBUG", "text", false)

		Debug("debug message")
		Info("info message")
		Warn("warn message")
		Error("error message")

		out := buf.String()
		for _, want := range []string{"[DEBUG] debug message", "[INFO] info message", "[WARN] warn message", "[ERROR] error message"} {
			assert.Contains(t, out, want)
		}
	})

	t.Run("warn hides debug and info", func(t *testing.T) {
		buf := capture(t, "warn", "text", false)

		Debug("debug message")
		Info("info message")
		Warn("warn message")

		assert.NotContains(t, buf.String(), "debug message")
		assert.NotContains(t, buf.String(), "info message")
		assert.Contains(t, buf.String(), "warn message")
	})
}

func TestTextAttributes(t *testing.T) {
	buf := capture(t, "INFO", "text", false)

	With("file", "policy.yaml").Info("loaded", "targets", 2, "name", "read people", "ok", true)

	out := buf.String()
	assert.Contains(t, out, "file=policy.yaml")
	assert.Contains(t, out, "targets=2")
	assert.Contains(t, out, `name="read people"`)
	assert.Contains(t, out, "ok=true")
}

func TestTextGroups(t *testing.T) {
	buf := capture(t, "INFO", "text", false)

	With().WithGroup("parse").Info("done", "conditions", 3)

	assert.Contains(t, buf.String(), "parse.conditions=3")
}

func TestColor(t *testing.T) {
	buf := capture(t, "INFO", "text", true)
	Warn("careful")
	assert.Contains(t, buf.String(), "\x1b[")

	buf = capture(t, "INFO", "text", true)
	DisableColor()
	Warn("careful")
	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestJSONFormat(t *testing.T) {
	buf := capture(t, "INFO", "json", false)

	Info("parsed", "conditions", 2)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "parsed", entry["msg"])
	assert.Equal(t, "INFO", entry["level"])
	assert.EqualValues(t, 2, entry["conditions"])
}

func TestInit(t *testing.T) {
	t.Cleanup(func() {
		InitWithWriter(os.Stderr, "WARN", "text", false)
	})

	path := filepath.Join(t.TempDir(), "acictl.log")
	require.NoError(t, Init(Config{Level: "debug", Format: "text", Output: path}))

	Debug("to file")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")

	assert.Error(t, Init(Config{Level: "loud"}))
	assert.Error(t, Init(Config{Format: "xml"}))
}

func TestParseLevel(t *testing.T) {
	for _, s := range []string{"debug", "INFO", "Warning", "error"} {
		_, err := ParseLevel(s)
		assert.NoError(t, err, s)
	}
	_, err := ParseLevel("trace")
	assert.Error(t, err)
}
