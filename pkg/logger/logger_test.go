package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNewLogger(t *testing.T) {
	logger := NewLogger()
	assert.NotNil(t, logger)
	assert.IsType(t, &zerologLogger{}, logger)
}

func TestLevels(t *testing.T) {
	tests := []struct {
		name  string
		log   func(Logger)
		level string
	}{
		{"debug", func(l Logger) { l.Debug("debug message") }, "debug"},
		{"info", func(l Logger) { l.Info("info message") }, "info"},
		{"warn", func(l Logger) { l.Warn("warn message") }, "warn"},
		{"error", func(l Logger) { l.Error("error message") }, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf, "debug")

			tt.log(logger)

			entry := decodeLine(t, &buf)
			assert.Equal(t, tt.level, entry["level"])
			assert.Equal(t, tt.name+" message", entry["message"])
		})
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "warn")

	logger.Info("dropped")
	assert.Zero(t, buf.Len())

	logger.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestUnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "verbose")

	logger.Debug("dropped")
	assert.Zero(t, buf.Len())

	logger.Info("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestWithField(t *testing.T) {
	var buf bytes.Buffer
	base := newLogger(&buf, "info")

	base.WithField("workspace_id", "ws-1").Info("scoped")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "ws-1", entry["workspace_id"])

	// the parent logger must not inherit the field
	buf.Reset()
	base.Info("unscoped")
	entry = decodeLine(t, &buf)
	_, ok := entry["workspace_id"]
	assert.False(t, ok)
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	base := newLogger(&buf, "info")

	base.WithFields(map[string]interface{}{
		"user_id": "u-1",
		"step":    3,
	}).Info("multi")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "u-1", entry["user_id"])
	assert.Equal(t, float64(3), entry["step"])

	buf.Reset()
	base.Info("plain")
	entry = decodeLine(t, &buf)
	_, ok := entry["user_id"]
	assert.False(t, ok)
}

func TestWithField_Error(t *testing.T) {
	var buf bytes.Buffer
	base := newLogger(&buf, "info")

	base.WithField("error", errors.New("connection refused")).Error("refresh failed")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "connection refused", entry["error"])
	assert.Equal(t, "error", entry["level"])
}

func TestNewDevelopmentLogger(t *testing.T) {
	assert.NotNil(t, NewDevelopmentLogger("debug"))
}

type recordingTB struct {
	testing.TB
	lines []string
}

func (r *recordingTB) Helper() {}

func (r *recordingTB) Log(args ...interface{}) {
	for _, arg := range args {
		r.lines = append(r.lines, arg.(string))
	}
}

func TestNewTestLogger(t *testing.T) {
	tb := &recordingTB{TB: t}
	log := NewTestLogger(tb)

	log.WithFields(map[string]interface{}{"user_id": "user-1"}).
		WithField("error", errors.New("connection refused")).
		Warn("Failed to fetch profile")
	log.Debug("resolving")
	log.Fatal("unrecoverable")

	require.Len(t, tb.lines, 3)
	assert.Contains(t, tb.lines[0], "WRN")
	assert.Contains(t, tb.lines[0], "Failed to fetch profile")
	assert.Contains(t, tb.lines[0], "user_id=user-1")
	assert.Contains(t, tb.lines[0], "error=")
	assert.Contains(t, tb.lines[0], "connection refused")
	assert.Contains(t, tb.lines[1], "DBG")
	assert.Contains(t, tb.lines[2], "FTL")
	assert.IsType(t, &testLogger{}, log.WithField("k", "v"))
}
