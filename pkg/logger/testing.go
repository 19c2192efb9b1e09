package logger

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// NewTestLogger returns a debug-level Logger whose entries go through t.Log,
// so they are attached to the test that wrote them. Fields are rendered the
// same way as in production. Fatal logs without exiting.
func NewTestLogger(t testing.TB) Logger {
	w := zerolog.ConsoleWriter{
		Out:          testWriter{t: t},
		NoColor:      true,
		PartsExclude: []string{zerolog.TimestampFieldName},
	}
	return &testLogger{zerologLogger: newLogger(w, "debug").(*zerologLogger)}
}

type testLogger struct {
	*zerologLogger
}

func (l *testLogger) Fatal(msg string) {
	l.logger.WithLevel(zerolog.FatalLevel).Msg(msg)
}

func (l *testLogger) WithField(key string, value interface{}) Logger {
	return &testLogger{zerologLogger: l.zerologLogger.WithField(key, value).(*zerologLogger)}
}

func (l *testLogger) WithFields(fields map[string]interface{}) Logger {
	return &testLogger{zerologLogger: l.zerologLogger.WithFields(fields).(*zerologLogger)}
}

type testWriter struct {
	t testing.TB
}

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}
