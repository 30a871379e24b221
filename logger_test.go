package phxsock

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", LogLevelDebug.String())
	assert.Equal(t, "INFO", LogLevelInfo.String())
	assert.Equal(t, "WARN", LogLevelWarn.String())
	assert.Equal(t, "ERROR", LogLevelError.String())
	assert.Equal(t, "NONE", LogLevelNone.String())
	assert.Equal(t, "UNKNOWN", LogLevel(42).String())
}

func TestNoOpLogger(t *testing.T) {
	logger := NewNoOpLogger()
	logger.Debug("msg", nil)
	logger.Info("msg", LogFields{LogFieldTopic: "room:1"})
	logger.Warn("msg", nil)
	logger.Error("msg", nil)
}

func TestStdLogger(t *testing.T) {
	t.Run("level filtering", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStdLogger(&buf, LogLevelWarn)

		logger.Debug("dropped", nil)
		logger.Info("dropped", nil)
		logger.Warn("kept warn", nil)
		logger.Error("kept error", nil)

		out := buf.String()
		assert.NotContains(t, out, "dropped")
		assert.Contains(t, out, "[WARN] kept warn")
		assert.Contains(t, out, "[ERROR] kept error")
	})

	t.Run("none level suppresses everything", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStdLogger(&buf, LogLevelNone)

		logger.Error("dropped", nil)
		assert.Empty(t, buf.String())
	})

	t.Run("fields rendered in sorted order", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStdLogger(&buf, LogLevelDebug)

		logger.Info("frame received", LogFields{
			LogFieldTopic: "room:1",
			LogFieldEvent: "shout",
			LogFieldRef:   "7",
		})

		assert.Contains(t, buf.String(), "[INFO] frame received event=shout ref=7 topic=room:1")
	})

	t.Run("no fields", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStdLogger(&buf, LogLevelDebug)

		logger.Info("connected", nil)
		assert.Contains(t, buf.String(), "[INFO] connected\n")
	})
}
