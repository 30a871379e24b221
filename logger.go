package phxsock

import (
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"
)

// LogLevel represents the logging level.
type LogLevel int

const (
	// LogLevelDebug logs everything, including per-frame traffic.
	LogLevelDebug LogLevel = iota
	// LogLevelInfo logs connection lifecycle transitions.
	LogLevelInfo
	// LogLevelWarn logs recoverable problems such as dropped frames.
	LogLevelWarn
	// LogLevelError logs transport failures.
	LogLevelError
	// LogLevelNone disables all logging.
	LogLevelNone
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	case LogLevelNone:
		return "NONE"
	default:
		return "UNKNOWN"
	}
}

// LogFields represents key-value pairs for structured logging.
type LogFields map[string]any

// Logger defines the interface for logging. Implementations must be safe for
// concurrent use: the socket loop and transport goroutines both log.
type Logger interface {
	// Debug logs a debug message.
	Debug(msg string, fields LogFields)

	// Info logs an info message.
	Info(msg string, fields LogFields)

	// Warn logs a warning message.
	Warn(msg string, fields LogFields)

	// Error logs an error message.
	Error(msg string, fields LogFields)
}

// NoOpLogger is a logger that does nothing. It is the default.
type NoOpLogger struct{}

// NewNoOpLogger creates a new no-op logger.
func NewNoOpLogger() *NoOpLogger { return &NoOpLogger{} }

// Debug does nothing.
func (*NoOpLogger) Debug(_ string, _ LogFields) {}

// Info does nothing.
func (*NoOpLogger) Info(_ string, _ LogFields) {}

// Warn does nothing.
func (*NoOpLogger) Warn(_ string, _ LogFields) {}

// Error does nothing.
func (*NoOpLogger) Error(_ string, _ LogFields) {}

// StdLogger is a simple level-filtered logger on top of the standard library
// log package. Fields are rendered in sorted key order.
type StdLogger struct {
	logger *log.Logger
	level  LogLevel
}

// NewStdLogger creates a logger writing to w at the given level. A nil
// writer defaults to os.Stderr.
func NewStdLogger(w io.Writer, level LogLevel) *StdLogger {
	if w == nil {
		w = os.Stderr
	}
	return &StdLogger{
		logger: log.New(w, "", log.LstdFlags),
		level:  level,
	}
}

// Debug logs a debug message.
func (s *StdLogger) Debug(msg string, fields LogFields) { s.log(LogLevelDebug, msg, fields) }

// Info logs an info message.
func (s *StdLogger) Info(msg string, fields LogFields) { s.log(LogLevelInfo, msg, fields) }

// Warn logs a warning message.
func (s *StdLogger) Warn(msg string, fields LogFields) { s.log(LogLevelWarn, msg, fields) }

// Error logs an error message.
func (s *StdLogger) Error(msg string, fields LogFields) { s.log(LogLevelError, msg, fields) }

func (s *StdLogger) log(level LogLevel, msg string, fields LogFields) {
	if level < s.level {
		return
	}

	if len(fields) == 0 {
		s.logger.Printf("[%s] %s", level, msg)
		return
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, fields[k])
	}

	s.logger.Printf("[%s] %s%s", level, msg, b.String())
}

// Standard field names used by the socket and transports.
const (
	// LogFieldTopic is the message topic field.
	LogFieldTopic = "topic"

	// LogFieldEvent is the message event field.
	LogFieldEvent = "event"

	// LogFieldRef is the push ref field.
	LogFieldRef = "ref"

	// LogFieldState is the connection state field.
	LogFieldState = "state"

	// LogFieldURL is the endpoint URL field.
	LogFieldURL = "url"

	// LogFieldError is the error field.
	LogFieldError = "error"

	// LogFieldQueued is the outbound queue length field.
	LogFieldQueued = "queued"
)
