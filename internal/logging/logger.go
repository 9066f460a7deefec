// Package logging provides leveled, prefixed logging on top of zap.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel represents different logging levels
type LogLevel int

const (
	// LevelError only logs errors
	LevelError LogLevel = iota
	// LevelWarn logs warnings and errors
	LevelWarn
	// LevelInfo logs general information, warnings and errors
	LevelInfo
	// LevelDebug logs detailed debug information and all above
	LevelDebug
	// LevelTrace logs very detailed trace information and all above
	LevelTrace
)

var levelNames = map[LogLevel]string{
	LevelError: "ERROR",
	LevelWarn:  "WARN",
	LevelInfo:  "INFO",
	LevelDebug: "DEBUG",
	LevelTrace: "TRACE",
}

// String returns the upper-case level name.
func (l LogLevel) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("LEVEL(%d)", int(l))
}

// ParseLevel maps a level name to a LogLevel. Unknown names return false.
func ParseLevel(name string) (LogLevel, bool) {
	for level, n := range levelNames {
		if strings.EqualFold(n, name) {
			return level, true
		}
	}
	return LevelInfo, false
}

// levelState is shared by a logger and everything derived from it.
type levelState struct {
	mu    sync.RWMutex
	level LogLevel
	out   io.Writer
}

// Write sends encoded entries to the current output.
func (s *levelState) Write(p []byte) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.out.Write(p)
}

// Logger provides leveled logging with a name prefix.
type Logger struct {
	state  *levelState
	prefix string
	sugar  *zap.SugaredLogger
}

var (
	defaultLogger *Logger
	once          sync.Once
)

// GetLogger returns the default logger instance
func GetLogger() *Logger {
	once.Do(func() {
		defaultLogger = NewLogger("VFS", os.Stderr)

		// Set initial log level from environment
		if name := os.Getenv("LOG_LEVEL"); name != "" {
			if level, ok := ParseLevel(name); ok {
				defaultLogger.SetLevel(level)
			}
		}
	})
	return defaultLogger
}

// NewLogger creates a new logger with the given prefix writing to w.
func NewLogger(prefix string, w io.Writer) *Logger {
	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	state := &levelState{level: LevelInfo, out: w}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.AddSync(state),
		zapcore.DebugLevel,
	)
	base := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(2))

	return &Logger{
		state:  state,
		prefix: prefix,
		sugar:  base.Named(prefix).Sugar(),
	}
}

// SetLevel sets the logging level
func (l *Logger) SetLevel(level LogLevel) {
	l.state.mu.Lock()
	defer l.state.mu.Unlock()
	l.state.level = level
}

// SetOutput redirects this logger and every logger derived from it to w.
// It returns the previous output.
func (l *Logger) SetOutput(w io.Writer) io.Writer {
	l.state.mu.Lock()
	defer l.state.mu.Unlock()
	prev := l.state.out
	l.state.out = w
	return prev
}

// Level returns the current logging level
func (l *Logger) Level() LogLevel {
	l.state.mu.RLock()
	defer l.state.mu.RUnlock()
	return l.state.level
}

func (l *Logger) shouldLog(level LogLevel) bool {
	return level <= l.Level()
}

func (l *Logger) log(level LogLevel, format string, args ...interface{}) {
	if !l.shouldLog(level) {
		return
	}

	switch level {
	case LevelError:
		l.sugar.Errorf(format, args...)
	case LevelWarn:
		l.sugar.Warnf(format, args...)
	case LevelInfo:
		l.sugar.Infof(format, args...)
	case LevelTrace:
		l.sugar.Debugf("[TRACE] "+format, args...)
	default:
		l.sugar.Debugf(format, args...)
	}
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(LevelError, format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(LevelWarn, format, args...)
}

// Info logs an informational message
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(LevelInfo, format, args...)
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(LevelDebug, format, args...)
}

// Trace logs a trace message
func (l *Logger) Trace(format string, args ...interface{}) {
	l.log(LevelTrace, format, args...)
}

// WithPrefix creates a new logger with an additional name segment. The
// level stays shared with the parent.
func (l *Logger) WithPrefix(prefix string) *Logger {
	return &Logger{
		state:  l.state,
		prefix: l.prefix + "." + prefix,
		sugar:  l.sugar.Named(prefix),
	}
}

// With returns a logger that attaches key/value context to every entry.
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{
		state:  l.state,
		prefix: l.prefix,
		sugar:  l.sugar.With(keysAndValues...),
	}
}

// Sync flushes any buffered log entries.
func (l *Logger) Sync() error {
	return l.sugar.Sync()
}
