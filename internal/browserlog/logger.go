// Package browserlog provides the internal logging library shared across
// the pipeline, plus the process-wide deduplicated warnings set described
// by the engine's concurrency model: diagnostics that would otherwise
// repeat once per node (an unsupported CSS value, an unimplemented layout
// feature) are reported only on first occurrence.
package browserlog

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Level represents the severity level of a log message.
type Level int

const (
	// DebugLevel is for detailed debugging information.
	DebugLevel Level = iota
	// InfoLevel is for general informational messages.
	InfoLevel
	// WarnLevel is for warning messages about potential issues.
	WarnLevel
	// ErrorLevel is for error messages.
	ErrorLevel
)

// String returns the string representation of a log level.
func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger is a leveled, mutex-guarded writer.
type Logger struct {
	mu     sync.Mutex
	out    io.Writer
	level  Level
	prefix string
}

var std = &Logger{
	out:   os.Stderr,
	level: WarnLevel,
}

// New creates a new Logger instance.
func New(out io.Writer, level Level) *Logger {
	return &Logger{out: out, level: level}
}

// SetOutput sets the output destination for the standard logger.
func SetOutput(w io.Writer) {
	std.mu.Lock()
	defer std.mu.Unlock()
	std.out = w
}

// SetLevel sets the minimum log level for the standard logger.
func SetLevel(level Level) {
	std.mu.Lock()
	defer std.mu.Unlock()
	std.level = level
}

// SetPrefix sets a prefix for all log messages on the standard logger.
func SetPrefix(prefix string) {
	std.mu.Lock()
	defer std.mu.Unlock()
	std.prefix = prefix
}

func (l *Logger) log(level Level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if level < l.level {
		return
	}
	timestamp := time.Now().Format("2006-01-02 15:04:05.000")
	if l.prefix != "" {
		fmt.Fprintf(l.out, "[%s] %s [%s] %s\n", timestamp, l.prefix, level, msg)
	} else {
		fmt.Fprintf(l.out, "[%s] [%s] %s\n", timestamp, level, msg)
	}
}

func (l *Logger) Debug(msg string) { l.log(DebugLevel, msg) }
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.log(DebugLevel, fmt.Sprintf(format, args...))
}
func (l *Logger) Info(msg string) { l.log(InfoLevel, msg) }
func (l *Logger) Infof(format string, args ...interface{}) {
	l.log(InfoLevel, fmt.Sprintf(format, args...))
}
func (l *Logger) Warn(msg string) { l.log(WarnLevel, msg) }
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.log(WarnLevel, fmt.Sprintf(format, args...))
}
func (l *Logger) Error(msg string) { l.log(ErrorLevel, msg) }
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.log(ErrorLevel, fmt.Sprintf(format, args...))
}

// Debug logs a debug message on the standard logger.
func Debug(msg string) { std.log(DebugLevel, msg) }

// Debugf logs a formatted debug message on the standard logger.
func Debugf(format string, args ...interface{}) { std.log(DebugLevel, fmt.Sprintf(format, args...)) }

// Warn logs a warning on the standard logger.
func Warn(msg string) { std.log(WarnLevel, msg) }

// Warnf logs a formatted warning on the standard logger.
func Warnf(format string, args ...interface{}) { std.log(WarnLevel, fmt.Sprintf(format, args...)) }

// Error logs an error on the standard logger.
func Error(msg string) { std.log(ErrorLevel, msg) }

// Errorf logs a formatted error on the standard logger.
func Errorf(format string, args ...interface{}) { std.log(ErrorLevel, fmt.Sprintf(format, args...)) }

// Info logs an info message on the standard logger.
func Info(msg string) { std.log(InfoLevel, msg) }

// Infof logs a formatted info message on the standard logger.
func Infof(format string, args ...interface{}) { std.log(InfoLevel, fmt.Sprintf(format, args...)) }

// WarnSet deduplicates warning strings by a component-tagged key so that
// the same unsupported feature does not print once per node. The lock
// scope is exactly the single insert, per the engine's concurrency model.
type WarnSet struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewWarnSet creates an empty deduplicating warning set.
func NewWarnSet() *WarnSet {
	return &WarnSet{seen: make(map[string]struct{})}
}

// Once reports msg under component the first time this exact pair is
// seen; subsequent calls with the same (component, msg) are no-ops. It
// returns true the first time, so callers can also append to a
// diagnostics list only on first occurrence.
func (w *WarnSet) Once(component, msg string) bool {
	key := "[" + component + "] " + msg
	w.mu.Lock()
	_, already := w.seen[key]
	if !already {
		w.seen[key] = struct{}{}
	}
	w.mu.Unlock()
	if !already {
		Warnf("%s", key)
	}
	return !already
}

// Global is the process-wide warning set shared by the whole pipeline,
// matching the engine's "process-wide warnings set" resource.
var Global = NewWarnSet()
