package lorc

import (
	"log"
	"os"
)

// LogLevel gates which messages a [Cache]'s default logger emits.
type LogLevel int

const (
	LogLevelNone LogLevel = iota
	LogLevelError
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
)

// Logger is the leveled logging sink a [Cache] reports internal events to:
// corrupt internal keys met by [Cache.Get], [Cache.UpdateEntry] and
// [Cache.Scan] (warn level), and invariant-violation context before the
// process aborts (error level). Nothing is logged at info or debug level.
//
// The package never imports a concrete logging framework — none of the
// teacher repo's dependencies pull one in — so Logger is a small
// interface a caller may back with whatever they already use.
type Logger interface {
	Errorf(format string, args ...any)
	Warnf(format string, args ...any)
	Infof(format string, args ...any)
	Debugf(format string, args ...any)
}

// stdLogger implements Logger on top of the standard library's log.Logger,
// gated by level.
type stdLogger struct {
	level LogLevel
	inner *log.Logger
}

// NewStdLogger returns a [Logger] backed by the standard library, writing
// to os.Stderr and gated at level.
func NewStdLogger(level LogLevel) Logger {
	return &stdLogger{level: level, inner: log.New(os.Stderr, "lorc: ", log.LstdFlags)}
}

func (l *stdLogger) Errorf(format string, args ...any) { l.logAt(LogLevelError, format, args...) }
func (l *stdLogger) Warnf(format string, args ...any)  { l.logAt(LogLevelWarn, format, args...) }
func (l *stdLogger) Infof(format string, args ...any)  { l.logAt(LogLevelInfo, format, args...) }
func (l *stdLogger) Debugf(format string, args ...any) { l.logAt(LogLevelDebug, format, args...) }

func (l *stdLogger) logAt(level LogLevel, format string, args ...any) {
	if l.level < level {
		return
	}

	l.inner.Printf(format, args...)
}

// noopLogger discards everything. Used when Options.Logger is nil and
// Options.LogLevel is LogLevelNone.
type noopLogger struct{}

func (noopLogger) Errorf(string, ...any) {}
func (noopLogger) Warnf(string, ...any)  {}
func (noopLogger) Infof(string, ...any)  {}
func (noopLogger) Debugf(string, ...any) {}
