// Package logger provides structured logging on top of logrus, with daily
// log files split into error and debug streams.
package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Ctx is the logging context.
type Ctx map[string]any

// Logger is the main logging interface.
type Logger interface {
	Error(msg string, ctx ...Ctx)
	Warn(msg string, ctx ...Ctx)
	Info(msg string, ctx ...Ctx)
	Debug(msg string, ctx ...Ctx)
	AddContext(ctx Ctx) Logger
}

type targetLogger interface {
	WithFields(fields logrus.Fields) *logrus.Entry
	Error(args ...any)
	Warn(args ...any)
	Info(args ...any)
	Debug(args ...any)
}

// Log is the process-wide logger.
var Log = newWrapper(logrus.StandardLogger())

// Options configures InitLogger.
type Options struct {
	// Dir receives the daily log files. Empty disables file logging.
	Dir string

	// RetentionDays is how many days of log files are kept.
	RetentionDays int

	// Level is a logrus level name.
	Level string

	// Console mirrors log lines to stderr.
	Console bool
}

// InitLogger configures the standard logrus logger used by Log.
func InitLogger(opts Options) error {
	std := logrus.StandardLogger()

	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	std.SetLevel(level)

	std.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	if opts.Console {
		std.SetOutput(os.Stderr)
	} else {
		std.SetOutput(io.Discard)
	}

	std.ReplaceHooks(make(logrus.LevelHooks))
	if opts.Dir == "" {
		return nil
	}

	hook, err := newDailyFileHook(opts.Dir, opts.RetentionDays)
	if err != nil {
		return err
	}
	std.AddHook(hook)

	return nil
}

// Error logs an error level message.
func Error(msg string, ctx ...Ctx) {
	Log.Error(msg, ctx...)
}

// Warn logs a warning level message.
func Warn(msg string, ctx ...Ctx) {
	Log.Warn(msg, ctx...)
}

// Info logs an info level message.
func Info(msg string, ctx ...Ctx) {
	Log.Info(msg, ctx...)
}

// Debug logs a debug level message.
func Debug(msg string, ctx ...Ctx) {
	Log.Debug(msg, ctx...)
}

// AddContext returns a sub-logger of Log with the provided context added.
func AddContext(ctx Ctx) Logger {
	return Log.AddContext(ctx)
}
