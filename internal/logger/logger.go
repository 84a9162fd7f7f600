package logger

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ekisa-team/leafsense/internal/env"
)

// Option configures the logger.
type Option func(*options)

type options struct {
	logToFile bool
	logFile   string
}

// WithLogToFile enables mirroring log output to a rotating file.
func WithLogToFile(enabled bool) Option {
	return func(o *options) {
		o.logToFile = enabled
	}
}

// WithLogFile sets the path of the rotating log file.
func WithLogFile(path string) Option {
	return func(o *options) {
		o.logFile = path
	}
}

// New builds the process logger. Development gets a colored console
// handler; production gets plain text at info level. When file logging
// is enabled, output is duplicated into a size-rotated file.
func New(environment env.Environment, opts ...Option) *slog.Logger {
	o := &options{
		logFile: "logs/leafsense.log",
	}
	for _, opt := range opts {
		opt(o)
	}

	level := slog.LevelDebug
	if environment.IsProduction() {
		level = slog.LevelInfo
	}

	var w io.Writer = os.Stderr
	if o.logToFile {
		w = io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   o.logFile,
			MaxSize:    20, // megabytes
			MaxBackups: 5,
			MaxAge:     30, // days
			Compress:   true,
		})
	}

	handler := tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
		NoColor:    environment.IsProduction(),
	})

	return slog.New(handler)
}
