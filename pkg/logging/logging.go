// Package logging configures the process-wide slog logger.
//
// Two output formats are supported: "json" for log aggregators (the
// default) and "text" for local development, which uses tint for readable
// colored output. When a log file is configured, output goes through
// lumberjack so the file rotates instead of growing without bound.
package logging

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls logger construction. Zero values mean: info level,
// JSON format, stderr only.
type Options struct {
	Level  string // debug, info, warn, error
	Format string // json or text
	File   string // optional path; rotated at 20 MB, 5 backups
}

// Setup builds a slog.Logger from opts, installs it as the default, and
// returns it.
func Setup(opts Options) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
		level = slog.LevelInfo
	}

	var w io.Writer = os.Stderr
	if opts.File != "" {
		w = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    20, // megabytes
			MaxBackups: 5,
		}
	}

	var handler slog.Handler
	if opts.Format == "text" {
		handler = tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
