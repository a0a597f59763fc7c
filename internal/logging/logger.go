// Package logging defines the structured logger used across castkeeper and
// its two backends: slog text output for interactive use and logrus JSON
// output for machine-collected logs.
package logging

import (
	"context"
	"io"
	"log/slog"

	"github.com/sirupsen/logrus"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are key/value pairs:
//
//	log.Info(ctx, "login succeeded", "email", email, "path", "/dashboard")
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given pairs.
	With(args ...any) Logger
}

// Supported values for New's format argument.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// New builds a Logger writing to w. FormatJSON selects the logrus backend;
// anything else yields slog text output.
func New(format string, w io.Writer, debug bool) Logger {
	if format == FormatJSON {
		l := logrus.New()
		l.SetOutput(w)
		l.SetFormatter(&logrus.JSONFormatter{})
		l.SetLevel(logrus.InfoLevel)
		if debug {
			l.SetLevel(logrus.DebugLevel)
		}
		return NewLogrusLogger(logrus.NewEntry(l))
	}

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return NewSlogLogger(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// Nop discards everything. Handy as a default in tests and constructors.
func Nop() Logger {
	return NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}
