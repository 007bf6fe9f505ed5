// Package logging builds the zerolog logger shared by the CLI and the export
// pipeline. Output goes to stderr (console formatted in development) and,
// when a log file is configured, to a size-rotated file as JSON.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/salulink/chronic/internal/config"
)

// New builds a logger from config.
func New(cfg *config.Config) zerolog.Logger {
	return NewWithWriter(cfg, os.Stderr)
}

// NewWithWriter is New with an explicit console destination.
func NewWithWriter(cfg *config.Config, out io.Writer) zerolog.Logger {
	var console io.Writer = out
	if cfg.IsDev() {
		console = zerolog.ConsoleWriter{Out: out}
	}

	writers := []io.Writer{console}
	if cfg.LogFile != "" {
		writers = append(writers, FileWriter(cfg))
	}

	var w io.Writer = console
	if len(writers) > 1 {
		w = zerolog.MultiLevelWriter(writers...)
	}

	return zerolog.New(w).
		Level(cfg.Level()).
		With().
		Timestamp().
		Str("app", cfg.AppName).
		Logger()
}

// FileWriter returns the rotating writer for cfg.LogFile.
func FileWriter(cfg *config.Config) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAge:     cfg.LogMaxAgeDays,
	}
}
