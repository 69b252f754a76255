// Package common provides shared utilities for Intrinsic
package common

import (
	"io"
	"os"

	"github.com/phuslu/log"
)

// Logger wraps log.Logger to provide a consistent interface
type Logger struct {
	log.Logger
}

// parseLevel maps a config level string to a log level.
func parseLevel(level string) log.Level {
	switch level {
	case "trace":
		return log.TraceLevel
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// NewLogger creates a new console logger with the specified level
func NewLogger(level string) *Logger {
	return &Logger{Logger: log.Logger{
		Level: parseLevel(level),
		Writer: &log.ConsoleWriter{
			Writer:         os.Stderr,
			ColorOutput:    true,
			EndWithMessage: true,
		},
	}}
}

// NewLoggerFromConfig creates a logger honoring the configured outputs.
// "console" writes human-readable lines to stderr; "file" writes JSON to a
// size-rotated log file.
func NewLoggerFromConfig(config LoggingConfig) *Logger {
	var writers log.MultiEntryWriter

	for _, output := range config.Outputs {
		switch output {
		case "console":
			writers = append(writers, &log.ConsoleWriter{
				Writer:         os.Stderr,
				ColorOutput:    true,
				EndWithMessage: true,
			})
		case "file":
			if config.FilePath == "" {
				continue
			}
			writers = append(writers, &log.FileWriter{
				Filename:     config.FilePath,
				MaxSize:      int64(config.MaxSizeMB) * 1024 * 1024,
				MaxBackups:   config.MaxBackups,
				EnsureFolder: true,
				LocalTime:    true,
			})
		}
	}

	if len(writers) == 0 {
		return NewLogger(config.Level)
	}

	return &Logger{Logger: log.Logger{
		Level:  parseLevel(config.Level),
		Writer: &writers,
	}}
}

// NewLoggerWithOutput creates a logger writing to a specific output
func NewLoggerWithOutput(level string, w io.Writer) *Logger {
	return &Logger{Logger: log.Logger{
		Level:  parseLevel(level),
		Writer: log.IOWriter{Writer: w},
	}}
}

// NewDefaultLogger creates a logger with default settings
func NewDefaultLogger() *Logger {
	return NewLogger("info")
}

// NewSilentLogger creates a logger that discards all output
func NewSilentLogger() *Logger {
	return &Logger{Logger: log.Logger{
		Writer: log.IOWriter{Writer: io.Discard},
	}}
}
