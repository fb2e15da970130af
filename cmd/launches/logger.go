package main

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// resolveLogLevel picks the level: --debug wins, then log_level from the config,
// then info for service mode and warn for a single check.
func resolveLogLevel(debug bool, configured string, service bool) string {
	switch {
	case debug:
		return "debug"
	case configured != "":
		return configured
	case service:
		return "info"
	default:
		return "warn"
	}
}

// setupLogger writes JSON logs to stderr and, when logFile is set, to a
// rotating file. The returned closer flushes the file sink.
func setupLogger(level, logFile string) (*slog.Logger, io.Closer) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	var out io.Writer = os.Stderr
	var closer io.Closer = nopCloser{}
	if logFile != "" {
		rotating := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10,
			MaxBackups: 5,
			LocalTime:  true,
		}
		out = io.MultiWriter(os.Stderr, rotating)
		closer = rotating
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(out, opts)
	return slog.New(handler), closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
