package app

import (
	"io"
	"log/slog"
)

// logLevels and logFormats are the values accepted by Config. An empty
// value selects info and text.
var (
	logLevels = map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	logFormats = map[string]func(io.Writer, *slog.HandlerOptions) slog.Handler{
		"text": func(w io.Writer, o *slog.HandlerOptions) slog.Handler { return slog.NewTextHandler(w, o) },
		"json": func(w io.Writer, o *slog.HandlerOptions) slog.Handler { return slog.NewJSONHandler(w, o) },
	}
)

// newLogger builds an isolated logger; the global slog default is left alone.
func newLogger(level, format string, outW io.Writer) *slog.Logger {
	lvl, ok := logLevels[level]
	if !ok {
		lvl = slog.LevelInfo
	}
	newHandler, ok := logFormats[format]
	if !ok {
		newHandler = logFormats["text"]
	}
	return slog.New(newHandler(outW, &slog.HandlerOptions{Level: lvl}))
}
