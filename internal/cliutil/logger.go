// Package cliutil holds the small pieces of ambient infrastructure shared
// by cmd/cicada-apply, cmd/cicada-learn, and cmd/cicada-mert: a
// package-level structured logger (the convention
// ehrlich-b-wingthing/internal/logger uses) and the weight-file loading
// helper all three front-ends need.
package cliutil

import (
	"log/slog"
	"os"
)

// Log is the process-wide structured logger used by the command-line
// front-ends; NewLogger replaces it once flags are parsed.
var Log = slog.New(slog.NewTextHandler(os.Stderr, nil))

// NewLogger builds a text-handler logger at the given level ("debug",
// "info", "warn", "error"; anything else defaults to "info") and installs
// it as the package-level Log.
func NewLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	Log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))

	return Log
}
