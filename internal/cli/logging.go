package cli

import (
	"io"
	"log/slog"
)

// setupLogging installs a text handler on w as the default logger,
// at Debug level when verbose and Info otherwise.
func setupLogging(w io.Writer, verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}
