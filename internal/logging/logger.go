package logging

import (
	"io"
	"log/slog"
	"os"
)

// Setup installs the global logger: JSON to stdout, plus any sinks given.
func Setup(sinks ...slog.Handler) {
	slog.SetDefault(slog.New(newHandler(os.Stdout, sinks...)))
}

func newHandler(w io.Writer, sinks ...slog.Handler) slog.Handler {
	var handler slog.Handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	if len(sinks) > 0 {
		handler = NewMultiHandler(append([]slog.Handler{handler}, sinks...)...)
	}
	return handler
}
