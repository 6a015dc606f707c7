package structuredqa

import (
	"io"
	"log/slog"
	"os"
)

var Logger *slog.Logger

const (
	LevelDebug = slog.Level(-4)
	LevelInfo  = slog.Level(0)
	LevelWarn  = slog.Level(4)
	LevelError = slog.Level(8)
)

func init() {
	Logger = newLogger(os.Stderr)
}

func newLogger(w io.Writer) *slog.Logger {
	handler := slog.NewTextHandler(w,
		&slog.HandlerOptions{Level: LevelInfo})
	return slog.New(handler)
}

// LogToFile tees Logger into the file at path, appending to it.
// Stdout is kept free for results; logs go to stderr and the file.
func LogToFile(path string) (io.Closer, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	Logger = newLogger(io.MultiWriter(os.Stderr, f))
	return f, nil
}
