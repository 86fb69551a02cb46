// Package logger builds the process logger: slog records and the standard
// log package share one writer, optionally teed into a rotating file.
package logger

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"moviescope/config"
)

type contextKey struct{}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Output returns the writer log lines go to. When cfg.File is set the writer
// tees stdout into a lumberjack rotated file; the returned closer releases it.
func Output(cfg config.LogConfig) (io.Writer, io.Closer, error) {
	if strings.TrimSpace(cfg.File) == "" {
		return os.Stdout, nopCloser{}, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return os.Stdout, nopCloser{}, err
	}
	fileWriter := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}
	return io.MultiWriter(os.Stdout, fileWriter), fileWriter, nil
}

// New creates a *slog.Logger with the given format ("json" or "text") and level.
func New(w io.Writer, format, level string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	if format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// Setup installs l as the slog default and points the standard logger at w so
// "[component] ..." lines from services end up next to structured records.
func Setup(w io.Writer, l *slog.Logger) {
	slog.SetDefault(l)
	log.SetOutput(w)
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithContext returns a new context that carries the given logger.
func WithContext(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// FromContext returns the logger stored in ctx, or slog.Default().
func FromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return slog.Default()
	}
	if l, ok := ctx.Value(contextKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	return slog.Default()
}
