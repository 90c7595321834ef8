package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Options describes logger construction parameters.
type Options struct {
	Level  string
	Format string
	// Out defaults to stderr so stdout stays free for the edit list.
	Out io.Writer
}

// New constructs a slog logger using the provided options.
func New(opts Options) (*slog.Logger, error) {
	out := opts.Out
	if out == nil {
		out = os.Stderr
	}
	level := parseLevel(opts.Level)

	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" {
		format = "console"
	}

	switch format {
	case "json":
		return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{
			Level:       level,
			ReplaceAttr: jsonAttrs,
		})), nil
	case "console":
		return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{
			Level:       level,
			ReplaceAttr: consoleAttrs,
		})), nil
	default:
		return nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}
}

// Logf adapts logger to the printf-style callback the pipeline takes.
// Messages are logged at info level.
func Logf(logger *slog.Logger) func(format string, args ...any) {
	return printf(logger, slog.LevelInfo)
}

// Debugf is Logf at debug level. Formatting is skipped when debug is off.
func Debugf(logger *slog.Logger) func(format string, args ...any) {
	return printf(logger, slog.LevelDebug)
}

func printf(logger *slog.Logger, level slog.Level) func(format string, args ...any) {
	if logger == nil {
		return func(string, ...any) {}
	}
	return func(format string, args ...any) {
		ctx := context.Background()
		if !logger.Enabled(ctx, level) {
			return
		}
		logger.Log(ctx, level, fmt.Sprintf(format, args...))
	}
}

func parseLevel(level string) slog.Level {
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

func jsonAttrs(_ []string, attr slog.Attr) slog.Attr {
	switch attr.Key {
	case slog.TimeKey:
		attr.Key = "ts"
		if attr.Value.Kind() == slog.KindTime {
			attr.Value = slog.StringValue(attr.Value.Time().UTC().Format(time.RFC3339))
		}
	case slog.LevelKey:
		attr.Value = slog.StringValue(strings.ToLower(attr.Value.String()))
	}
	return attr
}

func consoleAttrs(groups []string, attr slog.Attr) slog.Attr {
	if len(groups) == 0 && attr.Key == slog.TimeKey && attr.Value.Kind() == slog.KindTime {
		attr.Value = slog.StringValue(attr.Value.Time().Format("15:04:05"))
	}
	return attr
}
