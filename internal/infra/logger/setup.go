package logger

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/phsym/console-slog"
)

// Setup installs the process-wide slog handler.
func Setup(level, format, env string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("logger: invalid level %q: %w", level, err)
	}

	opts := &slog.HandlerOptions{
		Level:       lvl,
		AddSource:   true,
		ReplaceAttr: replaceAttr,
	}

	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, opts)
	case "text":
		if env == "dev" {
			handler = console.NewHandler(os.Stdout, &console.HandlerOptions{
				Level:     lvl,
				AddSource: true,
			})
		} else {
			handler = slog.NewTextHandler(os.Stdout, opts)
		}
	default:
		return fmt.Errorf("logger: invalid format %q", format)
	}

	slog.SetDefault(slog.New(handler))
	return nil
}

func replaceAttr(_ []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.TimeKey:
		if t, ok := a.Value.Any().(time.Time); ok {
			a.Value = slog.StringValue(t.UTC().Format(time.RFC3339))
		}
	case slog.SourceKey:
		if src, ok := a.Value.Any().(*slog.Source); ok {
			src.File = shortenSourcePath(src.File)
		}
	}
	return a
}

// shortenSourcePath trims build and module cache prefixes and version
// suffixes from source file paths.
func shortenSourcePath(path string) string {
	prefixes := []string{
		"/go/pkg/mod/",
		"/build/",
		"/fleetwire/",
		"/src/fleetwire/",
	}

	for _, prefix := range prefixes {
		_, after, ok := strings.Cut(path, prefix)
		if !ok {
			continue
		}
		if at := strings.Index(after, "@"); at != -1 {
			if slash := strings.Index(after[at:], "/"); slash != -1 {
				after = after[:at] + after[at+slash:]
			}
		}
		return after
	}

	return filepath.Base(path)
}
