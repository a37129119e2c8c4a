// Package logging configures colored structured logging with tint for every
// splitter binary.
package logging

import (
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

// Setup installs a tint handler at the given level as the slog default.
// Binaries call this once, before anything logs. Source locations are added
// only at debug level to keep normal output compact.
func Setup(level slog.Level) {
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
			AddSource:  level <= slog.LevelDebug,
		}),
	))
}
