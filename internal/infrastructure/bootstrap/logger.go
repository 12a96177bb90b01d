package bootstrap

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/andrescamacho/starwars-movies-go/internal/application/logging"
	"github.com/andrescamacho/starwars-movies-go/internal/infrastructure/config"
)

// NewLogger builds the process logger. The returned closer releases the log
// file when output is "file" and is a no-op otherwise.
func NewLogger(cfg config.LoggingConfig) (*slog.Logger, func() error, error) {
	var w io.Writer
	closer := func() error { return nil }

	switch cfg.Output {
	case "stderr":
		w = os.Stderr
	case "file":
		f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w = f
		closer = f.Close
	default:
		w = os.Stdout
	}

	return logging.New(cfg.Level, cfg.Format, w), closer, nil
}
