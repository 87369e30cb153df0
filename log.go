package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/metcalfc/flash/internal/config"
)

// setupLog sends the default logger to a file. The terminal UI owns the
// screen, so without a log file or debug mode all logging is discarded.
func setupLog(e config.Env) (func() error, error) {
	log.SetOutput(io.Discard)

	path := e.LogFile
	if path == "" && !e.Debug {
		return func() error { return nil }, nil
	}
	if path == "" {
		var err error
		if path, err = config.LogPath(); err != nil {
			return nil, err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("unable to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("unable to open log file: %w", err)
	}

	log.SetOutput(f)
	log.SetReportTimestamp(true)
	log.SetPrefix(config.AppName)
	if e.Debug {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
	return f.Close, nil
}
