package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"

	"github.com/dgnsrekt/lingo/internal/config"
)

func getLogFilePath() (string, error) {
	dir, err := gap.NewScope(gap.User, config.AppName).CacheDir()
	if err != nil {
		return "", err //nolint:wrapcheck
	}
	return filepath.Join(dir, "lingo.log"), nil
}

// setupLog sends log output to a file in the cache dir so it never draws
// over the TUI.
func setupLog() (func() error, error) {
	log.SetOutput(io.Discard)

	logFile, err := getLogFilePath()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil { //nolint:gosec
		// log disabled
		return func() error { return nil }, nil
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644) //nolint:gosec
	if err != nil {
		// log disabled
		return func() error { return nil }, nil
	}
	log.SetOutput(f)
	log.SetLevel(log.DebugLevel)
	return f.Close, nil
}
