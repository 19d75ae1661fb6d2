package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"tzbundle/internal/bundle"
	"tzbundle/internal/config"
	"tzbundle/internal/database"
	"tzbundle/internal/fetch"
	"tzbundle/internal/output"
	"tzbundle/internal/tzdata"
)

// Output artifact names inside the configured output directory.
const (
	JSONFileName   = "combined.json"
	SQLiteFileName = "combined.sqlite"
)

// App is the application layer between the CLI and the bundle service.
// It constructs all dependencies from config and manages the log file
// lifecycle on Close.
type App struct {
	cfg     *config.Config
	service *bundle.Service
	fetcher *fetch.Client
	logger  tzdata.Logger
	logFile *os.File
}

// NewApp creates a fully wired App from the given config. operation
// identifies the CLI command being run (e.g. "Fetch", "Build") and tags
// every log line of the run. The caller must call Close when done.
func NewApp(cfg *config.Config, operation string) (*App, error) {
	runID := time.Now().UTC().Format("20060102T150405Z") + "-" + operation
	logger, logFile, err := newLogger(cfg.LogDir, runID)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	adapter := &slogAdapter{l: logger}

	svc := bundle.NewService(adapter, bundle.RealClock{}, bundle.UUIDGenerator{})
	fetcher := &fetch.Client{
		ArchiveURL:      cfg.Fetch.ArchiveURL,
		WindowsZonesURL: cfg.Fetch.WindowsZonesURL,
	}

	return &App{
		cfg:     cfg,
		service: svc,
		fetcher: fetcher,
		logger:  adapter,
		logFile: logFile,
	}, nil
}

// Fetch downloads the tzdata release and the Windows zone mapping into the
// configured input directory.
func (a *App) Fetch(ctx context.Context) error {
	return a.fetcher.FetchInto(ctx, a.cfg.InputDir, a.logger)
}

// Build parses the input directory and writes combined.json and
// combined.sqlite into the output directory. It returns the build result
// so the CLI can report zone counts and the release version.
func (a *App) Build() (*bundle.Result, error) {
	res, err := a.service.Build(a.cfg.InputDir)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(a.cfg.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	jsonPath := filepath.Join(a.cfg.OutputDir, JSONFileName)
	if err := output.WriteJSONFile(jsonPath, res.Bundle); err != nil {
		return nil, err
	}
	a.logger.Info("wrote json output", "path", jsonPath)

	sqlitePath := filepath.Join(a.cfg.OutputDir, SQLiteFileName)
	// Rebuild from scratch so stale rows from a previous release never
	// survive into the new bundle.
	if err := os.Remove(sqlitePath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("removing previous sqlite bundle: %w", err)
	}
	writer, err := database.NewSQLiteWriter(sqlitePath)
	if err != nil {
		return nil, err
	}
	defer writer.Close()

	if err := writer.WriteBundle(res.Bundle, res.BuildID, res.BuiltAt); err != nil {
		return nil, fmt.Errorf("writing sqlite bundle: %w", err)
	}
	a.logger.Info("wrote sqlite output", "path", sqlitePath)

	return res, nil
}

// Version reads the tzdata release identifier from the input directory.
func (a *App) Version() string {
	return tzdata.ReadVersion(a.cfg.InputDir, a.logger)
}

// Close releases resources held by the App.
func (a *App) Close() error {
	if a.logFile != nil {
		return a.logFile.Close()
	}
	return nil
}
