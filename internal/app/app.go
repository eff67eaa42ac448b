// Package app provides the application initialization and lifecycle management
package app

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/ilies38/Cityreport2/internal/config"
	"github.com/ilies38/Cityreport2/internal/database"
	"github.com/ilies38/Cityreport2/internal/loggy"
	"github.com/ilies38/Cityreport2/internal/remote"
	"github.com/ilies38/Cityreport2/internal/report"
	"github.com/ilies38/Cityreport2/internal/sync"
)

// App represents the application instance with its dependencies
type App struct {
	Config    *config.Config
	Settings  *config.SettingsService
	Reports   *report.Service
	Gateway   *remote.HTTPGateway
	Sync      *sync.Service
	Scheduler *sync.Scheduler
}

// New initializes a new application instance with all its dependencies
func New() (*App, error) {
	cfg, err := initConfig()
	if err != nil {
		return nil, err
	}

	if err := initLogger(cfg); err != nil {
		return nil, err
	}

	loggy.Info("Application initializing",
		"version", os.Getenv("VERSION"),
		"log_level", cfg.Logging.Level,
	)

	if err := database.InitDB(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	db, err := database.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}

	app, err := initServices(cfg, db)
	if err != nil {
		return nil, err
	}

	loggy.Info("Application initialized successfully")
	return app, nil
}

// initConfig loads and sets up the application configuration
func initConfig() (*config.Config, error) {
	cfg, err := config.LoadFromEnv("", "")
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	// Set the global configuration
	config.Set(cfg)
	return cfg, nil
}

// initLogger initializes the logging system
func initLogger(cfg *config.Config) error {
	err := loggy.Init(loggy.Config{
		Level:      config.ParseLogLevel(cfg.Logging.Level),
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		AddSource:  cfg.Logging.AddSource,
		TimeFormat: cfg.Logging.TimeFormat,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// initServices initializes all application services
func initServices(cfg *config.Config, db *sql.DB) (*App, error) {
	logger := loggy.GetGlobalLogger()
	ctx := context.Background()

	settingsService := config.NewSettingsService(db, cfg, logger)
	if err := settingsService.LoadPersistedSettings(ctx); err != nil {
		loggy.Warn("Failed to load persisted settings from database", "error", err)
		// Continue anyway, using defaults
	}

	// The gateway is only built when the remote side is enabled; the app
	// works fully offline without it.
	var gateway *remote.HTTPGateway
	var gw remote.Gateway
	var uploader report.PhotoUploader
	if cfg.Remote.Enabled {
		g, err := remote.NewHTTPGateway(cfg.Remote, cfg.Storage, logger)
		if err != nil {
			loggy.Warn("Failed to initialize remote gateway, working offline", "error", err)
		} else {
			gateway = g
			gw = g
			uploader = g
		}
	}

	reportService := report.NewService(db, uploader, logger)

	syncService := sync.NewService(
		reportService,
		gw,
		sync.NewSQLRepository(db, logger),
		cfg,
		logger,
	)

	scheduler := sync.NewScheduler(syncService, cfg.Sync.Interval, cfg.Sync.MaxBackoffs, logger)

	return &App{
		Config:    cfg,
		Settings:  settingsService,
		Reports:   reportService,
		Gateway:   gateway,
		Sync:      syncService,
		Scheduler: scheduler,
	}, nil
}

// Shutdown gracefully shuts down the application
func (app *App) Shutdown() error {
	loggy.Info("Shutting down application")

	if app.Scheduler != nil {
		app.Scheduler.Stop()
	}

	if err := database.CloseDB(); err != nil {
		loggy.Error("Error closing database connection", "error", err)
	}

	return nil
}

// FromContext retrieves the App instance from the CLI context
func FromContext(c *cli.Context) (*App, error) {
	if c.App.Metadata == nil {
		return nil, fmt.Errorf("app metadata not found in context")
	}

	app, ok := c.App.Metadata["app"].(*App)
	if !ok {
		return nil, fmt.Errorf("app instance not found in context")
	}

	return app, nil
}
