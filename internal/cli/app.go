// Package cli wires configuration, logging, storage and the food matcher
// together and exposes them as cobra commands.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/sadopc/nannylog/internal/config"
	"github.com/sadopc/nannylog/internal/dates"
	"github.com/sadopc/nannylog/internal/food"
	"github.com/sadopc/nannylog/internal/logging"
	"github.com/sadopc/nannylog/internal/store"
	"github.com/sadopc/nannylog/internal/weather"
)

// App carries the dependencies every command and the TUI share.
type App struct {
	Config  *config.Config
	Log     *slog.Logger
	Repos   *store.Repos
	Matcher *food.Matcher
	Weather *weather.Client // nil when disabled
	Now     func() time.Time
}

// Today is the local calendar day.
func (a *App) Today() string {
	return dates.Key(a.Now())
}

// Opener builds an App from a config path and returns its cleanup.
type Opener func(configPath string) (*App, func(), error)

// Open is the production Opener: SQLite store, file logger, configured
// taxonomy and weather client.
func Open(configPath string) (*App, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	logger, logCloser, err := logging.New(logging.Options{
		File:   cfg.Logging.File,
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		return nil, nil, err
	}
	slog.SetDefault(logger)

	s, err := store.New(cfg.Database.Path, logger)
	if err != nil {
		logCloser.Close()
		return nil, nil, fmt.Errorf("error opening database: %w", err)
	}

	tax := food.DefaultTaxonomy()
	if cfg.Food.Taxonomy != "" {
		tax, err = food.LoadTaxonomyFile(cfg.Food.Taxonomy)
		if err != nil {
			s.Close()
			logCloser.Close()
			return nil, nil, err
		}
	}

	app := &App{
		Config:  cfg,
		Log:     logger,
		Repos:   store.NewRepos(s, logger),
		Matcher: food.NewMatcher(tax),
		Now:     time.Now,
	}
	if cfg.Weather.Enabled {
		app.Weather = weather.NewClient(weather.Options{
			BaseURL:   cfg.Weather.BaseURL,
			Latitude:  cfg.Weather.Latitude,
			Longitude: cfg.Weather.Longitude,
			Timeout:   cfg.Weather.Timeout,
			Logger:    logger,
		})
	}
	logger.Info("nannylog started", "db", cfg.Database.Path, "foods", len(tax.Foods))

	cleanup := func() {
		closeAll(logger, s, logCloser)
	}
	return app, cleanup, nil
}

func closeAll(logger *slog.Logger, closers ...io.Closer) {
	var errs []error
	for _, c := range closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		logger.Warn("shutdown", "error", err)
	}
}
