// Package app composes the application's dependencies.
//
// It owns the lifecycle of:
//   - configuration
//   - logger + optional New Relic service
//   - database pool
//   - repositories and services built on that pool
package app

import (
	"context"
	"fmt"

	"github.com/deppfellow/usercrud/internal/config"
	"github.com/deppfellow/usercrud/internal/database"
	loggerPkg "github.com/deppfellow/usercrud/internal/logger"
	"github.com/deppfellow/usercrud/internal/repository"
	"github.com/deppfellow/usercrud/internal/service"
	"github.com/rs/zerolog"
)

// App is the application container that holds shared resources.
type App struct {
	Config        *config.Config
	Logger        *zerolog.Logger
	LoggerService *loggerPkg.LoggerService
	DB            *database.Database
	Repositories  *repository.Repositories
	Services      *service.Services
}

// New connects to the database and wires repositories and services on top
// of the pool.
func New(ctx context.Context, cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*App, error) {
	db, err := database.New(ctx, cfg, logger, loggerService)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	repos := repository.NewRepositories(db.Pool)

	return &App{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
		DB:            db,
		Repositories:  repos,
		Services:      service.NewServices(repos),
	}, nil
}

// Close releases the pool and flushes telemetry.
func (a *App) Close() error {
	if err := a.DB.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}
	a.LoggerService.Shutdown()
	return nil
}
