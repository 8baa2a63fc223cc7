package di

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"edutube/application/ports"
	"edutube/application/workers"
	"edutube/infrastructure/config"
	"edutube/interfaces/http/rest"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *zap.Logger
	Store  ports.Store
	Worker *workers.EnrichmentWorker
	Router *rest.Router
}

// Start opens the store and starts background processing.
func (c *Container) Start(ctx context.Context) error {
	if err := c.Store.Open(ctx); err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	c.Worker.Start(ctx)
	return nil
}

// Shutdown drains the worker before closing the store.
func (c *Container) Shutdown(ctx context.Context) error {
	if err := c.Worker.Stop(ctx); err != nil {
		c.Logger.Warn("Enrichment worker did not drain", zap.Error(err))
	}
	if err := c.Store.Close(ctx); err != nil {
		return fmt.Errorf("failed to close store: %w", err)
	}
	return nil
}
