package di

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edutube/infrastructure/config"
)

func TestInitializeContainer_MemoryDriver(t *testing.T) {
	// Arrange
	ctx := context.Background()
	cfg := config.Default()

	// Act
	container, err := InitializeContainer(ctx, cfg)
	require.NoError(t, err)
	require.NoError(t, container.Start(ctx))

	rec := httptest.NewRecorder()
	container.Router.Setup().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	// Assert
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, container.Shutdown(ctx))
	assert.Error(t, container.Store.Ping(ctx))
}

func TestInitializeContainer_UnknownDriver(t *testing.T) {
	cfg := config.Default()
	cfg.StoreDriver = "sqlite"

	_, err := InitializeContainer(context.Background(), cfg)

	assert.Error(t, err)
}

func TestProvideTokenService_ProductionNeedsSecret(t *testing.T) {
	cfg := config.Default()
	cfg.Environment = "production"

	logger, err := ProvideLogger(cfg)
	require.NoError(t, err)
	_, err = ProvideTokenService(cfg, logger)

	assert.Error(t, err)
}
