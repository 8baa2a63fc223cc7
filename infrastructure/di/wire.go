//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"

	"edutube/infrastructure/config"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideAWSConfig,
	ProvideStore,
	ProvideCache,
	ProvideYouTubeClient,
	ProvidePlaylistSource,
	ProvideContentEnricher,
	ProvideChatCompleter,
	ProvideEventPublisher,
	ProvideMetrics,
	ProvideTracer,
	ProvideEnrichmentWorker,
	ProvideEnrichmentQueue,
	ProvideTokenService,
	ProvideErrorHandler,
	ProvideJourneyService,
	ProvideChapterService,
	ProvideNoteService,
	ProvideUserService,
	ProvideChatbotService,
	ProvideForkJourneyHandler,
	ProvidePlaylistOrchestrator,
	ProvideCommandBus,
	ProvideRouterOptions,
	ProvideRouter,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}
