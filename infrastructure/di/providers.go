package di

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"

	"edutube/application/commands"
	"edutube/application/commands/bus"
	cmdhandlers "edutube/application/commands/handlers"
	"edutube/application/ports"
	"edutube/application/services"
	"edutube/application/workers"
	"edutube/infrastructure/cache"
	"edutube/infrastructure/config"
	"edutube/infrastructure/gemini"
	"edutube/infrastructure/messaging/eventbridge"
	"edutube/infrastructure/persistence/dynamodb"
	"edutube/infrastructure/persistence/memory"
	"edutube/infrastructure/youtube"
	"edutube/interfaces/http/rest"
	"edutube/interfaces/http/rest/handlers"
	"edutube/pkg/auth"
	pkgerrors "edutube/pkg/errors"
	"edutube/pkg/observability"
)

const serviceName = "edutube-api"

// devJWTSecret signs tokens outside production when JWT_SECRET is unset.
const devJWTSecret = "edutube-development-secret"

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var logger *zap.Logger
	var err error

	if cfg.IsProduction() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}

	if err != nil {
		return nil, err
	}

	return logger, nil
}

// ProvideAWSConfig creates AWS configuration. Loading does not contact AWS,
// so it is safe for the memory driver too.
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideStore selects the entity store driver.
func ProvideStore(cfg *config.Config, awsCfg aws.Config, logger *zap.Logger) (ports.Store, error) {
	switch cfg.StoreDriver {
	case config.StoreMemory:
		logger.Info("Using in-memory store")
		return memory.NewStore(), nil
	case config.StoreDynamoDB:
		client := awsdynamodb.NewFromConfig(awsCfg, func(o *awsdynamodb.Options) {
			if cfg.DynamoDBEndpoint != "" {
				o.BaseEndpoint = aws.String(cfg.DynamoDBEndpoint)
			}
		})
		logger.Info("Using DynamoDB store", zap.String("table", cfg.DynamoDBTable))
		return dynamodb.NewStore(client, cfg.DynamoDBTable, logger), nil
	default:
		return nil, fmt.Errorf("unknown store driver: %s", cfg.StoreDriver)
	}
}

// ProvideCache creates the in-process cache shared by the catalog client
// and the public journey listing.
func ProvideCache(cfg *config.Config) ports.Cache {
	return cache.NewMemoryCache(cfg.PlaylistCacheTTL, 2*cfg.PlaylistCacheTTL)
}

// ProvideYouTubeClient creates the playlist catalog client.
func ProvideYouTubeClient(cfg *config.Config, c ports.Cache, logger *zap.Logger) *youtube.Client {
	client := youtube.NewClient(youtube.Config{
		APIKey:   cfg.YouTubeAPIKey,
		BaseURL:  cfg.YouTubeBaseURL,
		CacheTTL: cfg.PlaylistCacheTTL,
	}, c, logger)
	if client.Offline() {
		logger.Warn("YT_KEY not set, playlist imports use demo data")
	}
	return client
}

// ProvidePlaylistSource exposes the catalog client as a playlist source.
func ProvidePlaylistSource(client *youtube.Client) ports.PlaylistSource {
	return client
}

// ProvideContentEnricher creates the transcript enricher.
func ProvideContentEnricher(client *youtube.Client) ports.ContentEnricher {
	return youtube.NewTranscriptEnricher(client)
}

// ProvideChatCompleter creates the Gemini client.
func ProvideChatCompleter(cfg *config.Config, logger *zap.Logger) ports.ChatCompleter {
	return gemini.NewClient(gemini.Config{
		APIKey: cfg.GeminiAPIKey,
		Model:  cfg.GeminiModel,
	}, logger)
}

// ProvideEventPublisher publishes to EventBridge when events are enabled and
// to the log otherwise.
func ProvideEventPublisher(cfg *config.Config, awsCfg aws.Config, logger *zap.Logger) ports.EventPublisher {
	if !cfg.EnableEvents {
		return eventbridge.NewLogPublisher(logger)
	}
	return eventbridge.NewPublisher(awseventbridge.NewFromConfig(awsCfg), cfg.EventBusName, logger)
}

// ProvideMetrics creates the Prometheus collectors. Enrichment outcomes are
// also sent to CloudWatch when metrics are enabled.
func ProvideMetrics(cfg *config.Config, awsCfg aws.Config, logger *zap.Logger) *observability.Metrics {
	var cw observability.PutMetricDataAPI
	if cfg.EnableMetrics {
		cw = awscloudwatch.NewFromConfig(awsCfg)
	}
	return observability.NewMetrics(cfg.CloudWatchNamespace, cw, logger)
}

// ProvideTracer creates the X-Ray tracer.
func ProvideTracer(cfg *config.Config) *observability.Tracer {
	return observability.NewTracer(serviceName, cfg.EnableTracing)
}

// ProvideEnrichmentWorker creates the background enrichment worker. It is
// started and stopped by the entry point.
func ProvideEnrichmentWorker(
	cfg *config.Config,
	store ports.Store,
	enricher ports.ContentEnricher,
	publisher ports.EventPublisher,
	metrics *observability.Metrics,
	tracer *observability.Tracer,
	logger *zap.Logger,
) *workers.EnrichmentWorker {
	return workers.NewEnrichmentWorker(workers.Config{
		QueueSize:     cfg.EnrichQueueSize,
		RatePerSecond: cfg.EnrichRatePerSecond,
		Timeout:       cfg.EnrichTimeout,
	}, store.Chapters(), enricher, publisher, metrics, tracer, logger)
}

// ProvideEnrichmentQueue exposes the worker as a job queue.
func ProvideEnrichmentQueue(worker *workers.EnrichmentWorker) ports.EnrichmentQueue {
	return worker
}

// ProvideTokenService creates the JWT service.
func ProvideTokenService(cfg *config.Config, logger *zap.Logger) (*auth.TokenService, error) {
	secret := cfg.JWTSecret
	if secret == "" && !cfg.IsProduction() {
		logger.Warn("JWT_SECRET not set, using development secret")
		secret = devJWTSecret
	}
	return auth.NewTokenService(auth.JWTConfig{
		SigningMethod: cfg.JWTAlgorithm,
		SecretKey:     secret,
		ExpiryTime:    cfg.JWTExpiry(),
	})
}

// ProvideErrorHandler creates the HTTP error renderer; details are shown
// outside production.
func ProvideErrorHandler(cfg *config.Config, logger *zap.Logger) *pkgerrors.ErrorHandler {
	return pkgerrors.NewErrorHandler(logger, cfg.IsDevelopment())
}

// ProvideJourneyService creates the journey service.
func ProvideJourneyService(cfg *config.Config, store ports.Store, c ports.Cache, logger *zap.Logger) *services.JourneyService {
	return services.NewJourneyService(store, c, cfg.PlaylistCacheTTL, logger)
}

// ProvideChapterService creates the chapter service.
func ProvideChapterService(store ports.Store, logger *zap.Logger) *services.ChapterService {
	return services.NewChapterService(store, logger)
}

// ProvideNoteService creates the note service.
func ProvideNoteService(store ports.Store, logger *zap.Logger) *services.NoteService {
	return services.NewNoteService(store, logger)
}

// ProvideUserService creates the account service.
func ProvideUserService(store ports.Store, tokens *auth.TokenService, logger *zap.Logger) *services.UserService {
	return services.NewUserService(store, tokens, logger)
}

// ProvideChatbotService creates the chatbot service.
func ProvideChatbotService(completer ports.ChatCompleter, logger *zap.Logger) *services.ChatbotService {
	return services.NewChatbotService(completer, logger)
}

// ProvideForkJourneyHandler creates the fork command handler.
func ProvideForkJourneyHandler(store ports.Store, publisher ports.EventPublisher, logger *zap.Logger) *cmdhandlers.ForkJourneyHandler {
	return cmdhandlers.NewForkJourneyHandler(store, publisher, logger)
}

// ProvidePlaylistOrchestrator creates the playlist import orchestrator.
// Imports drop the cached public listing.
func ProvidePlaylistOrchestrator(
	store ports.Store,
	source ports.PlaylistSource,
	queue ports.EnrichmentQueue,
	publisher ports.EventPublisher,
	journeys *services.JourneyService,
	logger *zap.Logger,
) *cmdhandlers.CreateJourneyFromPlaylistOrchestrator {
	orchestrator := cmdhandlers.NewCreateJourneyFromPlaylistOrchestrator(store, source, queue, publisher, logger)
	orchestrator.OnImport(journeys.InvalidatePublic)
	return orchestrator
}

// ProvideCommandBus registers the command handlers behind logging middleware.
func ProvideCommandBus(
	fork *cmdhandlers.ForkJourneyHandler,
	playlist *cmdhandlers.CreateJourneyFromPlaylistOrchestrator,
	logger *zap.Logger,
) (*bus.CommandBus, error) {
	commandBus := bus.NewCommandBus(bus.LoggingMiddleware(logger))
	if err := commandBus.Register(commands.ForkJourneyCommand{}, bus.HandlerFor(fork.Handle)); err != nil {
		return nil, err
	}
	if err := commandBus.Register(commands.CreateJourneyFromPlaylistCommand{}, bus.HandlerFor(playlist.Handle)); err != nil {
		return nil, err
	}
	return commandBus, nil
}

// ProvideRouterOptions derives the HTTP surface settings.
func ProvideRouterOptions(cfg *config.Config) rest.RouterOptions {
	return rest.RouterOptions{
		AllowedOrigins:     cfg.AllowedOrigins(),
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	}
}

// ProvideRouter assembles the HTTP router.
func ProvideRouter(
	journeys *services.JourneyService,
	chapters *services.ChapterService,
	notes *services.NoteService,
	users *services.UserService,
	chatbot *services.ChatbotService,
	commandBus *bus.CommandBus,
	tokens *auth.TokenService,
	store ports.Store,
	errs *pkgerrors.ErrorHandler,
	metrics *observability.Metrics,
	tracer *observability.Tracer,
	options rest.RouterOptions,
	logger *zap.Logger,
) *rest.Router {
	return rest.NewRouter(
		handlers.NewJourneyHandler(journeys, commandBus, errs, logger),
		handlers.NewChapterHandler(chapters, errs, logger),
		handlers.NewNoteHandler(notes, errs, logger),
		handlers.NewUserHandler(users, errs, logger),
		handlers.NewChatbotHandler(chatbot, errs, logger),
		tokens,
		store,
		errs,
		metrics,
		tracer,
		options,
		logger,
	)
}
