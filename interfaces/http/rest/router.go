package rest

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"edutube/interfaces/http/rest/handlers"
	"edutube/interfaces/http/rest/middleware"
	"edutube/pkg/auth"
	"edutube/pkg/common"
	pkgerrors "edutube/pkg/errors"
	"edutube/pkg/observability"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterOptions holds the cross-cutting settings of the HTTP surface.
type RouterOptions struct {
	AllowedOrigins     []string
	RateLimitPerMinute int
}

// Router creates and configures the HTTP router
type Router struct {
	journeys *handlers.JourneyHandler
	chapters *handlers.ChapterHandler
	notes    *handlers.NoteHandler
	users    *handlers.UserHandler
	chatbot  *handlers.ChatbotHandler

	tokens  middleware.TokenValidator
	store   Pinger
	errors  *pkgerrors.ErrorHandler
	metrics *observability.Metrics
	tracer  *observability.Tracer
	options RouterOptions
	logger  *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	journeys *handlers.JourneyHandler,
	chapters *handlers.ChapterHandler,
	notes *handlers.NoteHandler,
	users *handlers.UserHandler,
	chatbot *handlers.ChatbotHandler,
	tokens middleware.TokenValidator,
	store Pinger,
	errs *pkgerrors.ErrorHandler,
	metrics *observability.Metrics,
	tracer *observability.Tracer,
	options RouterOptions,
	logger *zap.Logger,
) *Router {
	return &Router{
		journeys: journeys,
		chapters: chapters,
		notes:    notes,
		users:    users,
		chatbot:  chatbot,
		tokens:   tokens,
		store:    store,
		errors:   errs,
		metrics:  metrics,
		tracer:   tracer,
		options:  options,
		logger:   logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(rt.errors.Middleware)
	router.Use(middleware.Logger(rt.logger))
	if rt.metrics != nil {
		router.Use(middleware.Metrics(rt.metrics))
	}
	router.Use(rt.tracer.Middleware)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rt.options.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if rt.options.RateLimitPerMinute > 0 {
		limiter := auth.NewIPRateLimiter(rt.options.RateLimitPerMinute)
		router.Use(middleware.RateLimit(limiter, rt.options.RateLimitPerMinute, rt.errors))
	}

	router.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		common.RespondMessage(w, "This api is working")
	})
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	if rt.metrics != nil {
		router.Method(http.MethodGet, "/metrics", rt.metrics.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		// Public endpoints
		r.Get("/journeys/public", rt.journeys.ListPublic)
		r.Post("/users/register", rt.users.Register)
		r.Post("/users/login", rt.users.Login)
		r.Get("/users", rt.users.ListUsers)
		r.Post("/chatbot/chat", rt.chatbot.Chat)
		r.Get("/chatbot/health", rt.chatbot.Health)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(rt.tokens, rt.errors, rt.logger))

			r.Get("/users/profile", rt.users.Profile)

			r.Route("/journeys", func(r chi.Router) {
				r.Post("/", rt.journeys.CreateJourney)
				r.Get("/", rt.journeys.ListJourneys)
				r.Post("/playlist", rt.journeys.CreateFromPlaylist)

				// Older clients reach chapters under the journeys prefix.
				r.Route("/chapters", rt.chapterRoutes)

				r.Route("/{journeyID}", func(r chi.Router) {
					r.Get("/", rt.journeys.GetJourney)
					r.Put("/", rt.journeys.UpdateJourney)
					r.Delete("/", rt.journeys.DeleteJourney)
					r.Post("/fork", rt.journeys.ForkJourney)

					r.Post("/chapters", rt.chapters.CreateChapter)
					r.Get("/chapters", rt.chapters.ListChapters)
					r.Post("/chapters/{chapterID}/notes", rt.notes.CreateNote)
					r.Get("/notes", rt.notes.ListJourneyNotes)
				})
			})

			r.Route("/chapters", rt.chapterRoutes)

			r.Route("/notes", func(r chi.Router) {
				r.Get("/{noteID}", rt.notes.GetNote)
				r.Put("/{noteID}", rt.notes.UpdateNote)
				r.Delete("/{noteID}", rt.notes.DeleteNote)
			})
		})
	})

	return router
}

func (rt *Router) chapterRoutes(r chi.Router) {
	r.Put("/isComplete/{chapterID}", rt.chapters.CompleteChapter)
	r.Get("/{chapterID}", rt.chapters.GetChapter)
	r.Put("/{chapterID}", rt.chapters.UpdateChapter)
	r.Delete("/{chapterID}", rt.chapters.DeleteChapter)
	r.Get("/{chapterID}/notes", rt.notes.ListChapterNotes)
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, _ *http.Request) {
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// readinessCheck reports ready only when the store answers.
func (rt *Router) readinessCheck(w http.ResponseWriter, r *http.Request) {
	if err := rt.store.Ping(r.Context()); err != nil {
		rt.logger.Warn("Readiness check failed", zap.Error(err))
		common.RespondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
