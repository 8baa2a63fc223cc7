package workers

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"edutube/application/ports"
	"edutube/domain/config"
	"edutube/domain/core/entities"
	"edutube/domain/events"
	"edutube/pkg/observability"
)

var (
	// ErrQueueFull is returned by Submit when the job buffer is full.
	ErrQueueFull = errors.New("enrichment queue is full")
	// ErrWorkerStopped is returned by Submit after Stop.
	ErrWorkerStopped = errors.New("enrichment worker is stopped")

	errNoVideo   = errors.New("chapter has no video")
	errUnmatched = errors.New("no unenriched chapter with this video link")
)

// Enrichment outcomes reported to metrics.
const (
	OutcomeEnriched  = "enriched"
	OutcomeNoVideo   = "no_video"
	OutcomeFailed    = "failed"
	OutcomeUnmatched = "unmatched"
)

// Config tunes the worker.
type Config struct {
	QueueSize     int
	RatePerSecond float64
	Timeout       time.Duration
}

// EnrichmentWorker derives supplementary content for imported chapters. A
// single goroutine drains the job queue, so calls to the content source are
// serialized across all jobs. Items of a job are processed in order and a
// failing item never stops the rest.
type EnrichmentWorker struct {
	chapters  ports.ChapterRepository
	enricher  ports.ContentEnricher
	publisher ports.EventPublisher
	metrics   ports.EnrichmentMetrics
	tracer    *observability.Tracer
	limiter   *rate.Limiter
	timeout   time.Duration
	noVideo   string
	logger    *zap.Logger

	mu      sync.Mutex
	jobs    chan ports.EnrichmentJob
	started bool
	stopped bool
	done    chan struct{}
}

// NewEnrichmentWorker creates a worker; call Start to begin processing.
// metrics and tracer may be nil.
func NewEnrichmentWorker(
	cfg Config,
	chapters ports.ChapterRepository,
	enricher ports.ContentEnricher,
	publisher ports.EventPublisher,
	metrics ports.EnrichmentMetrics,
	tracer *observability.Tracer,
	logger *zap.Logger,
) *EnrichmentWorker {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}

	return &EnrichmentWorker{
		chapters:  chapters,
		enricher:  enricher,
		publisher: publisher,
		metrics:   metrics,
		tracer:    tracer,
		limiter:   rate.NewLimiter(limit, 1),
		timeout:   cfg.Timeout,
		noVideo:   config.DefaultDomainConfig().NoVideoLink,
		logger:    logger,
		jobs:      make(chan ports.EnrichmentJob, cfg.QueueSize),
		done:      make(chan struct{}),
	}
}

// Start launches the processing goroutine. Cancelling ctx does not stop
// processing; use Stop.
func (w *EnrichmentWorker) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started || w.stopped {
		return
	}
	w.started = true

	go w.run(context.WithoutCancel(ctx))
	w.logger.Info("Enrichment worker started", zap.Int("queue_size", cap(w.jobs)))
}

// Submit enqueues a job without blocking.
func (w *EnrichmentWorker) Submit(job ports.EnrichmentJob) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return ErrWorkerStopped
	}

	select {
	case w.jobs <- job:
		w.recordDepth(len(w.jobs))
		return nil
	default:
		return ErrQueueFull
	}
}

// Stop closes intake and waits for queued jobs to finish, or for ctx to end.
func (w *EnrichmentWorker) Stop(ctx context.Context) error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	close(w.jobs)
	started := w.started
	w.mu.Unlock()

	if !started {
		return nil
	}

	select {
	case <-w.done:
		w.logger.Info("Enrichment worker stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("enrichment worker did not drain: %w", ctx.Err())
	}
}

func (w *EnrichmentWorker) run(ctx context.Context) {
	defer close(w.done)
	for job := range w.jobs {
		w.recordDepth(len(w.jobs))
		_ = w.tracer.TraceSegment(ctx, "enrichment", func(ctx context.Context) error {
			w.process(ctx, job)
			return nil
		})
	}
}

func (w *EnrichmentWorker) process(ctx context.Context, job ports.EnrichmentJob) {
	w.tracer.AddAnnotation(ctx, "journey_id", job.JourneyID)

	enriched, failed := 0, 0
	for i, link := range job.VideoLinks {
		outcome, err := w.processItem(ctx, job.JourneyID, link)
		w.recordOutcome(ctx, outcome)
		if err != nil {
			failed++
			w.logger.Warn("Enrichment item failed",
				zap.String("journey_id", job.JourneyID),
				zap.Int("index", i),
				zap.String("video_link", link),
				zap.String("outcome", outcome),
				zap.Error(err),
			)
			continue
		}
		enriched++
	}

	w.logger.Info("Enrichment job finished",
		zap.String("journey_id", job.JourneyID),
		zap.Int("enriched", enriched),
		zap.Int("failed", failed),
	)

	if w.publisher != nil {
		event := events.NewEnrichmentCompleted(job.JourneyID, enriched, failed, time.Now().UTC())
		if err := w.publisher.Publish(ctx, event); err != nil {
			w.logger.Warn("Failed to publish enrichment event", zap.String("journey_id", job.JourneyID), zap.Error(err))
		}
	}
}

func (w *EnrichmentWorker) processItem(ctx context.Context, journeyID, link string) (string, error) {
	if link == "" || link == w.noVideo {
		return OutcomeNoVideo, errNoVideo
	}

	if err := w.limiter.Wait(ctx); err != nil {
		return OutcomeFailed, err
	}

	var content string
	err := w.tracer.TraceFunction(ctx, "enrich", func(ctx context.Context) error {
		callCtx, cancel := context.WithTimeout(ctx, w.timeout)
		defer cancel()
		var err error
		content, err = w.enricher.Enrich(callCtx, link)
		return err
	})
	if err != nil {
		return OutcomeFailed, fmt.Errorf("failed to derive content: %w", err)
	}

	chapter, err := w.findChapter(ctx, journeyID, link)
	if err != nil {
		return OutcomeFailed, err
	}
	if chapter == nil {
		return OutcomeUnmatched, errUnmatched
	}

	now := time.Now().UTC()
	ok, err := w.chapters.Update(ctx, chapter.ID, entities.ChapterPatch{
		Transcript: &content,
		EnrichedAt: &now,
	})
	if err != nil {
		return OutcomeFailed, fmt.Errorf("failed to store content: %w", err)
	}
	if !ok {
		return OutcomeUnmatched, errUnmatched
	}
	return OutcomeEnriched, nil
}

// findChapter returns the first chapter of the journey, in display order,
// with this link and no content yet.
func (w *EnrichmentWorker) findChapter(ctx context.Context, journeyID, link string) (*entities.Chapter, error) {
	chapters, err := w.chapters.ListByJourney(ctx, journeyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chapters: %w", err)
	}
	for _, ch := range chapters {
		if ch.VideoLink == link && !ch.IsEnriched() {
			return ch, nil
		}
	}
	return nil, nil
}

func (w *EnrichmentWorker) recordOutcome(ctx context.Context, outcome string) {
	if w.metrics != nil {
		w.metrics.RecordEnrichment(ctx, outcome)
	}
}

func (w *EnrichmentWorker) recordDepth(depth int) {
	if w.metrics != nil {
		w.metrics.RecordQueueDepth(depth)
	}
}

var _ ports.EnrichmentQueue = (*EnrichmentWorker)(nil)
