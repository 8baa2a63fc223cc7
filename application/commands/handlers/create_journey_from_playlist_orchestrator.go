package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"edutube/application/commands"
	"edutube/application/ports"
	"edutube/application/sagas"
	"edutube/domain/config"
	"edutube/domain/core/entities"
	"edutube/domain/events"
	pkgerrors "edutube/pkg/errors"

	"go.uber.org/zap"
)

// CreateJourneyFromPlaylistOrchestrator materializes a journey and its
// ordered chapters from an external playlist, then hands every video link to
// the enrichment queue as a single job.
//
// Both catalog fetches happen before anything is written. If a write fails
// part way, the journey and the chapters inserted so far are removed.
type CreateJourneyFromPlaylistOrchestrator struct {
	journeys  ports.JourneyRepository
	chapters  ports.ChapterRepository
	source    ports.PlaylistSource
	queue     ports.EnrichmentQueue
	publisher ports.EventPublisher
	onImport  func(ctx context.Context)
	attempts  int
	backoff   time.Duration
	logger    *zap.Logger
}

// Catalog fetches are read-only, so unavailable sources are retried.
const (
	defaultFetchAttempts = 2
	defaultFetchBackoff  = 500 * time.Millisecond
)

// NewCreateJourneyFromPlaylistOrchestrator creates a new orchestrator instance
func NewCreateJourneyFromPlaylistOrchestrator(
	store ports.Store,
	source ports.PlaylistSource,
	queue ports.EnrichmentQueue,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *CreateJourneyFromPlaylistOrchestrator {
	return &CreateJourneyFromPlaylistOrchestrator{
		journeys:  store.Journeys(),
		chapters:  store.Chapters(),
		source:    source,
		queue:     queue,
		publisher: publisher,
		attempts:  defaultFetchAttempts,
		backoff:   defaultFetchBackoff,
		logger:    logger,
	}
}

// WithFetchRetry sets how often a failed catalog fetch is attempted and the
// pause between attempts.
func (o *CreateJourneyFromPlaylistOrchestrator) WithFetchRetry(attempts int, backoff time.Duration) *CreateJourneyFromPlaylistOrchestrator {
	o.attempts = attempts
	o.backoff = backoff
	return o
}

// OnImport registers a hook run after a successful import, used to drop
// cached listings.
func (o *CreateJourneyFromPlaylistOrchestrator) OnImport(fn func(ctx context.Context)) {
	o.onImport = fn
}

// playlistImport is the state shared by the import saga steps.
type playlistImport struct {
	cmd        commands.CreateJourneyFromPlaylistCommand
	metadata   ports.PlaylistMetadata
	items      []ports.PlaylistItem
	journeyID  string
	chapterIDs []string
	videoLinks []string
}

// Handle runs the import and returns the new journey id.
func (o *CreateJourneyFromPlaylistOrchestrator) Handle(ctx context.Context, cmd commands.CreateJourneyFromPlaylistCommand) (string, error) {
	if err := cmd.Validate(); err != nil {
		return "", err
	}

	state := &playlistImport{cmd: cmd}
	saga := sagas.New[*playlistImport]("import_playlist", o.logger).
		AddStep(o.fetchStep("fetch_metadata", o.fetchMetadata)).
		AddStep(o.fetchStep("fetch_items", o.fetchItems)).
		CompensableStep("create_journey", o.createJourney, o.removeJourney).
		Step("create_chapters", o.createChapters)

	if err := saga.Execute(ctx, state); err != nil {
		return "", err
	}

	o.logger.Info("Playlist imported",
		zap.String("playlist_id", cmd.PlaylistID),
		zap.String("journey_id", state.journeyID),
		zap.Int("chapters", len(state.chapterIDs)),
	)

	job := ports.EnrichmentJob{JourneyID: state.journeyID, VideoLinks: state.videoLinks}
	if err := o.queue.Submit(job); err != nil {
		o.logger.Warn("Enrichment job rejected",
			zap.String("journey_id", state.journeyID),
			zap.Int("links", len(state.videoLinks)),
			zap.Error(err),
		)
	}

	event := events.NewPlaylistImported(state.journeyID, cmd.PlaylistID, cmd.UserID, len(state.chapterIDs), time.Now().UTC())
	if err := o.publisher.Publish(ctx, event); err != nil {
		o.logger.Warn("Failed to publish import event", zap.String("journey_id", state.journeyID), zap.Error(err))
	}
	if o.onImport != nil {
		o.onImport(ctx)
	}

	return state.journeyID, nil
}

func (o *CreateJourneyFromPlaylistOrchestrator) fetchStep(name string, fetch func(context.Context, *playlistImport) error) sagas.Step[*playlistImport] {
	return sagas.Step[*playlistImport]{
		Name:       name,
		Execute:    fetch,
		MaxRetries: o.attempts,
		RetryDelay: o.backoff,
		RetryIf:    pkgerrors.IsSourceUnavailable,
	}
}

func (o *CreateJourneyFromPlaylistOrchestrator) fetchMetadata(ctx context.Context, s *playlistImport) error {
	meta, err := o.source.FetchPlaylistMetadata(ctx, s.cmd.PlaylistID)
	if err != nil {
		return err
	}
	s.metadata = meta
	return nil
}

func (o *CreateJourneyFromPlaylistOrchestrator) fetchItems(ctx context.Context, s *playlistImport) error {
	items, err := o.source.FetchPlaylistItems(ctx, s.cmd.PlaylistID)
	if err != nil {
		return err
	}
	s.items = items
	return nil
}

func (o *CreateJourneyFromPlaylistOrchestrator) createJourney(ctx context.Context, s *playlistImport) error {
	journey := entities.NewJourney(s.metadata.Title, s.metadata.Description, s.cmd.IsPublic, s.cmd.UserID)
	id, err := o.journeys.Insert(ctx, journey)
	if err != nil {
		return fmt.Errorf("failed to create journey: %w", err)
	}
	s.journeyID = id
	return nil
}

func (o *CreateJourneyFromPlaylistOrchestrator) createChapters(ctx context.Context, s *playlistImport) error {
	for _, item := range s.items {
		position := item.Position
		if position == 0 {
			position = config.DefaultDomainConfig().DefaultChapterNo
		}
		chapter := entities.NewChapter(s.journeyID, item.Title, item.Description, item.VideoLink, "", position)
		id, err := o.chapters.Insert(ctx, chapter)
		if err != nil {
			return fmt.Errorf("failed to create chapter %d: %w", position, err)
		}
		s.chapterIDs = append(s.chapterIDs, id)
		s.videoLinks = append(s.videoLinks, item.VideoLink)
	}
	return nil
}

// removeJourney undoes createJourney along with any chapters inserted after
// it. Every delete is attempted; failures are logged and returned together.
func (o *CreateJourneyFromPlaylistOrchestrator) removeJourney(ctx context.Context, s *playlistImport) error {
	var errs []error
	for _, id := range s.chapterIDs {
		if _, err := o.chapters.Delete(ctx, id); err != nil {
			o.logger.Error("Failed to remove imported chapter",
				zap.String("journey_id", s.journeyID),
				zap.String("chapter_id", id),
				zap.Error(err),
			)
			errs = append(errs, fmt.Errorf("failed to remove chapter %s: %w", id, err))
		}
	}
	if _, err := o.journeys.DeleteOwned(ctx, s.journeyID, s.cmd.UserID); err != nil {
		errs = append(errs, fmt.Errorf("failed to remove journey %s: %w", s.journeyID, err))
	}
	return errors.Join(errs...)
}
