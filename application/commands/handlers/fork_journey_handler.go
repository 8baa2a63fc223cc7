package handlers

import (
	"context"
	"fmt"
	"time"

	"edutube/application/commands"
	"edutube/application/ports"
	"edutube/domain/core/entities"
	"edutube/domain/events"
	pkgerrors "edutube/pkg/errors"

	"go.uber.org/zap"
)

// ForkJourneyHandler deep-copies a journey, its chapters and its notes into
// a new private journey owned by the requester.
//
// The copy is written in three phases (journey, chapters, notes) without a
// transaction. Readers may observe the new journey with only some of its
// chapters, or with chapters but not yet notes, until Handle returns. A
// failure after the journey is written leaves the partial copy in place and
// still returns its id; the source is never mutated.
type ForkJourneyHandler struct {
	journeys  ports.JourneyRepository
	chapters  ports.ChapterRepository
	notes     ports.NoteRepository
	publisher ports.EventPublisher
	logger    *zap.Logger
}

// NewForkJourneyHandler creates a new handler instance
func NewForkJourneyHandler(
	store ports.Store,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *ForkJourneyHandler {
	return &ForkJourneyHandler{
		journeys:  store.Journeys(),
		chapters:  store.Chapters(),
		notes:     store.Notes(),
		publisher: publisher,
		logger:    logger,
	}
}

type forkResult struct {
	chapters int
	notes    int
	skipped  int
	complete bool
}

// Handle forks cmd.SourceJourneyID and returns the new journey id. The only
// hard failures are a missing source and a failed insert of the new journey.
func (h *ForkJourneyHandler) Handle(ctx context.Context, cmd commands.ForkJourneyCommand) (string, error) {
	if err := cmd.Validate(); err != nil {
		return "", err
	}

	source, err := h.journeys.GetByID(ctx, cmd.SourceJourneyID)
	if err != nil {
		return "", fmt.Errorf("failed to load source journey: %w", err)
	}
	if source == nil {
		return "", pkgerrors.NewNotFoundError("Journey")
	}

	fork := entities.NewJourney(entities.ForkTitle(source.Title), source.Description, false, cmd.UserID)
	newID, err := h.journeys.Insert(ctx, fork)
	if err != nil {
		return "", fmt.Errorf("failed to create forked journey: %w", err)
	}

	// The cascade runs to completion even if the caller goes away.
	cascadeCtx := context.WithoutCancel(ctx)
	result := forkResult{complete: true}

	chapterMap, err := h.copyChapters(cascadeCtx, source.ID, newID, &result)
	if err != nil {
		result.complete = false
		h.logger.Error("Fork chapter copy incomplete",
			zap.String("source_journey_id", source.ID),
			zap.String("journey_id", newID),
			zap.Error(err),
		)
	}

	if err := h.copyNotes(cascadeCtx, source.ID, newID, chapterMap, &result); err != nil {
		result.complete = false
		h.logger.Error("Fork note copy incomplete",
			zap.String("source_journey_id", source.ID),
			zap.String("journey_id", newID),
			zap.Error(err),
		)
	}

	h.logger.Info("Journey forked",
		zap.String("source_journey_id", source.ID),
		zap.String("journey_id", newID),
		zap.String("user_id", cmd.UserID),
		zap.Int("chapters", result.chapters),
		zap.Int("notes", result.notes),
		zap.Int("notes_skipped", result.skipped),
		zap.Bool("complete", result.complete),
	)

	event := events.NewJourneyForked(newID, source.ID, cmd.UserID,
		result.chapters, result.notes, result.skipped, result.complete, time.Now().UTC())
	if err := h.publisher.Publish(cascadeCtx, event); err != nil {
		h.logger.Warn("Failed to publish fork event", zap.String("journey_id", newID), zap.Error(err))
	}

	return newID, nil
}

// copyChapters copies the source chapters in display order and returns the
// old to new chapter id map built so far, even on error.
func (h *ForkJourneyHandler) copyChapters(ctx context.Context, sourceID, newID string, result *forkResult) (map[string]string, error) {
	mapping := make(map[string]string)

	chapters, err := h.chapters.ListByJourney(ctx, sourceID)
	if err != nil {
		return mapping, fmt.Errorf("failed to list source chapters: %w", err)
	}

	for _, ch := range chapters {
		copyID, err := h.chapters.Insert(ctx, ch.CopyTo(newID))
		if err != nil {
			return mapping, fmt.Errorf("failed to copy chapter %s: %w", ch.ID, err)
		}
		mapping[ch.ID] = copyID
		result.chapters++
	}
	return mapping, nil
}

// copyNotes copies every note of the source journey whose chapter was
// copied. Notes of unmapped chapters are skipped.
func (h *ForkJourneyHandler) copyNotes(ctx context.Context, sourceID, newID string, chapterMap map[string]string, result *forkResult) error {
	notes, err := h.notes.ListByJourney(ctx, sourceID)
	if err != nil {
		return fmt.Errorf("failed to list source notes: %w", err)
	}

	for _, n := range notes {
		newChapterID, ok := chapterMap[n.ChapterID]
		if !ok {
			result.skipped++
			continue
		}
		// only content carries over; the title takes the new-note default
		if _, err := h.notes.Insert(ctx, entities.NewNote(newChapterID, newID, n.Content, "")); err != nil {
			return fmt.Errorf("failed to copy note %s: %w", n.ID, err)
		}
		result.notes++
	}
	return nil
}
