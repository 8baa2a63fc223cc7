package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"edutube/application/ports"
	"edutube/domain/core/entities"
	pkgerrors "edutube/pkg/errors"
)

// NoteService provides note CRUD. Notes always carry the journey of their chapter.
type NoteService struct {
	journeys ports.JourneyRepository
	chapters ports.ChapterRepository
	notes    ports.NoteRepository
	logger   *zap.Logger
}

// NewNoteService creates a new note service
func NewNoteService(store ports.Store, logger *zap.Logger) *NoteService {
	return &NoteService{
		journeys: store.Journeys(),
		chapters: store.Chapters(),
		notes:    store.Notes(),
		logger:   logger,
	}
}

// Create attaches a note to a chapter of the given journey.
func (s *NoteService) Create(ctx context.Context, journeyID, chapterID, content, title string) (string, error) {
	journey, err := s.journeys.GetByID(ctx, journeyID)
	if err != nil {
		return "", fmt.Errorf("failed to get journey: %w", err)
	}
	if journey == nil {
		return "", pkgerrors.NewNotFoundError("Journey")
	}

	chapter, err := s.chapters.GetByID(ctx, chapterID)
	if err != nil {
		return "", fmt.Errorf("failed to get chapter: %w", err)
	}
	if chapter == nil || chapter.JourneyID != journey.ID {
		return "", pkgerrors.NewNotFoundMessage("Chapter not found or does not belong to the specified journey")
	}

	id, err := s.notes.Insert(ctx, entities.NewNote(chapter.ID, journey.ID, content, title))
	if err != nil {
		return "", fmt.Errorf("failed to create note: %w", err)
	}
	return id, nil
}

// ListByChapter returns a chapter's notes, oldest first.
func (s *NoteService) ListByChapter(ctx context.Context, chapterID string) ([]*entities.Note, error) {
	chapter, err := s.chapters.GetByID(ctx, chapterID)
	if err != nil {
		return nil, fmt.Errorf("failed to get chapter: %w", err)
	}
	if chapter == nil {
		return nil, pkgerrors.NewNotFoundError("Chapter")
	}

	notes, err := s.notes.ListByChapter(ctx, chapter.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	return notes, nil
}

// ListByJourney returns a journey's notes grouped by chapter.
func (s *NoteService) ListByJourney(ctx context.Context, journeyID string) ([]*entities.Note, error) {
	journey, err := s.journeys.GetByID(ctx, journeyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get journey: %w", err)
	}
	if journey == nil {
		return nil, pkgerrors.NewNotFoundError("Journey")
	}

	notes, err := s.notes.ListByJourney(ctx, journey.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	return notes, nil
}

func (s *NoteService) Get(ctx context.Context, id string) (*entities.Note, error) {
	n, err := s.notes.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get note: %w", err)
	}
	if n == nil {
		return nil, pkgerrors.NewNotFoundError("Note")
	}
	return n, nil
}

func (s *NoteService) Update(ctx context.Context, id string, patch entities.NotePatch) error {
	ok, err := s.notes.Update(ctx, id, patch)
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}
	if !ok {
		return pkgerrors.NewNotFoundError("Note")
	}
	return nil
}

func (s *NoteService) Delete(ctx context.Context, id string) error {
	ok, err := s.notes.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	if !ok {
		return pkgerrors.NewNotFoundError("Note")
	}
	return nil
}
