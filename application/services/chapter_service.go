package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"edutube/application/ports"
	"edutube/domain/core/entities"
	pkgerrors "edutube/pkg/errors"
)

// ChapterService provides chapter CRUD.
type ChapterService struct {
	journeys ports.JourneyRepository
	chapters ports.ChapterRepository
	logger   *zap.Logger
}

// NewChapterService creates a new chapter service
func NewChapterService(store ports.Store, logger *zap.Logger) *ChapterService {
	return &ChapterService{
		journeys: store.Journeys(),
		chapters: store.Chapters(),
		logger:   logger,
	}
}

// CreateChapterInput carries the fields of a new chapter.
type CreateChapterInput struct {
	Title        string
	Description  string
	VideoLink    string
	ExternalLink string
	ChapterNo    int
}

// Create adds a chapter to an existing journey.
func (s *ChapterService) Create(ctx context.Context, journeyID string, in CreateChapterInput) (string, error) {
	journey, err := s.journeys.GetByID(ctx, journeyID)
	if err != nil {
		return "", fmt.Errorf("failed to get journey: %w", err)
	}
	if journey == nil {
		return "", pkgerrors.NewNotFoundError("Journey")
	}

	chapter := entities.NewChapter(journey.ID, in.Title, in.Description, in.VideoLink, in.ExternalLink, in.ChapterNo)
	id, err := s.chapters.Insert(ctx, chapter)
	if err != nil {
		return "", fmt.Errorf("failed to create chapter: %w", err)
	}
	return id, nil
}

// ListByJourney returns a journey's chapters in display order.
func (s *ChapterService) ListByJourney(ctx context.Context, journeyID string) ([]*entities.Chapter, error) {
	chapters, err := s.chapters.ListByJourney(ctx, journeyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chapters: %w", err)
	}
	return chapters, nil
}

func (s *ChapterService) Get(ctx context.Context, id string) (*entities.Chapter, error) {
	c, err := s.chapters.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get chapter: %w", err)
	}
	if c == nil {
		return nil, pkgerrors.NewNotFoundError("Chapter")
	}
	return c, nil
}

func (s *ChapterService) Update(ctx context.Context, id string, patch entities.ChapterPatch) error {
	ok, err := s.chapters.Update(ctx, id, patch)
	if err != nil {
		return fmt.Errorf("failed to update chapter: %w", err)
	}
	if !ok {
		return pkgerrors.NewNotFoundError("Chapter")
	}
	return nil
}

// SetCompleted marks a chapter done or not done.
func (s *ChapterService) SetCompleted(ctx context.Context, id string, completed bool) error {
	return s.Update(ctx, id, entities.ChapterPatch{IsCompleted: &completed})
}

func (s *ChapterService) Delete(ctx context.Context, id string) error {
	ok, err := s.chapters.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete chapter: %w", err)
	}
	if !ok {
		return pkgerrors.NewNotFoundError("Chapter")
	}
	return nil
}
