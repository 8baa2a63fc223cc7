package dynamodb

import (
	"context"
	"fmt"

	"edutube/domain/core/entities"
	"edutube/domain/core/valueobjects"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"go.uber.org/zap"
)

// ChapterRepository implements ports.ChapterRepository
type ChapterRepository struct {
	s *Store
}

// Insert persists a new chapter. Seq is derived from the creation time so the
// GSI1 sort key follows insertion order.
func (r *ChapterRepository) Insert(ctx context.Context, c *entities.Chapter) (string, error) {
	if err := r.s.checkOpen(); err != nil {
		return "", err
	}

	c.ID = valueobjects.NewEntityID().String()
	if c.Seq == 0 {
		c.Seq = c.CreatedAt.UnixNano()
	}
	if err := r.s.put(ctx, newChapterItem(c)); err != nil {
		r.s.logger.Error("Failed to insert chapter", zap.Error(err), zap.String("journey_id", c.JourneyID))
		return "", fmt.Errorf("failed to insert chapter: %w", err)
	}
	return c.ID, nil
}

// GetByID retrieves a chapter; unknown or malformed ids yield (nil, nil).
func (r *ChapterRepository) GetByID(ctx context.Context, id string) (*entities.Chapter, error) {
	if err := r.s.checkOpen(); err != nil {
		return nil, err
	}
	k, ok := parseKey(id)
	if !ok {
		return nil, nil
	}

	var item chapterItem
	found, err := r.s.get(ctx, entityKey(prefixChapter, k), &item)
	if err != nil || !found {
		return nil, err
	}
	return item.toEntity(), nil
}

// ListByJourney returns the journey's chapters by chapter number, ties by insertion order.
func (r *ChapterRepository) ListByJourney(ctx context.Context, journeyID string) ([]*entities.Chapter, error) {
	if err := r.s.checkOpen(); err != nil {
		return nil, err
	}

	keyCond := expression.Key("GSI1PK").Equal(expression.Value(prefixJourney + journeyID)).
		And(expression.Key("GSI1SK").BeginsWith(prefixChapter))

	var items []chapterItem
	if err := r.s.query(ctx, gsi1, keyCond, &items); err != nil {
		return nil, err
	}

	out := make([]*entities.Chapter, 0, len(items))
	for _, item := range items {
		out = append(out, item.toEntity())
	}
	entities.SortChapters(out)
	return out, nil
}

// Update applies the present fields of patch.
func (r *ChapterRepository) Update(ctx context.Context, id string, patch entities.ChapterPatch) (bool, error) {
	if patch.IsEmpty() {
		return true, nil
	}
	if err := r.s.checkOpen(); err != nil {
		return false, err
	}
	k, ok := parseKey(id)
	if !ok {
		return false, nil
	}

	matched, err := r.s.update(ctx, entityKey(prefixChapter, k), chapterUpdate(patch), expression.Name("PK").AttributeExists())
	if err != nil {
		return false, fmt.Errorf("failed to update chapter: %w", err)
	}
	return matched, nil
}

func chapterUpdate(patch entities.ChapterPatch) expression.UpdateBuilder {
	var upd expression.UpdateBuilder
	set := func(name string, value interface{}) {
		upd = upd.Set(expression.Name(name), expression.Value(value))
	}
	if patch.Title != nil {
		set("Title", *patch.Title)
	}
	if patch.Description != nil {
		set("Description", *patch.Description)
	}
	if patch.VideoLink != nil {
		set("VideoLink", *patch.VideoLink)
	}
	if patch.ExternalLink != nil {
		set("ExternalLink", *patch.ExternalLink)
	}
	if patch.ChapterNo != nil {
		set("ChapterNo", *patch.ChapterNo)
	}
	if patch.IsCompleted != nil {
		set("IsCompleted", *patch.IsCompleted)
	}
	if patch.Transcript != nil {
		set("Transcript", *patch.Transcript)
	}
	if patch.EnrichedAt != nil {
		set("EnrichedAt", formatTime(*patch.EnrichedAt))
	}
	return upd
}

// Delete removes a chapter. Its notes are left in place.
func (r *ChapterRepository) Delete(ctx context.Context, id string) (bool, error) {
	if err := r.s.checkOpen(); err != nil {
		return false, err
	}
	k, ok := parseKey(id)
	if !ok {
		return false, nil
	}

	removed, err := r.s.remove(ctx, entityKey(prefixChapter, k), expression.Name("PK").AttributeExists())
	if err != nil {
		return false, fmt.Errorf("failed to delete chapter: %w", err)
	}
	return removed, nil
}
