package dynamodb

import (
	"context"
	"fmt"
	"time"

	"edutube/domain/core/entities"
	"edutube/domain/core/valueobjects"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"go.uber.org/zap"
)

// NoteRepository implements ports.NoteRepository
type NoteRepository struct {
	s *Store
}

// Insert persists a new note.
func (r *NoteRepository) Insert(ctx context.Context, n *entities.Note) (string, error) {
	if err := r.s.checkOpen(); err != nil {
		return "", err
	}

	n.ID = valueobjects.NewEntityID().String()
	if err := r.s.put(ctx, newNoteItem(n)); err != nil {
		r.s.logger.Error("Failed to insert note", zap.Error(err), zap.String("chapter_id", n.ChapterID))
		return "", fmt.Errorf("failed to insert note: %w", err)
	}
	return n.ID, nil
}

// GetByID retrieves a note; unknown or malformed ids yield (nil, nil).
func (r *NoteRepository) GetByID(ctx context.Context, id string) (*entities.Note, error) {
	if err := r.s.checkOpen(); err != nil {
		return nil, err
	}
	k, ok := parseKey(id)
	if !ok {
		return nil, nil
	}

	var item noteItem
	found, err := r.s.get(ctx, entityKey(prefixNote, k), &item)
	if err != nil || !found {
		return nil, err
	}
	return item.toEntity(), nil
}

// ListByChapter returns the chapter's notes by creation time.
func (r *NoteRepository) ListByChapter(ctx context.Context, chapterID string) ([]*entities.Note, error) {
	if err := r.s.checkOpen(); err != nil {
		return nil, err
	}

	keyCond := expression.Key("GSI2PK").Equal(expression.Value(prefixChapter + chapterID)).
		And(expression.Key("GSI2SK").BeginsWith(prefixNote))

	notes, err := r.queryNotes(ctx, gsi2, keyCond)
	if err != nil {
		return nil, err
	}
	entities.SortNotes(notes)
	return notes, nil
}

// ListByJourney returns the journey's notes by chapter, then creation time.
func (r *NoteRepository) ListByJourney(ctx context.Context, journeyID string) ([]*entities.Note, error) {
	if err := r.s.checkOpen(); err != nil {
		return nil, err
	}

	keyCond := expression.Key("GSI1PK").Equal(expression.Value(prefixJourney + journeyID)).
		And(expression.Key("GSI1SK").BeginsWith(prefixNote))

	notes, err := r.queryNotes(ctx, gsi1, keyCond)
	if err != nil {
		return nil, err
	}
	entities.SortJourneyNotes(notes)
	return notes, nil
}

func (r *NoteRepository) queryNotes(ctx context.Context, index string, keyCond expression.KeyConditionBuilder) ([]*entities.Note, error) {
	var items []noteItem
	if err := r.s.query(ctx, index, keyCond, &items); err != nil {
		return nil, err
	}
	out := make([]*entities.Note, 0, len(items))
	for _, item := range items {
		out = append(out, item.toEntity())
	}
	return out, nil
}

// Update applies the present fields of patch and refreshes UpdatedAt.
func (r *NoteRepository) Update(ctx context.Context, id string, patch entities.NotePatch) (bool, error) {
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

	upd := expression.Set(expression.Name("UpdatedAt"), expression.Value(formatTime(time.Now())))
	if patch.Content != nil {
		upd = upd.Set(expression.Name("Content"), expression.Value(*patch.Content))
	}
	if patch.Title != nil {
		if title := entities.NormalizeNoteTitle(*patch.Title); title != nil {
			upd = upd.Set(expression.Name("Title"), expression.Value(*title))
		} else {
			upd = upd.Remove(expression.Name("Title"))
		}
	}

	matched, err := r.s.update(ctx, entityKey(prefixNote, k), upd, expression.Name("PK").AttributeExists())
	if err != nil {
		return false, fmt.Errorf("failed to update note: %w", err)
	}
	return matched, nil
}

// Delete removes a note.
func (r *NoteRepository) Delete(ctx context.Context, id string) (bool, error) {
	if err := r.s.checkOpen(); err != nil {
		return false, err
	}
	k, ok := parseKey(id)
	if !ok {
		return false, nil
	}

	removed, err := r.s.remove(ctx, entityKey(prefixNote, k), expression.Name("PK").AttributeExists())
	if err != nil {
		return false, fmt.Errorf("failed to delete note: %w", err)
	}
	return removed, nil
}
