package memory

import (
	"context"
	"time"

	"edutube/domain/core/entities"
	"edutube/domain/core/valueobjects"
)

type noteRepository struct {
	s *Store
}

func (r *noteRepository) Insert(_ context.Context, n *entities.Note) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.checkOpen(); err != nil {
		return "", err
	}

	n.ID = valueobjects.NewEntityID().String()
	stored := *n
	r.s.notes[n.ID] = &stored
	return n.ID, nil
}

func (r *noteRepository) GetByID(_ context.Context, id string) (*entities.Note, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.checkOpen(); err != nil {
		return nil, err
	}

	k, ok := key(id)
	if !ok {
		return nil, nil
	}
	n, ok := r.s.notes[k]
	if !ok {
		return nil, nil
	}
	out := *n
	return &out, nil
}

func (r *noteRepository) ListByChapter(_ context.Context, chapterID string) ([]*entities.Note, error) {
	out, err := r.list(func(n *entities.Note) bool { return n.ChapterID == chapterID })
	if err != nil {
		return nil, err
	}
	entities.SortNotes(out)
	return out, nil
}

func (r *noteRepository) ListByJourney(_ context.Context, journeyID string) ([]*entities.Note, error) {
	out, err := r.list(func(n *entities.Note) bool { return n.JourneyID == journeyID })
	if err != nil {
		return nil, err
	}
	entities.SortJourneyNotes(out)
	return out, nil
}

func (r *noteRepository) list(match func(*entities.Note) bool) ([]*entities.Note, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.checkOpen(); err != nil {
		return nil, err
	}

	out := make([]*entities.Note, 0)
	for _, n := range r.s.notes {
		if match(n) {
			cp := *n
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *noteRepository) Update(_ context.Context, id string, patch entities.NotePatch) (bool, error) {
	if patch.IsEmpty() {
		return true, nil
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.checkOpen(); err != nil {
		return false, err
	}

	k, ok := key(id)
	if !ok {
		return false, nil
	}
	n, ok := r.s.notes[k]
	if !ok {
		return false, nil
	}
	patch.Apply(n, time.Now().UTC())
	return true, nil
}

func (r *noteRepository) Delete(_ context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.checkOpen(); err != nil {
		return false, err
	}

	k, ok := key(id)
	if !ok {
		return false, nil
	}
	if _, ok := r.s.notes[k]; !ok {
		return false, nil
	}
	delete(r.s.notes, k)
	return true, nil
}
