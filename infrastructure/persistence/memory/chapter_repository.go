package memory

import (
	"context"

	"edutube/domain/core/entities"
	"edutube/domain/core/valueobjects"
)

type chapterRepository struct {
	s *Store
}

func (r *chapterRepository) Insert(_ context.Context, c *entities.Chapter) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.checkOpen(); err != nil {
		return "", err
	}

	c.ID = valueobjects.NewEntityID().String()
	c.Seq = r.s.nextSeq()
	stored := *c
	r.s.chapters[c.ID] = &stored
	return c.ID, nil
}

func (r *chapterRepository) GetByID(_ context.Context, id string) (*entities.Chapter, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.checkOpen(); err != nil {
		return nil, err
	}

	k, ok := key(id)
	if !ok {
		return nil, nil
	}
	c, ok := r.s.chapters[k]
	if !ok {
		return nil, nil
	}
	out := *c
	return &out, nil
}

func (r *chapterRepository) ListByJourney(_ context.Context, journeyID string) ([]*entities.Chapter, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.checkOpen(); err != nil {
		return nil, err
	}

	out := make([]*entities.Chapter, 0)
	for _, c := range r.s.chapters {
		if c.JourneyID == journeyID {
			cp := *c
			out = append(out, &cp)
		}
	}
	entities.SortChapters(out)
	return out, nil
}

func (r *chapterRepository) Update(_ context.Context, id string, patch entities.ChapterPatch) (bool, error) {
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
	c, ok := r.s.chapters[k]
	if !ok {
		return false, nil
	}
	patch.Apply(c)
	return true, nil
}

func (r *chapterRepository) Delete(_ context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.checkOpen(); err != nil {
		return false, err
	}

	k, ok := key(id)
	if !ok {
		return false, nil
	}
	if _, ok := r.s.chapters[k]; !ok {
		return false, nil
	}
	delete(r.s.chapters, k)
	return true, nil
}
