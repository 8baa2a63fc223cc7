package memory

import (
	"context"
	"sort"
	"time"

	"edutube/domain/core/entities"
	"edutube/domain/core/valueobjects"
)

type journeyRepository struct {
	s *Store
}

func (r *journeyRepository) Insert(_ context.Context, j *entities.Journey) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.checkOpen(); err != nil {
		return "", err
	}

	j.ID = valueobjects.NewEntityID().String()
	stored := *j
	r.s.journeys[j.ID] = &stored
	return j.ID, nil
}

func (r *journeyRepository) GetByID(_ context.Context, id string) (*entities.Journey, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.checkOpen(); err != nil {
		return nil, err
	}

	k, ok := key(id)
	if !ok {
		return nil, nil
	}
	j, ok := r.s.journeys[k]
	if !ok {
		return nil, nil
	}
	out := *j
	return &out, nil
}

func (r *journeyRepository) ListByOwner(_ context.Context, userID string) ([]*entities.Journey, error) {
	return r.list(func(j *entities.Journey) bool { return j.UserID == userID })
}

func (r *journeyRepository) ListPublic(_ context.Context) ([]*entities.Journey, error) {
	return r.list(func(j *entities.Journey) bool { return j.IsPublic })
}

func (r *journeyRepository) list(match func(*entities.Journey) bool) ([]*entities.Journey, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.checkOpen(); err != nil {
		return nil, err
	}

	out := make([]*entities.Journey, 0)
	for _, j := range r.s.journeys {
		if match(j) {
			c := *j
			out = append(out, &c)
		}
	}
	sort.SliceStable(out, func(i, k int) bool { return out[i].CreatedAt.Before(out[k].CreatedAt) })
	return out, nil
}

func (r *journeyRepository) UpdateOwned(_ context.Context, id, ownerID string, patch entities.JourneyPatch) (bool, error) {
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
	j, ok := r.s.journeys[k]
	if !ok || j.UserID != ownerID {
		return false, nil
	}
	patch.Apply(j, time.Now().UTC())
	return true, nil
}

func (r *journeyRepository) DeleteOwned(_ context.Context, id, ownerID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.checkOpen(); err != nil {
		return false, err
	}

	k, ok := key(id)
	if !ok {
		return false, nil
	}
	j, ok := r.s.journeys[k]
	if !ok || j.UserID != ownerID {
		return false, nil
	}
	delete(r.s.journeys, k)
	return true, nil
}
