package memory

import (
	"context"
	"sort"

	"edutube/domain/core/entities"
	"edutube/domain/core/valueobjects"
)

type userRepository struct {
	s *Store
}

func (r *userRepository) Insert(_ context.Context, u *entities.User) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.checkOpen(); err != nil {
		return "", err
	}

	u.ID = valueobjects.NewEntityID().String()
	stored := *u
	r.s.users[u.ID] = &stored
	return u.ID, nil
}

func (r *userRepository) GetByID(_ context.Context, id string) (*entities.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.checkOpen(); err != nil {
		return nil, err
	}

	k, ok := key(id)
	if !ok {
		return nil, nil
	}
	u, ok := r.s.users[k]
	if !ok {
		return nil, nil
	}
	out := *u
	return &out, nil
}

func (r *userRepository) GetByEmail(_ context.Context, email string) (*entities.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.checkOpen(); err != nil {
		return nil, err
	}

	email = entities.NormalizeEmail(email)
	for _, u := range r.s.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, nil
}

func (r *userRepository) List(_ context.Context) ([]*entities.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.checkOpen(); err != nil {
		return nil, err
	}

	out := make([]*entities.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		cp := *u
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
