package dynamodb

import (
	"context"
	"fmt"
	"sort"

	"edutube/domain/core/entities"
	"edutube/domain/core/valueobjects"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
)

// UserRepository implements ports.UserRepository
type UserRepository struct {
	s *Store
}

// Insert persists a new user. Email uniqueness is checked by the caller.
func (r *UserRepository) Insert(ctx context.Context, u *entities.User) (string, error) {
	if err := r.s.checkOpen(); err != nil {
		return "", err
	}

	u.ID = valueobjects.NewEntityID().String()
	if err := r.s.put(ctx, newUserItem(u)); err != nil {
		return "", fmt.Errorf("failed to insert user: %w", err)
	}
	return u.ID, nil
}

// GetByID retrieves a user; unknown or malformed ids yield (nil, nil).
func (r *UserRepository) GetByID(ctx context.Context, id string) (*entities.User, error) {
	if err := r.s.checkOpen(); err != nil {
		return nil, err
	}
	k, ok := parseKey(id)
	if !ok {
		return nil, nil
	}

	var item userItem
	found, err := r.s.get(ctx, entityKey(prefixUser, k), &item)
	if err != nil || !found {
		return nil, err
	}
	return item.toEntity(), nil
}

// GetByEmail looks a user up through the EMAIL# partition of GSI1.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	if err := r.s.checkOpen(); err != nil {
		return nil, err
	}

	keyCond := expression.Key("GSI1PK").Equal(expression.Value(prefixEmail + entities.NormalizeEmail(email)))

	var items []userItem
	if err := r.s.query(ctx, gsi1, keyCond, &items); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return items[0].toEntity(), nil
}

// List scans every user account.
func (r *UserRepository) List(ctx context.Context) ([]*entities.User, error) {
	if err := r.s.checkOpen(); err != nil {
		return nil, err
	}

	var items []userItem
	if err := r.s.scan(ctx, expression.Name("EntityType").Equal(expression.Value(entityUser)), &items); err != nil {
		return nil, err
	}

	out := make([]*entities.User, 0, len(items))
	for _, item := range items {
		out = append(out, item.toEntity())
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
