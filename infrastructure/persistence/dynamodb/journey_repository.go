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

// JourneyRepository implements ports.JourneyRepository
type JourneyRepository struct {
	s *Store
}

// Insert persists a new journey and returns its generated ID.
func (r *JourneyRepository) Insert(ctx context.Context, j *entities.Journey) (string, error) {
	if err := r.s.checkOpen(); err != nil {
		return "", err
	}

	j.ID = valueobjects.NewEntityID().String()
	if err := r.s.put(ctx, newJourneyItem(j)); err != nil {
		r.s.logger.Error("Failed to insert journey", zap.Error(err), zap.String("journey_id", j.ID))
		return "", fmt.Errorf("failed to insert journey: %w", err)
	}

	r.s.logger.Debug("Journey inserted",
		zap.String("journey_id", j.ID),
		zap.String("user_id", j.UserID),
	)
	return j.ID, nil
}

// GetByID retrieves a journey; unknown or malformed ids yield (nil, nil).
func (r *JourneyRepository) GetByID(ctx context.Context, id string) (*entities.Journey, error) {
	if err := r.s.checkOpen(); err != nil {
		return nil, err
	}
	k, ok := parseKey(id)
	if !ok {
		return nil, nil
	}

	var item journeyItem
	found, err := r.s.get(ctx, entityKey(prefixJourney, k), &item)
	if err != nil || !found {
		return nil, err
	}
	return item.toEntity(), nil
}

// ListByOwner returns the owner's journeys in creation order.
func (r *JourneyRepository) ListByOwner(ctx context.Context, userID string) ([]*entities.Journey, error) {
	if err := r.s.checkOpen(); err != nil {
		return nil, err
	}

	keyCond := expression.Key("GSI1PK").Equal(expression.Value(prefixUser + userID)).
		And(expression.Key("GSI1SK").BeginsWith(prefixJourney))

	var items []journeyItem
	if err := r.s.query(ctx, gsi1, keyCond, &items); err != nil {
		return nil, err
	}
	return journeysFromItems(items), nil
}

// ListPublic returns all public journeys in creation order.
func (r *JourneyRepository) ListPublic(ctx context.Context) ([]*entities.Journey, error) {
	if err := r.s.checkOpen(); err != nil {
		return nil, err
	}

	keyCond := expression.Key("GSI2PK").Equal(expression.Value(publicPartition))

	var items []journeyItem
	if err := r.s.query(ctx, gsi2, keyCond, &items); err != nil {
		return nil, err
	}
	return journeysFromItems(items), nil
}

// UpdateOwned applies the patch when the journey exists and belongs to ownerID.
func (r *JourneyRepository) UpdateOwned(ctx context.Context, id, ownerID string, patch entities.JourneyPatch) (bool, error) {
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
	if patch.Title != nil {
		upd = upd.Set(expression.Name("Title"), expression.Value(*patch.Title))
	}
	if patch.Description != nil {
		upd = upd.Set(expression.Name("Description"), expression.Value(*patch.Description))
	}
	if patch.IsPublic != nil {
		upd = upd.Set(expression.Name("IsPublic"), expression.Value(*patch.IsPublic))
		if *patch.IsPublic {
			upd = upd.Set(expression.Name("GSI2PK"), expression.Value(publicPartition)).
				Set(expression.Name("GSI2SK"), expression.Name("CreatedAt"))
		} else {
			upd = upd.Remove(expression.Name("GSI2PK")).Remove(expression.Name("GSI2SK"))
		}
	}

	cond := expression.Name("PK").AttributeExists().
		And(expression.Name("UserID").Equal(expression.Value(ownerID)))

	matched, err := r.s.update(ctx, entityKey(prefixJourney, k), upd, cond)
	if err != nil {
		return false, fmt.Errorf("failed to update journey: %w", err)
	}
	return matched, nil
}

// DeleteOwned removes the journey when it belongs to ownerID.
func (r *JourneyRepository) DeleteOwned(ctx context.Context, id, ownerID string) (bool, error) {
	if err := r.s.checkOpen(); err != nil {
		return false, err
	}
	k, ok := parseKey(id)
	if !ok {
		return false, nil
	}

	cond := expression.Name("PK").AttributeExists().
		And(expression.Name("UserID").Equal(expression.Value(ownerID)))

	removed, err := r.s.remove(ctx, entityKey(prefixJourney, k), cond)
	if err != nil {
		return false, fmt.Errorf("failed to delete journey: %w", err)
	}
	return removed, nil
}

func journeysFromItems(items []journeyItem) []*entities.Journey {
	out := make([]*entities.Journey, 0, len(items))
	for _, item := range items {
		out = append(out, item.toEntity())
	}
	return out
}
