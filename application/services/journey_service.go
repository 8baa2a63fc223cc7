package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"edutube/application/ports"
	"edutube/domain/core/entities"
	pkgerrors "edutube/pkg/errors"
)

const publicJourneysKey = "journeys:public"

// JourneyService provides journey CRUD and the public listing.
type JourneyService struct {
	journeys ports.JourneyRepository
	users    ports.UserRepository
	cache    ports.Cache
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewJourneyService creates a new journey service. cache may be nil.
func NewJourneyService(store ports.Store, cache ports.Cache, cacheTTL time.Duration, logger *zap.Logger) *JourneyService {
	return &JourneyService{
		journeys: store.Journeys(),
		users:    store.Users(),
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// Create stores a new journey owned by userID and returns its id.
func (s *JourneyService) Create(ctx context.Context, userID, title, description string, isPublic bool) (string, error) {
	id, err := s.journeys.Insert(ctx, entities.NewJourney(title, description, isPublic, userID))
	if err != nil {
		return "", fmt.Errorf("failed to create journey: %w", err)
	}
	if isPublic {
		s.InvalidatePublic(ctx)
	}
	return id, nil
}

// ListByOwner returns the caller's journeys.
func (s *JourneyService) ListByOwner(ctx context.Context, userID string) ([]*entities.Journey, error) {
	journeys, err := s.journeys.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list journeys: %w", err)
	}
	return journeys, nil
}

// Get returns a journey by id.
func (s *JourneyService) Get(ctx context.Context, id string) (*entities.Journey, error) {
	j, err := s.journeys.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get journey: %w", err)
	}
	if j == nil {
		return nil, pkgerrors.NewNotFoundError("Journey")
	}
	return j, nil
}

// Update applies patch to a journey owned by userID.
func (s *JourneyService) Update(ctx context.Context, id, userID string, patch entities.JourneyPatch) error {
	ok, err := s.journeys.UpdateOwned(ctx, id, userID, patch)
	if err != nil {
		return fmt.Errorf("failed to update journey: %w", err)
	}
	if !ok {
		return pkgerrors.NewNotFoundError("Journey")
	}
	if !patch.IsEmpty() {
		s.InvalidatePublic(ctx)
	}
	return nil
}

// Delete removes a journey owned by userID. Its chapters and notes are kept.
func (s *JourneyService) Delete(ctx context.Context, id, userID string) error {
	ok, err := s.journeys.DeleteOwned(ctx, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete journey: %w", err)
	}
	if !ok {
		return pkgerrors.NewNotFoundError("Journey")
	}
	s.InvalidatePublic(ctx)
	return nil
}

// ListPublic returns every public journey annotated with its owner's
// username. An empty listing is reported as not found.
func (s *JourneyService) ListPublic(ctx context.Context) ([]entities.PublicJourney, error) {
	if s.cache != nil {
		if v, ok := s.cache.Get(ctx, publicJourneysKey); ok {
			if cached, ok := v.([]entities.PublicJourney); ok {
				return cached, nil
			}
		}
	}

	journeys, err := s.journeys.ListPublic(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list public journeys: %w", err)
	}
	if len(journeys) == 0 {
		return nil, pkgerrors.NewNotFoundMessage("No public journeys found")
	}

	usernames := make(map[string]string)
	out := make([]entities.PublicJourney, 0, len(journeys))
	for _, j := range journeys {
		name, seen := usernames[j.UserID]
		if !seen && j.UserID != "" {
			name = s.lookupUsername(ctx, j.UserID)
			usernames[j.UserID] = name
		}
		out = append(out, entities.PublicJourney{
			ID:          j.ID,
			Title:       j.Title,
			Description: j.Description,
			IsPublic:    j.IsPublic,
			Username:    name,
		})
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, publicJourneysKey, out, s.cacheTTL); err != nil {
			s.logger.Warn("Failed to cache public journeys", zap.Error(err))
		}
	}
	return out, nil
}

// InvalidatePublic drops the cached public listing.
func (s *JourneyService) InvalidatePublic(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, publicJourneysKey); err != nil {
		s.logger.Warn("Failed to invalidate public journeys", zap.Error(err))
	}
}

// lookupUsername returns "" when the owner cannot be resolved.
func (s *JourneyService) lookupUsername(ctx context.Context, userID string) string {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		s.logger.Warn("Failed to resolve journey owner", zap.String("user_id", userID), zap.Error(err))
		return ""
	}
	if u == nil {
		return ""
	}
	return u.Username
}
