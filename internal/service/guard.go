package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/tripforge/marketplace-api/internal/auth"
	"github.com/tripforge/marketplace-api/internal/domain"
	"github.com/tripforge/marketplace-api/internal/repository"
	"gorm.io/gorm"
)

// guardItinerary resolves the actor, loads the itinerary and applies the
// checks shared by every agent-scoped operation: Unauthorized when no
// actor, NotFound when missing, Forbidden when the actor is not the owner,
// and optionally Locked when the itinerary is frozen.
func guardItinerary(ctx context.Context, repo *repository.ItineraryRepository, id uuid.UUID, requireUnlocked bool) (*domain.Itinerary, *auth.AgentContext, error) {
	agentCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, nil, ErrUnauthorized
	}

	itinerary, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrItineraryNotFound
		}
		return nil, nil, fmt.Errorf("failed to get itinerary: %w", err)
	}

	if !agentCtx.CanAccessItinerary(itinerary.AgentID) {
		return nil, nil, ErrForbidden
	}

	if requireUnlocked && itinerary.IsLocked {
		return nil, nil, ErrItineraryLocked
	}

	return itinerary, agentCtx, nil
}
