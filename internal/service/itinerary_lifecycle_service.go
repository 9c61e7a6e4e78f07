package service

// Lifecycle methods for the itinerary aggregate: confirm, lock, unlock.
// Status moves draft -> confirmed; the lock flag is orthogonal and may be
// toggled on a confirmed itinerary to reopen editing.

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tripforge/marketplace-api/internal/domain"
	"github.com/tripforge/marketplace-api/internal/mapper"
	"go.uber.org/zap"
)

// Confirm transitions an itinerary to confirmed. Unless the request opts
// out, the itinerary is locked in the same operation.
func (s *ItineraryService) Confirm(ctx context.Context, id uuid.UUID, req *domain.ConfirmItineraryRequest) (*domain.ItineraryDTO, error) {
	itinerary, agentCtx, err := s.getOwned(ctx, id)
	if err != nil {
		return nil, err
	}

	if itinerary.Status == domain.ItineraryStatusConfirmed {
		return nil, ErrAlreadyConfirmed
	}
	if itinerary.IsLocked {
		return nil, ErrAlreadyLocked
	}

	now := time.Now().UTC()
	fields := map[string]interface{}{
		"status":       domain.ItineraryStatusConfirmed,
		"confirmed_at": now,
		"confirmed_by": agentCtx.AgentID,
	}

	lock := true
	if req != nil && req.Lock != nil {
		lock = *req.Lock
	}
	if lock {
		fields["is_locked"] = true
		fields["locked_at"] = now
		fields["locked_by"] = agentCtx.AgentID
	}

	if err := s.itineraryRepo.UpdateFields(ctx, id, fields); err != nil {
		return nil, fmt.Errorf("failed to confirm itinerary: %w", err)
	}

	s.logger.Info("itinerary confirmed",
		zap.String("itinerary_id", id.String()),
		zap.String("agent_id", agentCtx.AgentID),
		zap.Bool("locked", lock),
	)

	return s.reload(ctx, id)
}

// Lock freezes an itinerary against further mutation
func (s *ItineraryService) Lock(ctx context.Context, id uuid.UUID) (*domain.ItineraryDTO, error) {
	itinerary, agentCtx, err := s.getOwned(ctx, id)
	if err != nil {
		return nil, err
	}

	if itinerary.IsLocked {
		return nil, ErrAlreadyLocked
	}

	fields := map[string]interface{}{
		"is_locked": true,
		"locked_at": time.Now().UTC(),
		"locked_by": agentCtx.AgentID,
	}

	if err := s.itineraryRepo.UpdateFields(ctx, id, fields); err != nil {
		return nil, fmt.Errorf("failed to lock itinerary: %w", err)
	}

	s.logger.Info("itinerary locked",
		zap.String("itinerary_id", id.String()),
		zap.String("agent_id", agentCtx.AgentID),
	)

	return s.reload(ctx, id)
}

// Unlock reopens a locked itinerary. This is the one mutation permitted
// while the lock is set.
func (s *ItineraryService) Unlock(ctx context.Context, id uuid.UUID) (*domain.ItineraryDTO, error) {
	itinerary, agentCtx, err := s.getOwned(ctx, id)
	if err != nil {
		return nil, err
	}

	if !itinerary.IsLocked {
		return nil, ErrNotLocked
	}

	fields := map[string]interface{}{
		"is_locked": false,
		"locked_at": nil,
		"locked_by": "",
	}

	if err := s.itineraryRepo.UpdateFields(ctx, id, fields); err != nil {
		return nil, fmt.Errorf("failed to unlock itinerary: %w", err)
	}

	s.logger.Info("itinerary unlocked",
		zap.String("itinerary_id", id.String()),
		zap.String("agent_id", agentCtx.AgentID),
	)

	return s.reload(ctx, id)
}

// reload rereads the row so the returned DTO reflects the persisted state
// rather than the copy held before the update
func (s *ItineraryService) reload(ctx context.Context, id uuid.UUID) (*domain.ItineraryDTO, error) {
	itinerary, err := s.itineraryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload itinerary: %w", err)
	}
	dto := mapper.ToItineraryDTO(itinerary)
	return &dto, nil
}
