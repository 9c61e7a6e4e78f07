package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tripforge/marketplace-api/internal/auth"
	"github.com/tripforge/marketplace-api/internal/domain"
	"github.com/tripforge/marketplace-api/internal/mapper"
	"github.com/tripforge/marketplace-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ItineraryService struct {
	itineraryRepo *repository.ItineraryRepository
	itemRepo      *repository.ItineraryItemRepository
	leadRepo      *repository.LeadRepository
	logger        *zap.Logger
}

func NewItineraryService(
	itineraryRepo *repository.ItineraryRepository,
	itemRepo *repository.ItineraryItemRepository,
	leadRepo *repository.LeadRepository,
	logger *zap.Logger,
) *ItineraryService {
	return &ItineraryService{
		itineraryRepo: itineraryRepo,
		itemRepo:      itemRepo,
		leadRepo:      leadRepo,
		logger:        logger,
	}
}

// Create starts itinerary-building for a purchased lead. The operation is
// idempotent per (lead, agent): when an itinerary already exists for the
// pair it is returned unchanged with Created=false.
func (s *ItineraryService) Create(ctx context.Context, req *domain.CreateItineraryRequest) (*domain.ItineraryWithCreatedDTO, error) {
	agentCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	lead, err := s.leadRepo.GetByID(ctx, req.LeadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}

	if lead.Status != domain.LeadStatusPurchased || lead.PurchasedBy != agentCtx.AgentID {
		if !agentCtx.IsAdmin() {
			return nil, ErrLeadNotPurchased
		}
	}

	if existing, err := s.itineraryRepo.GetByLeadAndAgent(ctx, req.LeadID, agentCtx.AgentID); err == nil {
		dto := mapper.ToItineraryDTO(existing)
		return &domain.ItineraryWithCreatedDTO{Itinerary: dto, Created: false}, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing itinerary: %w", err)
	}

	if err := validateDateRange(req.StartDate, req.EndDate); err != nil {
		return nil, err
	}

	itinerary := &domain.Itinerary{
		LeadID:        req.LeadID,
		AgentID:       agentCtx.AgentID,
		Name:          req.Name,
		AdultsCount:   lead.AdultsCount,
		ChildrenCount: lead.ChildrenCount,
		InfantsCount:  lead.InfantsCount,
		StartDate:     lead.StartDate,
		EndDate:       lead.EndDate,
		Status:        domain.ItineraryStatusDraft,
		TotalPrice:    decimal.Zero,
		Currency:      lead.Currency,
	}

	if req.AdultsCount != nil {
		itinerary.AdultsCount = *req.AdultsCount
	}
	if req.ChildrenCount != nil {
		itinerary.ChildrenCount = *req.ChildrenCount
	}
	if req.InfantsCount != nil {
		itinerary.InfantsCount = *req.InfantsCount
	}
	if req.StartDate != nil {
		itinerary.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		itinerary.EndDate = req.EndDate
	}
	if req.Currency != "" {
		itinerary.Currency = req.Currency
	}
	if req.Notes != "" {
		itinerary.Notes = req.Notes
	}
	if itinerary.Currency == "" {
		itinerary.Currency = "USD"
	}

	if err := s.itineraryRepo.Create(ctx, itinerary); err != nil {
		// A concurrent create for the same pair may have won the unique
		// index race; the idempotent contract returns that row.
		if existing, lookupErr := s.itineraryRepo.GetByLeadAndAgent(ctx, req.LeadID, agentCtx.AgentID); lookupErr == nil {
			dto := mapper.ToItineraryDTO(existing)
			return &domain.ItineraryWithCreatedDTO{Itinerary: dto, Created: false}, nil
		}
		return nil, fmt.Errorf("failed to create itinerary: %w", err)
	}

	s.logger.Info("itinerary created",
		zap.String("itinerary_id", itinerary.ID.String()),
		zap.String("lead_id", req.LeadID.String()),
		zap.String("agent_id", agentCtx.AgentID),
	)

	dto := mapper.ToItineraryDTO(itinerary)
	return &domain.ItineraryWithCreatedDTO{Itinerary: dto, Created: true}, nil
}

// GetByID returns an itinerary with its days and items
func (s *ItineraryService) GetByID(ctx context.Context, id uuid.UUID) (*domain.ItineraryDetailDTO, error) {
	itinerary, _, err := s.getOwned(ctx, id)
	if err != nil {
		return nil, err
	}

	detailed, err := s.itineraryRepo.GetByIDWithDetails(ctx, itinerary.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load itinerary details: %w", err)
	}

	dto := mapper.ToItineraryDetailDTO(detailed)
	return &dto, nil
}

// List returns the caller's itineraries. Admin callers may pass agentID to
// see another agent's pipeline; for regular agents the filter is forced to
// their own id.
func (s *ItineraryService) List(ctx context.Context, page, pageSize int, agentID string, leadID *uuid.UUID, status *domain.ItineraryStatus) ([]domain.ItineraryDTO, int64, error) {
	agentCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, 0, ErrUnauthorized
	}

	if !agentCtx.IsAdmin() {
		agentID = agentCtx.AgentID
	}

	if status != nil && !status.IsValid() {
		return nil, 0, fmt.Errorf("%w: invalid status %q", ErrInvalidInput, *status)
	}

	itineraries, total, err := s.itineraryRepo.List(ctx, page, pageSize, agentID, leadID, status)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list itineraries: %w", err)
	}

	dtos := make([]domain.ItineraryDTO, len(itineraries))
	for i := range itineraries {
		dtos[i] = mapper.ToItineraryDTO(&itineraries[i])
	}
	return dtos, total, nil
}

// Update applies an allow-listed partial update. Locked itineraries reject
// every header change.
func (s *ItineraryService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateItineraryRequest) (*domain.ItineraryDTO, error) {
	itinerary, _, err := s.getOwned(ctx, id)
	if err != nil {
		return nil, err
	}

	if itinerary.IsLocked {
		return nil, ErrItineraryLocked
	}

	fields := map[string]interface{}{}

	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.AdultsCount != nil {
		if *req.AdultsCount < 0 {
			return nil, fmt.Errorf("%w: adultsCount must be non-negative", ErrInvalidInput)
		}
		fields["adults_count"] = *req.AdultsCount
	}
	if req.ChildrenCount != nil {
		if *req.ChildrenCount < 0 {
			return nil, fmt.Errorf("%w: childrenCount must be non-negative", ErrInvalidInput)
		}
		fields["children_count"] = *req.ChildrenCount
	}
	if req.InfantsCount != nil {
		if *req.InfantsCount < 0 {
			return nil, fmt.Errorf("%w: infantsCount must be non-negative", ErrInvalidInput)
		}
		fields["infants_count"] = *req.InfantsCount
	}

	startDate := itinerary.StartDate
	endDate := itinerary.EndDate
	if req.StartDate != nil {
		startDate = req.StartDate
		fields["start_date"] = *req.StartDate
	}
	if req.EndDate != nil {
		endDate = req.EndDate
		fields["end_date"] = *req.EndDate
	}
	if err := validateDateRange(startDate, endDate); err != nil {
		return nil, err
	}

	if req.Status != nil {
		if !req.Status.IsValid() {
			return nil, fmt.Errorf("%w: invalid status %q", ErrInvalidInput, *req.Status)
		}
		fields["status"] = *req.Status
	}
	if req.Notes != nil {
		fields["notes"] = *req.Notes
	}

	if len(fields) > 0 {
		if err := s.itineraryRepo.UpdateFields(ctx, id, fields); err != nil {
			return nil, fmt.Errorf("failed to update itinerary: %w", err)
		}
	}

	updated, err := s.itineraryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload itinerary: %w", err)
	}

	dto := mapper.ToItineraryDTO(updated)
	return &dto, nil
}

// Recalculate recomputes the stored total from the item rows and reports
// whether it had drifted. Works on locked itineraries too: it restores the
// total invariant rather than changing itinerary content.
func (s *ItineraryService) Recalculate(ctx context.Context, id uuid.UUID) (*domain.RecalculateResultDTO, error) {
	itinerary, _, err := s.getOwned(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := itinerary.TotalPrice

	recomputed, err := s.itineraryRepo.RecalculateTotal(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to recalculate total: %w", err)
	}

	drifted := !previous.Equal(recomputed)
	if drifted {
		s.logger.Warn("itinerary total had drifted",
			zap.String("itinerary_id", id.String()),
			zap.String("stored_total", previous.String()),
			zap.String("recomputed_total", recomputed.String()),
		)
	}

	return &domain.RecalculateResultDTO{
		ItineraryID:     id,
		PreviousTotal:   previous,
		RecomputedTotal: recomputed,
		Drifted:         drifted,
	}, nil
}

// ReconcileTotals sweeps every itinerary and repairs stored totals that no
// longer match the sum of their items. Called by the background reconcile
// job; bypasses the ownership guard since it runs without an actor.
func (s *ItineraryService) ReconcileTotals(ctx context.Context) (int, int, error) {
	ids, err := s.itineraryRepo.ListAllIDs(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to list itineraries: %w", err)
	}

	checked := 0
	drifted := 0
	for _, id := range ids {
		itinerary, err := s.itineraryRepo.GetByID(ctx, id)
		if err != nil {
			return checked, drifted, fmt.Errorf("failed to load itinerary %s: %w", id, err)
		}

		items, err := s.itemRepo.ListByItinerary(ctx, id)
		if err != nil {
			return checked, drifted, fmt.Errorf("failed to load items for %s: %w", id, err)
		}

		checked++
		expected := SumItemTotals(items)
		if itinerary.TotalPrice.Equal(expected) {
			continue
		}

		drifted++
		s.logger.Warn("repairing drifted itinerary total",
			zap.String("itinerary_id", id.String()),
			zap.String("stored_total", itinerary.TotalPrice.String()),
			zap.String("expected_total", expected.String()),
		)
		if _, err := s.itineraryRepo.RecalculateTotal(ctx, id); err != nil {
			return checked, drifted, fmt.Errorf("failed to repair total for %s: %w", id, err)
		}
	}

	return checked, drifted, nil
}

// getOwned loads an itinerary and enforces the ownership guard shared by
// all agent-scoped operations
func (s *ItineraryService) getOwned(ctx context.Context, id uuid.UUID) (*domain.Itinerary, *auth.AgentContext, error) {
	return guardItinerary(ctx, s.itineraryRepo, id, false)
}

func validateDateRange(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return fmt.Errorf("%w: endDate must not be before startDate", ErrInvalidInput)
	}
	return nil
}
