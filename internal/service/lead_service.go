package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tripforge/marketplace-api/internal/auth"
	"github.com/tripforge/marketplace-api/internal/domain"
	"github.com/tripforge/marketplace-api/internal/mapper"
	"github.com/tripforge/marketplace-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type LeadService struct {
	leadRepo *repository.LeadRepository
	logger   *zap.Logger
}

func NewLeadService(leadRepo *repository.LeadRepository, logger *zap.Logger) *LeadService {
	return &LeadService{leadRepo: leadRepo, logger: logger}
}

// Create publishes a lead on the marketplace. Admin and system callers
// only; agents consume leads, they do not publish them.
func (s *LeadService) Create(ctx context.Context, req *domain.CreateLeadRequest) (*domain.LeadDTO, error) {
	agentCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	if !agentCtx.IsAdmin() {
		return nil, ErrForbidden
	}

	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return nil, fmt.Errorf("%w: endDate must not be before startDate", ErrInvalidInput)
	}
	if req.Budget.IsNegative() {
		return nil, fmt.Errorf("%w: budget must be non-negative", ErrInvalidInput)
	}

	lead := &domain.Lead{
		Destination:   req.Destination,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		AdultsCount:   req.AdultsCount,
		ChildrenCount: req.ChildrenCount,
		InfantsCount:  req.InfantsCount,
		Budget:        req.Budget,
		Currency:      req.Currency,
		Notes:         req.Notes,
		Status:        domain.LeadStatusOpen,
	}
	if lead.Currency == "" {
		lead.Currency = "USD"
	}
	if lead.AdultsCount == 0 {
		lead.AdultsCount = 1
	}

	if err := s.leadRepo.Create(ctx, lead); err != nil {
		return nil, fmt.Errorf("failed to create lead: %w", err)
	}

	s.logger.Info("lead published",
		zap.String("lead_id", lead.ID.String()),
		zap.String("destination", lead.Destination),
	)

	dto := mapper.ToLeadDTO(lead)
	return &dto, nil
}

// GetByID returns a single lead
func (s *LeadService) GetByID(ctx context.Context, id uuid.UUID) (*domain.LeadDTO, error) {
	if _, ok := auth.FromContext(ctx); !ok {
		return nil, ErrUnauthorized
	}

	lead, err := s.leadRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}

	dto := mapper.ToLeadDTO(lead)
	return &dto, nil
}

// List returns marketplace leads, filtered by status and destination
func (s *LeadService) List(ctx context.Context, page, pageSize int, status *domain.LeadStatus, destination string) ([]domain.LeadDTO, int64, error) {
	if _, ok := auth.FromContext(ctx); !ok {
		return nil, 0, ErrUnauthorized
	}

	leads, total, err := s.leadRepo.List(ctx, page, pageSize, status, destination)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list leads: %w", err)
	}

	dtos := make([]domain.LeadDTO, len(leads))
	for i := range leads {
		dtos[i] = mapper.ToLeadDTO(&leads[i])
	}
	return dtos, total, nil
}

// Purchase assigns an open lead to the calling agent. A lead can only be
// purchased once; losing a concurrent purchase race reports Conflict.
func (s *LeadService) Purchase(ctx context.Context, id uuid.UUID) (*domain.LeadDTO, error) {
	agentCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	lead, err := s.leadRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}

	if lead.Status != domain.LeadStatusOpen {
		return nil, ErrLeadNotOpen
	}

	affected, err := s.leadRepo.MarkPurchased(ctx, id, agentCtx.AgentID, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to purchase lead: %w", err)
	}
	if affected == 0 {
		return nil, ErrLeadNotOpen
	}

	s.logger.Info("lead purchased",
		zap.String("lead_id", id.String()),
		zap.String("agent_id", agentCtx.AgentID),
	)

	purchased, err := s.leadRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload lead: %w", err)
	}

	dto := mapper.ToLeadDTO(purchased)
	return &dto, nil
}
