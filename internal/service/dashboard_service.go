package service

import (
	"context"
	"fmt"

	"github.com/tripforge/marketplace-api/internal/auth"
	"github.com/tripforge/marketplace-api/internal/domain"
	"github.com/tripforge/marketplace-api/internal/repository"
	"github.com/tripforge/marketplace-api/internal/warehouse"
	"go.uber.org/zap"
)

type DashboardService struct {
	leadRepo        *repository.LeadRepository
	itineraryRepo   *repository.ItineraryRepository
	warehouseClient *warehouse.Client
	logger          *zap.Logger
}

func NewDashboardService(
	leadRepo *repository.LeadRepository,
	itineraryRepo *repository.ItineraryRepository,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		leadRepo:      leadRepo,
		itineraryRepo: itineraryRepo,
		logger:        logger,
	}
}

// SetWarehouseClient attaches the optional reporting warehouse connection.
// Called after construction because the warehouse may be disabled.
func (s *DashboardService) SetWarehouseClient(client *warehouse.Client) {
	s.warehouseClient = client
}

// GetMetrics assembles the agent dashboard: marketplace lead counts, the
// agent's itinerary counts by status and pipeline value. When the
// reporting warehouse is connected, the confirmed booking count is added;
// a warehouse failure degrades the metric instead of failing the request.
func (s *DashboardService) GetMetrics(ctx context.Context) (*domain.DashboardMetricsDTO, error) {
	agentCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	openLeads, err := s.leadRepo.CountByStatus(ctx, domain.LeadStatusOpen)
	if err != nil {
		return nil, fmt.Errorf("failed to count open leads: %w", err)
	}

	purchasedLeads, err := s.leadRepo.CountByStatus(ctx, domain.LeadStatusPurchased)
	if err != nil {
		return nil, fmt.Errorf("failed to count purchased leads: %w", err)
	}

	draftStatus := domain.ItineraryStatusDraft
	draftCount, err := s.itineraryRepo.CountByAgent(ctx, agentCtx.AgentID, &draftStatus)
	if err != nil {
		return nil, fmt.Errorf("failed to count draft itineraries: %w", err)
	}

	confirmedStatus := domain.ItineraryStatusConfirmed
	confirmedCount, err := s.itineraryRepo.CountByAgent(ctx, agentCtx.AgentID, &confirmedStatus)
	if err != nil {
		return nil, fmt.Errorf("failed to count confirmed itineraries: %w", err)
	}

	pipelineValue, err := s.itineraryRepo.GetPipelineValue(ctx, agentCtx.AgentID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute pipeline value: %w", err)
	}

	metrics := &domain.DashboardMetricsDTO{
		OpenLeads:            openLeads,
		PurchasedLeads:       purchasedLeads,
		DraftItineraries:     draftCount,
		ConfirmedItineraries: confirmedCount,
		PipelineValue:        pipelineValue,
	}

	if s.warehouseClient != nil {
		bookings, err := s.warehouseClient.CountConfirmedBookings(ctx, agentCtx.AgentID)
		if err != nil {
			s.logger.Warn("warehouse booking count unavailable",
				zap.String("agent_id", agentCtx.AgentID),
				zap.Error(err),
			)
		} else {
			metrics.WarehouseBookingCount = &bookings
		}
	}

	return metrics, nil
}
