package handler

import (
	"net/http"

	"github.com/tripforge/marketplace-api/internal/service"
	"go.uber.org/zap"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
	logger           *zap.Logger
}

func NewDashboardHandler(dashboardService *service.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		logger:           logger,
	}
}

// @Summary Get dashboard metrics
// @Description Returns marketplace metrics for the calling agent.
// @Description
// @Description - `openLeads`: open leads currently on the marketplace
// @Description - `purchasedLeads`: leads the agent has purchased
// @Description - `draftItineraries` / `confirmedItineraries`: the agent's itineraries by status
// @Description - `pipelineValue`: sum of total prices across the agent's draft itineraries
// @Description - `warehouseBookingCount`: confirmed bookings from the reporting warehouse, omitted when the warehouse is unavailable
// @Tags Dashboard
// @Produce json
// @Success 200 {object} domain.DashboardMetricsDTO
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /dashboard/metrics [get]
func (h *DashboardHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.dashboardService.GetMetrics(r.Context())
	if err != nil {
		h.logger.Error("failed to get dashboard metrics", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, metrics)
}
