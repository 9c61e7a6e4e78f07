package service_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tripforge/marketplace-api/internal/domain"
	"github.com/tripforge/marketplace-api/internal/service"
	"go.uber.org/zap"
)

func TestDashboardService_GetMetrics(t *testing.T) {
	t.Run("requires authentication", func(t *testing.T) {
		env := setupTestEnv(t)
		dashboard := service.NewDashboardService(env.leadRepo, env.itineraryRepo, zap.NewNop())

		_, err := dashboard.GetMetrics(context.Background())
		assert.ErrorIs(t, err, service.ErrUnauthorized)
	})

	t.Run("counts leads and the caller's itineraries", func(t *testing.T) {
		env := setupTestEnv(t)
		dashboard := service.NewDashboardService(env.leadRepo, env.itineraryRepo, zap.NewNop())

		createOpenLead(t, env, "Bali")
		createOpenLead(t, env, "Rome")

		draftID := createItinerary(t, env, "agent-1")
		confirmedID := createItinerary(t, env, "agent-1")
		createItinerary(t, env, "agent-2")

		ctx := agentContext("agent-1")

		_, err := env.itemService.Create(ctx, draftID, &domain.CreateItineraryItemRequest{
			PackageType:  domain.PackageTypeActivity,
			PackageID:    newUUID(),
			OperatorID:   "op-1",
			PackageTitle: "Pipeline value source",
			UnitPrice:    decimal.RequireFromString("500.00"),
			Quantity:     2,
		})
		require.NoError(t, err)

		_, err = env.itineraryService.Confirm(ctx, confirmedID, nil)
		require.NoError(t, err)

		metrics, err := dashboard.GetMetrics(ctx)
		require.NoError(t, err)

		assert.Equal(t, int64(2), metrics.OpenLeads)
		// Each itinerary helper purchases its own lead.
		assert.Equal(t, int64(3), metrics.PurchasedLeads)
		assert.Equal(t, int64(1), metrics.DraftItineraries)
		assert.Equal(t, int64(1), metrics.ConfirmedItineraries)
		assert.True(t, decimal.RequireFromString("1000.00").Equal(metrics.PipelineValue), "got %s", metrics.PipelineValue)
		assert.Nil(t, metrics.WarehouseBookingCount)
	})
}
