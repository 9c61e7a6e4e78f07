package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tripforge/marketplace-api/internal/domain"
	"github.com/tripforge/marketplace-api/internal/service"
)

func TestItineraryService_Create(t *testing.T) {
	t.Run("requires authentication", func(t *testing.T) {
		env := setupTestEnv(t)
		lead := createOpenLead(t, env, "Rome")

		_, err := env.itineraryService.Create(context.Background(), &domain.CreateItineraryRequest{
			LeadID: lead.ID,
		})
		assert.ErrorIs(t, err, service.ErrUnauthorized)
	})

	t.Run("rejects unpurchased lead", func(t *testing.T) {
		env := setupTestEnv(t)
		lead := createOpenLead(t, env, "Rome")

		_, err := env.itineraryService.Create(agentContext("agent-1"), &domain.CreateItineraryRequest{
			LeadID: lead.ID,
		})
		assert.ErrorIs(t, err, service.ErrLeadNotPurchased)
	})

	t.Run("rejects lead purchased by another agent", func(t *testing.T) {
		env := setupTestEnv(t)
		lead := createPurchasedLead(t, env, "agent-1")

		_, err := env.itineraryService.Create(agentContext("agent-2"), &domain.CreateItineraryRequest{
			LeadID: lead.ID,
		})
		assert.ErrorIs(t, err, service.ErrLeadNotPurchased)
	})

	t.Run("unknown lead reports not found", func(t *testing.T) {
		env := setupTestEnv(t)

		_, err := env.itineraryService.Create(agentContext("agent-1"), &domain.CreateItineraryRequest{
			LeadID: newUUID(),
		})
		assert.ErrorIs(t, err, service.ErrLeadNotFound)
	})

	t.Run("inherits party counts and currency from the lead", func(t *testing.T) {
		env := setupTestEnv(t)
		lead := createPurchasedLead(t, env, "agent-1")
		ctx := agentContext("agent-1")

		result, err := env.itineraryService.Create(ctx, &domain.CreateItineraryRequest{
			LeadID: lead.ID,
			Name:   "Lisbon getaway",
		})
		require.NoError(t, err)

		assert.True(t, result.Created)
		assert.Equal(t, lead.ID, result.Itinerary.LeadID)
		assert.Equal(t, "agent-1", result.Itinerary.AgentID)
		assert.Equal(t, "Lisbon getaway", result.Itinerary.Name)
		assert.Equal(t, lead.AdultsCount, result.Itinerary.AdultsCount)
		assert.Equal(t, lead.Currency, result.Itinerary.Currency)
		assert.Equal(t, domain.ItineraryStatusDraft, result.Itinerary.Status)
		assert.True(t, decimal.Zero.Equal(result.Itinerary.TotalPrice))
		assert.False(t, result.Itinerary.IsLocked)
	})

	t.Run("request overrides take precedence over lead values", func(t *testing.T) {
		env := setupTestEnv(t)
		lead := createPurchasedLead(t, env, "agent-1")
		ctx := agentContext("agent-1")

		result, err := env.itineraryService.Create(ctx, &domain.CreateItineraryRequest{
			LeadID:      lead.ID,
			AdultsCount: intPtr(4),
			Currency:    "EUR",
		})
		require.NoError(t, err)

		assert.Equal(t, 4, result.Itinerary.AdultsCount)
		assert.Equal(t, "EUR", result.Itinerary.Currency)
	})

	t.Run("is idempotent per lead and agent", func(t *testing.T) {
		env := setupTestEnv(t)
		lead := createPurchasedLead(t, env, "agent-1")
		ctx := agentContext("agent-1")

		first, err := env.itineraryService.Create(ctx, &domain.CreateItineraryRequest{LeadID: lead.ID})
		require.NoError(t, err)
		require.True(t, first.Created)

		second, err := env.itineraryService.Create(ctx, &domain.CreateItineraryRequest{
			LeadID: lead.ID,
			Name:   "a different name that must not stick",
		})
		require.NoError(t, err)

		assert.False(t, second.Created)
		assert.Equal(t, first.Itinerary.ID, second.Itinerary.ID)
		assert.Equal(t, first.Itinerary.Name, second.Itinerary.Name)
	})

	t.Run("rejects inverted date range", func(t *testing.T) {
		env := setupTestEnv(t)
		lead := createPurchasedLead(t, env, "agent-1")
		ctx := agentContext("agent-1")

		start := time.Date(2026, 10, 10, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 0, -3)

		_, err := env.itineraryService.Create(ctx, &domain.CreateItineraryRequest{
			LeadID:    lead.ID,
			StartDate: &start,
			EndDate:   &end,
		})
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})
}

func TestItineraryService_GetByID(t *testing.T) {
	t.Run("owner sees days and items", func(t *testing.T) {
		env := setupTestEnv(t)
		itineraryID := createItinerary(t, env, "agent-1")
		ctx := agentContext("agent-1")

		_, err := env.dayService.Create(ctx, itineraryID, &domain.CreateItineraryDayRequest{
			DayNumber: 1,
			CityName:  "Lisbon",
		})
		require.NoError(t, err)

		_, err = env.itemService.Create(ctx, itineraryID, &domain.CreateItineraryItemRequest{
			PackageType:  domain.PackageTypeActivity,
			PackageID:    newUUID(),
			OperatorID:   "op-1",
			PackageTitle: "Tram tour",
			UnitPrice:    decimal.RequireFromString("45.00"),
			Quantity:     2,
		})
		require.NoError(t, err)

		detail, err := env.itineraryService.GetByID(ctx, itineraryID)
		require.NoError(t, err)

		assert.Len(t, detail.Days, 1)
		assert.Len(t, detail.Items, 1)
		assert.True(t, decimal.RequireFromString("90.00").Equal(detail.TotalPrice))
	})

	t.Run("other agents are forbidden", func(t *testing.T) {
		env := setupTestEnv(t)
		itineraryID := createItinerary(t, env, "agent-1")

		_, err := env.itineraryService.GetByID(agentContext("agent-2"), itineraryID)
		assert.ErrorIs(t, err, service.ErrForbidden)
	})

	t.Run("admin can read any itinerary", func(t *testing.T) {
		env := setupTestEnv(t)
		itineraryID := createItinerary(t, env, "agent-1")

		detail, err := env.itineraryService.GetByID(adminContext(), itineraryID)
		require.NoError(t, err)
		assert.Equal(t, itineraryID, detail.ID)
	})

	t.Run("unknown id reports not found", func(t *testing.T) {
		env := setupTestEnv(t)

		_, err := env.itineraryService.GetByID(agentContext("agent-1"), newUUID())
		assert.ErrorIs(t, err, service.ErrItineraryNotFound)
	})
}

func TestItineraryService_List(t *testing.T) {
	t.Run("agents only see their own itineraries", func(t *testing.T) {
		env := setupTestEnv(t)
		createItinerary(t, env, "agent-1")
		createItinerary(t, env, "agent-2")

		dtos, total, err := env.itineraryService.List(agentContext("agent-1"), 1, 20, "", nil, nil)
		require.NoError(t, err)

		assert.Equal(t, int64(1), total)
		require.Len(t, dtos, 1)
		assert.Equal(t, "agent-1", dtos[0].AgentID)
	})

	t.Run("agent filter is forced even when another id is passed", func(t *testing.T) {
		env := setupTestEnv(t)
		createItinerary(t, env, "agent-1")
		createItinerary(t, env, "agent-2")

		dtos, _, err := env.itineraryService.List(agentContext("agent-1"), 1, 20, "agent-2", nil, nil)
		require.NoError(t, err)

		require.Len(t, dtos, 1)
		assert.Equal(t, "agent-1", dtos[0].AgentID)
	})

	t.Run("admin may filter by another agent", func(t *testing.T) {
		env := setupTestEnv(t)
		createItinerary(t, env, "agent-1")
		createItinerary(t, env, "agent-2")

		dtos, _, err := env.itineraryService.List(adminContext(), 1, 20, "agent-2", nil, nil)
		require.NoError(t, err)

		require.Len(t, dtos, 1)
		assert.Equal(t, "agent-2", dtos[0].AgentID)
	})

	t.Run("filters by status", func(t *testing.T) {
		env := setupTestEnv(t)
		itineraryID := createItinerary(t, env, "agent-1")
		ctx := agentContext("agent-1")

		_, err := env.itineraryService.Confirm(ctx, itineraryID, nil)
		require.NoError(t, err)

		confirmed := domain.ItineraryStatusConfirmed
		dtos, total, err := env.itineraryService.List(ctx, 1, 20, "", nil, &confirmed)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, dtos, 1)
		assert.Equal(t, domain.ItineraryStatusConfirmed, dtos[0].Status)

		draft := domain.ItineraryStatusDraft
		_, total, err = env.itineraryService.List(ctx, 1, 20, "", nil, &draft)
		require.NoError(t, err)
		assert.Equal(t, int64(0), total)
	})

	t.Run("rejects invalid status", func(t *testing.T) {
		env := setupTestEnv(t)
		bogus := domain.ItineraryStatus("cancelled")

		_, _, err := env.itineraryService.List(agentContext("agent-1"), 1, 20, "", nil, &bogus)
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})
}

func TestItineraryService_Update(t *testing.T) {
	t.Run("applies partial updates", func(t *testing.T) {
		env := setupTestEnv(t)
		itineraryID := createItinerary(t, env, "agent-1")
		ctx := agentContext("agent-1")

		dto, err := env.itineraryService.Update(ctx, itineraryID, &domain.UpdateItineraryRequest{
			Name:        strPtr("Renamed trip"),
			AdultsCount: intPtr(3),
		})
		require.NoError(t, err)

		assert.Equal(t, "Renamed trip", dto.Name)
		assert.Equal(t, 3, dto.AdultsCount)
	})

	t.Run("locked itinerary rejects header changes", func(t *testing.T) {
		env := setupTestEnv(t)
		itineraryID := createItinerary(t, env, "agent-1")
		ctx := agentContext("agent-1")

		_, err := env.itineraryService.Lock(ctx, itineraryID)
		require.NoError(t, err)

		_, err = env.itineraryService.Update(ctx, itineraryID, &domain.UpdateItineraryRequest{
			Name: strPtr("should not apply"),
		})
		assert.ErrorIs(t, err, service.ErrItineraryLocked)
	})

	t.Run("rejects inverted date range against stored dates", func(t *testing.T) {
		env := setupTestEnv(t)
		itineraryID := createItinerary(t, env, "agent-1")
		ctx := agentContext("agent-1")

		start := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
		_, err := env.itineraryService.Update(ctx, itineraryID, &domain.UpdateItineraryRequest{
			StartDate: &start,
		})
		require.NoError(t, err)

		end := start.AddDate(0, 0, -1)
		_, err = env.itineraryService.Update(ctx, itineraryID, &domain.UpdateItineraryRequest{
			EndDate: &end,
		})
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})

	t.Run("rejects invalid status value", func(t *testing.T) {
		env := setupTestEnv(t)
		itineraryID := createItinerary(t, env, "agent-1")
		ctx := agentContext("agent-1")

		bogus := domain.ItineraryStatus("archived")
		_, err := env.itineraryService.Update(ctx, itineraryID, &domain.UpdateItineraryRequest{
			Status: &bogus,
		})
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})

	t.Run("other agents are forbidden", func(t *testing.T) {
		env := setupTestEnv(t)
		itineraryID := createItinerary(t, env, "agent-1")

		_, err := env.itineraryService.Update(agentContext("agent-2"), itineraryID, &domain.UpdateItineraryRequest{
			Name: strPtr("hijacked"),
		})
		assert.ErrorIs(t, err, service.ErrForbidden)
	})
}

func TestItineraryService_Recalculate(t *testing.T) {
	t.Run("reports no drift when the total is intact", func(t *testing.T) {
		env := setupTestEnv(t)
		itineraryID := createItinerary(t, env, "agent-1")
		ctx := agentContext("agent-1")

		_, err := env.itemService.Create(ctx, itineraryID, &domain.CreateItineraryItemRequest{
			PackageType:  domain.PackageTypeActivity,
			PackageID:    newUUID(),
			OperatorID:   "op-1",
			PackageTitle: "City tour",
			UnitPrice:    decimal.RequireFromString("120.00"),
			Quantity:     2,
		})
		require.NoError(t, err)

		result, err := env.itineraryService.Recalculate(ctx, itineraryID)
		require.NoError(t, err)

		assert.False(t, result.Drifted)
		assert.True(t, decimal.RequireFromString("240.00").Equal(result.RecomputedTotal))
	})

	t.Run("repairs a drifted total", func(t *testing.T) {
		env := setupTestEnv(t)
		itineraryID := createItinerary(t, env, "agent-1")
		ctx := agentContext("agent-1")

		_, err := env.itemService.Create(ctx, itineraryID, &domain.CreateItineraryItemRequest{
			PackageType:  domain.PackageTypeTransfer,
			PackageID:    newUUID(),
			OperatorID:   "op-1",
			PackageTitle: "Airport transfer",
			UnitPrice:    decimal.RequireFromString("60.00"),
			Quantity:     1,
		})
		require.NoError(t, err)

		// Corrupt the stored aggregate directly to simulate drift.
		err = env.db.Exec("UPDATE itineraries SET total_price = 999.99 WHERE id = ?", itineraryID).Error
		require.NoError(t, err)

		result, err := env.itineraryService.Recalculate(ctx, itineraryID)
		require.NoError(t, err)

		assert.True(t, result.Drifted)
		assert.True(t, decimal.RequireFromString("999.99").Equal(result.PreviousTotal))
		assert.True(t, decimal.RequireFromString("60.00").Equal(result.RecomputedTotal))

		stored, err := env.itineraryRepo.GetByID(context.Background(), itineraryID)
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("60.00").Equal(stored.TotalPrice))
	})

	t.Run("works on a locked itinerary", func(t *testing.T) {
		env := setupTestEnv(t)
		itineraryID := createItinerary(t, env, "agent-1")
		ctx := agentContext("agent-1")

		_, err := env.itineraryService.Lock(ctx, itineraryID)
		require.NoError(t, err)

		result, err := env.itineraryService.Recalculate(ctx, itineraryID)
		require.NoError(t, err)
		assert.False(t, result.Drifted)
	})
}

func TestItineraryService_ReconcileTotals(t *testing.T) {
	env := setupTestEnv(t)
	healthyID := createItinerary(t, env, "agent-1")
	driftedID := createItinerary(t, env, "agent-2")

	_, err := env.itemService.Create(agentContext("agent-1"), healthyID, &domain.CreateItineraryItemRequest{
		PackageType:  domain.PackageTypeActivity,
		PackageID:    newUUID(),
		OperatorID:   "op-1",
		PackageTitle: "Wine tasting",
		UnitPrice:    decimal.RequireFromString("80.00"),
		Quantity:     2,
	})
	require.NoError(t, err)

	_, err = env.itemService.Create(agentContext("agent-2"), driftedID, &domain.CreateItineraryItemRequest{
		PackageType:  domain.PackageTypeActivity,
		PackageID:    newUUID(),
		OperatorID:   "op-2",
		PackageTitle: "Surf lesson",
		UnitPrice:    decimal.RequireFromString("50.00"),
		Quantity:     1,
	})
	require.NoError(t, err)

	err = env.db.Exec("UPDATE itineraries SET total_price = 1.00 WHERE id = ?", driftedID).Error
	require.NoError(t, err)

	checked, drifted, err := env.itineraryService.ReconcileTotals(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, checked)
	assert.Equal(t, 1, drifted)

	repaired, err := env.itineraryRepo.GetByID(context.Background(), driftedID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("50.00").Equal(repaired.TotalPrice))

	healthy, err := env.itineraryRepo.GetByID(context.Background(), healthyID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("160.00").Equal(healthy.TotalPrice))
}
