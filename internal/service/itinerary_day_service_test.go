package service_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tripforge/marketplace-api/internal/domain"
	"github.com/tripforge/marketplace-api/internal/service"
)

func TestItineraryDayService_Create(t *testing.T) {
	t.Run("creates a day with normalized time slots", func(t *testing.T) {
		env := setupTestEnv(t)
		itineraryID := createItinerary(t, env, "agent-1")
		ctx := agentContext("agent-1")

		dto, err := env.dayService.Create(ctx, itineraryID, &domain.CreateItineraryDayRequest{
			DayNumber: 1,
			CityName:  "Porto",
		})
		require.NoError(t, err)

		assert.Equal(t, 1, dto.DayNumber)
		assert.Equal(t, "Porto", dto.CityName)
		assert.Equal(t, 1, dto.DisplayOrder)
		assert.NotNil(t, dto.TimeSlots.Morning.Activities)
		assert.NotNil(t, dto.TimeSlots.Afternoon.Transfers)
		assert.NotNil(t, dto.TimeSlots.Evening.Activities)
	})

	t.Run("keeps supplied time slot entries", func(t *testing.T) {
		env := setupTestEnv(t)
		itineraryID := createItinerary(t, env, "agent-1")
		ctx := agentContext("agent-1")

		slots := domain.EmptyTimeSlotMap()
		slots.Morning.Time = "09:00"
		slots.Morning.Activities = []string{"Douro river cruise"}

		dto, err := env.dayService.Create(ctx, itineraryID, &domain.CreateItineraryDayRequest{
			DayNumber: 1,
			CityName:  "Porto",
			TimeSlots: &slots,
		})
		require.NoError(t, err)

		assert.Equal(t, "09:00", dto.TimeSlots.Morning.Time)
		assert.Equal(t, []string{"Douro river cruise"}, dto.TimeSlots.Morning.Activities)
	})

	t.Run("duplicate day number conflicts", func(t *testing.T) {
		env := setupTestEnv(t)
		itineraryID := createItinerary(t, env, "agent-1")
		ctx := agentContext("agent-1")

		_, err := env.dayService.Create(ctx, itineraryID, &domain.CreateItineraryDayRequest{
			DayNumber: 2,
			CityName:  "Faro",
		})
		require.NoError(t, err)

		_, err = env.dayService.Create(ctx, itineraryID, &domain.CreateItineraryDayRequest{
			DayNumber: 2,
			CityName:  "Faro again",
		})
		assert.ErrorIs(t, err, service.ErrDuplicateDayNumber)
	})

	t.Run("same day number on another itinerary is fine", func(t *testing.T) {
		env := setupTestEnv(t)
		firstID := createItinerary(t, env, "agent-1")
		secondID := createItinerary(t, env, "agent-2")

		_, err := env.dayService.Create(agentContext("agent-1"), firstID, &domain.CreateItineraryDayRequest{
			DayNumber: 1,
			CityName:  "Madrid",
		})
		require.NoError(t, err)

		_, err = env.dayService.Create(agentContext("agent-2"), secondID, &domain.CreateItineraryDayRequest{
			DayNumber: 1,
			CityName:  "Sevilla",
		})
		assert.NoError(t, err)
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		env := setupTestEnv(t)
		itineraryID := createItinerary(t, env, "agent-1")
		ctx := agentContext("agent-1")

		_, err := env.dayService.Create(ctx, itineraryID, &domain.CreateItineraryDayRequest{
			DayNumber: 0,
			CityName:  "Porto",
		})
		assert.ErrorIs(t, err, service.ErrInvalidInput)

		_, err = env.dayService.Create(ctx, itineraryID, &domain.CreateItineraryDayRequest{
			DayNumber: 1,
		})
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})

	t.Run("locked itinerary rejects new days", func(t *testing.T) {
		env := setupTestEnv(t)
		itineraryID := createItinerary(t, env, "agent-1")
		ctx := agentContext("agent-1")

		_, err := env.itineraryService.Lock(ctx, itineraryID)
		require.NoError(t, err)

		_, err = env.dayService.Create(ctx, itineraryID, &domain.CreateItineraryDayRequest{
			DayNumber: 1,
			CityName:  "Porto",
		})
		assert.ErrorIs(t, err, service.ErrItineraryLocked)
	})
}

func TestItineraryDayService_BulkCreate(t *testing.T) {
	t.Run("creates every day in the batch", func(t *testing.T) {
		env := setupTestEnv(t)
		itineraryID := createItinerary(t, env, "agent-1")
		ctx := agentContext("agent-1")

		dtos, err := env.dayService.BulkCreate(ctx, itineraryID, &domain.BulkCreateItineraryDaysRequest{
			Days: []domain.CreateItineraryDayRequest{
				{DayNumber: 1, CityName: "Lisbon"},
				{DayNumber: 2, CityName: "Sintra"},
				{DayNumber: 3, CityName: "Cascais"},
			},
		})
		require.NoError(t, err)
		require.Len(t, dtos, 3)

		listed, err := env.dayService.List(ctx, itineraryID)
		require.NoError(t, err)
		require.Len(t, listed, 3)
		assert.Equal(t, 1, listed[0].DayNumber)
		assert.Equal(t, 3, listed[2].DayNumber)
	})

	t.Run("in-batch duplicate aborts the whole batch", func(t *testing.T) {
		env := setupTestEnv(t)
		itineraryID := createItinerary(t, env, "agent-1")
		ctx := agentContext("agent-1")

		_, err := env.dayService.BulkCreate(ctx, itineraryID, &domain.BulkCreateItineraryDaysRequest{
			Days: []domain.CreateItineraryDayRequest{
				{DayNumber: 1, CityName: "Lisbon"},
				{DayNumber: 1, CityName: "Lisbon again"},
			},
		})
		require.ErrorIs(t, err, service.ErrDuplicateDayNumber)

		listed, err := env.dayService.List(ctx, itineraryID)
		require.NoError(t, err)
		assert.Empty(t, listed)
	})

	t.Run("conflict with an existing day aborts the whole batch", func(t *testing.T) {
		env := setupTestEnv(t)
		itineraryID := createItinerary(t, env, "agent-1")
		ctx := agentContext("agent-1")

		_, err := env.dayService.Create(ctx, itineraryID, &domain.CreateItineraryDayRequest{
			DayNumber: 2,
			CityName:  "Sintra",
		})
		require.NoError(t, err)

		_, err = env.dayService.BulkCreate(ctx, itineraryID, &domain.BulkCreateItineraryDaysRequest{
			Days: []domain.CreateItineraryDayRequest{
				{DayNumber: 1, CityName: "Lisbon"},
				{DayNumber: 2, CityName: "Sintra duplicate"},
			},
		})
		require.ErrorIs(t, err, service.ErrDuplicateDayNumber)

		listed, err := env.dayService.List(ctx, itineraryID)
		require.NoError(t, err)
		assert.Len(t, listed, 1)
	})
}

func TestItineraryDayService_Update(t *testing.T) {
	t.Run("moves a day to a free number", func(t *testing.T) {
		env := setupTestEnv(t)
		itineraryID := createItinerary(t, env, "agent-1")
		ctx := agentContext("agent-1")

		day, err := env.dayService.Create(ctx, itineraryID, &domain.CreateItineraryDayRequest{
			DayNumber: 1,
			CityName:  "Lisbon",
		})
		require.NoError(t, err)

		dto, err := env.dayService.Update(ctx, itineraryID, day.ID, &domain.UpdateItineraryDayRequest{
			DayNumber: intPtr(5),
			Notes:     strPtr("shifted by a schedule change"),
		})
		require.NoError(t, err)

		assert.Equal(t, 5, dto.DayNumber)
		assert.Equal(t, "shifted by a schedule change", dto.Notes)
	})

	t.Run("moving onto an occupied number conflicts", func(t *testing.T) {
		env := setupTestEnv(t)
		itineraryID := createItinerary(t, env, "agent-1")
		ctx := agentContext("agent-1")

		_, err := env.dayService.Create(ctx, itineraryID, &domain.CreateItineraryDayRequest{
			DayNumber: 1,
			CityName:  "Lisbon",
		})
		require.NoError(t, err)

		second, err := env.dayService.Create(ctx, itineraryID, &domain.CreateItineraryDayRequest{
			DayNumber: 2,
			CityName:  "Sintra",
		})
		require.NoError(t, err)

		_, err = env.dayService.Update(ctx, itineraryID, second.ID, &domain.UpdateItineraryDayRequest{
			DayNumber: intPtr(1),
		})
		assert.ErrorIs(t, err, service.ErrDuplicateDayNumber)
	})

	t.Run("day under another itinerary reports not found", func(t *testing.T) {
		env := setupTestEnv(t)
		firstID := createItinerary(t, env, "agent-1")
		secondID := createItinerary(t, env, "agent-2")

		day, err := env.dayService.Create(agentContext("agent-2"), secondID, &domain.CreateItineraryDayRequest{
			DayNumber: 1,
			CityName:  "Madrid",
		})
		require.NoError(t, err)

		_, err = env.dayService.Update(agentContext("agent-1"), firstID, day.ID, &domain.UpdateItineraryDayRequest{
			CityName: strPtr("should not leak"),
		})
		assert.ErrorIs(t, err, service.ErrDayNotFound)
	})

	t.Run("rejects empty city name", func(t *testing.T) {
		env := setupTestEnv(t)
		itineraryID := createItinerary(t, env, "agent-1")
		ctx := agentContext("agent-1")

		day, err := env.dayService.Create(ctx, itineraryID, &domain.CreateItineraryDayRequest{
			DayNumber: 1,
			CityName:  "Lisbon",
		})
		require.NoError(t, err)

		_, err = env.dayService.Update(ctx, itineraryID, day.ID, &domain.UpdateItineraryDayRequest{
			CityName: strPtr(""),
		})
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})
}

func TestItineraryDayService_Delete(t *testing.T) {
	t.Run("detaches items and refreshes nothing else", func(t *testing.T) {
		env := setupTestEnv(t)
		itineraryID := createItinerary(t, env, "agent-1")
		ctx := agentContext("agent-1")

		day, err := env.dayService.Create(ctx, itineraryID, &domain.CreateItineraryDayRequest{
			DayNumber: 1,
			CityName:  "Lisbon",
		})
		require.NoError(t, err)

		item, err := env.itemService.Create(ctx, itineraryID, &domain.CreateItineraryItemRequest{
			DayID:        &day.ID,
			PackageType:  domain.PackageTypeActivity,
			PackageID:    newUUID(),
			OperatorID:   "op-1",
			PackageTitle: "Fado night",
			UnitPrice:    decimal.RequireFromString("35.00"),
			Quantity:     2,
		})
		require.NoError(t, err)

		err = env.dayService.Delete(ctx, itineraryID, day.ID)
		require.NoError(t, err)

		// The item survives, detached from the deleted day, and the
		// itinerary total is untouched.
		detached, err := env.itemRepo.GetByID(context.Background(), item.ID)
		require.NoError(t, err)
		assert.Nil(t, detached.DayID)

		stored, err := env.itineraryRepo.GetByID(context.Background(), itineraryID)
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("70.00").Equal(stored.TotalPrice))
	})

	t.Run("unknown day reports not found", func(t *testing.T) {
		env := setupTestEnv(t)
		itineraryID := createItinerary(t, env, "agent-1")

		err := env.dayService.Delete(agentContext("agent-1"), itineraryID, newUUID())
		assert.ErrorIs(t, err, service.ErrDayNotFound)
	})

	t.Run("locked itinerary rejects day deletion", func(t *testing.T) {
		env := setupTestEnv(t)
		itineraryID := createItinerary(t, env, "agent-1")
		ctx := agentContext("agent-1")

		day, err := env.dayService.Create(ctx, itineraryID, &domain.CreateItineraryDayRequest{
			DayNumber: 1,
			CityName:  "Lisbon",
		})
		require.NoError(t, err)

		_, err = env.itineraryService.Lock(ctx, itineraryID)
		require.NoError(t, err)

		err = env.dayService.Delete(ctx, itineraryID, day.ID)
		assert.ErrorIs(t, err, service.ErrItineraryLocked)
	})
}
