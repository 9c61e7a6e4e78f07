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

func TestLeadService_Create(t *testing.T) {
	t.Run("admin publishes a lead", func(t *testing.T) {
		env := setupTestEnv(t)

		dto, err := env.leadService.Create(adminContext(), &domain.CreateLeadRequest{
			Destination: "Kyoto",
			AdultsCount: 2,
			Budget:      decimal.RequireFromString("8000.00"),
		})
		require.NoError(t, err)

		assert.Equal(t, "Kyoto", dto.Destination)
		assert.Equal(t, domain.LeadStatusOpen, dto.Status)
		assert.Equal(t, "USD", dto.Currency)
	})

	t.Run("agents may not publish leads", func(t *testing.T) {
		env := setupTestEnv(t)

		_, err := env.leadService.Create(agentContext("agent-1"), &domain.CreateLeadRequest{
			Destination: "Kyoto",
		})
		assert.ErrorIs(t, err, service.ErrForbidden)
	})

	t.Run("requires authentication", func(t *testing.T) {
		env := setupTestEnv(t)

		_, err := env.leadService.Create(context.Background(), &domain.CreateLeadRequest{
			Destination: "Kyoto",
		})
		assert.ErrorIs(t, err, service.ErrUnauthorized)
	})

	t.Run("rejects inverted date range", func(t *testing.T) {
		env := setupTestEnv(t)

		start := time.Date(2026, 12, 10, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 0, -2)

		_, err := env.leadService.Create(adminContext(), &domain.CreateLeadRequest{
			Destination: "Kyoto",
			StartDate:   &start,
			EndDate:     &end,
		})
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})

	t.Run("rejects negative budget", func(t *testing.T) {
		env := setupTestEnv(t)

		_, err := env.leadService.Create(adminContext(), &domain.CreateLeadRequest{
			Destination: "Kyoto",
			Budget:      decimal.RequireFromString("-100"),
		})
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})

	t.Run("defaults adults to one", func(t *testing.T) {
		env := setupTestEnv(t)

		dto, err := env.leadService.Create(adminContext(), &domain.CreateLeadRequest{
			Destination: "Kyoto",
		})
		require.NoError(t, err)
		assert.Equal(t, 1, dto.AdultsCount)
	})
}

func TestLeadService_List(t *testing.T) {
	env := setupTestEnv(t)
	createOpenLead(t, env, "Bali")
	createOpenLead(t, env, "Bali")
	createPurchasedLead(t, env, "agent-1")
	ctx := agentContext("agent-2")

	t.Run("returns every lead without filters", func(t *testing.T) {
		_, total, err := env.leadService.List(ctx, 1, 20, nil, "")
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
	})

	t.Run("filters by status", func(t *testing.T) {
		open := domain.LeadStatusOpen
		dtos, total, err := env.leadService.List(ctx, 1, 20, &open, "")
		require.NoError(t, err)

		assert.Equal(t, int64(2), total)
		for _, dto := range dtos {
			assert.Equal(t, domain.LeadStatusOpen, dto.Status)
		}
	})

	t.Run("filters by destination", func(t *testing.T) {
		_, total, err := env.leadService.List(ctx, 1, 20, nil, "Bali")
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
	})

	t.Run("requires authentication", func(t *testing.T) {
		_, _, err := env.leadService.List(context.Background(), 1, 20, nil, "")
		assert.ErrorIs(t, err, service.ErrUnauthorized)
	})
}

func TestLeadService_Purchase(t *testing.T) {
	t.Run("assigns an open lead to the caller", func(t *testing.T) {
		env := setupTestEnv(t)
		lead := createOpenLead(t, env, "Reykjavik")

		dto, err := env.leadService.Purchase(agentContext("agent-1"), lead.ID)
		require.NoError(t, err)

		assert.Equal(t, domain.LeadStatusPurchased, dto.Status)
		assert.Equal(t, "agent-1", dto.PurchasedBy)
		assert.NotNil(t, dto.PurchasedAt)
	})

	t.Run("second purchase conflicts", func(t *testing.T) {
		env := setupTestEnv(t)
		lead := createOpenLead(t, env, "Reykjavik")

		_, err := env.leadService.Purchase(agentContext("agent-1"), lead.ID)
		require.NoError(t, err)

		_, err = env.leadService.Purchase(agentContext("agent-2"), lead.ID)
		assert.ErrorIs(t, err, service.ErrLeadNotOpen)
	})

	t.Run("closed lead cannot be purchased", func(t *testing.T) {
		env := setupTestEnv(t)
		lead := createOpenLead(t, env, "Reykjavik")

		err := env.db.Model(&domain.Lead{}).
			Where("id = ?", lead.ID).
			Update("status", domain.LeadStatusClosed).Error
		require.NoError(t, err)

		_, err = env.leadService.Purchase(agentContext("agent-1"), lead.ID)
		assert.ErrorIs(t, err, service.ErrLeadNotOpen)
	})

	t.Run("unknown lead reports not found", func(t *testing.T) {
		env := setupTestEnv(t)

		_, err := env.leadService.Purchase(agentContext("agent-1"), newUUID())
		assert.ErrorIs(t, err, service.ErrLeadNotFound)
	})
}
