package service_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/tripforge/marketplace-api/internal/auth"
	"github.com/tripforge/marketplace-api/internal/domain"
	"github.com/tripforge/marketplace-api/internal/repository"
	"github.com/tripforge/marketplace-api/internal/service"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newUUID() uuid.UUID { return uuid.New() }

// Helper functions for pointer values
func boolPtr(b bool) *bool                      { return &b }
func intPtr(i int) *int                         { return &i }
func strPtr(s string) *string                   { return &s }
func decPtr(d decimal.Decimal) *decimal.Decimal { return &d }

var testDBSeq atomic.Int64

func setupTestDB(t *testing.T) *gorm.DB {
	// A named shared-cache memory database gives every pooled connection
	// the same schema while keeping tests isolated from each other.
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&domain.Lead{},
		&domain.Itinerary{},
		&domain.ItineraryDay{},
		&domain.ItineraryItem{},
		&domain.StoredFile{},
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

type testEnv struct {
	db               *gorm.DB
	leadRepo         *repository.LeadRepository
	itineraryRepo    *repository.ItineraryRepository
	dayRepo          *repository.ItineraryDayRepository
	itemRepo         *repository.ItineraryItemRepository
	leadService      *service.LeadService
	itineraryService *service.ItineraryService
	dayService       *service.ItineraryDayService
	itemService      *service.ItineraryItemService
}

func setupTestEnv(t *testing.T) *testEnv {
	db := setupTestDB(t)
	log := zap.NewNop()

	leadRepo := repository.NewLeadRepository(db)
	itineraryRepo := repository.NewItineraryRepository(db)
	dayRepo := repository.NewItineraryDayRepository(db)
	itemRepo := repository.NewItineraryItemRepository(db)

	return &testEnv{
		db:               db,
		leadRepo:         leadRepo,
		itineraryRepo:    itineraryRepo,
		dayRepo:          dayRepo,
		itemRepo:         itemRepo,
		leadService:      service.NewLeadService(leadRepo, log),
		itineraryService: service.NewItineraryService(itineraryRepo, itemRepo, leadRepo, log),
		dayService:       service.NewItineraryDayService(dayRepo, itineraryRepo, log),
		itemService:      service.NewItineraryItemService(itemRepo, dayRepo, itineraryRepo, log),
	}
}

func agentContext(agentID string) context.Context {
	return auth.WithAgentContext(context.Background(), &auth.AgentContext{
		AgentID:     agentID,
		DisplayName: "Test Agent",
		Email:       agentID + "@example.com",
		Roles:       []domain.AgentRoleType{domain.RoleAgent},
	})
}

func adminContext() context.Context {
	return auth.WithAgentContext(context.Background(), &auth.AgentContext{
		AgentID:     "admin-1",
		DisplayName: "Test Admin",
		Email:       "admin@example.com",
		Roles:       []domain.AgentRoleType{domain.RoleAdmin},
	})
}

// createOpenLead seeds an open lead on the marketplace
func createOpenLead(t *testing.T, env *testEnv, destination string) *domain.Lead {
	lead := &domain.Lead{
		Destination: destination,
		AdultsCount: 2,
		Budget:      decimal.NewFromInt(5000),
		Currency:    "USD",
		Status:      domain.LeadStatusOpen,
	}
	require.NoError(t, env.leadRepo.Create(context.Background(), lead))
	return lead
}

// createPurchasedLead seeds a lead already purchased by the given agent
func createPurchasedLead(t *testing.T, env *testEnv, agentID string) *domain.Lead {
	lead := createOpenLead(t, env, "Lisbon")
	ctx := agentContext(agentID)
	_, err := env.leadService.Purchase(ctx, lead.ID)
	require.NoError(t, err)

	reloaded, err := env.leadRepo.GetByID(context.Background(), lead.ID)
	require.NoError(t, err)
	return reloaded
}

// createItinerary seeds a draft itinerary owned by the given agent
func createItinerary(t *testing.T, env *testEnv, agentID string) uuid.UUID {
	lead := createPurchasedLead(t, env, agentID)
	ctx := agentContext(agentID)

	result, err := env.itineraryService.Create(ctx, &domain.CreateItineraryRequest{
		LeadID: lead.ID,
	})
	require.NoError(t, err)
	require.True(t, result.Created)
	return result.Itinerary.ID
}
