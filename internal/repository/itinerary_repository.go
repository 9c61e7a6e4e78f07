package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tripforge/marketplace-api/internal/domain"
	"gorm.io/gorm"
)

type ItineraryRepository struct {
	db *gorm.DB
}

func NewItineraryRepository(db *gorm.DB) *ItineraryRepository {
	return &ItineraryRepository{db: db}
}

func (r *ItineraryRepository) Create(ctx context.Context, itinerary *domain.Itinerary) error {
	return r.db.WithContext(ctx).Create(itinerary).Error
}

func (r *ItineraryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Itinerary, error) {
	var itinerary domain.Itinerary
	err := r.db.WithContext(ctx).First(&itinerary, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &itinerary, nil
}

// GetByIDWithDetails loads an itinerary with its days and items. Days come
// back in day order, items in display order.
func (r *ItineraryRepository) GetByIDWithDetails(ctx context.Context, id uuid.UUID) (*domain.Itinerary, error) {
	var itinerary domain.Itinerary
	err := r.db.WithContext(ctx).
		Preload("Lead").
		Preload("Days", func(db *gorm.DB) *gorm.DB {
			return db.Order("day_number")
		}).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order")
		}).
		First(&itinerary, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &itinerary, nil
}

func (r *ItineraryRepository) GetByLeadAndAgent(ctx context.Context, leadID uuid.UUID, agentID string) (*domain.Itinerary, error) {
	var itinerary domain.Itinerary
	err := r.db.WithContext(ctx).
		First(&itinerary, "lead_id = ? AND agent_id = ?", leadID, agentID).Error
	if err != nil {
		return nil, err
	}
	return &itinerary, nil
}

// UpdateFields applies a partial update without touching other columns
func (r *ItineraryRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&domain.Itinerary{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *ItineraryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Itinerary{}, "id = ?", id).Error
}

func (r *ItineraryRepository) List(ctx context.Context, page, pageSize int, agentID string, leadID *uuid.UUID, status *domain.ItineraryStatus) ([]domain.Itinerary, int64, error) {
	var itineraries []domain.Itinerary
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Itinerary{})

	if agentID != "" {
		query = query.Where("agent_id = ?", agentID)
	}

	if leadID != nil {
		query = query.Where("lead_id = ?", *leadID)
	}

	if status != nil {
		query = query.Where("status = ?", *status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&itineraries).Error

	return itineraries, total, err
}

// RecalculateTotal recomputes total_price from the item rows in a single
// statement and returns the stored value. Keeping the aggregate write in
// one UPDATE means it also holds under concurrent item mutations.
func (r *ItineraryRepository) RecalculateTotal(ctx context.Context, id uuid.UUID) (decimal.Decimal, error) {
	if err := recalculateTotal(r.db.WithContext(ctx), id); err != nil {
		return decimal.Zero, err
	}

	var itinerary domain.Itinerary
	if err := r.db.WithContext(ctx).Select("total_price").First(&itinerary, "id = ?", id).Error; err != nil {
		return decimal.Zero, err
	}
	return itinerary.TotalPrice, nil
}

// recalculateTotal runs the aggregate write on the given handle so item
// repositories can reuse it inside their transactions.
func recalculateTotal(tx *gorm.DB, itineraryID uuid.UUID) error {
	return tx.Exec(
		`UPDATE itineraries
		 SET total_price = (
			SELECT COALESCE(SUM(total_price), 0)
			FROM itinerary_items
			WHERE itinerary_id = ?
		 ),
		 updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		itineraryID, itineraryID,
	).Error
}

func (r *ItineraryRepository) CountByAgent(ctx context.Context, agentID string, status *domain.ItineraryStatus) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&domain.Itinerary{}).
		Where("agent_id = ?", agentID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	err := query.Count(&count).Error
	return count, err
}

// GetPipelineValue sums the totals of an agent's draft itineraries
func (r *ItineraryRepository) GetPipelineValue(ctx context.Context, agentID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&domain.Itinerary{}).
		Where("agent_id = ? AND status = ?", agentID, domain.ItineraryStatusDraft).
		Select("COALESCE(SUM(total_price), 0)").
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// ListAllIDs returns the IDs of every itinerary, used by the totals
// reconciliation job
func (r *ItineraryRepository) ListAllIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&domain.Itinerary{}).
		Pluck("id", &ids).Error
	return ids, err
}
