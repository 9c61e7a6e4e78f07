package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/tripforge/marketplace-api/internal/domain"
	"gorm.io/gorm"
)

type ItineraryItemRepository struct {
	db *gorm.DB
}

func NewItineraryItemRepository(db *gorm.DB) *ItineraryItemRepository {
	return &ItineraryItemRepository{db: db}
}

// Create inserts the item and refreshes the itinerary total in the same
// transaction. The total on the itinerary row never drifts from the sum of
// its item rows.
func (r *ItineraryItemRepository) Create(ctx context.Context, item *domain.ItineraryItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(item).Error; err != nil {
			return err
		}
		return recalculateTotal(tx, item.ItineraryID)
	})
}

func (r *ItineraryItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ItineraryItem, error) {
	var item domain.ItineraryItem
	err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *ItineraryItemRepository) ListByItinerary(ctx context.Context, itineraryID uuid.UUID) ([]domain.ItineraryItem, error) {
	var items []domain.ItineraryItem
	err := r.db.WithContext(ctx).
		Where("itinerary_id = ?", itineraryID).
		Order("display_order").
		Find(&items).Error
	return items, err
}

func (r *ItineraryItemRepository) ListByDay(ctx context.Context, dayID uuid.UUID) ([]domain.ItineraryItem, error) {
	var items []domain.ItineraryItem
	err := r.db.WithContext(ctx).
		Where("day_id = ?", dayID).
		Order("display_order").
		Find(&items).Error
	return items, err
}

// Update saves the item and refreshes the itinerary total in the same
// transaction
func (r *ItineraryItemRepository) Update(ctx context.Context, item *domain.ItineraryItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(item).Error; err != nil {
			return err
		}
		return recalculateTotal(tx, item.ItineraryID)
	})
}

// Delete removes the item and refreshes the itinerary total in the same
// transaction
func (r *ItineraryItemRepository) Delete(ctx context.Context, item *domain.ItineraryItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&domain.ItineraryItem{}, "id = ?", item.ID).Error; err != nil {
			return err
		}
		return recalculateTotal(tx, item.ItineraryID)
	})
}

// MaxDisplayOrder returns the highest display order among the itinerary's
// items, or 0 when there are none
func (r *ItineraryItemRepository) MaxDisplayOrder(ctx context.Context, itineraryID uuid.UUID) (int, error) {
	var max int
	err := r.db.WithContext(ctx).Model(&domain.ItineraryItem{}).
		Where("itinerary_id = ?", itineraryID).
		Select("COALESCE(MAX(display_order), 0)").
		Scan(&max).Error
	return max, err
}

func (r *ItineraryItemRepository) CountByItinerary(ctx context.Context, itineraryID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.ItineraryItem{}).
		Where("itinerary_id = ?", itineraryID).
		Count(&count).Error
	return count, err
}
