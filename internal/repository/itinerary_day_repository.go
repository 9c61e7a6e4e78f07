package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/tripforge/marketplace-api/internal/domain"
	"gorm.io/gorm"
)

type ItineraryDayRepository struct {
	db *gorm.DB
}

func NewItineraryDayRepository(db *gorm.DB) *ItineraryDayRepository {
	return &ItineraryDayRepository{db: db}
}

func (r *ItineraryDayRepository) Create(ctx context.Context, day *domain.ItineraryDay) error {
	return r.db.WithContext(ctx).Create(day).Error
}

// CreateBulk inserts all days in one transaction. Either every day is
// created or none are.
func (r *ItineraryDayRepository) CreateBulk(ctx context.Context, days []*domain.ItineraryDay) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, day := range days {
			if err := tx.Create(day).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *ItineraryDayRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ItineraryDay, error) {
	var day domain.ItineraryDay
	err := r.db.WithContext(ctx).First(&day, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &day, nil
}

func (r *ItineraryDayRepository) ListByItinerary(ctx context.Context, itineraryID uuid.UUID) ([]domain.ItineraryDay, error) {
	var days []domain.ItineraryDay
	err := r.db.WithContext(ctx).
		Where("itinerary_id = ?", itineraryID).
		Order("day_number").
		Find(&days).Error
	return days, err
}

func (r *ItineraryDayRepository) Update(ctx context.Context, day *domain.ItineraryDay) error {
	return r.db.WithContext(ctx).Save(day).Error
}

// Delete removes a day and detaches its items. The items stay on the
// itinerary so the total is unchanged.
func (r *ItineraryDayRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.ItineraryItem{}).
			Where("day_id = ?", id).
			Update("day_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.ItineraryDay{}, "id = ?", id).Error
	})
}

// ExistsByDayNumber reports whether the itinerary already has a day with
// the given number, excluding excludeID when updating an existing day
func (r *ItineraryDayRepository) ExistsByDayNumber(ctx context.Context, itineraryID uuid.UUID, dayNumber int, excludeID *uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&domain.ItineraryDay{}).
		Where("itinerary_id = ? AND day_number = ?", itineraryID, dayNumber)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}
