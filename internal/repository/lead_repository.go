package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tripforge/marketplace-api/internal/domain"
	"gorm.io/gorm"
)

type LeadRepository struct {
	db *gorm.DB
}

func NewLeadRepository(db *gorm.DB) *LeadRepository {
	return &LeadRepository{db: db}
}

func (r *LeadRepository) Create(ctx context.Context, lead *domain.Lead) error {
	return r.db.WithContext(ctx).Create(lead).Error
}

func (r *LeadRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Lead, error) {
	var lead domain.Lead
	err := r.db.WithContext(ctx).First(&lead, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

func (r *LeadRepository) Update(ctx context.Context, lead *domain.Lead) error {
	return r.db.WithContext(ctx).Save(lead).Error
}

func (r *LeadRepository) List(ctx context.Context, page, pageSize int, status *domain.LeadStatus, destination string) ([]domain.Lead, int64, error) {
	var leads []domain.Lead
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Lead{})

	if status != nil {
		query = query.Where("status = ?", *status)
	}

	if destination != "" {
		pattern := "%" + strings.ToLower(destination) + "%"
		query = query.Where("LOWER(destination) LIKE ?", pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&leads).Error

	return leads, total, err
}

// MarkPurchased transitions an open lead to purchased. The status guard in
// the WHERE clause makes concurrent purchases race-safe; the caller checks
// the returned row count to detect a lost race.
func (r *LeadRepository) MarkPurchased(ctx context.Context, id uuid.UUID, agentID string, purchasedAt time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&domain.Lead{}).
		Where("id = ? AND status = ?", id, domain.LeadStatusOpen).
		Updates(map[string]interface{}{
			"status":       domain.LeadStatusPurchased,
			"purchased_by": agentID,
			"purchased_at": purchasedAt,
		})
	return result.RowsAffected, result.Error
}

func (r *LeadRepository) CountByStatus(ctx context.Context, status domain.LeadStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Lead{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}
