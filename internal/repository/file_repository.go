package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/tripforge/marketplace-api/internal/domain"
	"gorm.io/gorm"
)

type FileRepository struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) *FileRepository {
	return &FileRepository{db: db}
}

func (r *FileRepository) Create(ctx context.Context, file *domain.StoredFile) error {
	return r.db.WithContext(ctx).Create(file).Error
}

func (r *FileRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.StoredFile, error) {
	var file domain.StoredFile
	if err := r.db.WithContext(ctx).First(&file, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *FileRepository) ListByItinerary(ctx context.Context, itineraryID uuid.UUID) ([]domain.StoredFile, error) {
	var files []domain.StoredFile
	err := r.db.WithContext(ctx).
		Where("itinerary_id = ?", itineraryID).
		Order("created_at ASC").
		Find(&files).Error
	return files, err
}

func (r *FileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.StoredFile{}, "id = ?", id).Error
}
