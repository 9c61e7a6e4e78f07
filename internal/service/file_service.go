package service

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/tripforge/marketplace-api/internal/auth"
	"github.com/tripforge/marketplace-api/internal/domain"
	"github.com/tripforge/marketplace-api/internal/mapper"
	"github.com/tripforge/marketplace-api/internal/repository"
	"github.com/tripforge/marketplace-api/internal/storage"
	"go.uber.org/zap"
)

// FileService handles uploads and downloads backed by the storage layer.
// Files can be attached to an itinerary the caller owns or stand alone.
type FileService struct {
	fileRepo      *repository.FileRepository
	itineraryRepo *repository.ItineraryRepository
	storage       storage.Storage
	logger        *zap.Logger
}

func NewFileService(
	fileRepo *repository.FileRepository,
	itineraryRepo *repository.ItineraryRepository,
	storage storage.Storage,
	logger *zap.Logger,
) *FileService {
	return &FileService{
		fileRepo:      fileRepo,
		itineraryRepo: itineraryRepo,
		storage:       storage,
		logger:        logger,
	}
}

// Upload stores the file and records it. When itineraryID is set the caller
// must own the itinerary; attachments are allowed while locked since they do
// not change priced content.
func (s *FileService) Upload(ctx context.Context, filename, contentType string, data io.Reader, itineraryID *uuid.UUID) (*domain.FileDTO, error) {
	agentCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	if itineraryID != nil {
		if _, _, err := guardItinerary(ctx, s.itineraryRepo, *itineraryID, false); err != nil {
			return nil, err
		}
	}

	storagePath, size, err := s.storage.Upload(ctx, filename, contentType, data)
	if err != nil {
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}

	file := &domain.StoredFile{
		Filename:    filename,
		ContentType: contentType,
		Size:        size,
		StoragePath: storagePath,
		ItineraryID: itineraryID,
		UploadedBy:  agentCtx.AgentID,
	}

	if err := s.fileRepo.Create(ctx, file); err != nil {
		// Best effort cleanup of the orphaned blob
		if delErr := s.storage.Delete(ctx, storagePath); delErr != nil {
			s.logger.Warn("failed to cleanup file from storage after DB error",
				zap.Error(delErr),
				zap.String("storage_path", storagePath),
			)
		}
		return nil, fmt.Errorf("failed to create file record: %w", err)
	}

	dto := mapper.ToFileDTO(file)
	return &dto, nil
}

func (s *FileService) GetByID(ctx context.Context, id uuid.UUID) (*domain.FileDTO, error) {
	file, err := s.getAccessible(ctx, id)
	if err != nil {
		return nil, err
	}

	dto := mapper.ToFileDTO(file)
	return &dto, nil
}

// Download returns the file content, its name and content type
func (s *FileService) Download(ctx context.Context, id uuid.UUID) (io.ReadCloser, string, string, error) {
	file, err := s.getAccessible(ctx, id)
	if err != nil {
		return nil, "", "", err
	}

	reader, err := s.storage.Download(ctx, file.StoragePath)
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to download file: %w", err)
	}

	return reader, file.Filename, file.ContentType, nil
}

// ListByItinerary returns the files attached to an itinerary the caller owns
func (s *FileService) ListByItinerary(ctx context.Context, itineraryID uuid.UUID) ([]domain.FileDTO, error) {
	if _, _, err := guardItinerary(ctx, s.itineraryRepo, itineraryID, false); err != nil {
		return nil, err
	}

	files, err := s.fileRepo.ListByItinerary(ctx, itineraryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	dtos := make([]domain.FileDTO, 0, len(files))
	for i := range files {
		dtos = append(dtos, mapper.ToFileDTO(&files[i]))
	}
	return dtos, nil
}

// Delete removes the file record and its stored content
func (s *FileService) Delete(ctx context.Context, id uuid.UUID) error {
	file, err := s.getAccessible(ctx, id)
	if err != nil {
		return err
	}

	if err := s.storage.Delete(ctx, file.StoragePath); err != nil {
		s.logger.Warn("failed to delete file from storage",
			zap.Error(err),
			zap.String("storage_path", file.StoragePath),
			zap.String("file_id", id.String()),
		)
	}

	if err := s.fileRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete file record: %w", err)
	}

	return nil
}

// getAccessible loads a file and verifies the caller may see it. Files
// attached to an itinerary follow the itinerary's ownership; standalone files
// are visible to their uploader and admins.
func (s *FileService) getAccessible(ctx context.Context, id uuid.UUID) (*domain.StoredFile, error) {
	agentCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	file, err := s.fileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrFileNotFound
	}

	if file.ItineraryID != nil {
		if _, _, err := guardItinerary(ctx, s.itineraryRepo, *file.ItineraryID, false); err != nil {
			return nil, err
		}
		return file, nil
	}

	if !agentCtx.IsAdmin() && file.UploadedBy != agentCtx.AgentID {
		return nil, ErrForbidden
	}
	return file, nil
}
