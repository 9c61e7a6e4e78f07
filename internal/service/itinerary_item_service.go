package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/tripforge/marketplace-api/internal/domain"
	"github.com/tripforge/marketplace-api/internal/mapper"
	"github.com/tripforge/marketplace-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ItineraryItemService struct {
	itemRepo      *repository.ItineraryItemRepository
	dayRepo       *repository.ItineraryDayRepository
	itineraryRepo *repository.ItineraryRepository
	logger        *zap.Logger
}

func NewItineraryItemService(
	itemRepo *repository.ItineraryItemRepository,
	dayRepo *repository.ItineraryDayRepository,
	itineraryRepo *repository.ItineraryRepository,
	logger *zap.Logger,
) *ItineraryItemService {
	return &ItineraryItemService{
		itemRepo:      itemRepo,
		dayRepo:       dayRepo,
		itineraryRepo: itineraryRepo,
		logger:        logger,
	}
}

// Create adds a priced line item to an itinerary. The item total and the
// itinerary total are both written in the item repository's transaction,
// so the aggregate never drifts.
func (s *ItineraryItemService) Create(ctx context.Context, itineraryID uuid.UUID, req *domain.CreateItineraryItemRequest) (*domain.ItineraryItemDTO, error) {
	if _, _, err := guardItinerary(ctx, s.itineraryRepo, itineraryID, true); err != nil {
		return nil, err
	}

	if !req.PackageType.IsValid() {
		return nil, fmt.Errorf("%w: invalid packageType %q", ErrInvalidInput, req.PackageType)
	}
	if req.PackageID == uuid.Nil {
		return nil, fmt.Errorf("%w: packageId is required", ErrInvalidInput)
	}
	if req.OperatorID == "" {
		return nil, fmt.Errorf("%w: operatorId is required", ErrInvalidInput)
	}
	if req.PackageTitle == "" {
		return nil, fmt.Errorf("%w: packageTitle is required", ErrInvalidInput)
	}
	if req.UnitPrice.IsNegative() {
		return nil, fmt.Errorf("%w: unitPrice must be non-negative", ErrInvalidInput)
	}
	if req.Quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
	}

	if req.DayID != nil {
		if _, err := s.getOwnedDay(ctx, itineraryID, *req.DayID); err != nil {
			return nil, err
		}
	}

	displayOrder := 0
	if req.DisplayOrder != nil {
		displayOrder = *req.DisplayOrder
	} else {
		max, err := s.itemRepo.MaxDisplayOrder(ctx, itineraryID)
		if err != nil {
			return nil, fmt.Errorf("failed to determine display order: %w", err)
		}
		displayOrder = max + 1
	}

	item := &domain.ItineraryItem{
		ItineraryID:     itineraryID,
		DayID:           req.DayID,
		PackageType:     req.PackageType,
		PackageID:       req.PackageID,
		OperatorID:      req.OperatorID,
		PackageTitle:    req.PackageTitle,
		PackageImageURL: req.PackageImageURL,
		Configuration:   configurationValue(req.Configuration),
		UnitPrice:       req.UnitPrice,
		Quantity:        req.Quantity,
		TotalPrice:      LineTotal(req.UnitPrice, req.Quantity),
		DisplayOrder:    displayOrder,
		Notes:           req.Notes,
	}

	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create itinerary item: %w", err)
	}

	s.logger.Info("itinerary item created",
		zap.String("itinerary_id", itineraryID.String()),
		zap.String("item_id", item.ID.String()),
		zap.String("package_type", string(item.PackageType)),
		zap.String("total_price", item.TotalPrice.String()),
	)

	dto := mapper.ToItineraryItemDTO(item)
	return &dto, nil
}

// List returns the itinerary's items in display order
func (s *ItineraryItemService) List(ctx context.Context, itineraryID uuid.UUID) ([]domain.ItineraryItemDTO, error) {
	if _, _, err := guardItinerary(ctx, s.itineraryRepo, itineraryID, false); err != nil {
		return nil, err
	}

	items, err := s.itemRepo.ListByItinerary(ctx, itineraryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list itinerary items: %w", err)
	}

	dtos := make([]domain.ItineraryItemDTO, len(items))
	for i := range items {
		dtos[i] = mapper.ToItineraryItemDTO(&items[i])
	}
	return dtos, nil
}

// Update applies a partial update to a line item. A unit price or quantity
// change recomputes the item total in the same write, and the itinerary
// total follows in the same transaction.
func (s *ItineraryItemService) Update(ctx context.Context, itineraryID, itemID uuid.UUID, req *domain.UpdateItineraryItemRequest) (*domain.ItineraryItemDTO, error) {
	if _, _, err := guardItinerary(ctx, s.itineraryRepo, itineraryID, true); err != nil {
		return nil, err
	}

	item, err := s.getOwnedItem(ctx, itineraryID, itemID)
	if err != nil {
		return nil, err
	}

	if req.DayID != nil {
		if _, err := s.getOwnedDay(ctx, itineraryID, *req.DayID); err != nil {
			return nil, err
		}
		item.DayID = req.DayID
	}
	if req.PackageTitle != nil {
		if *req.PackageTitle == "" {
			return nil, fmt.Errorf("%w: packageTitle must not be empty", ErrInvalidInput)
		}
		item.PackageTitle = *req.PackageTitle
	}
	if req.PackageImageURL != nil {
		item.PackageImageURL = *req.PackageImageURL
	}
	if req.Configuration != nil {
		item.Configuration = configurationValue(*req.Configuration)
	}
	if req.UnitPrice != nil {
		if req.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("%w: unitPrice must be non-negative", ErrInvalidInput)
		}
		item.UnitPrice = *req.UnitPrice
	}
	if req.Quantity != nil {
		if *req.Quantity < 1 {
			return nil, fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
		}
		item.Quantity = *req.Quantity
	}
	if req.DisplayOrder != nil {
		item.DisplayOrder = *req.DisplayOrder
	}
	if req.Notes != nil {
		item.Notes = *req.Notes
	}

	item.TotalPrice = LineTotal(item.UnitPrice, item.Quantity)

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update itinerary item: %w", err)
	}

	dto := mapper.ToItineraryItemDTO(item)
	return &dto, nil
}

// Delete removes a line item and refreshes the itinerary total
func (s *ItineraryItemService) Delete(ctx context.Context, itineraryID, itemID uuid.UUID) error {
	if _, _, err := guardItinerary(ctx, s.itineraryRepo, itineraryID, true); err != nil {
		return err
	}

	item, err := s.getOwnedItem(ctx, itineraryID, itemID)
	if err != nil {
		return err
	}

	if err := s.itemRepo.Delete(ctx, item); err != nil {
		return fmt.Errorf("failed to delete itinerary item: %w", err)
	}

	s.logger.Info("itinerary item deleted",
		zap.String("itinerary_id", itineraryID.String()),
		zap.String("item_id", itemID.String()),
	)

	return nil
}

// getOwnedItem loads an item and verifies it belongs to the stated
// itinerary, reporting NotFound otherwise
func (s *ItineraryItemService) getOwnedItem(ctx context.Context, itineraryID, itemID uuid.UUID) (*domain.ItineraryItem, error) {
	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get itinerary item: %w", err)
	}

	if item.ItineraryID != itineraryID {
		return nil, ErrItemNotFound
	}

	return item, nil
}

func (s *ItineraryItemService) getOwnedDay(ctx context.Context, itineraryID, dayID uuid.UUID) (*domain.ItineraryDay, error) {
	day, err := s.dayRepo.GetByID(ctx, dayID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDayNotFound
		}
		return nil, fmt.Errorf("failed to get itinerary day: %w", err)
	}

	if day.ItineraryID != itineraryID {
		return nil, ErrDayNotFound
	}

	return day, nil
}

// configurationValue maps an absent configuration blob to NULL so the
// jsonb column never receives an empty string
func configurationValue(raw string) *string {
	if raw == "" {
		return nil
	}
	return &raw
}
