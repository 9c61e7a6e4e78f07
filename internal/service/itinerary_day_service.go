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

type ItineraryDayService struct {
	dayRepo       *repository.ItineraryDayRepository
	itineraryRepo *repository.ItineraryRepository
	logger        *zap.Logger
}

func NewItineraryDayService(
	dayRepo *repository.ItineraryDayRepository,
	itineraryRepo *repository.ItineraryRepository,
	logger *zap.Logger,
) *ItineraryDayService {
	return &ItineraryDayService{
		dayRepo:       dayRepo,
		itineraryRepo: itineraryRepo,
		logger:        logger,
	}
}

// Create adds one day plan to an itinerary. Day numbers are unique within
// an itinerary; a duplicate fails with Conflict.
func (s *ItineraryDayService) Create(ctx context.Context, itineraryID uuid.UUID, req *domain.CreateItineraryDayRequest) (*domain.ItineraryDayDTO, error) {
	if _, _, err := guardItinerary(ctx, s.itineraryRepo, itineraryID, true); err != nil {
		return nil, err
	}

	day, err := s.buildDay(ctx, itineraryID, req)
	if err != nil {
		return nil, err
	}

	if err := s.dayRepo.Create(ctx, day); err != nil {
		// The composite unique index backstops the existence check under
		// concurrent creates.
		if exists, checkErr := s.dayRepo.ExistsByDayNumber(ctx, itineraryID, req.DayNumber, nil); checkErr == nil && exists {
			return nil, ErrDuplicateDayNumber
		}
		return nil, fmt.Errorf("failed to create itinerary day: %w", err)
	}

	dto := mapper.ToItineraryDayDTO(day)
	return &dto, nil
}

// BulkCreate adds several day plans at once. Validation runs over the full
// batch first; either every day is persisted or none are.
func (s *ItineraryDayService) BulkCreate(ctx context.Context, itineraryID uuid.UUID, req *domain.BulkCreateItineraryDaysRequest) ([]domain.ItineraryDayDTO, error) {
	if _, _, err := guardItinerary(ctx, s.itineraryRepo, itineraryID, true); err != nil {
		return nil, err
	}

	seen := make(map[int]bool, len(req.Days))
	days := make([]*domain.ItineraryDay, 0, len(req.Days))
	for i := range req.Days {
		dayReq := &req.Days[i]
		if seen[dayReq.DayNumber] {
			return nil, ErrDuplicateDayNumber
		}
		seen[dayReq.DayNumber] = true

		day, err := s.buildDay(ctx, itineraryID, dayReq)
		if err != nil {
			return nil, err
		}
		days = append(days, day)
	}

	if err := s.dayRepo.CreateBulk(ctx, days); err != nil {
		return nil, fmt.Errorf("failed to create itinerary days: %w", err)
	}

	s.logger.Info("itinerary days created",
		zap.String("itinerary_id", itineraryID.String()),
		zap.Int("count", len(days)),
	)

	dtos := make([]domain.ItineraryDayDTO, len(days))
	for i, day := range days {
		dtos[i] = mapper.ToItineraryDayDTO(day)
	}
	return dtos, nil
}

// List returns the itinerary's days in day-number order. Every returned
// day carries the full three-bucket time-slot structure.
func (s *ItineraryDayService) List(ctx context.Context, itineraryID uuid.UUID) ([]domain.ItineraryDayDTO, error) {
	if _, _, err := guardItinerary(ctx, s.itineraryRepo, itineraryID, false); err != nil {
		return nil, err
	}

	days, err := s.dayRepo.ListByItinerary(ctx, itineraryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list itinerary days: %w", err)
	}

	dtos := make([]domain.ItineraryDayDTO, len(days))
	for i := range days {
		dtos[i] = mapper.ToItineraryDayDTO(&days[i])
	}
	return dtos, nil
}

// Update applies a partial update to a day plan. Only supplied fields
// change; moving to an occupied day number fails with Conflict.
func (s *ItineraryDayService) Update(ctx context.Context, itineraryID, dayID uuid.UUID, req *domain.UpdateItineraryDayRequest) (*domain.ItineraryDayDTO, error) {
	if _, _, err := guardItinerary(ctx, s.itineraryRepo, itineraryID, true); err != nil {
		return nil, err
	}

	day, err := s.getOwnedDay(ctx, itineraryID, dayID)
	if err != nil {
		return nil, err
	}

	if req.DayNumber != nil && *req.DayNumber != day.DayNumber {
		if *req.DayNumber < 1 {
			return nil, fmt.Errorf("%w: dayNumber must be positive", ErrInvalidInput)
		}
		exists, err := s.dayRepo.ExistsByDayNumber(ctx, itineraryID, *req.DayNumber, &day.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check day number: %w", err)
		}
		if exists {
			return nil, ErrDuplicateDayNumber
		}
		day.DayNumber = *req.DayNumber
	}

	if req.Date != nil {
		day.Date = req.Date
	}
	if req.CityName != nil {
		if *req.CityName == "" {
			return nil, fmt.Errorf("%w: cityName must not be empty", ErrInvalidInput)
		}
		day.CityName = *req.CityName
	}
	if req.DisplayOrder != nil {
		day.DisplayOrder = *req.DisplayOrder
	}
	if req.Notes != nil {
		day.Notes = *req.Notes
	}
	if req.TimeSlots != nil {
		slots := *req.TimeSlots
		slots.Normalize()
		day.TimeSlots = slots
	}

	if err := s.dayRepo.Update(ctx, day); err != nil {
		return nil, fmt.Errorf("failed to update itinerary day: %w", err)
	}

	dto := mapper.ToItineraryDayDTO(day)
	return &dto, nil
}

// Delete removes a day plan and detaches its line items
func (s *ItineraryDayService) Delete(ctx context.Context, itineraryID, dayID uuid.UUID) error {
	if _, _, err := guardItinerary(ctx, s.itineraryRepo, itineraryID, true); err != nil {
		return err
	}

	day, err := s.getOwnedDay(ctx, itineraryID, dayID)
	if err != nil {
		return err
	}

	if err := s.dayRepo.Delete(ctx, day.ID); err != nil {
		return fmt.Errorf("failed to delete itinerary day: %w", err)
	}

	return nil
}

func (s *ItineraryDayService) buildDay(ctx context.Context, itineraryID uuid.UUID, req *domain.CreateItineraryDayRequest) (*domain.ItineraryDay, error) {
	if req.DayNumber < 1 {
		return nil, fmt.Errorf("%w: dayNumber must be positive", ErrInvalidInput)
	}
	if req.CityName == "" {
		return nil, fmt.Errorf("%w: cityName is required", ErrInvalidInput)
	}

	exists, err := s.dayRepo.ExistsByDayNumber(ctx, itineraryID, req.DayNumber, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check day number: %w", err)
	}
	if exists {
		return nil, ErrDuplicateDayNumber
	}

	slots := domain.EmptyTimeSlotMap()
	if req.TimeSlots != nil {
		slots = *req.TimeSlots
		slots.Normalize()
	}

	day := &domain.ItineraryDay{
		ItineraryID: itineraryID,
		DayNumber:   req.DayNumber,
		Date:        req.Date,
		CityName:    req.CityName,
		Notes:       req.Notes,
		TimeSlots:   slots,
	}
	if req.DisplayOrder != nil {
		day.DisplayOrder = *req.DisplayOrder
	} else {
		day.DisplayOrder = req.DayNumber
	}

	return day, nil
}

// getOwnedDay loads a day and verifies it belongs to the stated itinerary.
// A day under a different itinerary is reported as NotFound, never leaked.
func (s *ItineraryDayService) getOwnedDay(ctx context.Context, itineraryID, dayID uuid.UUID) (*domain.ItineraryDay, error) {
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
