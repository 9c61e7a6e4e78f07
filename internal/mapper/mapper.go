package mapper

import (
	"time"

	"github.com/tripforge/marketplace-api/internal/domain"
)

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// ToItineraryDTO converts Itinerary to ItineraryDTO
func ToItineraryDTO(itinerary *domain.Itinerary) domain.ItineraryDTO {
	return domain.ItineraryDTO{
		ID:            itinerary.ID,
		LeadID:        itinerary.LeadID,
		AgentID:       itinerary.AgentID,
		Name:          itinerary.Name,
		AdultsCount:   itinerary.AdultsCount,
		ChildrenCount: itinerary.ChildrenCount,
		InfantsCount:  itinerary.InfantsCount,
		StartDate:     itinerary.StartDate,
		EndDate:       itinerary.EndDate,
		Status:        itinerary.Status,
		TotalPrice:    itinerary.TotalPrice,
		Currency:      itinerary.Currency,
		Notes:         itinerary.Notes,
		IsLocked:      itinerary.IsLocked,
		LockedAt:      itinerary.LockedAt,
		LockedBy:      itinerary.LockedBy,
		ConfirmedAt:   itinerary.ConfirmedAt,
		ConfirmedBy:   itinerary.ConfirmedBy,
		CreatedAt:     formatTime(itinerary.CreatedAt),
		UpdatedAt:     formatTime(itinerary.UpdatedAt),
	}
}

// ToItineraryDetailDTO converts Itinerary with its days and items loaded
func ToItineraryDetailDTO(itinerary *domain.Itinerary) domain.ItineraryDetailDTO {
	days := make([]domain.ItineraryDayDTO, len(itinerary.Days))
	for i := range itinerary.Days {
		days[i] = ToItineraryDayDTO(&itinerary.Days[i])
	}

	items := make([]domain.ItineraryItemDTO, len(itinerary.Items))
	for i := range itinerary.Items {
		items[i] = ToItineraryItemDTO(&itinerary.Items[i])
	}

	return domain.ItineraryDetailDTO{
		ItineraryDTO: ToItineraryDTO(itinerary),
		Days:         days,
		Items:        items,
	}
}

// ToItineraryDayDTO converts ItineraryDay to ItineraryDayDTO
func ToItineraryDayDTO(day *domain.ItineraryDay) domain.ItineraryDayDTO {
	slots := day.TimeSlots
	slots.Normalize()

	return domain.ItineraryDayDTO{
		ID:           day.ID,
		ItineraryID:  day.ItineraryID,
		DayNumber:    day.DayNumber,
		Date:         day.Date,
		CityName:     day.CityName,
		DisplayOrder: day.DisplayOrder,
		Notes:        day.Notes,
		TimeSlots:    slots,
		CreatedAt:    formatTime(day.CreatedAt),
		UpdatedAt:    formatTime(day.UpdatedAt),
	}
}

// ToItineraryItemDTO converts ItineraryItem to ItineraryItemDTO
func ToItineraryItemDTO(item *domain.ItineraryItem) domain.ItineraryItemDTO {
	configuration := ""
	if item.Configuration != nil {
		configuration = *item.Configuration
	}

	return domain.ItineraryItemDTO{
		ID:              item.ID,
		ItineraryID:     item.ItineraryID,
		DayID:           item.DayID,
		PackageType:     item.PackageType,
		PackageID:       item.PackageID,
		OperatorID:      item.OperatorID,
		PackageTitle:    item.PackageTitle,
		PackageImageURL: item.PackageImageURL,
		Configuration:   configuration,
		UnitPrice:       item.UnitPrice,
		Quantity:        item.Quantity,
		TotalPrice:      item.TotalPrice,
		DisplayOrder:    item.DisplayOrder,
		Notes:           item.Notes,
		CreatedAt:       formatTime(item.CreatedAt),
		UpdatedAt:       formatTime(item.UpdatedAt),
	}
}

// ToLeadDTO converts Lead to LeadDTO
func ToLeadDTO(lead *domain.Lead) domain.LeadDTO {
	return domain.LeadDTO{
		ID:            lead.ID,
		Destination:   lead.Destination,
		StartDate:     lead.StartDate,
		EndDate:       lead.EndDate,
		AdultsCount:   lead.AdultsCount,
		ChildrenCount: lead.ChildrenCount,
		InfantsCount:  lead.InfantsCount,
		Budget:        lead.Budget,
		Currency:      lead.Currency,
		Notes:         lead.Notes,
		Status:        lead.Status,
		PurchasedBy:   lead.PurchasedBy,
		PurchasedAt:   lead.PurchasedAt,
		CreatedAt:     formatTime(lead.CreatedAt),
	}
}

// ToFileDTO converts StoredFile to FileDTO
func ToFileDTO(file *domain.StoredFile) domain.FileDTO {
	return domain.FileDTO{
		ID:          file.ID.String(),
		FileName:    file.Filename,
		ContentType: file.ContentType,
		Size:        file.Size,
		Path:        file.StoragePath,
		UploadedBy:  file.UploadedBy,
		UploadedAt:  formatTime(file.CreatedAt),
	}
}
