package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaginatedResponse wraps a page of results
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

// ---------------------------------------------------------------------------
// Itinerary
// ---------------------------------------------------------------------------

type ItineraryDTO struct {
	ID            uuid.UUID       `json:"id"`
	LeadID        uuid.UUID       `json:"leadId"`
	AgentID       string          `json:"agentId"`
	Name          string          `json:"name,omitempty"`
	AdultsCount   int             `json:"adultsCount"`
	ChildrenCount int             `json:"childrenCount"`
	InfantsCount  int             `json:"infantsCount"`
	StartDate     *time.Time      `json:"startDate,omitempty"`
	EndDate       *time.Time      `json:"endDate,omitempty"`
	Status        ItineraryStatus `json:"status"`
	TotalPrice    decimal.Decimal `json:"totalPrice"`
	Currency      string          `json:"currency"`
	Notes         string          `json:"notes,omitempty"`
	IsLocked      bool            `json:"isLocked"`
	LockedAt      *time.Time      `json:"lockedAt,omitempty"`
	LockedBy      string          `json:"lockedBy,omitempty"`
	ConfirmedAt   *time.Time      `json:"confirmedAt,omitempty"`
	ConfirmedBy   string          `json:"confirmedBy,omitempty"`
	CreatedAt     string          `json:"createdAt"` // ISO 8601
	UpdatedAt     string          `json:"updatedAt"` // ISO 8601
}

// ItineraryWithCreatedDTO is returned by the idempotent create operation.
// Created is false when an itinerary already existed for the (lead, agent)
// pair and that itinerary is returned unchanged.
type ItineraryWithCreatedDTO struct {
	Itinerary ItineraryDTO `json:"itinerary"`
	Created   bool         `json:"created"`
}

// ItineraryDetailDTO includes the day plans and line items
type ItineraryDetailDTO struct {
	ItineraryDTO
	Days  []ItineraryDayDTO  `json:"days"`
	Items []ItineraryItemDTO `json:"items"`
}

type CreateItineraryRequest struct {
	LeadID        uuid.UUID  `json:"leadId" validate:"required"`
	Name          string     `json:"name,omitempty" validate:"max=200"`
	AdultsCount   *int       `json:"adultsCount,omitempty" validate:"omitempty,gte=0"`
	ChildrenCount *int       `json:"childrenCount,omitempty" validate:"omitempty,gte=0"`
	InfantsCount  *int       `json:"infantsCount,omitempty" validate:"omitempty,gte=0"`
	StartDate     *time.Time `json:"startDate,omitempty"`
	EndDate       *time.Time `json:"endDate,omitempty"`
	Currency      string     `json:"currency,omitempty" validate:"omitempty,len=3"`
	Notes         string     `json:"notes,omitempty"`
}

// UpdateItineraryRequest carries the allow-listed partial update fields.
// Nil means "leave unchanged"; unknown JSON fields are ignored by decoding.
type UpdateItineraryRequest struct {
	Name          *string          `json:"name,omitempty" validate:"omitempty,max=200"`
	AdultsCount   *int             `json:"adultsCount,omitempty" validate:"omitempty,gte=0"`
	ChildrenCount *int             `json:"childrenCount,omitempty" validate:"omitempty,gte=0"`
	InfantsCount  *int             `json:"infantsCount,omitempty" validate:"omitempty,gte=0"`
	StartDate     *time.Time       `json:"startDate,omitempty"`
	EndDate       *time.Time       `json:"endDate,omitempty"`
	Status        *ItineraryStatus `json:"status,omitempty"`
	Notes         *string          `json:"notes,omitempty"`
}

type ConfirmItineraryRequest struct {
	// Lock defaults to true: confirming an itinerary freezes it unless the
	// caller explicitly asks to keep it editable.
	Lock *bool `json:"lock,omitempty"`
}

// RecalculateResultDTO reports stored vs recomputed totals for an itinerary
type RecalculateResultDTO struct {
	ItineraryID    uuid.UUID       `json:"itineraryId"`
	PreviousTotal  decimal.Decimal `json:"previousTotal"`
	RecomputedTotal decimal.Decimal `json:"recomputedTotal"`
	Drifted        bool            `json:"drifted"`
}

// ---------------------------------------------------------------------------
// Day plans
// ---------------------------------------------------------------------------

type ItineraryDayDTO struct {
	ID           uuid.UUID   `json:"id"`
	ItineraryID  uuid.UUID   `json:"itineraryId"`
	DayNumber    int         `json:"dayNumber"`
	Date         *time.Time  `json:"date,omitempty"`
	CityName     string      `json:"cityName"`
	DisplayOrder int         `json:"displayOrder"`
	Notes        string      `json:"notes,omitempty"`
	TimeSlots    TimeSlotMap `json:"timeSlots"`
	CreatedAt    string      `json:"createdAt"` // ISO 8601
	UpdatedAt    string      `json:"updatedAt"` // ISO 8601
}

type CreateItineraryDayRequest struct {
	DayNumber    int          `json:"dayNumber" validate:"required,gte=1"`
	Date         *time.Time   `json:"date,omitempty"`
	CityName     string       `json:"cityName" validate:"required,max=200"`
	DisplayOrder *int         `json:"displayOrder,omitempty"`
	Notes        string       `json:"notes,omitempty"`
	TimeSlots    *TimeSlotMap `json:"timeSlots,omitempty"`
}

type BulkCreateItineraryDaysRequest struct {
	Days []CreateItineraryDayRequest `json:"days" validate:"required,min=1,dive"`
}

type UpdateItineraryDayRequest struct {
	DayNumber    *int         `json:"dayNumber,omitempty" validate:"omitempty,gte=1"`
	Date         *time.Time   `json:"date,omitempty"`
	CityName     *string      `json:"cityName,omitempty" validate:"omitempty,max=200"`
	DisplayOrder *int         `json:"displayOrder,omitempty"`
	Notes        *string      `json:"notes,omitempty"`
	TimeSlots    *TimeSlotMap `json:"timeSlots,omitempty"`
}

// ---------------------------------------------------------------------------
// Line items
// ---------------------------------------------------------------------------

type ItineraryItemDTO struct {
	ID              uuid.UUID       `json:"id"`
	ItineraryID     uuid.UUID       `json:"itineraryId"`
	DayID           *uuid.UUID      `json:"dayId,omitempty"`
	PackageType     PackageType     `json:"packageType"`
	PackageID       uuid.UUID       `json:"packageId"`
	OperatorID      string          `json:"operatorId"`
	PackageTitle    string          `json:"packageTitle"`
	PackageImageURL string          `json:"packageImageUrl,omitempty"`
	Configuration   string          `json:"configuration,omitempty"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	Quantity        int             `json:"quantity"`
	TotalPrice      decimal.Decimal `json:"totalPrice"`
	DisplayOrder    int             `json:"displayOrder"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       string          `json:"createdAt"` // ISO 8601
	UpdatedAt       string          `json:"updatedAt"` // ISO 8601
}

type CreateItineraryItemRequest struct {
	DayID           *uuid.UUID      `json:"dayId,omitempty"`
	PackageType     PackageType     `json:"packageType" validate:"required"`
	PackageID       uuid.UUID       `json:"packageId" validate:"required"`
	OperatorID      string          `json:"operatorId" validate:"required,max=100"`
	PackageTitle    string          `json:"packageTitle" validate:"required,max=300"`
	PackageImageURL string          `json:"packageImageUrl,omitempty" validate:"omitempty,max=500"`
	Configuration   string          `json:"configuration,omitempty"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	Quantity        int             `json:"quantity" validate:"required,gte=1"`
	DisplayOrder    *int            `json:"displayOrder,omitempty"`
	Notes           string          `json:"notes,omitempty"`
}

type UpdateItineraryItemRequest struct {
	DayID           *uuid.UUID       `json:"dayId,omitempty"`
	PackageTitle    *string          `json:"packageTitle,omitempty" validate:"omitempty,max=300"`
	PackageImageURL *string          `json:"packageImageUrl,omitempty" validate:"omitempty,max=500"`
	Configuration   *string          `json:"configuration,omitempty"`
	UnitPrice       *decimal.Decimal `json:"unitPrice,omitempty"`
	Quantity        *int             `json:"quantity,omitempty" validate:"omitempty,gte=1"`
	DisplayOrder    *int             `json:"displayOrder,omitempty"`
	Notes           *string          `json:"notes,omitempty"`
}

// ---------------------------------------------------------------------------
// Leads
// ---------------------------------------------------------------------------

type LeadDTO struct {
	ID            uuid.UUID       `json:"id"`
	Destination   string          `json:"destination"`
	StartDate     *time.Time      `json:"startDate,omitempty"`
	EndDate       *time.Time      `json:"endDate,omitempty"`
	AdultsCount   int             `json:"adultsCount"`
	ChildrenCount int             `json:"childrenCount"`
	InfantsCount  int             `json:"infantsCount"`
	Budget        decimal.Decimal `json:"budget"`
	Currency      string          `json:"currency"`
	Notes         string          `json:"notes,omitempty"`
	Status        LeadStatus      `json:"status"`
	PurchasedBy   string          `json:"purchasedBy,omitempty"`
	PurchasedAt   *time.Time      `json:"purchasedAt,omitempty"`
	CreatedAt     string          `json:"createdAt"` // ISO 8601
}

type CreateLeadRequest struct {
	Destination   string          `json:"destination" validate:"required,max=200"`
	StartDate     *time.Time      `json:"startDate,omitempty"`
	EndDate       *time.Time      `json:"endDate,omitempty"`
	AdultsCount   int             `json:"adultsCount" validate:"gte=0"`
	ChildrenCount int             `json:"childrenCount" validate:"gte=0"`
	InfantsCount  int             `json:"infantsCount" validate:"gte=0"`
	Budget        decimal.Decimal `json:"budget"`
	Currency      string          `json:"currency,omitempty" validate:"omitempty,len=3"`
	Notes         string          `json:"notes,omitempty"`
}

// ---------------------------------------------------------------------------
// Auth and files
// ---------------------------------------------------------------------------

// AuthAgentDTO echoes the authenticated agent back to the client
type AuthAgentDTO struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Email   string   `json:"email"`
	Roles   []string `json:"roles"`
	IsAdmin bool     `json:"isAdmin"`
}

type FileDTO struct {
	ID          string `json:"id"`
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
	Path        string `json:"path"`
	UploadedBy  string `json:"uploadedBy"`
	UploadedAt  string `json:"uploadedAt"` // ISO 8601
}

// ---------------------------------------------------------------------------
// Dashboard
// ---------------------------------------------------------------------------

type DashboardMetricsDTO struct {
	OpenLeads             int64           `json:"openLeads"`
	PurchasedLeads        int64           `json:"purchasedLeads"`
	DraftItineraries      int64           `json:"draftItineraries"`
	ConfirmedItineraries  int64           `json:"confirmedItineraries"`
	PipelineValue         decimal.Decimal `json:"pipelineValue"`
	WarehouseBookingCount *int64          `json:"warehouseBookingCount,omitempty"`
}
