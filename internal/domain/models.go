package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate assigns the ID in the application so the same models work
// against Postgres and the sqlite test database.
func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// ItineraryStatus represents the lifecycle status of an itinerary
type ItineraryStatus string

const (
	ItineraryStatusDraft     ItineraryStatus = "draft"
	ItineraryStatusConfirmed ItineraryStatus = "confirmed"
)

// IsValid checks if the ItineraryStatus is a valid enum value
func (s ItineraryStatus) IsValid() bool {
	switch s {
	case ItineraryStatusDraft, ItineraryStatusConfirmed:
		return true
	}
	return false
}

// PackageType represents the kind of operator package a line item references
type PackageType string

const (
	PackageTypeActivity             PackageType = "activity"
	PackageTypeTransfer             PackageType = "transfer"
	PackageTypeMultiCity            PackageType = "multi_city"
	PackageTypeMultiCityHotel       PackageType = "multi_city_hotel"
	PackageTypeFixedDepartureFlight PackageType = "fixed_departure_flight"
)

// IsValid checks if the PackageType is a valid enum value
func (p PackageType) IsValid() bool {
	switch p {
	case PackageTypeActivity, PackageTypeTransfer, PackageTypeMultiCity,
		PackageTypeMultiCityHotel, PackageTypeFixedDepartureFlight:
		return true
	}
	return false
}

// LeadStatus represents the marketplace status of a travel lead
type LeadStatus string

const (
	LeadStatusOpen      LeadStatus = "open"
	LeadStatusPurchased LeadStatus = "purchased"
	LeadStatusClosed    LeadStatus = "closed"
)

// IsValid checks if the LeadStatus is a valid enum value
func (s LeadStatus) IsValid() bool {
	switch s {
	case LeadStatusOpen, LeadStatusPurchased, LeadStatusClosed:
		return true
	}
	return false
}

// Lead represents a travel request published on the lead marketplace.
// Agents purchase leads and build itineraries against them.
type Lead struct {
	BaseModel
	Destination   string          `gorm:"type:varchar(200);not null;index"`
	StartDate     *time.Time      `gorm:"type:date;column:start_date"`
	EndDate       *time.Time      `gorm:"type:date;column:end_date"`
	AdultsCount   int             `gorm:"not null;default:1;column:adults_count"`
	ChildrenCount int             `gorm:"not null;default:0;column:children_count"`
	InfantsCount  int             `gorm:"not null;default:0;column:infants_count"`
	Budget        decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	Currency      string          `gorm:"type:varchar(3);not null;default:'USD'"`
	Notes         string          `gorm:"type:text"`
	Status        LeadStatus      `gorm:"type:varchar(50);not null;default:'open';index"`
	PurchasedBy   string          `gorm:"type:varchar(100);column:purchased_by;index"`
	PurchasedAt   *time.Time      `gorm:"column:purchased_at"`
}

// Itinerary represents a quote/booking shell an agent assembles for a
// purchased lead. At most one itinerary exists per (lead, agent) pair.
type Itinerary struct {
	BaseModel
	LeadID        uuid.UUID       `gorm:"type:uuid;not null;column:lead_id;uniqueIndex:idx_itineraries_lead_agent"`
	Lead          *Lead           `gorm:"foreignKey:LeadID"`
	AgentID       string          `gorm:"type:varchar(100);not null;column:agent_id;index;uniqueIndex:idx_itineraries_lead_agent"`
	Name          string          `gorm:"type:varchar(200)"`
	AdultsCount   int             `gorm:"not null;default:1;column:adults_count"`
	ChildrenCount int             `gorm:"not null;default:0;column:children_count"`
	InfantsCount  int             `gorm:"not null;default:0;column:infants_count"`
	StartDate     *time.Time      `gorm:"type:date;column:start_date"`
	EndDate       *time.Time      `gorm:"type:date;column:end_date"`
	Status        ItineraryStatus `gorm:"type:varchar(50);not null;default:'draft';index"`
	TotalPrice    decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0;column:total_price"`
	Currency      string          `gorm:"type:varchar(3);not null;default:'USD'"`
	Notes         string          `gorm:"type:text"`
	IsLocked      bool            `gorm:"not null;default:false;column:is_locked"`
	LockedAt      *time.Time      `gorm:"column:locked_at"`
	LockedBy      string          `gorm:"type:varchar(100);column:locked_by"`
	ConfirmedAt   *time.Time      `gorm:"column:confirmed_at"`
	ConfirmedBy   string          `gorm:"type:varchar(100);column:confirmed_by"`
	Days          []ItineraryDay  `gorm:"foreignKey:ItineraryID;constraint:OnDelete:CASCADE"`
	Items         []ItineraryItem `gorm:"foreignKey:ItineraryID;constraint:OnDelete:CASCADE"`
}

// ItineraryDay represents one calendar day within an itinerary, divided
// into morning/afternoon/evening time slots.
type ItineraryDay struct {
	BaseModel
	ItineraryID  uuid.UUID   `gorm:"type:uuid;not null;column:itinerary_id;uniqueIndex:idx_itinerary_days_number"`
	Itinerary    *Itinerary  `gorm:"foreignKey:ItineraryID"`
	DayNumber    int         `gorm:"not null;column:day_number;uniqueIndex:idx_itinerary_days_number"`
	Date         *time.Time  `gorm:"type:date"`
	CityName     string      `gorm:"type:varchar(200);not null;column:city_name"`
	DisplayOrder int         `gorm:"not null;default:0;column:display_order"`
	Notes        string      `gorm:"type:text"`
	TimeSlots    TimeSlotMap `gorm:"type:jsonb;column:time_slots"`
}

// ItineraryItem represents one priced package selection placed into an
// itinerary, optionally tied to a day. The referenced operator package is
// external; only the fields the caller supplied are stored.
type ItineraryItem struct {
	BaseModel
	ItineraryID     uuid.UUID       `gorm:"type:uuid;not null;column:itinerary_id;index"`
	Itinerary       *Itinerary      `gorm:"foreignKey:ItineraryID"`
	DayID           *uuid.UUID      `gorm:"type:uuid;column:day_id;index"`
	Day             *ItineraryDay   `gorm:"foreignKey:DayID"`
	PackageType     PackageType     `gorm:"type:varchar(50);not null;column:package_type"`
	PackageID       uuid.UUID       `gorm:"type:uuid;not null;column:package_id"`
	OperatorID      string          `gorm:"type:varchar(100);not null;column:operator_id"`
	PackageTitle    string          `gorm:"type:varchar(300);not null;column:package_title"`
	PackageImageURL string          `gorm:"type:varchar(500);column:package_image_url"`
	Configuration   *string         `gorm:"type:jsonb"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(15,2);not null;column:unit_price"`
	Quantity        int             `gorm:"not null;default:1"`
	TotalPrice      decimal.Decimal `gorm:"type:decimal(15,2);not null;column:total_price"`
	DisplayOrder    int             `gorm:"not null;default:0;column:display_order"`
	Notes           string          `gorm:"type:text"`
}

// StoredFile records an uploaded file, optionally attached to an itinerary
type StoredFile struct {
	BaseModel
	Filename    string     `gorm:"type:varchar(255);not null"`
	ContentType string     `gorm:"type:varchar(100);not null;column:content_type"`
	Size        int64      `gorm:"not null"`
	StoragePath string     `gorm:"type:varchar(500);not null;unique;column:storage_path"`
	ItineraryID *uuid.UUID `gorm:"type:uuid;index;column:itinerary_id"`
	Itinerary   *Itinerary `gorm:"foreignKey:ItineraryID"`
	UploadedBy  string     `gorm:"type:varchar(100);column:uploaded_by"`
}
