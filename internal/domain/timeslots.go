package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// TimeSlot is one bucket of a day's schedule: a time-of-day label and the
// ordered package references scheduled into it.
type TimeSlot struct {
	Time       string   `json:"time"`
	Activities []string `json:"activities"`
	Transfers  []string `json:"transfers"`
}

// TimeSlotMap is the fixed three-bucket schedule of an itinerary day.
// It is stored as a single jsonb column; consumers can rely on all three
// buckets being present with non-nil lists.
type TimeSlotMap struct {
	Morning   TimeSlot `json:"morning"`
	Afternoon TimeSlot `json:"afternoon"`
	Evening   TimeSlot `json:"evening"`
}

// EmptyTimeSlotMap returns the default three-bucket structure with empty
// reference lists.
func EmptyTimeSlotMap() TimeSlotMap {
	return TimeSlotMap{
		Morning:   TimeSlot{Activities: []string{}, Transfers: []string{}},
		Afternoon: TimeSlot{Activities: []string{}, Transfers: []string{}},
		Evening:   TimeSlot{Activities: []string{}, Transfers: []string{}},
	}
}

// Normalize replaces nil reference lists with empty ones so callers never
// see a null bucket, regardless of what was stored.
func (m *TimeSlotMap) Normalize() {
	for _, slot := range []*TimeSlot{&m.Morning, &m.Afternoon, &m.Evening} {
		if slot.Activities == nil {
			slot.Activities = []string{}
		}
		if slot.Transfers == nil {
			slot.Transfers = []string{}
		}
	}
}

// Value implements driver.Valuer, serializing the map to JSON for storage.
func (m TimeSlotMap) Value() (driver.Value, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal time slots: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner. A NULL column scans to the default
// three-bucket structure.
func (m *TimeSlotMap) Scan(value interface{}) error {
	if value == nil {
		*m = EmptyTimeSlotMap()
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported time slots column type %T", value)
	}

	if len(data) == 0 {
		*m = EmptyTimeSlotMap()
		return nil
	}

	if err := json.Unmarshal(data, m); err != nil {
		return fmt.Errorf("failed to unmarshal time slots: %w", err)
	}
	m.Normalize()
	return nil
}
