package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tripforge/marketplace-api/internal/domain"
)

func TestEmptyTimeSlotMap(t *testing.T) {
	m := domain.EmptyTimeSlotMap()

	for _, slot := range []domain.TimeSlot{m.Morning, m.Afternoon, m.Evening} {
		assert.NotNil(t, slot.Activities)
		assert.NotNil(t, slot.Transfers)
		assert.Empty(t, slot.Activities)
		assert.Empty(t, slot.Transfers)
	}
}

func TestTimeSlotMap_Normalize(t *testing.T) {
	m := domain.TimeSlotMap{
		Morning: domain.TimeSlot{
			Time:       "09:00",
			Activities: []string{"museum visit"},
		},
	}

	m.Normalize()

	assert.Equal(t, []string{"museum visit"}, m.Morning.Activities)
	assert.NotNil(t, m.Morning.Transfers)
	assert.NotNil(t, m.Afternoon.Activities)
	assert.NotNil(t, m.Afternoon.Transfers)
	assert.NotNil(t, m.Evening.Activities)
	assert.NotNil(t, m.Evening.Transfers)
}

func TestTimeSlotMap_ValueScanRoundTrip(t *testing.T) {
	m := domain.EmptyTimeSlotMap()
	m.Morning.Time = "08:30"
	m.Morning.Activities = []string{"surf lesson", "breakfast"}
	m.Evening.Transfers = []string{"hotel pickup"}

	value, err := m.Value()
	require.NoError(t, err)

	var scanned domain.TimeSlotMap
	require.NoError(t, scanned.Scan(value))

	assert.Equal(t, m, scanned)
}

func TestTimeSlotMap_Scan(t *testing.T) {
	t.Run("nil column scans to empty buckets", func(t *testing.T) {
		var m domain.TimeSlotMap
		require.NoError(t, m.Scan(nil))
		assert.Equal(t, domain.EmptyTimeSlotMap(), m)
	})

	t.Run("empty payload scans to empty buckets", func(t *testing.T) {
		var m domain.TimeSlotMap
		require.NoError(t, m.Scan([]byte{}))
		assert.Equal(t, domain.EmptyTimeSlotMap(), m)
	})

	t.Run("byte slice payload", func(t *testing.T) {
		var m domain.TimeSlotMap
		payload := []byte(`{"morning":{"time":"10:00","activities":["hike"],"transfers":null},"afternoon":{"time":"","activities":null,"transfers":null},"evening":{"time":"","activities":null,"transfers":null}}`)
		require.NoError(t, m.Scan(payload))

		assert.Equal(t, "10:00", m.Morning.Time)
		assert.Equal(t, []string{"hike"}, m.Morning.Activities)
		// Null lists normalize to empty ones on read.
		assert.NotNil(t, m.Morning.Transfers)
		assert.NotNil(t, m.Afternoon.Activities)
	})

	t.Run("string payload", func(t *testing.T) {
		var m domain.TimeSlotMap
		require.NoError(t, m.Scan(`{"morning":{"time":"07:00","activities":[],"transfers":[]},"afternoon":{"time":"","activities":[],"transfers":[]},"evening":{"time":"","activities":[],"transfers":[]}}`))
		assert.Equal(t, "07:00", m.Morning.Time)
	})

	t.Run("unsupported column type fails", func(t *testing.T) {
		var m domain.TimeSlotMap
		assert.Error(t, m.Scan(42))
	})
}
