package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tripforge/marketplace-api/internal/domain"
	"github.com/tripforge/marketplace-api/internal/service"
)

func TestRespondServiceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{"unauthorized", service.ErrUnauthorized, http.StatusUnauthorized, domain.ErrorTypeUnauthorized},
		{"forbidden", service.ErrForbidden, http.StatusForbidden, domain.ErrorTypeForbidden},
		{"lead not purchased", service.ErrLeadNotPurchased, http.StatusForbidden, domain.ErrorTypeForbidden},
		{"itinerary not found", service.ErrItineraryNotFound, http.StatusNotFound, domain.ErrorTypeNotFound},
		{"day not found", service.ErrDayNotFound, http.StatusNotFound, domain.ErrorTypeNotFound},
		{"item not found", service.ErrItemNotFound, http.StatusNotFound, domain.ErrorTypeNotFound},
		{"lead not found", service.ErrLeadNotFound, http.StatusNotFound, domain.ErrorTypeNotFound},
		{"file not found", service.ErrFileNotFound, http.StatusNotFound, domain.ErrorTypeNotFound},
		{"itinerary locked", service.ErrItineraryLocked, http.StatusLocked, domain.ErrorTypeLocked},
		{"conflict", service.ErrConflict, http.StatusConflict, domain.ErrorTypeConflict},
		{"already locked", service.ErrAlreadyLocked, http.StatusConflict, domain.ErrorTypeConflict},
		{"not locked", service.ErrNotLocked, http.StatusConflict, domain.ErrorTypeConflict},
		{"already confirmed", service.ErrAlreadyConfirmed, http.StatusConflict, domain.ErrorTypeConflict},
		{"duplicate day number", service.ErrDuplicateDayNumber, http.StatusConflict, domain.ErrorTypeConflict},
		{"lead not open", service.ErrLeadNotOpen, http.StatusConflict, domain.ErrorTypeConflict},
		{"invalid input", service.ErrInvalidInput, http.StatusBadRequest, domain.ErrorTypeBadRequest},
		{"deadline exceeded", context.DeadlineExceeded, http.StatusServiceUnavailable, domain.ErrorTypeUnavailable},
		{"canceled", context.Canceled, http.StatusServiceUnavailable, domain.ErrorTypeUnavailable},
		{"unknown error", fmt.Errorf("boom"), http.StatusInternalServerError, domain.ErrorTypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondServiceError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body domain.APIError
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.wantStatus, body.Status)
			assert.Equal(t, tt.wantType, body.Type)
			assert.NotEmpty(t, body.Detail)
		})
	}

	t.Run("wrapped errors map the same way", func(t *testing.T) {
		rec := httptest.NewRecorder()
		respondServiceError(rec, fmt.Errorf("%w: quantity must be positive", service.ErrInvalidInput))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
