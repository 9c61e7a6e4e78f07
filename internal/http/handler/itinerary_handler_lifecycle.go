package handler

// Lifecycle handlers for the ItineraryHandler: confirm, lock, unlock.

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/tripforge/marketplace-api/internal/domain"
	"go.uber.org/zap"
)

// @Summary Confirm itinerary
// @Description Transitions the itinerary to confirmed. Locks it in the same operation unless the body passes lock=false.
// @Tags Itineraries
// @Accept json
// @Produce json
// @Param id path string true "Itinerary ID"
// @Param request body domain.ConfirmItineraryRequest false "Confirm options"
// @Success 200 {object} domain.ItineraryDTO
// @Failure 403 {object} domain.APIError "Caller is not the owning agent"
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError "Already confirmed or already locked"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /itineraries/{id}/confirm [post]
func (h *ItineraryHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid itinerary ID: must be a valid UUID")
		return
	}

	// The body is optional; an empty body means lock=true
	var req domain.ConfirmItineraryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	itinerary, err := h.itineraryService.Confirm(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to confirm itinerary", zap.Error(err), zap.String("itinerary_id", id.String()))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, itinerary)
}

// @Summary Lock itinerary
// @Description Freezes the itinerary against all further mutation except unlock.
// @Tags Itineraries
// @Produce json
// @Param id path string true "Itinerary ID"
// @Success 200 {object} domain.ItineraryDTO
// @Failure 403 {object} domain.APIError "Caller is not the owning agent"
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError "Already locked"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /itineraries/{id}/lock [post]
func (h *ItineraryHandler) Lock(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid itinerary ID: must be a valid UUID")
		return
	}

	itinerary, err := h.itineraryService.Lock(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to lock itinerary", zap.Error(err), zap.String("itinerary_id", id.String()))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, itinerary)
}

// @Summary Unlock itinerary
// @Description Reopens a locked itinerary for editing.
// @Tags Itineraries
// @Produce json
// @Param id path string true "Itinerary ID"
// @Success 200 {object} domain.ItineraryDTO
// @Failure 403 {object} domain.APIError "Caller is not the owning agent"
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError "Not locked"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /itineraries/{id}/unlock [post]
func (h *ItineraryHandler) Unlock(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid itinerary ID: must be a valid UUID")
		return
	}

	itinerary, err := h.itineraryService.Unlock(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to unlock itinerary", zap.Error(err), zap.String("itinerary_id", id.String()))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, itinerary)
}
