package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/tripforge/marketplace-api/internal/domain"
	"github.com/tripforge/marketplace-api/internal/service"
	"go.uber.org/zap"
)

// ItineraryDayHandler handles day plan endpoints nested under an itinerary.
type ItineraryDayHandler struct {
	dayService *service.ItineraryDayService
	logger     *zap.Logger
}

func NewItineraryDayHandler(dayService *service.ItineraryDayService, logger *zap.Logger) *ItineraryDayHandler {
	return &ItineraryDayHandler{
		dayService: dayService,
		logger:     logger,
	}
}

// @Summary Add day plan
// @Description Adds a day plan to an itinerary. Day numbers must be unique within the itinerary.
// @Tags Days
// @Accept json
// @Produce json
// @Param id path string true "Itinerary ID"
// @Param request body domain.CreateItineraryDayRequest true "Day plan"
// @Success 201 {object} domain.ItineraryDayDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError "Duplicate day number"
// @Failure 423 {object} domain.APIError "Itinerary is locked"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /itineraries/{id}/days [post]
func (h *ItineraryDayHandler) Create(w http.ResponseWriter, r *http.Request) {
	itineraryID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid itinerary ID: must be a valid UUID")
		return
	}

	var req domain.CreateItineraryDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	day, err := h.dayService.Create(r.Context(), itineraryID, &req)
	if err != nil {
		h.logger.Error("failed to create day plan", zap.Error(err), zap.String("itinerary_id", itineraryID.String()))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, day)
}

// @Summary Bulk add day plans
// @Description Adds several day plans in one transaction. Either all days are created or none are.
// @Tags Days
// @Accept json
// @Produce json
// @Param id path string true "Itinerary ID"
// @Param request body domain.BulkCreateItineraryDaysRequest true "Day plans"
// @Success 201 {array} domain.ItineraryDayDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError "Duplicate day number"
// @Failure 423 {object} domain.APIError "Itinerary is locked"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /itineraries/{id}/days/bulk [post]
func (h *ItineraryDayHandler) BulkCreate(w http.ResponseWriter, r *http.Request) {
	itineraryID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid itinerary ID: must be a valid UUID")
		return
	}

	var req domain.BulkCreateItineraryDaysRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	days, err := h.dayService.BulkCreate(r.Context(), itineraryID, &req)
	if err != nil {
		h.logger.Error("failed to bulk create day plans", zap.Error(err), zap.String("itinerary_id", itineraryID.String()))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, days)
}

// @Summary List day plans
// @Description Lists the itinerary's day plans ordered by day number.
// @Tags Days
// @Produce json
// @Param id path string true "Itinerary ID"
// @Success 200 {array} domain.ItineraryDayDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /itineraries/{id}/days [get]
func (h *ItineraryDayHandler) List(w http.ResponseWriter, r *http.Request) {
	itineraryID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid itinerary ID: must be a valid UUID")
		return
	}

	days, err := h.dayService.List(r.Context(), itineraryID)
	if err != nil {
		h.logger.Error("failed to list day plans", zap.Error(err), zap.String("itinerary_id", itineraryID.String()))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, days)
}

// @Summary Update day plan
// @Description Partially updates a day plan. Moving it to an occupied day number is a conflict.
// @Tags Days
// @Accept json
// @Produce json
// @Param id path string true "Itinerary ID"
// @Param dayId path string true "Day ID"
// @Param request body domain.UpdateItineraryDayRequest true "Fields to update"
// @Success 200 {object} domain.ItineraryDayDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError "Duplicate day number"
// @Failure 423 {object} domain.APIError "Itinerary is locked"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /itineraries/{id}/days/{dayId} [patch]
func (h *ItineraryDayHandler) Update(w http.ResponseWriter, r *http.Request) {
	itineraryID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid itinerary ID: must be a valid UUID")
		return
	}

	dayID, err := uuid.Parse(chi.URLParam(r, "dayId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid day ID: must be a valid UUID")
		return
	}

	var req domain.UpdateItineraryDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	day, err := h.dayService.Update(r.Context(), itineraryID, dayID, &req)
	if err != nil {
		h.logger.Error("failed to update day plan", zap.Error(err), zap.String("day_id", dayID.String()))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, day)
}

// @Summary Delete day plan
// @Description Deletes a day plan. Items scheduled on the day are detached, not deleted.
// @Tags Days
// @Param id path string true "Itinerary ID"
// @Param dayId path string true "Day ID"
// @Success 204 "No Content"
// @Failure 404 {object} domain.APIError
// @Failure 423 {object} domain.APIError "Itinerary is locked"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /itineraries/{id}/days/{dayId} [delete]
func (h *ItineraryDayHandler) Delete(w http.ResponseWriter, r *http.Request) {
	itineraryID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid itinerary ID: must be a valid UUID")
		return
	}

	dayID, err := uuid.Parse(chi.URLParam(r, "dayId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid day ID: must be a valid UUID")
		return
	}

	if err := h.dayService.Delete(r.Context(), itineraryID, dayID); err != nil {
		h.logger.Error("failed to delete day plan", zap.Error(err), zap.String("day_id", dayID.String()))
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
