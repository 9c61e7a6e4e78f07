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

// ItineraryItemHandler handles priced line item endpoints nested under an itinerary.
type ItineraryItemHandler struct {
	itemService *service.ItineraryItemService
	logger      *zap.Logger
}

func NewItineraryItemHandler(itemService *service.ItineraryItemService, logger *zap.Logger) *ItineraryItemHandler {
	return &ItineraryItemHandler{
		itemService: itemService,
		logger:      logger,
	}
}

// @Summary Add line item
// @Description Adds a priced line item to an itinerary. The item total and the itinerary total are computed server side.
// @Tags Items
// @Accept json
// @Produce json
// @Param id path string true "Itinerary ID"
// @Param request body domain.CreateItineraryItemRequest true "Line item"
// @Success 201 {object} domain.ItineraryItemDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 423 {object} domain.APIError "Itinerary is locked"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /itineraries/{id}/items [post]
func (h *ItineraryItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	itineraryID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid itinerary ID: must be a valid UUID")
		return
	}

	var req domain.CreateItineraryItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	item, err := h.itemService.Create(r.Context(), itineraryID, &req)
	if err != nil {
		h.logger.Error("failed to create line item", zap.Error(err), zap.String("itinerary_id", itineraryID.String()))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, item)
}

// @Summary List line items
// @Description Lists the itinerary's line items ordered by display order.
// @Tags Items
// @Produce json
// @Param id path string true "Itinerary ID"
// @Success 200 {array} domain.ItineraryItemDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /itineraries/{id}/items [get]
func (h *ItineraryItemHandler) List(w http.ResponseWriter, r *http.Request) {
	itineraryID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid itinerary ID: must be a valid UUID")
		return
	}

	items, err := h.itemService.List(r.Context(), itineraryID)
	if err != nil {
		h.logger.Error("failed to list line items", zap.Error(err), zap.String("itinerary_id", itineraryID.String()))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, items)
}

// @Summary Update line item
// @Description Partially updates a line item. Price and quantity changes recompute the item and itinerary totals.
// @Tags Items
// @Accept json
// @Produce json
// @Param id path string true "Itinerary ID"
// @Param itemId path string true "Item ID"
// @Param request body domain.UpdateItineraryItemRequest true "Fields to update"
// @Success 200 {object} domain.ItineraryItemDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 423 {object} domain.APIError "Itinerary is locked"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /itineraries/{id}/items/{itemId} [patch]
func (h *ItineraryItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	itineraryID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid itinerary ID: must be a valid UUID")
		return
	}

	itemID, err := uuid.Parse(chi.URLParam(r, "itemId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid item ID: must be a valid UUID")
		return
	}

	var req domain.UpdateItineraryItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	item, err := h.itemService.Update(r.Context(), itineraryID, itemID, &req)
	if err != nil {
		h.logger.Error("failed to update line item", zap.Error(err), zap.String("item_id", itemID.String()))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, item)
}

// @Summary Delete line item
// @Description Deletes a line item and subtracts it from the itinerary total in the same transaction.
// @Tags Items
// @Param id path string true "Itinerary ID"
// @Param itemId path string true "Item ID"
// @Success 204 "No Content"
// @Failure 404 {object} domain.APIError
// @Failure 423 {object} domain.APIError "Itinerary is locked"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /itineraries/{id}/items/{itemId} [delete]
func (h *ItineraryItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	itineraryID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid itinerary ID: must be a valid UUID")
		return
	}

	itemID, err := uuid.Parse(chi.URLParam(r, "itemId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid item ID: must be a valid UUID")
		return
	}

	if err := h.itemService.Delete(r.Context(), itineraryID, itemID); err != nil {
		h.logger.Error("failed to delete line item", zap.Error(err), zap.String("item_id", itemID.String()))
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
