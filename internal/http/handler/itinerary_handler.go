package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/tripforge/marketplace-api/internal/domain"
	"github.com/tripforge/marketplace-api/internal/service"
	"go.uber.org/zap"
)

type ItineraryHandler struct {
	itineraryService *service.ItineraryService
	logger           *zap.Logger
}

func NewItineraryHandler(itineraryService *service.ItineraryService, logger *zap.Logger) *ItineraryHandler {
	return &ItineraryHandler{
		itineraryService: itineraryService,
		logger:           logger,
	}
}

// @Summary Create itinerary
// @Description Starts itinerary-building for a purchased lead. Idempotent per (lead, agent): a repeated call returns the existing itinerary with created=false.
// @Tags Itineraries
// @Accept json
// @Produce json
// @Param request body domain.CreateItineraryRequest true "Itinerary data"
// @Success 201 {object} domain.ItineraryWithCreatedDTO
// @Success 200 {object} domain.ItineraryWithCreatedDTO "Itinerary already existed"
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError "Lead not purchased by the calling agent"
// @Failure 404 {object} domain.APIError "Lead not found"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /itineraries [post]
func (h *ItineraryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateItineraryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	result, err := h.itineraryService.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create itinerary", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
		w.Header().Set("Location", "/api/v1/itineraries/"+result.Itinerary.ID.String())
	}
	respondJSON(w, status, result)
}

// @Summary List itineraries
// @Tags Itineraries
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Param leadId query string false "Filter by lead ID"
// @Param status query string false "Filter by status" Enums(draft, confirmed)
// @Param agentId query string false "Filter by agent ID (admin only)"
// @Success 200 {object} domain.PaginatedResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /itineraries [get]
func (h *ItineraryHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)

	var leadID *uuid.UUID
	if lid := r.URL.Query().Get("leadId"); lid != "" {
		if id, err := uuid.Parse(lid); err == nil {
			leadID = &id
		}
	}

	var status *domain.ItineraryStatus
	if s := r.URL.Query().Get("status"); s != "" {
		st := domain.ItineraryStatus(s)
		status = &st
	}

	agentID := r.URL.Query().Get("agentId")

	itineraries, total, err := h.itineraryService.List(r.Context(), page, pageSize, agentID, leadID, status)
	if err != nil {
		h.logger.Error("failed to list itineraries", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, domain.PaginatedResponse{
		Data:       itineraries,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	})
}

// @Summary Get itinerary
// @Description Returns the itinerary with its day plans and line items.
// @Tags Itineraries
// @Produce json
// @Param id path string true "Itinerary ID"
// @Success 200 {object} domain.ItineraryDetailDTO
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /itineraries/{id} [get]
func (h *ItineraryHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid itinerary ID: must be a valid UUID")
		return
	}

	itinerary, err := h.itineraryService.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get itinerary", zap.Error(err), zap.String("itinerary_id", id.String()))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, itinerary)
}

// @Summary Update itinerary
// @Description Partial update of header fields. Locked itineraries respond 423.
// @Tags Itineraries
// @Accept json
// @Produce json
// @Param id path string true "Itinerary ID"
// @Param request body domain.UpdateItineraryRequest true "Fields to update"
// @Success 200 {object} domain.ItineraryDTO
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 423 {object} domain.APIError "Itinerary is locked"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /itineraries/{id} [patch]
func (h *ItineraryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid itinerary ID: must be a valid UUID")
		return
	}

	var req domain.UpdateItineraryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	itinerary, err := h.itineraryService.Update(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to update itinerary", zap.Error(err), zap.String("itinerary_id", id.String()))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, itinerary)
}

// @Summary Recalculate itinerary total
// @Description Recomputes the stored total from the line items and reports whether it had drifted.
// @Tags Itineraries
// @Produce json
// @Param id path string true "Itinerary ID"
// @Success 200 {object} domain.RecalculateResultDTO
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /itineraries/{id}/recalculate [post]
func (h *ItineraryHandler) Recalculate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid itinerary ID: must be a valid UUID")
		return
	}

	result, err := h.itineraryService.Recalculate(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to recalculate itinerary", zap.Error(err), zap.String("itinerary_id", id.String()))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func parsePagination(r *http.Request) (int, int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 200 {
		pageSize = 200
	}
	return page, pageSize
}

func totalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	pages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		pages++
	}
	return pages
}
