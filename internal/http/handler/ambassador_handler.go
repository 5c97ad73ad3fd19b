package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iTakecare/itakecarehub-sub001/internal/domain"
	"github.com/iTakecare/itakecarehub-sub001/internal/mapper"
	"github.com/iTakecare/itakecarehub-sub001/internal/service"
)

type AmbassadorHandler struct {
	ambassadorService *service.AmbassadorService
	logger            *zap.Logger
}

func NewAmbassadorHandler(ambassadorService *service.AmbassadorService, logger *zap.Logger) *AmbassadorHandler {
	return &AmbassadorHandler{
		ambassadorService: ambassadorService,
		logger:            logger,
	}
}

// List godoc
// @Summary List ambassadors
// @Tags Ambassadors
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.AmbassadorDTO}
// @Failure 401 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /ambassadors [get]
func (h *AmbassadorHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)

	ambassadors, total, err := h.ambassadorService.List(r.Context(), page, pageSize)
	if err != nil {
		h.logger.Error("failed to list ambassadors", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list ambassadors")
		return
	}

	respondJSON(w, http.StatusOK, paginated(mapper.AmbassadorsToDTO(ambassadors), total, page, pageSize))
}

// GetByID godoc
// @Summary Get ambassador by ID
// @Tags Ambassadors
// @Accept json
// @Produce json
// @Param id path string true "Ambassador ID" format(uuid)
// @Success 200 {object} domain.AmbassadorDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /ambassadors/{id} [get]
func (h *AmbassadorHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid ambassador ID format")
		return
	}

	ambassador, err := h.ambassadorService.GetByID(r.Context(), id)
	if err != nil {
		h.handleError(w, err, "failed to get ambassador")
		return
	}

	respondJSON(w, http.StatusOK, mapper.AmbassadorToDTO(ambassador))
}

// Create godoc
// @Summary Create ambassador
// @Description Create an ambassador, optionally attached to an ambassador commission level
// @Tags Ambassadors
// @Accept json
// @Produce json
// @Param request body domain.CreateAmbassadorRequest true "Ambassador data"
// @Success 201 {object} domain.AmbassadorDTO
// @Failure 400 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /ambassadors [post]
func (h *AmbassadorHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateAmbassadorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	ambassador, err := h.ambassadorService.Create(r.Context(), &req)
	if err != nil {
		h.handleError(w, err, "failed to create ambassador")
		return
	}

	w.Header().Set("Location", "/api/v1/ambassadors/"+ambassador.ID.String())
	respondJSON(w, http.StatusCreated, mapper.AmbassadorToDTO(ambassador))
}

// Update godoc
// @Summary Update ambassador
// @Tags Ambassadors
// @Accept json
// @Produce json
// @Param id path string true "Ambassador ID" format(uuid)
// @Param request body domain.UpdateAmbassadorRequest true "Ambassador data"
// @Success 200 {object} domain.AmbassadorDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /ambassadors/{id} [put]
func (h *AmbassadorHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid ambassador ID format")
		return
	}

	var req domain.UpdateAmbassadorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	ambassador, err := h.ambassadorService.Update(r.Context(), id, &req)
	if err != nil {
		h.handleError(w, err, "failed to update ambassador")
		return
	}

	respondJSON(w, http.StatusOK, mapper.AmbassadorToDTO(ambassador))
}

// Delete godoc
// @Summary Delete ambassador
// @Tags Ambassadors
// @Accept json
// @Produce json
// @Param id path string true "Ambassador ID" format(uuid)
// @Success 204 "No Content"
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /ambassadors/{id} [delete]
func (h *AmbassadorHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid ambassador ID format")
		return
	}

	if err := h.ambassadorService.Delete(r.Context(), id); err != nil {
		h.handleError(w, err, "failed to delete ambassador")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AmbassadorHandler) handleError(w http.ResponseWriter, err error, logMsg string) {
	switch {
	case errors.Is(err, service.ErrAmbassadorNotFound):
		respondWithError(w, http.StatusNotFound, "Ambassador not found")
	case errors.Is(err, service.ErrCommissionLevelNotFound):
		respondWithError(w, http.StatusBadRequest, "Commission level not found or not an ambassador level")
	default:
		h.logger.Error(logMsg, zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
