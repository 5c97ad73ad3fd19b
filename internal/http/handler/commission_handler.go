package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iTakecare/itakecarehub-sub001/internal/domain"
	"github.com/iTakecare/itakecarehub-sub001/internal/mapper"
	"github.com/iTakecare/itakecarehub-sub001/internal/service"
)

type CommissionHandler struct {
	commissionService *service.CommissionService
	logger            *zap.Logger
}

func NewCommissionHandler(commissionService *service.CommissionService, logger *zap.Logger) *CommissionHandler {
	return &CommissionHandler{
		commissionService: commissionService,
		logger:            logger,
	}
}

// List godoc
// @Summary List commission levels
// @Description Get paginated list of commission levels with their tier tables
// @Tags Commissions
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param principalType query string false "Filter by principal type" Enums(ambassador, partner)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.CommissionLevelDTO}
// @Failure 401 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /commission-levels [get]
func (h *CommissionHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)

	var principalType *domain.PrincipalType
	if pt := r.URL.Query().Get("principalType"); pt != "" {
		p := domain.PrincipalType(pt)
		if !p.IsValid() {
			respondWithError(w, http.StatusBadRequest, "Invalid principal type")
			return
		}
		principalType = &p
	}

	levels, total, err := h.commissionService.List(r.Context(), page, pageSize, principalType)
	if err != nil {
		h.logger.Error("failed to list commission levels", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list commission levels")
		return
	}

	respondJSON(w, http.StatusOK, paginated(mapper.CommissionLevelsToDTO(levels), total, page, pageSize))
}

// GetByID godoc
// @Summary Get commission level by ID
// @Tags Commissions
// @Accept json
// @Produce json
// @Param id path string true "Commission level ID" format(uuid)
// @Success 200 {object} domain.CommissionLevelDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /commission-levels/{id} [get]
func (h *CommissionHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid commission level ID format")
		return
	}

	level, err := h.commissionService.GetByID(r.Context(), id)
	if err != nil {
		h.handleError(w, err, "failed to get commission level")
		return
	}

	respondJSON(w, http.StatusOK, mapper.CommissionLevelToDTO(level))
}

// Create godoc
// @Summary Create commission level
// @Description Create a commission level with its tier table. Marking it default clears the previous default of the same principal type.
// @Tags Commissions
// @Accept json
// @Produce json
// @Param request body domain.CreateCommissionLevelRequest true "Commission level data"
// @Success 201 {object} domain.CommissionLevelDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /commission-levels [post]
func (h *CommissionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateCommissionLevelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	level, err := h.commissionService.Create(r.Context(), &req)
	if err != nil {
		h.handleError(w, err, "failed to create commission level")
		return
	}

	w.Header().Set("Location", "/api/v1/commission-levels/"+level.ID.String())
	respondJSON(w, http.StatusCreated, mapper.CommissionLevelToDTO(level))
}

// Update godoc
// @Summary Update commission level
// @Tags Commissions
// @Accept json
// @Produce json
// @Param id path string true "Commission level ID" format(uuid)
// @Param request body domain.UpdateCommissionLevelRequest true "Commission level data"
// @Success 200 {object} domain.CommissionLevelDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /commission-levels/{id} [put]
func (h *CommissionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid commission level ID format")
		return
	}

	var req domain.UpdateCommissionLevelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	level, err := h.commissionService.Update(r.Context(), id, &req)
	if err != nil {
		h.handleError(w, err, "failed to update commission level")
		return
	}

	respondJSON(w, http.StatusOK, mapper.CommissionLevelToDTO(level))
}

// Preview godoc
// @Summary Preview commission for an amount
// @Description Evaluate a level's tier table against an amount without persisting anything
// @Tags Commissions
// @Accept json
// @Produce json
// @Param id path string true "Commission level ID" format(uuid)
// @Param amount query number true "Financed amount"
// @Success 200 {object} domain.CommissionPreviewDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /commission-levels/{id}/preview [get]
func (h *CommissionHandler) Preview(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid commission level ID format")
		return
	}

	amount, err := strconv.ParseFloat(r.URL.Query().Get("amount"), 64)
	if err != nil || amount < 0 {
		respondWithError(w, http.StatusBadRequest, "Query parameter 'amount' must be a non-negative number")
		return
	}

	preview, err := h.commissionService.Preview(r.Context(), id, amount)
	if err != nil {
		h.handleError(w, err, "failed to preview commission")
		return
	}

	respondJSON(w, http.StatusOK, preview)
}

// Delete godoc
// @Summary Delete commission level
// @Tags Commissions
// @Accept json
// @Produce json
// @Param id path string true "Commission level ID" format(uuid)
// @Success 204 "No Content"
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /commission-levels/{id} [delete]
func (h *CommissionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid commission level ID format")
		return
	}

	if err := h.commissionService.Delete(r.Context(), id); err != nil {
		h.handleError(w, err, "failed to delete commission level")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CommissionHandler) handleError(w http.ResponseWriter, err error, logMsg string) {
	switch {
	case errors.Is(err, service.ErrCommissionLevelNotFound):
		respondWithError(w, http.StatusNotFound, "Commission level not found")
	case errors.Is(err, service.ErrInvalidRanges):
		respondWithError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error(logMsg, zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
