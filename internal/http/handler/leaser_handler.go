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

type LeaserHandler struct {
	leaserService *service.LeaserService
	logger        *zap.Logger
}

func NewLeaserHandler(leaserService *service.LeaserService, logger *zap.Logger) *LeaserHandler {
	return &LeaserHandler{
		leaserService: leaserService,
		logger:        logger,
	}
}

// List godoc
// @Summary List leasers
// @Description Get paginated list of financing partners with their coefficient ranges
// @Tags Leasers
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.LeaserDTO}
// @Failure 401 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /leasers [get]
func (h *LeaserHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)

	leasers, total, err := h.leaserService.List(r.Context(), page, pageSize)
	if err != nil {
		h.logger.Error("failed to list leasers", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list leasers")
		return
	}

	respondJSON(w, http.StatusOK, paginated(mapper.LeasersToDTO(leasers), total, page, pageSize))
}

// GetByID godoc
// @Summary Get leaser by ID
// @Description Get a financing partner with its coefficient ranges
// @Tags Leasers
// @Accept json
// @Produce json
// @Param id path string true "Leaser ID" format(uuid)
// @Success 200 {object} domain.LeaserDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /leasers/{id} [get]
func (h *LeaserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid leaser ID format")
		return
	}

	leaser, err := h.leaserService.GetByID(r.Context(), id)
	if err != nil {
		h.handleError(w, err, "failed to get leaser")
		return
	}

	respondJSON(w, http.StatusOK, mapper.LeaserToDTO(leaser))
}

// Create godoc
// @Summary Create leaser
// @Description Create a financing partner with its coefficient range table. Overlapping ranges are rejected.
// @Tags Leasers
// @Accept json
// @Produce json
// @Param request body domain.CreateLeaserRequest true "Leaser data"
// @Success 201 {object} domain.LeaserDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /leasers [post]
func (h *LeaserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateLeaserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	leaser, err := h.leaserService.Create(r.Context(), &req)
	if err != nil {
		h.handleError(w, err, "failed to create leaser")
		return
	}

	w.Header().Set("Location", "/api/v1/leasers/"+leaser.ID.String())
	respondJSON(w, http.StatusCreated, mapper.LeaserToDTO(leaser))
}

// Update godoc
// @Summary Update leaser
// @Description Update a financing partner. When ranges are provided, the whole coefficient table is replaced.
// @Tags Leasers
// @Accept json
// @Produce json
// @Param id path string true "Leaser ID" format(uuid)
// @Param request body domain.UpdateLeaserRequest true "Leaser data"
// @Success 200 {object} domain.LeaserDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /leasers/{id} [put]
func (h *LeaserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid leaser ID format")
		return
	}

	var req domain.UpdateLeaserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	leaser, err := h.leaserService.Update(r.Context(), id, &req)
	if err != nil {
		h.handleError(w, err, "failed to update leaser")
		return
	}

	respondJSON(w, http.StatusOK, mapper.LeaserToDTO(leaser))
}

// ReplaceRanges godoc
// @Summary Replace coefficient ranges
// @Description Replace the leaser's full coefficient range table
// @Tags Leasers
// @Accept json
// @Produce json
// @Param id path string true "Leaser ID" format(uuid)
// @Param request body []domain.CreateLeaserRangeRequest true "Coefficient ranges in priority order"
// @Success 200 {object} domain.LeaserDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /leasers/{id}/ranges [put]
func (h *LeaserHandler) ReplaceRanges(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid leaser ID format")
		return
	}

	var ranges []domain.CreateLeaserRangeRequest
	if err := json.NewDecoder(r.Body).Decode(&ranges); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	for _, rng := range ranges {
		if err := validate.Struct(rng); err != nil {
			respondValidationError(w, err)
			return
		}
	}

	leaser, err := h.leaserService.ReplaceRanges(r.Context(), id, ranges)
	if err != nil {
		h.handleError(w, err, "failed to replace leaser ranges")
		return
	}

	respondJSON(w, http.StatusOK, mapper.LeaserToDTO(leaser))
}

// ResolveCoefficient godoc
// @Summary Resolve coefficient for an amount
// @Description Find the coefficient range covering the given financed amount
// @Tags Leasers
// @Accept json
// @Produce json
// @Param id path string true "Leaser ID" format(uuid)
// @Param amount query number true "Financed amount"
// @Success 200 {object} domain.LeaserRangeDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /leasers/{id}/coefficient [get]
func (h *LeaserHandler) ResolveCoefficient(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid leaser ID format")
		return
	}

	amount, err := strconv.ParseFloat(r.URL.Query().Get("amount"), 64)
	if err != nil || amount < 0 {
		respondWithError(w, http.StatusBadRequest, "Query parameter 'amount' must be a non-negative number")
		return
	}

	rng, err := h.leaserService.ResolveCoefficient(r.Context(), id, amount)
	if err != nil {
		h.handleError(w, err, "failed to resolve coefficient")
		return
	}
	if rng == nil {
		respondWithError(w, http.StatusNotFound, "No coefficient range covers this amount")
		return
	}

	respondJSON(w, http.StatusOK, mapper.LeaserRangeToDTO(rng))
}

// Delete godoc
// @Summary Delete leaser
// @Description Delete a financing partner and its coefficient ranges
// @Tags Leasers
// @Accept json
// @Produce json
// @Param id path string true "Leaser ID" format(uuid)
// @Success 204 "No Content"
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /leasers/{id} [delete]
func (h *LeaserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid leaser ID format")
		return
	}

	if err := h.leaserService.Delete(r.Context(), id); err != nil {
		h.handleError(w, err, "failed to delete leaser")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *LeaserHandler) handleError(w http.ResponseWriter, err error, logMsg string) {
	switch {
	case errors.Is(err, service.ErrLeaserNotFound):
		respondWithError(w, http.StatusNotFound, "Leaser not found")
	case errors.Is(err, service.ErrInvalidRanges):
		respondWithError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error(logMsg, zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
