package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iTakecare/itakecarehub-sub001/internal/domain"
	"github.com/iTakecare/itakecarehub-sub001/internal/export"
	"github.com/iTakecare/itakecarehub-sub001/internal/mapper"
	"github.com/iTakecare/itakecarehub-sub001/internal/service"
)

type OfferHandler struct {
	offerService    *service.OfferService
	workflowService *service.OfferWorkflowService
	logger          *zap.Logger
}

func NewOfferHandler(
	offerService *service.OfferService,
	workflowService *service.OfferWorkflowService,
	logger *zap.Logger,
) *OfferHandler {
	return &OfferHandler{
		offerService:    offerService,
		workflowService: workflowService,
		logger:          logger,
	}
}

// List godoc
// @Summary List offers
// @Description Get paginated list of offers with optional filters
// @Tags Offers
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param clientId query string false "Filter by client" format(uuid)
// @Param ambassadorId query string false "Filter by ambassador" format(uuid)
// @Param status query string false "Filter by workflow status" Enums(draft, sent, info_requested, valid_itc, approved, leaser_review, leaser_approved, financed, rejected)
// @Param search query string false "Search by client name or equipment"
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.OfferDTO}
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /offers [get]
func (h *OfferHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)

	var clientID, ambassadorID *uuid.UUID
	if raw := r.URL.Query().Get("clientId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid clientId filter")
			return
		}
		clientID = &id
	}
	if raw := r.URL.Query().Get("ambassadorId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid ambassadorId filter")
			return
		}
		ambassadorID = &id
	}

	status, ok := parseStatusFilter(w, r)
	if !ok {
		return
	}

	offers, total, err := h.offerService.List(r.Context(), page, pageSize, clientID, ambassadorID, status, r.URL.Query().Get("search"))
	if err != nil {
		h.logger.Error("failed to list offers", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list offers")
		return
	}

	respondJSON(w, http.StatusOK, paginated(mapper.OffersToDTO(offers), total, page, pageSize))
}

// Export godoc
// @Summary Export offers as a spreadsheet
// @Description Download every offer, optionally filtered by status, as an XLSX workbook
// @Tags Offers
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param status query string false "Filter by workflow status"
// @Success 200
// @Failure 400 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /offers/export [get]
func (h *OfferHandler) Export(w http.ResponseWriter, r *http.Request) {
	status, ok := parseStatusFilter(w, r)
	if !ok {
		return
	}

	offers, err := h.offerService.ListAll(r.Context(), status)
	if err != nil {
		h.logger.Error("failed to load offers for export", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to export offers")
		return
	}

	workbook, err := export.OffersWorkbook(offers)
	if err != nil {
		h.logger.Error("failed to build offers workbook", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to export offers")
		return
	}

	w.Header().Set("Content-Disposition", "attachment; filename=\"offers.xlsx\"")
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if _, err := workbook.WriteTo(w); err != nil {
		h.logger.Warn("failed to stream offers workbook", zap.Error(err))
	}
}

// GetByID godoc
// @Summary Get offer by ID
// @Description Get an offer with its equipment lines and related entities
// @Tags Offers
// @Accept json
// @Produce json
// @Param id path string true "Offer ID" format(uuid)
// @Success 200 {object} domain.OfferDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /offers/{id} [get]
func (h *OfferHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid offer ID format")
		return
	}

	offer, err := h.offerService.GetByID(r.Context(), id)
	if err != nil {
		h.handleError(w, err, "failed to get offer")
		return
	}

	respondJSON(w, http.StatusOK, mapper.OfferToDTO(offer))
}

// Create godoc
// @Summary Create offer
// @Description Create an offer in draft status. Amounts, monthly payment and commission are computed from the equipment lines.
// @Tags Offers
// @Accept json
// @Produce json
// @Param request body domain.CreateOfferRequest true "Offer data"
// @Success 201 {object} domain.OfferDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse "Referenced client or leaser missing"
// @Security BearerAuth
// @Router /offers [post]
func (h *OfferHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateOfferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	offer, err := h.offerService.Create(r.Context(), &req)
	if err != nil {
		h.handleError(w, err, "failed to create offer")
		return
	}

	w.Header().Set("Location", "/api/v1/offers/"+offer.ID.String())
	respondJSON(w, http.StatusCreated, mapper.OfferToDTO(offer))
}

// Update godoc
// @Summary Update offer
// @Description Update an offer's content. A recompute of the derived amounts is scheduled. Offers converted to a contract are read-only.
// @Tags Offers
// @Accept json
// @Produce json
// @Param id path string true "Offer ID" format(uuid)
// @Param request body domain.UpdateOfferRequest true "Offer data"
// @Success 200 {object} domain.OfferDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Offer already converted to contract"
// @Security BearerAuth
// @Router /offers/{id} [put]
func (h *OfferHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid offer ID format")
		return
	}

	var req domain.UpdateOfferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	offer, err := h.offerService.Update(r.Context(), id, &req)
	if err != nil {
		h.handleError(w, err, "failed to update offer")
		return
	}

	respondJSON(w, http.StatusOK, mapper.OfferToDTO(offer))
}

// Recalculate godoc
// @Summary Recalculate offer
// @Description Recompute the offer synchronously, optionally applying or clearing the margin adjustment
// @Tags Offers
// @Accept json
// @Produce json
// @Param id path string true "Offer ID" format(uuid)
// @Param request body domain.ApplyMarginAdjustmentRequest false "Margin adjustment"
// @Success 200 {object} domain.OfferDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Offer already converted to contract"
// @Security BearerAuth
// @Router /offers/{id}/recalculate [post]
func (h *OfferHandler) Recalculate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid offer ID format")
		return
	}

	var adj *domain.ApplyMarginAdjustmentRequest
	if r.ContentLength > 0 {
		var req domain.ApplyMarginAdjustmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if err := validate.Struct(req); err != nil {
			respondValidationError(w, err)
			return
		}
		adj = &req
	}

	offer, err := h.offerService.Recalculate(r.Context(), id, adj)
	if err != nil {
		h.handleError(w, err, "failed to recalculate offer")
		return
	}

	respondJSON(w, http.StatusOK, mapper.OfferToDTO(offer))
}

// UpdateStatus godoc
// @Summary Transition offer workflow status
// @Description Apply a workflow transition. Entering leaser_approved or financed converts the offer to a contract.
// @Tags Offers
// @Accept json
// @Produce json
// @Param id path string true "Offer ID" format(uuid)
// @Param request body domain.UpdateWorkflowStatusRequest true "Target status"
// @Success 200 {object} domain.OfferDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 422 {object} domain.ErrorResponse "Transition not allowed from the current status"
// @Security BearerAuth
// @Router /offers/{id}/status [patch]
func (h *OfferHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid offer ID format")
		return
	}

	var req domain.UpdateWorkflowStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	offer, err := h.workflowService.UpdateStatus(r.Context(), id, &req)
	if err != nil {
		h.handleError(w, err, "failed to update offer status")
		return
	}

	respondJSON(w, http.StatusOK, mapper.OfferToDTO(offer))
}

// RequestInfo godoc
// @Summary Pause offer pending additional information
// @Description Move the offer to info_requested, recording the reason and the documents asked for
// @Tags Offers
// @Accept json
// @Produce json
// @Param id path string true "Offer ID" format(uuid)
// @Param request body domain.RequestInfoRequest true "Reason and requested documents"
// @Success 200 {object} domain.OfferDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 422 {object} domain.ErrorResponse "Offer status does not allow an information request"
// @Security BearerAuth
// @Router /offers/{id}/request-info [post]
func (h *OfferHandler) RequestInfo(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid offer ID format")
		return
	}

	var req domain.RequestInfoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	offer, err := h.workflowService.RequestInfo(r.Context(), id, &req)
	if err != nil {
		h.handleError(w, err, "failed to request info on offer")
		return
	}

	respondJSON(w, http.StatusOK, mapper.OfferToDTO(offer))
}

// ProcessInfo godoc
// @Summary Resume a paused offer
// @Description Resolve an information request: approve resumes the analysis at leaser review, reject ends the offer
// @Tags Offers
// @Accept json
// @Produce json
// @Param id path string true "Offer ID" format(uuid)
// @Param request body domain.ProcessInfoRequest true "Approve or reject"
// @Success 200 {object} domain.OfferDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 422 {object} domain.ErrorResponse "Offer is not paused"
// @Security BearerAuth
// @Router /offers/{id}/process-info [post]
func (h *OfferHandler) ProcessInfo(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid offer ID format")
		return
	}

	var req domain.ProcessInfoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	offer, err := h.workflowService.ProcessInfo(r.Context(), id, &req)
	if err != nil {
		h.handleError(w, err, "failed to process info on offer")
		return
	}

	respondJSON(w, http.StatusOK, mapper.OfferToDTO(offer))
}

// Logs godoc
// @Summary Get offer workflow logs
// @Description Get the offer's append-only transition trail in chronological order
// @Tags Offers
// @Accept json
// @Produce json
// @Param id path string true "Offer ID" format(uuid)
// @Success 200 {array} domain.WorkflowLogDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /offers/{id}/logs [get]
func (h *OfferHandler) Logs(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid offer ID format")
		return
	}

	logs, err := h.workflowService.Logs(r.Context(), id)
	if err != nil {
		h.handleError(w, err, "failed to get offer logs")
		return
	}

	respondJSON(w, http.StatusOK, mapper.WorkflowLogsToDTO(logs))
}

// Delete godoc
// @Summary Delete offer
// @Description Delete an offer and its equipment lines. Offers converted to a contract cannot be deleted.
// @Tags Offers
// @Accept json
// @Produce json
// @Param id path string true "Offer ID" format(uuid)
// @Success 204 "No Content"
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Offer already converted to contract"
// @Security BearerAuth
// @Router /offers/{id} [delete]
func (h *OfferHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid offer ID format")
		return
	}

	if err := h.offerService.Delete(r.Context(), id); err != nil {
		h.handleError(w, err, "failed to delete offer")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// WorkflowStatuses godoc
// @Summary List workflow statuses
// @Description Get every workflow status in lifecycle order with display metadata
// @Tags Offers
// @Produce json
// @Success 200 {array} domain.WorkflowStatusInfo
// @Security BearerAuth
// @Router /offers/workflow-statuses [get]
func (h *OfferHandler) WorkflowStatuses(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, domain.WorkflowStatusCatalog())
}

func parseStatusFilter(w http.ResponseWriter, r *http.Request) (*domain.WorkflowStatus, bool) {
	raw := r.URL.Query().Get("status")
	if raw == "" {
		return nil, true
	}
	status := domain.WorkflowStatus(raw)
	if !status.IsValid() {
		respondWithError(w, http.StatusBadRequest, "Invalid status filter")
		return nil, false
	}
	return &status, true
}

func (h *OfferHandler) handleError(w http.ResponseWriter, err error, logMsg string) {
	switch {
	case errors.Is(err, service.ErrOfferNotFound):
		respondWithError(w, http.StatusNotFound, "Offer not found")
	case errors.Is(err, service.ErrClientNotFound):
		respondWithError(w, http.StatusNotFound, "Client not found")
	case errors.Is(err, service.ErrLeaserNotFound):
		respondWithError(w, http.StatusNotFound, "Leaser not found")
	case errors.Is(err, service.ErrOfferConverted):
		respondWithError(w, http.StatusConflict, "Offer is already converted to a contract")
	case errors.Is(err, service.ErrInvalidTransition):
		respondWithError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, service.ErrNotPaused):
		respondWithError(w, http.StatusUnprocessableEntity, "Offer is not awaiting additional information")
	case errors.Is(err, service.ErrInvalidInput):
		respondWithError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error(logMsg, zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
