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

// ContractHandler exposes read and status operations on contracts. Contracts
// are created exclusively by the offer workflow, never through this API.
type ContractHandler struct {
	contractService *service.ContractService
	logger          *zap.Logger
}

func NewContractHandler(contractService *service.ContractService, logger *zap.Logger) *ContractHandler {
	return &ContractHandler{
		contractService: contractService,
		logger:          logger,
	}
}

// List godoc
// @Summary List contracts
// @Tags Contracts
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param status query string false "Filter by contract status" Enums(contract_sent, contract_signed, active, completed)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.ContractDTO}
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /contracts [get]
func (h *ContractHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)

	var status *domain.ContractStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := domain.ContractStatus(raw)
		if !s.IsValid() {
			respondWithError(w, http.StatusBadRequest, "Invalid contract status filter")
			return
		}
		status = &s
	}

	contracts, total, err := h.contractService.List(r.Context(), page, pageSize, status)
	if err != nil {
		h.logger.Error("failed to list contracts", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list contracts")
		return
	}

	respondJSON(w, http.StatusOK, paginated(mapper.ContractsToDTO(contracts), total, page, pageSize))
}

// GetByID godoc
// @Summary Get contract by ID
// @Tags Contracts
// @Accept json
// @Produce json
// @Param id path string true "Contract ID" format(uuid)
// @Success 200 {object} domain.ContractDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /contracts/{id} [get]
func (h *ContractHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid contract ID format")
		return
	}

	contract, err := h.contractService.GetByID(r.Context(), id)
	if err != nil {
		h.handleError(w, err, "failed to get contract")
		return
	}

	respondJSON(w, http.StatusOK, mapper.ContractToDTO(contract))
}

// UpdateStatus godoc
// @Summary Update contract status
// @Description Move a contract through its lifecycle (sent, signed, active, completed)
// @Tags Contracts
// @Accept json
// @Produce json
// @Param id path string true "Contract ID" format(uuid)
// @Param request body domain.UpdateContractStatusRequest true "Target status"
// @Success 200 {object} domain.ContractDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /contracts/{id}/status [patch]
func (h *ContractHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid contract ID format")
		return
	}

	var req domain.UpdateContractStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	contract, err := h.contractService.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		h.handleError(w, err, "failed to update contract status")
		return
	}

	respondJSON(w, http.StatusOK, mapper.ContractToDTO(contract))
}

func (h *ContractHandler) handleError(w http.ResponseWriter, err error, logMsg string) {
	switch {
	case errors.Is(err, service.ErrContractNotFound):
		respondWithError(w, http.StatusNotFound, "Contract not found")
	default:
		h.logger.Error(logMsg, zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
