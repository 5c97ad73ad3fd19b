package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/iTakecare/itakecarehub-sub001/internal/domain"
	"github.com/iTakecare/itakecarehub-sub001/internal/repository"
)

// ContractService reads contracts and advances their status. Contracts are
// only ever created by the workflow service as a transition side effect.
type ContractService struct {
	contractRepo *repository.ContractRepository
	logger       *zap.Logger
}

func NewContractService(contractRepo *repository.ContractRepository, logger *zap.Logger) *ContractService {
	return &ContractService{
		contractRepo: contractRepo,
		logger:       logger,
	}
}

func (s *ContractService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Contract, error) {
	contract, err := s.contractRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContractNotFound
		}
		return nil, fmt.Errorf("failed to get contract: %w", err)
	}
	return contract, nil
}

func (s *ContractService) List(ctx context.Context, page, pageSize int, status *domain.ContractStatus) ([]domain.Contract, int64, error) {
	contracts, total, err := s.contractRepo.List(ctx, page, pageSize, status)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list contracts: %w", err)
	}
	return contracts, total, nil
}

func (s *ContractService) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ContractStatus) (*domain.Contract, error) {
	contract, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	contract.Status = status
	if err := s.contractRepo.Update(ctx, contract); err != nil {
		return nil, fmt.Errorf("failed to update contract: %w", err)
	}

	s.logger.Info("contract status updated",
		zap.String("contract_id", contract.ID.String()),
		zap.String("status", string(status)),
	)
	return contract, nil
}
