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

type AmbassadorService struct {
	ambassadorRepo *repository.AmbassadorRepository
	levelRepo      *repository.CommissionLevelRepository
	logger         *zap.Logger
}

func NewAmbassadorService(
	ambassadorRepo *repository.AmbassadorRepository,
	levelRepo *repository.CommissionLevelRepository,
	logger *zap.Logger,
) *AmbassadorService {
	return &AmbassadorService{
		ambassadorRepo: ambassadorRepo,
		levelRepo:      levelRepo,
		logger:         logger,
	}
}

func (s *AmbassadorService) Create(ctx context.Context, req *domain.CreateAmbassadorRequest) (*domain.Ambassador, error) {
	if err := s.checkLevel(ctx, req.CommissionLevelID); err != nil {
		return nil, err
	}

	ambassador := &domain.Ambassador{
		Name:              req.Name,
		Email:             req.Email,
		Phone:             req.Phone,
		Region:            req.Region,
		CommissionLevelID: req.CommissionLevelID,
	}
	if err := s.ambassadorRepo.Create(ctx, ambassador); err != nil {
		return nil, fmt.Errorf("failed to create ambassador: %w", err)
	}

	s.logger.Info("ambassador created",
		zap.String("ambassador_id", ambassador.ID.String()),
		zap.String("name", ambassador.Name),
	)
	return s.GetByID(ctx, ambassador.ID)
}

func (s *AmbassadorService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Ambassador, error) {
	ambassador, err := s.ambassadorRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAmbassadorNotFound
		}
		return nil, fmt.Errorf("failed to get ambassador: %w", err)
	}
	return ambassador, nil
}

func (s *AmbassadorService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateAmbassadorRequest) (*domain.Ambassador, error) {
	ambassador, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		ambassador.Name = *req.Name
	}
	if req.Email != nil {
		ambassador.Email = *req.Email
	}
	if req.Phone != nil {
		ambassador.Phone = *req.Phone
	}
	if req.Region != nil {
		ambassador.Region = *req.Region
	}
	if req.CommissionLevelID != nil {
		if err := s.checkLevel(ctx, req.CommissionLevelID); err != nil {
			return nil, err
		}
		ambassador.CommissionLevelID = req.CommissionLevelID
		ambassador.CommissionLevel = nil
	}

	if err := s.ambassadorRepo.Update(ctx, ambassador); err != nil {
		return nil, fmt.Errorf("failed to update ambassador: %w", err)
	}
	return s.GetByID(ctx, id)
}

func (s *AmbassadorService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.ambassadorRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete ambassador: %w", err)
	}
	s.logger.Info("ambassador deleted", zap.String("ambassador_id", id.String()))
	return nil
}

func (s *AmbassadorService) List(ctx context.Context, page, pageSize int) ([]domain.Ambassador, int64, error) {
	ambassadors, total, err := s.ambassadorRepo.List(ctx, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list ambassadors: %w", err)
	}
	return ambassadors, total, nil
}

func (s *AmbassadorService) checkLevel(ctx context.Context, levelID *uuid.UUID) error {
	if levelID == nil {
		return nil
	}
	level, err := s.levelRepo.GetByID(ctx, *levelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommissionLevelNotFound
		}
		return fmt.Errorf("failed to check commission level: %w", err)
	}
	if level.PrincipalType != domain.PrincipalAmbassador {
		return fmt.Errorf("%w: commission level is not for ambassadors", ErrInvalidInput)
	}
	return nil
}
