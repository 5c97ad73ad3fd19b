package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/iTakecare/itakecarehub-sub001/internal/domain"
	"github.com/iTakecare/itakecarehub-sub001/internal/leasing"
	"github.com/iTakecare/itakecarehub-sub001/internal/repository"
)

// CommissionService manages commission levels and resolves commissions for
// offers. Resolution never fails: any miss yields a zero commission.
type CommissionService struct {
	levelRepo      *repository.CommissionLevelRepository
	ambassadorRepo *repository.AmbassadorRepository
	logger         *zap.Logger
}

func NewCommissionService(
	levelRepo *repository.CommissionLevelRepository,
	ambassadorRepo *repository.AmbassadorRepository,
	logger *zap.Logger,
) *CommissionService {
	return &CommissionService{
		levelRepo:      levelRepo,
		ambassadorRepo: ambassadorRepo,
		logger:         logger,
	}
}

func (s *CommissionService) Create(ctx context.Context, req *domain.CreateCommissionLevelRequest) (*domain.CommissionLevel, error) {
	ranges := commissionRangesFromRequest(req.Ranges)
	if err := leasing.ValidateCommissionRanges(ranges); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRanges, err)
	}

	if req.IsDefault {
		if err := s.levelRepo.ClearDefault(ctx, req.PrincipalType); err != nil {
			return nil, fmt.Errorf("failed to clear default level: %w", err)
		}
	}

	level := &domain.CommissionLevel{
		Name:          req.Name,
		PrincipalType: req.PrincipalType,
		IsDefault:     req.IsDefault,
		Ranges:        ranges,
	}
	if err := s.levelRepo.Create(ctx, level); err != nil {
		return nil, fmt.Errorf("failed to create commission level: %w", err)
	}

	s.logger.Info("commission level created",
		zap.String("level_id", level.ID.String()),
		zap.String("name", level.Name),
		zap.String("principal_type", string(level.PrincipalType)),
	)
	return s.GetByID(ctx, level.ID)
}

func (s *CommissionService) GetByID(ctx context.Context, id uuid.UUID) (*domain.CommissionLevel, error) {
	level, err := s.levelRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommissionLevelNotFound
		}
		return nil, fmt.Errorf("failed to get commission level: %w", err)
	}
	return level, nil
}

func (s *CommissionService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateCommissionLevelRequest) (*domain.CommissionLevel, error) {
	level, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		level.Name = *req.Name
	}
	if req.IsDefault != nil {
		if *req.IsDefault && !level.IsDefault {
			if err := s.levelRepo.ClearDefault(ctx, level.PrincipalType); err != nil {
				return nil, fmt.Errorf("failed to clear default level: %w", err)
			}
		}
		level.IsDefault = *req.IsDefault
	}

	if req.Ranges != nil {
		ranges := commissionRangesFromRequest(*req.Ranges)
		if err := leasing.ValidateCommissionRanges(ranges); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRanges, err)
		}
		if err := s.levelRepo.ReplaceRanges(ctx, id, ranges); err != nil {
			return nil, fmt.Errorf("failed to replace ranges: %w", err)
		}
		level.Ranges = nil
	}

	if err := s.levelRepo.Update(ctx, level); err != nil {
		return nil, fmt.Errorf("failed to update commission level: %w", err)
	}
	return s.GetByID(ctx, id)
}

func (s *CommissionService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.levelRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete commission level: %w", err)
	}
	s.logger.Info("commission level deleted", zap.String("level_id", id.String()))
	return nil
}

func (s *CommissionService) List(ctx context.Context, page, pageSize int, principalType *domain.PrincipalType) ([]domain.CommissionLevel, int64, error) {
	levels, total, err := s.levelRepo.List(ctx, page, pageSize, principalType)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list commission levels: %w", err)
	}
	return levels, total, nil
}

// Preview evaluates a level's tier table against an amount
func (s *CommissionService) Preview(ctx context.Context, levelID uuid.UUID, amount float64) (*domain.CommissionPreviewDTO, error) {
	level, err := s.GetByID(ctx, levelID)
	if err != nil {
		return nil, err
	}
	result := leasing.ResolveCommission(amount, level)
	return &domain.CommissionPreviewDTO{
		Amount:     amount,
		Commission: result.Amount,
		Rate:       result.Rate,
		LevelID:    level.ID,
		Matched:    result.LevelName != "",
	}, nil
}

// ResolveForAmbassador computes the commission an ambassador earns on a
// financed amount. The ambassador's own level wins; otherwise the default
// ambassador level applies. Lookup failures degrade to a zero commission,
// logged but never propagated: commission is a display enhancement.
func (s *CommissionService) ResolveForAmbassador(ctx context.Context, ambassadorID *uuid.UUID, financedAmount float64) leasing.CommissionResult {
	var level *domain.CommissionLevel

	if ambassadorID != nil {
		ambassador, err := s.ambassadorRepo.GetByID(ctx, *ambassadorID)
		if err != nil {
			s.logger.Warn("ambassador lookup failed, commission defaults to zero",
				zap.String("ambassador_id", ambassadorID.String()),
				zap.Error(err),
			)
			return leasing.CommissionResult{}
		}
		level = ambassador.CommissionLevel
	}

	if level == nil {
		def, err := s.levelRepo.GetDefault(ctx, domain.PrincipalAmbassador)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				s.logger.Warn("default commission level lookup failed, commission defaults to zero",
					zap.Error(err),
				)
			}
			return leasing.CommissionResult{}
		}
		level = def
	}

	return leasing.ResolveCommission(financedAmount, level)
}

func commissionRangesFromRequest(reqRanges []domain.CreateCommissionRangeRequest) []domain.CommissionRange {
	ranges := make([]domain.CommissionRange, len(reqRanges))
	for i, r := range reqRanges {
		ranges[i] = domain.CommissionRange{
			Min:      r.Min,
			Max:      r.Max,
			Rate:     r.Rate,
			Amount:   r.Amount,
			Position: i,
		}
	}
	return ranges
}
