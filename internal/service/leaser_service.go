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

// LeaserService manages leasers and their coefficient range tables. Range
// tables are validated on every write: overlaps never reach the database.
type LeaserService struct {
	leaserRepo *repository.LeaserRepository
	logger     *zap.Logger
}

func NewLeaserService(leaserRepo *repository.LeaserRepository, logger *zap.Logger) *LeaserService {
	return &LeaserService{
		leaserRepo: leaserRepo,
		logger:     logger,
	}
}

func (s *LeaserService) Create(ctx context.Context, req *domain.CreateLeaserRequest) (*domain.Leaser, error) {
	ranges := rangesFromRequest(req.Ranges)
	if err := leasing.ValidateRanges(ranges); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRanges, err)
	}

	leaser := &domain.Leaser{
		Name:    req.Name,
		LogoURL: req.LogoURL,
		Ranges:  ranges,
	}
	if err := s.leaserRepo.Create(ctx, leaser); err != nil {
		return nil, fmt.Errorf("failed to create leaser: %w", err)
	}

	s.logger.Info("leaser created",
		zap.String("leaser_id", leaser.ID.String()),
		zap.String("name", leaser.Name),
		zap.Int("ranges", len(leaser.Ranges)),
	)
	return s.GetByID(ctx, leaser.ID)
}

func (s *LeaserService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Leaser, error) {
	leaser, err := s.leaserRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeaserNotFound
		}
		return nil, fmt.Errorf("failed to get leaser: %w", err)
	}
	return leaser, nil
}

func (s *LeaserService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateLeaserRequest) (*domain.Leaser, error) {
	leaser, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		leaser.Name = *req.Name
	}
	if req.LogoURL != nil {
		leaser.LogoURL = *req.LogoURL
	}

	if req.Ranges != nil {
		ranges := rangesFromRequest(*req.Ranges)
		if err := leasing.ValidateRanges(ranges); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRanges, err)
		}
		if err := s.leaserRepo.ReplaceRanges(ctx, id, ranges); err != nil {
			return nil, fmt.Errorf("failed to replace ranges: %w", err)
		}
		leaser.Ranges = nil
	}

	if err := s.leaserRepo.Update(ctx, leaser); err != nil {
		return nil, fmt.Errorf("failed to update leaser: %w", err)
	}
	return s.GetByID(ctx, id)
}

// ReplaceRanges swaps the full range table after validation
func (s *LeaserService) ReplaceRanges(ctx context.Context, id uuid.UUID, reqRanges []domain.CreateLeaserRangeRequest) (*domain.Leaser, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}

	ranges := rangesFromRequest(reqRanges)
	if err := leasing.ValidateRanges(ranges); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRanges, err)
	}
	if err := s.leaserRepo.ReplaceRanges(ctx, id, ranges); err != nil {
		return nil, fmt.Errorf("failed to replace ranges: %w", err)
	}

	s.logger.Info("leaser ranges replaced",
		zap.String("leaser_id", id.String()),
		zap.Int("ranges", len(ranges)),
	)
	return s.GetByID(ctx, id)
}

func (s *LeaserService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.leaserRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete leaser: %w", err)
	}
	s.logger.Info("leaser deleted", zap.String("leaser_id", id.String()))
	return nil
}

func (s *LeaserService) List(ctx context.Context, page, pageSize int) ([]domain.Leaser, int64, error) {
	leasers, total, err := s.leaserRepo.List(ctx, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list leasers: %w", err)
	}
	return leasers, total, nil
}

// ResolveCoefficient returns the coefficient covering amount, or nil when no
// range matches.
func (s *LeaserService) ResolveCoefficient(ctx context.Context, leaserID uuid.UUID, amount float64) (*domain.LeaserRange, error) {
	leaser, err := s.GetByID(ctx, leaserID)
	if err != nil {
		return nil, err
	}
	return leasing.ResolveRange(leaser.Ranges, amount), nil
}

func rangesFromRequest(reqRanges []domain.CreateLeaserRangeRequest) []domain.LeaserRange {
	ranges := make([]domain.LeaserRange, len(reqRanges))
	for i, r := range reqRanges {
		ranges[i] = domain.LeaserRange{
			Min:         r.Min,
			Max:         r.Max,
			Coefficient: r.Coefficient,
			Position:    i,
		}
	}
	return ranges
}
