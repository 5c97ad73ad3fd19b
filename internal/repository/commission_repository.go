package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/iTakecare/itakecarehub-sub001/internal/domain"
)

type CommissionLevelRepository struct {
	db *gorm.DB
}

func NewCommissionLevelRepository(db *gorm.DB) *CommissionLevelRepository {
	return &CommissionLevelRepository{db: db}
}

func (r *CommissionLevelRepository) Create(ctx context.Context, level *domain.CommissionLevel) error {
	return r.db.WithContext(ctx).Create(level).Error
}

func (r *CommissionLevelRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.CommissionLevel, error) {
	var level domain.CommissionLevel
	err := r.db.WithContext(ctx).
		Preload("Ranges", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("id = ?", id).
		First(&level).Error
	if err != nil {
		return nil, err
	}
	return &level, nil
}

// GetDefault returns the default level for a principal type, if configured
func (r *CommissionLevelRepository) GetDefault(ctx context.Context, principalType domain.PrincipalType) (*domain.CommissionLevel, error) {
	var level domain.CommissionLevel
	err := r.db.WithContext(ctx).
		Preload("Ranges", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("principal_type = ? AND is_default = ?", principalType, true).
		First(&level).Error
	if err != nil {
		return nil, err
	}
	return &level, nil
}

func (r *CommissionLevelRepository) Update(ctx context.Context, level *domain.CommissionLevel) error {
	return r.db.WithContext(ctx).Save(level).Error
}

func (r *CommissionLevelRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Select("Ranges").Delete(&domain.CommissionLevel{BaseModel: domain.BaseModel{ID: id}}).Error
}

func (r *CommissionLevelRepository) List(ctx context.Context, page, pageSize int, principalType *domain.PrincipalType) ([]domain.CommissionLevel, int64, error) {
	var levels []domain.CommissionLevel
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.CommissionLevel{})
	if principalType != nil {
		query = query.Where("principal_type = ?", *principalType)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Ranges", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Offset(offset).Limit(pageSize).Order("name ASC").
		Find(&levels).Error

	return levels, total, err
}

// ReplaceRanges swaps a level's tier table atomically
func (r *CommissionLevelRepository) ReplaceRanges(ctx context.Context, levelID uuid.UUID, ranges []domain.CommissionRange) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("commission_level_id = ?", levelID).Delete(&domain.CommissionRange{}).Error; err != nil {
			return err
		}
		for i := range ranges {
			ranges[i].CommissionLevelID = levelID
			ranges[i].Position = i
		}
		if len(ranges) == 0 {
			return nil
		}
		return tx.Create(&ranges).Error
	})
}

// ListAllRanges returns every tier of every level, for the audit job
func (r *CommissionLevelRepository) ListAllRanges(ctx context.Context) (map[uuid.UUID][]domain.CommissionRange, error) {
	var ranges []domain.CommissionRange
	if err := r.db.WithContext(ctx).Order("commission_level_id, position ASC").Find(&ranges).Error; err != nil {
		return nil, err
	}
	grouped := make(map[uuid.UUID][]domain.CommissionRange)
	for _, rg := range ranges {
		grouped[rg.CommissionLevelID] = append(grouped[rg.CommissionLevelID], rg)
	}
	return grouped, nil
}

// ClearDefault unsets the default flag for all levels of a principal type,
// used before promoting another level to default.
func (r *CommissionLevelRepository) ClearDefault(ctx context.Context, principalType domain.PrincipalType) error {
	return r.db.WithContext(ctx).
		Model(&domain.CommissionLevel{}).
		Where("principal_type = ?", principalType).
		Update("is_default", false).Error
}
