package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/iTakecare/itakecarehub-sub001/internal/domain"
)

type AmbassadorRepository struct {
	db *gorm.DB
}

func NewAmbassadorRepository(db *gorm.DB) *AmbassadorRepository {
	return &AmbassadorRepository{db: db}
}

func (r *AmbassadorRepository) Create(ctx context.Context, ambassador *domain.Ambassador) error {
	return r.db.WithContext(ctx).Create(ambassador).Error
}

func (r *AmbassadorRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Ambassador, error) {
	var ambassador domain.Ambassador
	err := r.db.WithContext(ctx).
		Preload("CommissionLevel").
		Preload("CommissionLevel.Ranges", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("id = ?", id).
		First(&ambassador).Error
	if err != nil {
		return nil, err
	}
	return &ambassador, nil
}

func (r *AmbassadorRepository) Update(ctx context.Context, ambassador *domain.Ambassador) error {
	return r.db.WithContext(ctx).Save(ambassador).Error
}

func (r *AmbassadorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Ambassador{}, "id = ?", id).Error
}

func (r *AmbassadorRepository) List(ctx context.Context, page, pageSize int) ([]domain.Ambassador, int64, error) {
	var ambassadors []domain.Ambassador
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Ambassador{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("CommissionLevel").
		Offset(offset).Limit(pageSize).Order("name ASC").
		Find(&ambassadors).Error

	return ambassadors, total, err
}
