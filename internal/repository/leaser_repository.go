package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/iTakecare/itakecarehub-sub001/internal/domain"
)

type LeaserRepository struct {
	db *gorm.DB
}

func NewLeaserRepository(db *gorm.DB) *LeaserRepository {
	return &LeaserRepository{db: db}
}

func (r *LeaserRepository) Create(ctx context.Context, leaser *domain.Leaser) error {
	return r.db.WithContext(ctx).Create(leaser).Error
}

func (r *LeaserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Leaser, error) {
	var leaser domain.Leaser
	err := r.db.WithContext(ctx).
		Preload("Ranges", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("id = ?", id).
		First(&leaser).Error
	if err != nil {
		return nil, err
	}
	return &leaser, nil
}

func (r *LeaserRepository) Update(ctx context.Context, leaser *domain.Leaser) error {
	return r.db.WithContext(ctx).Save(leaser).Error
}

func (r *LeaserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Select("Ranges").Delete(&domain.Leaser{BaseModel: domain.BaseModel{ID: id}}).Error
}

func (r *LeaserRepository) List(ctx context.Context, page, pageSize int) ([]domain.Leaser, int64, error) {
	var leasers []domain.Leaser
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Leaser{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Ranges", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Offset(offset).Limit(pageSize).Order("name ASC").
		Find(&leasers).Error

	return leasers, total, err
}

// ReplaceRanges swaps a leaser's range table atomically
func (r *LeaserRepository) ReplaceRanges(ctx context.Context, leaserID uuid.UUID, ranges []domain.LeaserRange) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("leaser_id = ?", leaserID).Delete(&domain.LeaserRange{}).Error; err != nil {
			return err
		}
		for i := range ranges {
			ranges[i].LeaserID = leaserID
			ranges[i].Position = i
		}
		if len(ranges) == 0 {
			return nil
		}
		return tx.Create(&ranges).Error
	})
}

// ListAllRanges returns every range of every leaser, for the audit job
func (r *LeaserRepository) ListAllRanges(ctx context.Context) (map[uuid.UUID][]domain.LeaserRange, error) {
	var ranges []domain.LeaserRange
	if err := r.db.WithContext(ctx).Order("leaser_id, position ASC").Find(&ranges).Error; err != nil {
		return nil, err
	}
	grouped := make(map[uuid.UUID][]domain.LeaserRange)
	for _, rg := range ranges {
		grouped[rg.LeaserID] = append(grouped[rg.LeaserID], rg)
	}
	return grouped, nil
}
