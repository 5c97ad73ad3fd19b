package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/iTakecare/itakecarehub-sub001/internal/domain"
)

// WorkflowLogRepository persists the append-only transition trail. There is
// deliberately no Update or Delete.
type WorkflowLogRepository struct {
	db *gorm.DB
}

func NewWorkflowLogRepository(db *gorm.DB) *WorkflowLogRepository {
	return &WorkflowLogRepository{db: db}
}

func (r *WorkflowLogRepository) Create(ctx context.Context, log *domain.WorkflowLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *WorkflowLogRepository) ListByOffer(ctx context.Context, offerID uuid.UUID) ([]domain.WorkflowLog, error) {
	var logs []domain.WorkflowLog
	err := r.db.WithContext(ctx).
		Where("offer_id = ?", offerID).
		Order("created_at ASC").
		Find(&logs).Error
	return logs, err
}

func (r *WorkflowLogRepository) CountByOffer(ctx context.Context, offerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.WorkflowLog{}).
		Where("offer_id = ?", offerID).
		Count(&count).Error
	return count, err
}
