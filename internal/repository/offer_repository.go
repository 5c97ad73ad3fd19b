package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/iTakecare/itakecarehub-sub001/internal/domain"
)

type OfferRepository struct {
	db *gorm.DB
}

func NewOfferRepository(db *gorm.DB) *OfferRepository {
	return &OfferRepository{db: db}
}

func (r *OfferRepository) Create(ctx context.Context, offer *domain.Offer) error {
	return r.db.WithContext(ctx).Create(offer).Error
}

func (r *OfferRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Offer, error) {
	var offer domain.Offer
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Leaser").
		Preload("Leaser.Ranges", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Ambassador").
		Preload("Items").
		Where("id = ?", id).
		First(&offer).Error
	if err != nil {
		return nil, err
	}
	return &offer, nil
}

// Update saves the offer and its loaded items. Recomputes change the
// per-item monthly payments, so associations are written through.
func (r *OfferRepository) Update(ctx context.Context, offer *domain.Offer) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(offer).Error
}

func (r *OfferRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Select("Items").Delete(&domain.Offer{BaseModel: domain.BaseModel{ID: id}}).Error
}

// UpdateStatus writes only the workflow columns, leaving computed amounts
// untouched. previousStatus may be nil to clear the resume pointer.
func (r *OfferRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.WorkflowStatus, previousStatus *domain.WorkflowStatus) error {
	return r.db.WithContext(ctx).
		Model(&domain.Offer{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"workflow_status": status,
			"previous_status": previousStatus,
		}).Error
}

func (r *OfferRepository) List(ctx context.Context, page, pageSize int, clientID, ambassadorID *uuid.UUID, status *domain.WorkflowStatus, search string) ([]domain.Offer, int64, error) {
	var offers []domain.Offer
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Offer{})

	if clientID != nil {
		query = query.Where("client_id = ?", *clientID)
	}
	if ambassadorID != nil {
		query = query.Where("ambassador_id = ?", *ambassadorID)
	}
	if status != nil {
		query = query.Where("workflow_status = ?", *status)
	}
	if search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(client_name) LIKE ? OR LOWER(equipment_text) LIKE ?", pattern, pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Items").
		Preload("Leaser").
		Offset(offset).Limit(pageSize).Order("created_at DESC").
		Find(&offers).Error

	return offers, total, err
}

// ListAll returns every offer with its items, for export
func (r *OfferRepository) ListAll(ctx context.Context, status *domain.WorkflowStatus) ([]domain.Offer, error) {
	var offers []domain.Offer
	query := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Leaser")
	if status != nil {
		query = query.Where("workflow_status = ?", *status)
	}
	err := query.Order("created_at DESC").Find(&offers).Error
	return offers, err
}

// ReplaceItems swaps the offer's equipment lines atomically
func (r *OfferRepository) ReplaceItems(ctx context.Context, offerID uuid.UUID, items []domain.EquipmentItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("offer_id = ?", offerID).Delete(&domain.EquipmentItem{}).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OfferID = offerID
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
}
