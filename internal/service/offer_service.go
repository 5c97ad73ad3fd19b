package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/iTakecare/itakecarehub-sub001/internal/auth"
	"github.com/iTakecare/itakecarehub-sub001/internal/domain"
	"github.com/iTakecare/itakecarehub-sub001/internal/leasing"
	"github.com/iTakecare/itakecarehub-sub001/internal/repository"
)

// OfferService manages offers and their derived pricing. Amount, monthly
// payment, per-item monthly payments and commission are never edited
// directly: every content mutation triggers a recompute from the equipment
// lines and the leaser's coefficient table.
type OfferService struct {
	offerRepo         *repository.OfferRepository
	leaserRepo        *repository.LeaserRepository
	clientRepo        *repository.ClientRepository
	commissionService *CommissionService
	recalcScheduler   *RecalcScheduler
	logger            *zap.Logger
}

func NewOfferService(
	offerRepo *repository.OfferRepository,
	leaserRepo *repository.LeaserRepository,
	clientRepo *repository.ClientRepository,
	commissionService *CommissionService,
	logger *zap.Logger,
) *OfferService {
	return &OfferService{
		offerRepo:         offerRepo,
		leaserRepo:        leaserRepo,
		clientRepo:        clientRepo,
		commissionService: commissionService,
		logger:            logger,
	}
}

// SetRecalcScheduler wires the coalescing scheduler. Set after construction
// because the scheduler's callback closes over this service.
func (s *OfferService) SetRecalcScheduler(scheduler *RecalcScheduler) {
	s.recalcScheduler = scheduler
}

func (s *OfferService) Create(ctx context.Context, req *domain.CreateOfferRequest) (*domain.Offer, error) {
	if req.ClientID != nil {
		if err := s.checkClient(ctx, *req.ClientID); err != nil {
			return nil, err
		}
	}

	offerType := req.Type
	if offerType == "" {
		offerType = domain.OfferTypeAdmin
	}
	if !offerType.IsValid() {
		return nil, fmt.Errorf("%w: unknown offer type %q", ErrInvalidInput, offerType)
	}

	items := make([]domain.EquipmentItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = domain.EquipmentItem{
			Title:         item.Title,
			PurchasePrice: item.PurchasePrice,
			Quantity:      item.Quantity,
			MarginPercent: item.MarginPercent,
		}
	}

	offer := &domain.Offer{
		ClientID:       req.ClientID,
		ClientName:     req.ClientName,
		ClientEmail:    req.ClientEmail,
		LeaserID:       req.LeaserID,
		EquipmentText:  req.EquipmentText,
		Type:           offerType,
		WorkflowStatus: domain.StatusDraft,
		AmbassadorID:   req.AmbassadorID,
		Remarks:        req.Remarks,
		Items:          items,
	}

	if user, ok := auth.FromContext(ctx); ok {
		offer.UserID = user.UserID.String()
		offer.UserName = user.DisplayName
	}

	if err := s.compute(ctx, offer); err != nil {
		return nil, err
	}

	if err := s.offerRepo.Create(ctx, offer); err != nil {
		return nil, fmt.Errorf("failed to create offer: %w", err)
	}

	s.logger.Info("offer created",
		zap.String("offer_id", offer.ID.String()),
		zap.String("client_name", offer.ClientName),
		zap.Float64("amount", offer.Amount),
		zap.Float64("monthly_payment", offer.MonthlyPayment),
	)
	return s.GetByID(ctx, offer.ID)
}

func (s *OfferService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Offer, error) {
	offer, err := s.offerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOfferNotFound
		}
		return nil, fmt.Errorf("failed to get offer: %w", err)
	}
	return offer, nil
}

// Update edits the offer's content and schedules a coalesced recompute.
// Offers already converted to a contract are read-only.
func (s *OfferService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateOfferRequest) (*domain.Offer, error) {
	offer, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if offer.ConvertedToContract {
		return nil, ErrOfferConverted
	}

	if req.ClientName != nil {
		offer.ClientName = *req.ClientName
	}
	if req.ClientEmail != nil {
		offer.ClientEmail = *req.ClientEmail
	}
	if req.LeaserID != nil {
		offer.LeaserID = req.LeaserID
		offer.Leaser = nil
	}
	if req.EquipmentText != nil {
		offer.EquipmentText = *req.EquipmentText
	}
	if req.Remarks != nil {
		offer.Remarks = *req.Remarks
	}

	if req.Items != nil {
		items := make([]domain.EquipmentItem, len(*req.Items))
		for i, item := range *req.Items {
			items[i] = domain.EquipmentItem{
				Title:         item.Title,
				PurchasePrice: item.PurchasePrice,
				Quantity:      item.Quantity,
				MarginPercent: item.MarginPercent,
			}
		}
		if err := s.offerRepo.ReplaceItems(ctx, id, items); err != nil {
			return nil, fmt.Errorf("failed to replace items: %w", err)
		}
		offer.Items = nil
	}

	if err := s.offerRepo.Update(ctx, offer); err != nil {
		return nil, fmt.Errorf("failed to update offer: %w", err)
	}

	if s.recalcScheduler != nil {
		s.recalcScheduler.Schedule(id)
	}
	return s.GetByID(ctx, id)
}

func (s *OfferService) Delete(ctx context.Context, id uuid.UUID) error {
	offer, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if offer.ConvertedToContract {
		return ErrOfferConverted
	}
	if err := s.offerRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete offer: %w", err)
	}
	s.logger.Info("offer deleted", zap.String("offer_id", id.String()))
	return nil
}

func (s *OfferService) List(ctx context.Context, page, pageSize int, clientID, ambassadorID *uuid.UUID, status *domain.WorkflowStatus, search string) ([]domain.Offer, int64, error) {
	offers, total, err := s.offerRepo.List(ctx, page, pageSize, clientID, ambassadorID, status, search)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list offers: %w", err)
	}
	return offers, total, nil
}

// ListAll returns every offer for export
func (s *OfferService) ListAll(ctx context.Context, status *domain.WorkflowStatus) ([]domain.Offer, error) {
	return s.offerRepo.ListAll(ctx, status)
}

// Recalculate recomputes the offer synchronously, optionally updating the
// margin adjustment first.
func (s *OfferService) Recalculate(ctx context.Context, id uuid.UUID, adj *domain.ApplyMarginAdjustmentRequest) (*domain.Offer, error) {
	offer, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if offer.ConvertedToContract {
		return nil, ErrOfferConverted
	}

	if adj != nil {
		offer.AdjustmentActive = adj.Active
		if adj.NewCoef != nil {
			offer.AdjustmentCoef = *adj.NewCoef
		}
	}

	if err := s.compute(ctx, offer); err != nil {
		return nil, err
	}
	if err := s.offerRepo.Update(ctx, offer); err != nil {
		return nil, fmt.Errorf("failed to save recomputed offer: %w", err)
	}

	s.logger.Debug("offer recomputed",
		zap.String("offer_id", offer.ID.String()),
		zap.Float64("amount", offer.Amount),
		zap.Float64("coefficient", offer.CoefficientUsed),
		zap.Float64("monthly_payment", offer.MonthlyPayment),
		zap.Float64("commission", offer.Commission),
	)
	return offer, nil
}

// RecalcByID is the callback handed to the RecalcScheduler
func (s *OfferService) RecalcByID(ctx context.Context, offerID uuid.UUID) error {
	_, err := s.Recalculate(ctx, offerID, nil)
	if errors.Is(err, ErrOfferConverted) || errors.Is(err, ErrOfferNotFound) {
		// Offer converted or deleted between scheduling and firing.
		return nil
	}
	return err
}

// compute derives every pricing field of the offer from its equipment
// lines, the leaser's coefficient table and the margin adjustment.
func (s *OfferService) compute(ctx context.Context, offer *domain.Offer) error {
	var totalWithMargin, purchaseTotal float64
	for _, item := range offer.Items {
		totalWithMargin += leasing.ItemTotal(item.PurchasePrice, item.Quantity, item.MarginPercent)
		purchaseTotal += item.PurchasePrice * float64(item.Quantity)
	}

	var coef float64
	if offer.LeaserID != nil {
		ranges, err := s.leaserRanges(ctx, offer)
		if err != nil {
			return err
		}
		if r := leasing.ResolveRange(ranges, totalWithMargin); r != nil {
			coef = r.Coefficient
		}
	}

	monthly, marginDiff := leasing.ApplyMarginAdjustment(totalWithMargin, coef, leasing.MarginAdjustment{
		NewCoef: offer.AdjustmentCoef,
		Active:  offer.AdjustmentActive,
	})

	offer.Amount = totalWithMargin
	offer.CoefficientUsed = coef
	offer.MonthlyPayment = monthly
	offer.Margin = totalWithMargin - purchaseTotal
	offer.MarginDifference = marginDiff

	itemCoef := coef
	if offer.AdjustmentActive && offer.AdjustmentCoef > 0 {
		itemCoef = offer.AdjustmentCoef
	}
	for i := range offer.Items {
		itemTotal := leasing.ItemTotal(offer.Items[i].PurchasePrice, offer.Items[i].Quantity, offer.Items[i].MarginPercent)
		offer.Items[i].MonthlyPayment = leasing.MonthlyPayment(itemTotal, itemCoef)
	}

	// Commission only applies to ambassador-originated offers; a failed
	// lookup degrades to zero inside the commission service.
	if offer.AmbassadorID != nil {
		result := s.commissionService.ResolveForAmbassador(ctx, offer.AmbassadorID, offer.Amount)
		offer.Commission = result.Amount
	} else {
		offer.Commission = 0
	}

	return nil
}

func (s *OfferService) leaserRanges(ctx context.Context, offer *domain.Offer) ([]domain.LeaserRange, error) {
	if offer.Leaser != nil && len(offer.Leaser.Ranges) > 0 {
		return offer.Leaser.Ranges, nil
	}
	leaser, err := s.leaserRepo.GetByID(ctx, *offer.LeaserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeaserNotFound
		}
		return nil, fmt.Errorf("failed to load leaser ranges: %w", err)
	}
	return leaser.Ranges, nil
}

func (s *OfferService) checkClient(ctx context.Context, clientID uuid.UUID) error {
	if _, err := s.clientRepo.GetByID(ctx, clientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrClientNotFound
		}
		return fmt.Errorf("failed to check client: %w", err)
	}
	return nil
}
