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
	"github.com/iTakecare/itakecarehub-sub001/internal/repository"
)

// OfferWorkflowService drives offers through their lifecycle. Every
// transition is validated against the status table, appends a workflow log
// row, and may carry a side effect (contract creation on leaser approval).
//
// The log row is written BEFORE the status update: the log is of record.
// If the log write fails the transition is not attempted. If the status
// update fails afterwards, the orphan log row is left in place and a
// warning is emitted; repairing it silently would falsify the trail.
type OfferWorkflowService struct {
	offerRepo    *repository.OfferRepository
	logRepo      *repository.WorkflowLogRepository
	contractRepo *repository.ContractRepository
	logger       *zap.Logger
	db           *gorm.DB
}

func NewOfferWorkflowService(
	offerRepo *repository.OfferRepository,
	logRepo *repository.WorkflowLogRepository,
	contractRepo *repository.ContractRepository,
	logger *zap.Logger,
	db *gorm.DB,
) *OfferWorkflowService {
	return &OfferWorkflowService{
		offerRepo:    offerRepo,
		logRepo:      logRepo,
		contractRepo: contractRepo,
		logger:       logger,
		db:           db,
	}
}

// UpdateStatus performs a single workflow transition
func (s *OfferWorkflowService) UpdateStatus(ctx context.Context, offerID uuid.UUID, req *domain.UpdateWorkflowStatusRequest) (*domain.Offer, error) {
	offer, err := s.getOffer(ctx, offerID)
	if err != nil {
		return nil, err
	}

	if !req.NewStatus.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, req.NewStatus)
	}
	if !offer.WorkflowStatus.CanTransitionTo(req.NewStatus) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, offer.WorkflowStatus, req.NewStatus)
	}

	return s.transition(ctx, offer, req.NewStatus, req.Reason)
}

// RequestInfo pauses the offer while additional documents are gathered. The
// current status is stored so the analysis can resume where it stopped.
func (s *OfferWorkflowService) RequestInfo(ctx context.Context, offerID uuid.UUID, req *domain.RequestInfoRequest) (*domain.Offer, error) {
	offer, err := s.getOffer(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if !offer.WorkflowStatus.CanTransitionTo(domain.StatusInfoRequested) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, offer.WorkflowStatus, domain.StatusInfoRequested)
	}

	reason := req.Reason
	for _, doc := range req.RequestedDocs {
		reason += "\n- " + doc
	}
	return s.transition(ctx, offer, domain.StatusInfoRequested, reason)
}

// ProcessInfo resumes a paused offer: approve moves it to leaser review,
// reject ends it. Both clear the resume pointer.
func (s *OfferWorkflowService) ProcessInfo(ctx context.Context, offerID uuid.UUID, req *domain.ProcessInfoRequest) (*domain.Offer, error) {
	offer, err := s.getOffer(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if offer.WorkflowStatus != domain.StatusInfoRequested {
		return nil, ErrNotPaused
	}

	target := domain.StatusRejected
	if req.Approve {
		target = domain.StatusLeaserReview
	}
	return s.transition(ctx, offer, target, req.Reason)
}

// Logs returns the offer's transition trail in chronological order
func (s *OfferWorkflowService) Logs(ctx context.Context, offerID uuid.UUID) ([]domain.WorkflowLog, error) {
	if _, err := s.getOffer(ctx, offerID); err != nil {
		return nil, err
	}
	logs, err := s.logRepo.ListByOffer(ctx, offerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workflow logs: %w", err)
	}
	return logs, nil
}

// transition appends the log row, then applies the status change and its
// side effects. Callers have already validated the transition.
func (s *OfferWorkflowService) transition(ctx context.Context, offer *domain.Offer, target domain.WorkflowStatus, reason string) (*domain.Offer, error) {
	previous := offer.WorkflowStatus

	logRow := &domain.WorkflowLog{
		OfferID:        offer.ID,
		PreviousStatus: &previous,
		NewStatus:      target,
		Reason:         reason,
	}
	if user, ok := auth.FromContext(ctx); ok {
		logRow.UserID = user.UserID.String()
		logRow.UserName = user.DisplayName
	}

	// Log first. No log row, no transition.
	if err := s.logRepo.Create(ctx, logRow); err != nil {
		return nil, fmt.Errorf("failed to write workflow log, transition aborted: %w", err)
	}

	var err error
	switch {
	case target == domain.StatusInfoRequested:
		err = s.offerRepo.UpdateStatus(ctx, offer.ID, target, &previous)
	case (target == domain.StatusLeaserApproved || target == domain.StatusFinanced) && !offer.ConvertedToContract:
		err = s.convertToContract(ctx, offer, target)
	default:
		err = s.offerRepo.UpdateStatus(ctx, offer.ID, target, nil)
	}
	if err != nil {
		// The log row now references a transition that did not happen.
		// Leave it: the trail is append-only and the inconsistency is
		// surfaced here instead of silently repaired.
		s.logger.Warn("status update failed after workflow log write, orphan log row left in place",
			zap.String("offer_id", offer.ID.String()),
			zap.String("log_id", logRow.ID.String()),
			zap.String("previous_status", string(previous)),
			zap.String("new_status", string(target)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to update offer status: %w", err)
	}

	s.logger.Info("offer transitioned",
		zap.String("offer_id", offer.ID.String()),
		zap.String("from", string(previous)),
		zap.String("to", string(target)),
	)
	return s.getOffer(ctx, offer.ID)
}

// convertToContract applies the leaser-approval side effect atomically:
// status change, converted flag and contract row commit or roll back
// together.
func (s *OfferWorkflowService) convertToContract(ctx context.Context, offer *domain.Offer, target domain.WorkflowStatus) error {
	leaserName := ""
	if offer.Leaser != nil {
		leaserName = offer.Leaser.Name
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Offer{}).
			Where("id = ?", offer.ID).
			Updates(map[string]interface{}{
				"workflow_status":       target,
				"previous_status":       nil,
				"converted_to_contract": true,
			}).Error; err != nil {
			return err
		}

		contract := &domain.Contract{
			OfferID:        offer.ID,
			ClientName:     offer.ClientName,
			LeaserName:     leaserName,
			Amount:         offer.Amount,
			MonthlyPayment: offer.MonthlyPayment,
			Status:         domain.ContractStatusSent,
		}
		return s.contractRepo.CreateTx(tx, contract)
	})
}

func (s *OfferWorkflowService) getOffer(ctx context.Context, offerID uuid.UUID) (*domain.Offer, error) {
	offer, err := s.offerRepo.GetByID(ctx, offerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOfferNotFound
		}
		return nil, fmt.Errorf("failed to get offer: %w", err)
	}
	return offer, nil
}
