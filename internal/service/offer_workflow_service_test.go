package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/iTakecare/itakecarehub-sub001/internal/domain"
	"github.com/iTakecare/itakecarehub-sub001/internal/repository"
	"github.com/iTakecare/itakecarehub-sub001/internal/service"
	"github.com/iTakecare/itakecarehub-sub001/internal/testutil"
)

type workflowFixture struct {
	db           *gorm.DB
	offers       *service.OfferService
	workflow     *service.OfferWorkflowService
	logRepo      *repository.WorkflowLogRepository
	contractRepo *repository.ContractRepository
}

func newWorkflowFixture(t *testing.T) *workflowFixture {
	t.Helper()

	db := testutil.SetupTestDB(t)
	log := zap.NewNop()

	offerRepo := repository.NewOfferRepository(db)
	leaserRepo := repository.NewLeaserRepository(db)
	clientRepo := repository.NewClientRepository(db)
	levelRepo := repository.NewCommissionLevelRepository(db)
	ambassadorRepo := repository.NewAmbassadorRepository(db)
	logRepo := repository.NewWorkflowLogRepository(db)
	contractRepo := repository.NewContractRepository(db)

	commissions := service.NewCommissionService(levelRepo, ambassadorRepo, log)
	offers := service.NewOfferService(offerRepo, leaserRepo, clientRepo, commissions, log)
	workflow := service.NewOfferWorkflowService(offerRepo, logRepo, contractRepo, log, db)

	return &workflowFixture{
		db:           db,
		offers:       offers,
		workflow:     workflow,
		logRepo:      logRepo,
		contractRepo: contractRepo,
	}
}

func (f *workflowFixture) createOffer(t *testing.T) *domain.Offer {
	t.Helper()

	leaser := testutil.CreateTestLeaser(t, f.db)
	offer, err := f.offers.Create(context.Background(), &domain.CreateOfferRequest{
		ClientName: "Acme SPRL",
		LeaserID:   &leaser.ID,
		Items: []domain.CreateEquipmentItemRequest{
			{Title: "Laptop", PurchasePrice: 1000, Quantity: 2, MarginPercent: 10},
		},
	})
	require.NoError(t, err)
	require.Equal(t, domain.StatusDraft, offer.WorkflowStatus)
	return offer
}

func (f *workflowFixture) mustTransition(t *testing.T, offer *domain.Offer, target domain.WorkflowStatus) *domain.Offer {
	t.Helper()

	updated, err := f.workflow.UpdateStatus(context.Background(), offer.ID, &domain.UpdateWorkflowStatusRequest{
		NewStatus: target,
	})
	require.NoError(t, err)
	require.Equal(t, target, updated.WorkflowStatus)
	return updated
}

func TestWorkflowForwardPath(t *testing.T) {
	f := newWorkflowFixture(t)
	offer := f.createOffer(t)
	ctx := context.Background()

	for _, target := range []domain.WorkflowStatus{
		domain.StatusSent,
		domain.StatusValidITC,
		domain.StatusApproved,
		domain.StatusLeaserReview,
	} {
		offer = f.mustTransition(t, offer, target)
	}

	logs, err := f.workflow.Logs(ctx, offer.ID)
	require.NoError(t, err)
	require.Len(t, logs, 4)
	assert.Equal(t, domain.StatusDraft, *logs[0].PreviousStatus)
	assert.Equal(t, domain.StatusSent, logs[0].NewStatus)
	assert.Equal(t, domain.StatusLeaserReview, logs[3].NewStatus)
}

func TestWorkflowRejectsStageSkip(t *testing.T) {
	f := newWorkflowFixture(t)
	offer := f.createOffer(t)
	ctx := context.Background()

	_, err := f.workflow.UpdateStatus(ctx, offer.ID, &domain.UpdateWorkflowStatusRequest{
		NewStatus: domain.StatusApproved,
	})
	require.ErrorIs(t, err, service.ErrInvalidTransition)

	// A rejected transition leaves no trace in the log.
	count, err := f.logRepo.CountByOffer(ctx, offer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestWorkflowRejectsUnknownStatus(t *testing.T) {
	f := newWorkflowFixture(t)
	offer := f.createOffer(t)

	_, err := f.workflow.UpdateStatus(context.Background(), offer.ID, &domain.UpdateWorkflowStatusRequest{
		NewStatus: domain.WorkflowStatus("shipped"),
	})
	require.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestLeaserApprovalConvertsToContract(t *testing.T) {
	f := newWorkflowFixture(t)
	offer := f.createOffer(t)
	ctx := context.Background()

	offer = f.mustTransition(t, offer, domain.StatusSent)
	offer = f.mustTransition(t, offer, domain.StatusValidITC)
	offer = f.mustTransition(t, offer, domain.StatusApproved)
	offer = f.mustTransition(t, offer, domain.StatusLeaserReview)

	before, err := f.logRepo.CountByOffer(ctx, offer.ID)
	require.NoError(t, err)

	offer = f.mustTransition(t, offer, domain.StatusLeaserApproved)

	assert.True(t, offer.ConvertedToContract)
	assert.Nil(t, offer.PreviousStatus)

	// Exactly one new log row for the approval itself.
	after, err := f.logRepo.CountByOffer(ctx, offer.ID)
	require.NoError(t, err)
	assert.Equal(t, before+1, after)

	logs, err := f.workflow.Logs(ctx, offer.ID)
	require.NoError(t, err)
	last := logs[len(logs)-1]
	assert.Equal(t, domain.StatusLeaserReview, *last.PreviousStatus)
	assert.Equal(t, domain.StatusLeaserApproved, last.NewStatus)

	contract, err := f.contractRepo.GetByOfferID(ctx, offer.ID)
	require.NoError(t, err)
	assert.Equal(t, offer.ClientName, contract.ClientName)
	assert.Equal(t, offer.Amount, contract.Amount)
	assert.Equal(t, offer.MonthlyPayment, contract.MonthlyPayment)
	assert.Equal(t, domain.ContractStatusSent, contract.Status)
}

func TestLeaserApprovedReachableFromEarlyStatus(t *testing.T) {
	f := newWorkflowFixture(t)
	offer := f.createOffer(t)
	ctx := context.Background()

	// leaser_approved short-circuits the pipeline from any live status.
	offer = f.mustTransition(t, offer, domain.StatusLeaserApproved)
	assert.True(t, offer.ConvertedToContract)

	_, err := f.contractRepo.GetByOfferID(ctx, offer.ID)
	require.NoError(t, err)
}

func TestFinancedConvertsWhenNotYetConverted(t *testing.T) {
	f := newWorkflowFixture(t)
	offer := f.createOffer(t)

	offer = f.mustTransition(t, offer, domain.StatusLeaserApproved)
	require.True(t, offer.ConvertedToContract)

	// Already converted: financing changes status only, no second contract.
	offer = f.mustTransition(t, offer, domain.StatusFinanced)

	var contracts int64
	require.NoError(t, f.db.Model(&domain.Contract{}).Where("offer_id = ?", offer.ID).Count(&contracts).Error)
	assert.Equal(t, int64(1), contracts)
}

func TestTerminalStatusesAcceptNoTransition(t *testing.T) {
	f := newWorkflowFixture(t)
	ctx := context.Background()

	offer := f.createOffer(t)
	offer = f.mustTransition(t, offer, domain.StatusRejected)

	_, err := f.workflow.UpdateStatus(ctx, offer.ID, &domain.UpdateWorkflowStatusRequest{
		NewStatus: domain.StatusSent,
	})
	require.ErrorIs(t, err, service.ErrInvalidTransition)
}

func TestRequestInfoPausesAndResumes(t *testing.T) {
	f := newWorkflowFixture(t)
	offer := f.createOffer(t)
	ctx := context.Background()

	offer = f.mustTransition(t, offer, domain.StatusSent)

	paused, err := f.workflow.RequestInfo(ctx, offer.ID, &domain.RequestInfoRequest{
		Reason:        "missing company registration",
		RequestedDocs: []string{"BCE extract", "bank identity"},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInfoRequested, paused.WorkflowStatus)
	require.NotNil(t, paused.PreviousStatus)
	assert.Equal(t, domain.StatusSent, *paused.PreviousStatus)

	logs, err := f.workflow.Logs(ctx, offer.ID)
	require.NoError(t, err)
	last := logs[len(logs)-1]
	assert.Contains(t, last.Reason, "missing company registration")
	assert.Contains(t, last.Reason, "BCE extract")

	resumed, err := f.workflow.ProcessInfo(ctx, offer.ID, &domain.ProcessInfoRequest{Approve: true})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusLeaserReview, resumed.WorkflowStatus)
}

func TestProcessInfoRejection(t *testing.T) {
	f := newWorkflowFixture(t)
	offer := f.createOffer(t)
	ctx := context.Background()

	offer = f.mustTransition(t, offer, domain.StatusSent)
	_, err := f.workflow.RequestInfo(ctx, offer.ID, &domain.RequestInfoRequest{Reason: "incomplete"})
	require.NoError(t, err)

	rejected, err := f.workflow.ProcessInfo(ctx, offer.ID, &domain.ProcessInfoRequest{Approve: false})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, rejected.WorkflowStatus)
}

func TestProcessInfoRequiresPausedOffer(t *testing.T) {
	f := newWorkflowFixture(t)
	offer := f.createOffer(t)

	_, err := f.workflow.ProcessInfo(context.Background(), offer.ID, &domain.ProcessInfoRequest{Approve: true})
	require.ErrorIs(t, err, service.ErrNotPaused)
}

func TestRequestInfoRefusedAfterLeaserApproval(t *testing.T) {
	f := newWorkflowFixture(t)
	offer := f.createOffer(t)
	ctx := context.Background()

	f.mustTransition(t, offer, domain.StatusLeaserApproved)

	_, err := f.workflow.RequestInfo(ctx, offer.ID, &domain.RequestInfoRequest{Reason: "too late"})
	require.ErrorIs(t, err, service.ErrInvalidTransition)
}
