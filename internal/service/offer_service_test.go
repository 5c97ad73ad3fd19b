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

type offerFixture struct {
	db          *gorm.DB
	offers      *service.OfferService
	commissions *service.CommissionService
	ambassadors *repository.AmbassadorRepository
}

func newOfferFixture(t *testing.T) *offerFixture {
	t.Helper()

	db := testutil.SetupTestDB(t)
	log := zap.NewNop()

	offerRepo := repository.NewOfferRepository(db)
	leaserRepo := repository.NewLeaserRepository(db)
	clientRepo := repository.NewClientRepository(db)
	levelRepo := repository.NewCommissionLevelRepository(db)
	ambassadorRepo := repository.NewAmbassadorRepository(db)

	commissions := service.NewCommissionService(levelRepo, ambassadorRepo, log)
	offers := service.NewOfferService(offerRepo, leaserRepo, clientRepo, commissions, log)

	return &offerFixture{
		db:          db,
		offers:      offers,
		commissions: commissions,
		ambassadors: ambassadorRepo,
	}
}

func TestCreateOfferComputesPricing(t *testing.T) {
	f := newOfferFixture(t)
	leaser := testutil.CreateTestLeaser(t, f.db)
	ctx := context.Background()

	offer, err := f.offers.Create(ctx, &domain.CreateOfferRequest{
		ClientName: "Acme SPRL",
		LeaserID:   &leaser.ID,
		Items: []domain.CreateEquipmentItemRequest{
			{Title: "Laptop", PurchasePrice: 1000, Quantity: 2, MarginPercent: 10},
		},
	})
	require.NoError(t, err)

	// 1000 * 2 * 1.10 = 2200, falls in the 0-2500 tier (coef 3.0).
	assert.InDelta(t, 2200, offer.Amount, 0.001)
	assert.InDelta(t, 3.0, offer.CoefficientUsed, 0.001)
	assert.InDelta(t, 66, offer.MonthlyPayment, 0.001)
	assert.InDelta(t, 200, offer.Margin, 0.001)
	require.Len(t, offer.Items, 1)
	assert.InDelta(t, 66, offer.Items[0].MonthlyPayment, 0.001)
	assert.Equal(t, domain.StatusDraft, offer.WorkflowStatus)
	assert.Equal(t, float64(0), offer.Commission)
}

func TestCreateOfferCrossesRangeBoundary(t *testing.T) {
	f := newOfferFixture(t)
	leaser := testutil.CreateTestLeaser(t, f.db)
	ctx := context.Background()

	offer, err := f.offers.Create(ctx, &domain.CreateOfferRequest{
		ClientName: "Acme SPRL",
		LeaserID:   &leaser.ID,
		Items: []domain.CreateEquipmentItemRequest{
			{Title: "Server", PurchasePrice: 3000, Quantity: 1, MarginPercent: 0},
		},
	})
	require.NoError(t, err)

	assert.InDelta(t, 3000, offer.Amount, 0.001)
	assert.InDelta(t, 3.5, offer.CoefficientUsed, 0.001)
	assert.InDelta(t, 105, offer.MonthlyPayment, 0.001)
}

func TestCreateOfferOutsideAllRanges(t *testing.T) {
	f := newOfferFixture(t)
	leaser := testutil.CreateTestLeaser(t, f.db)
	ctx := context.Background()

	// 20000 exceeds every configured range: no coefficient, no payment.
	offer, err := f.offers.Create(ctx, &domain.CreateOfferRequest{
		ClientName: "Acme SPRL",
		LeaserID:   &leaser.ID,
		Items: []domain.CreateEquipmentItemRequest{
			{Title: "Fleet", PurchasePrice: 20000, Quantity: 1, MarginPercent: 0},
		},
	})
	require.NoError(t, err)

	assert.InDelta(t, 20000, offer.Amount, 0.001)
	assert.Equal(t, float64(0), offer.CoefficientUsed)
	assert.Equal(t, float64(0), offer.MonthlyPayment)
}

func TestCreateOfferWithoutLeaser(t *testing.T) {
	f := newOfferFixture(t)
	ctx := context.Background()

	offer, err := f.offers.Create(ctx, &domain.CreateOfferRequest{
		ClientName: "Acme SPRL",
		Items: []domain.CreateEquipmentItemRequest{
			{Title: "Laptop", PurchasePrice: 1000, Quantity: 1, MarginPercent: 20},
		},
	})
	require.NoError(t, err)

	assert.InDelta(t, 1200, offer.Amount, 0.001)
	assert.Equal(t, float64(0), offer.CoefficientUsed)
	assert.Equal(t, float64(0), offer.MonthlyPayment)
}

func TestCreateOfferComputesAmbassadorCommission(t *testing.T) {
	f := newOfferFixture(t)
	leaser := testutil.CreateTestLeaser(t, f.db)
	level := testutil.CreateTestCommissionLevel(t, f.db, false)
	ctx := context.Background()

	ambassador := &domain.Ambassador{
		Name:              "Jo Ambassadeur",
		Email:             "jo@example.com",
		CommissionLevelID: &level.ID,
	}
	require.NoError(t, f.ambassadors.Create(ctx, ambassador))

	offer, err := f.offers.Create(ctx, &domain.CreateOfferRequest{
		ClientName:   "Acme SPRL",
		LeaserID:     &leaser.ID,
		AmbassadorID: &ambassador.ID,
		Type:         domain.OfferTypeAmbassador,
		Items: []domain.CreateEquipmentItemRequest{
			{Title: "Laptop", PurchasePrice: 1000, Quantity: 2, MarginPercent: 10},
		},
	})
	require.NoError(t, err)

	// 2200 falls in the 0-5000 tier at 4%.
	assert.InDelta(t, 88, offer.Commission, 0.001)
}

func TestCommissionFallsBackToDefaultLevel(t *testing.T) {
	f := newOfferFixture(t)
	leaser := testutil.CreateTestLeaser(t, f.db)
	testutil.CreateTestCommissionLevel(t, f.db, true)
	ctx := context.Background()

	// Ambassador without an assigned level uses the default one.
	ambassador := &domain.Ambassador{Name: "Sam", Email: "sam@example.com"}
	require.NoError(t, f.ambassadors.Create(ctx, ambassador))

	offer, err := f.offers.Create(ctx, &domain.CreateOfferRequest{
		ClientName:   "Acme SPRL",
		LeaserID:     &leaser.ID,
		AmbassadorID: &ambassador.ID,
		Items: []domain.CreateEquipmentItemRequest{
			{Title: "Laptop", PurchasePrice: 1000, Quantity: 2, MarginPercent: 10},
		},
	})
	require.NoError(t, err)
	assert.InDelta(t, 88, offer.Commission, 0.001)
}

func TestCommissionZeroWhenNoLevelResolvable(t *testing.T) {
	f := newOfferFixture(t)
	leaser := testutil.CreateTestLeaser(t, f.db)
	ctx := context.Background()

	// No level assigned and no default configured: commission degrades to
	// zero instead of failing the offer.
	ambassador := &domain.Ambassador{Name: "Alex", Email: "alex@example.com"}
	require.NoError(t, f.ambassadors.Create(ctx, ambassador))

	offer, err := f.offers.Create(ctx, &domain.CreateOfferRequest{
		ClientName:   "Acme SPRL",
		LeaserID:     &leaser.ID,
		AmbassadorID: &ambassador.ID,
		Items: []domain.CreateEquipmentItemRequest{
			{Title: "Laptop", PurchasePrice: 1000, Quantity: 2, MarginPercent: 10},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, float64(0), offer.Commission)
}

func TestRecalculateAppliesMarginAdjustment(t *testing.T) {
	f := newOfferFixture(t)
	leaser := testutil.CreateTestLeaser(t, f.db)
	ctx := context.Background()

	offer, err := f.offers.Create(ctx, &domain.CreateOfferRequest{
		ClientName: "Acme SPRL",
		LeaserID:   &leaser.ID,
		Items: []domain.CreateEquipmentItemRequest{
			{Title: "Laptop", PurchasePrice: 1000, Quantity: 2, MarginPercent: 10},
		},
	})
	require.NoError(t, err)
	baseMonthly := offer.MonthlyPayment

	newCoef := 3.2
	adjusted, err := f.offers.Recalculate(ctx, offer.ID, &domain.ApplyMarginAdjustmentRequest{
		Active:  true,
		NewCoef: &newCoef,
	})
	require.NoError(t, err)
	assert.InDelta(t, 2200*3.2/100, adjusted.MonthlyPayment, 0.001)
	assert.NotEqual(t, baseMonthly, adjusted.MonthlyPayment)
	require.Len(t, adjusted.Items, 1)
	assert.InDelta(t, 2200*3.2/100, adjusted.Items[0].MonthlyPayment, 0.001)

	// Toggling the adjustment off restores the base figures.
	restored, err := f.offers.Recalculate(ctx, offer.ID, &domain.ApplyMarginAdjustmentRequest{Active: false})
	require.NoError(t, err)
	assert.InDelta(t, baseMonthly, restored.MonthlyPayment, 0.001)
}

func TestUpdateOfferReplacesItemsAndOfferConvertedGuard(t *testing.T) {
	f := newOfferFixture(t)
	leaser := testutil.CreateTestLeaser(t, f.db)
	ctx := context.Background()

	offer, err := f.offers.Create(ctx, &domain.CreateOfferRequest{
		ClientName: "Acme SPRL",
		LeaserID:   &leaser.ID,
		Items: []domain.CreateEquipmentItemRequest{
			{Title: "Laptop", PurchasePrice: 1000, Quantity: 2, MarginPercent: 10},
		},
	})
	require.NoError(t, err)

	items := []domain.CreateEquipmentItemRequest{
		{Title: "Laptop", PurchasePrice: 1000, Quantity: 1, MarginPercent: 10},
		{Title: "Screen", PurchasePrice: 200, Quantity: 2, MarginPercent: 25},
	}
	updated, err := f.offers.Update(ctx, offer.ID, &domain.UpdateOfferRequest{Items: &items})
	require.NoError(t, err)
	assert.Len(t, updated.Items, 2)

	// Mark the offer converted and check that edits are refused.
	require.NoError(t, f.db.Model(&domain.Offer{}).
		Where("id = ?", offer.ID).
		Update("converted_to_contract", true).Error)

	name := "New name"
	_, err = f.offers.Update(ctx, offer.ID, &domain.UpdateOfferRequest{ClientName: &name})
	require.ErrorIs(t, err, service.ErrOfferConverted)

	err = f.offers.Delete(ctx, offer.ID)
	require.ErrorIs(t, err, service.ErrOfferConverted)
}

func TestCreateOfferUnknownClient(t *testing.T) {
	f := newOfferFixture(t)
	ctx := context.Background()

	missing := testutil.CreateTestClient(t, f.db, "Ghost").ID
	require.NoError(t, f.db.Delete(&domain.Client{}, "id = ?", missing).Error)

	_, err := f.offers.Create(ctx, &domain.CreateOfferRequest{
		ClientID:   &missing,
		ClientName: "Ghost",
		Items: []domain.CreateEquipmentItemRequest{
			{Title: "Laptop", PurchasePrice: 1000, Quantity: 1},
		},
	})
	require.ErrorIs(t, err, service.ErrClientNotFound)
}
