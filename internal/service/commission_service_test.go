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

func newCommissionService(t *testing.T) (*service.CommissionService, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	svc := service.NewCommissionService(
		repository.NewCommissionLevelRepository(db),
		repository.NewAmbassadorRepository(db),
		zap.NewNop(),
	)
	return svc, db
}

func TestCommissionPreviewMatchesTier(t *testing.T) {
	svc, db := newCommissionService(t)
	level := testutil.CreateTestCommissionLevel(t, db, false)
	ctx := context.Background()

	preview, err := svc.Preview(ctx, level.ID, 2200)
	require.NoError(t, err)
	assert.True(t, preview.Matched)
	assert.InDelta(t, 4, preview.Rate, 0.001)
	assert.InDelta(t, 88, preview.Commission, 0.001)

	// Above every tier: preview reports a miss with a zero commission.
	preview, err = svc.Preview(ctx, level.ID, 100000)
	require.NoError(t, err)
	assert.False(t, preview.Matched)
	assert.Equal(t, float64(0), preview.Commission)
}

func TestCreateCommissionLevelWithFlatTier(t *testing.T) {
	svc, _ := newCommissionService(t)
	ctx := context.Background()

	flat := 150.0
	level, err := svc.Create(ctx, &domain.CreateCommissionLevelRequest{
		Name:          "Flat starter",
		PrincipalType: domain.PrincipalAmbassador,
		Ranges: []domain.CreateCommissionRangeRequest{
			{Min: 0, Max: 5000, Rate: 0, Amount: &flat},
		},
	})
	require.NoError(t, err)

	preview, err := svc.Preview(ctx, level.ID, 1000)
	require.NoError(t, err)
	assert.True(t, preview.Matched)
	assert.InDelta(t, 150, preview.Commission, 0.001)
}

func TestDefaultLevelIsExclusivePerPrincipalType(t *testing.T) {
	svc, db := newCommissionService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, &domain.CreateCommissionLevelRequest{
		Name:          "Old default",
		PrincipalType: domain.PrincipalAmbassador,
		IsDefault:     true,
		Ranges: []domain.CreateCommissionRangeRequest{
			{Min: 0, Max: 5000, Rate: 4},
		},
	})
	require.NoError(t, err)

	second, err := svc.Create(ctx, &domain.CreateCommissionLevelRequest{
		Name:          "New default",
		PrincipalType: domain.PrincipalAmbassador,
		IsDefault:     true,
		Ranges: []domain.CreateCommissionRangeRequest{
			{Min: 0, Max: 5000, Rate: 5},
		},
	})
	require.NoError(t, err)
	assert.True(t, second.IsDefault)

	var reloaded domain.CommissionLevel
	require.NoError(t, db.First(&reloaded, "id = ?", first.ID).Error)
	assert.False(t, reloaded.IsDefault)
}

func TestCommissionLevelRejectsOverlappingTiers(t *testing.T) {
	svc, _ := newCommissionService(t)

	_, err := svc.Create(context.Background(), &domain.CreateCommissionLevelRequest{
		Name:          "Broken",
		PrincipalType: domain.PrincipalAmbassador,
		Ranges: []domain.CreateCommissionRangeRequest{
			{Min: 0, Max: 5000, Rate: 4},
			{Min: 4000, Max: 10000, Rate: 6},
		},
	})
	require.ErrorIs(t, err, service.ErrInvalidRanges)
}

func TestResolveForAmbassadorPrefersOwnLevel(t *testing.T) {
	svc, db := newCommissionService(t)
	ctx := context.Background()

	testutil.CreateTestCommissionLevel(t, db, true)
	own, err := svc.Create(ctx, &domain.CreateCommissionLevelRequest{
		Name:          "Premium",
		PrincipalType: domain.PrincipalAmbassador,
		Ranges: []domain.CreateCommissionRangeRequest{
			{Min: 0, Max: 50000, Rate: 10},
		},
	})
	require.NoError(t, err)

	ambassador := &domain.Ambassador{
		Name:              "Premium ambassador",
		Email:             "premium@example.com",
		CommissionLevelID: &own.ID,
	}
	require.NoError(t, db.Create(ambassador).Error)

	result := svc.ResolveForAmbassador(ctx, &ambassador.ID, 2000)
	assert.InDelta(t, 200, result.Amount, 0.001)
	assert.Equal(t, "Premium", result.LevelName)
}
