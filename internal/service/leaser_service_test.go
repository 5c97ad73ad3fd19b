package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iTakecare/itakecarehub-sub001/internal/domain"
	"github.com/iTakecare/itakecarehub-sub001/internal/repository"
	"github.com/iTakecare/itakecarehub-sub001/internal/service"
	"github.com/iTakecare/itakecarehub-sub001/internal/testutil"
)

func newLeaserService(t *testing.T) *service.LeaserService {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return service.NewLeaserService(repository.NewLeaserRepository(db), zap.NewNop())
}

func TestCreateLeaserWithRanges(t *testing.T) {
	svc := newLeaserService(t)
	ctx := context.Background()

	leaser, err := svc.Create(ctx, &domain.CreateLeaserRequest{
		Name: "Grenke Lease",
		Ranges: []domain.CreateLeaserRangeRequest{
			{Min: 0, Max: 2500, Coefficient: 3.0},
			{Min: 2500.01, Max: 10000, Coefficient: 3.5},
		},
	})
	require.NoError(t, err)
	require.Len(t, leaser.Ranges, 2)
	assert.Equal(t, 0, leaser.Ranges[0].Position)
	assert.Equal(t, 1, leaser.Ranges[1].Position)

	r, err := svc.ResolveCoefficient(ctx, leaser.ID, 3000)
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.InDelta(t, 3.5, r.Coefficient, 0.001)
}

func TestCreateLeaserRejectsOverlappingRanges(t *testing.T) {
	svc := newLeaserService(t)

	_, err := svc.Create(context.Background(), &domain.CreateLeaserRequest{
		Name: "Bad Lease Co",
		Ranges: []domain.CreateLeaserRangeRequest{
			{Min: 0, Max: 5000, Coefficient: 3.0},
			{Min: 2500, Max: 10000, Coefficient: 3.5},
		},
	})
	require.ErrorIs(t, err, service.ErrInvalidRanges)
}

func TestReplaceRangesSwapsTable(t *testing.T) {
	svc := newLeaserService(t)
	ctx := context.Background()

	leaser, err := svc.Create(ctx, &domain.CreateLeaserRequest{
		Name: "Grenke Lease",
		Ranges: []domain.CreateLeaserRangeRequest{
			{Min: 0, Max: 2500, Coefficient: 3.0},
		},
	})
	require.NoError(t, err)

	updated, err := svc.ReplaceRanges(ctx, leaser.ID, []domain.CreateLeaserRangeRequest{
		{Min: 0, Max: 1000, Coefficient: 2.8},
		{Min: 1000.01, Max: 20000, Coefficient: 3.2},
	})
	require.NoError(t, err)
	require.Len(t, updated.Ranges, 2)
	assert.InDelta(t, 2.8, updated.Ranges[0].Coefficient, 0.001)
}

func TestGetLeaserNotFound(t *testing.T) {
	svc := newLeaserService(t)

	_, err := svc.GetByID(context.Background(), uuid.New())
	require.ErrorIs(t, err, service.ErrLeaserNotFound)
}
