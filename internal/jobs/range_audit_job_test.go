package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/iTakecare/itakecarehub-sub001/internal/domain"
	"go.uber.org/zap"
)

type stubRangeLister struct {
	ranges map[uuid.UUID][]domain.LeaserRange
	err    error
}

func (s *stubRangeLister) ListAllRanges(ctx context.Context) (map[uuid.UUID][]domain.LeaserRange, error) {
	return s.ranges, s.err
}

type stubCommissionLister struct {
	ranges map[uuid.UUID][]domain.CommissionRange
	err    error
}

func (s *stubCommissionLister) ListAllRanges(ctx context.Context) (map[uuid.UUID][]domain.CommissionRange, error) {
	return s.ranges, s.err
}

func TestCoverageGaps(t *testing.T) {
	gaps := coverageGaps([]span{
		{Min: 0, Max: 2500},
		{Min: 5000, Max: 10000},
	})
	assert.Equal(t, [][2]float64{{2500, 5000}}, gaps)

	assert.Nil(t, coverageGaps([]span{
		{Min: 0, Max: 2500},
		{Min: 2500.01, Max: 10000},
	}))

	assert.Nil(t, coverageGaps([]span{{Min: 0, Max: 2500}}))
	assert.Nil(t, coverageGaps(nil))
}

func TestCoverageGapsUnsortedInput(t *testing.T) {
	gaps := coverageGaps([]span{
		{Min: 5000, Max: 10000},
		{Min: 0, Max: 1000},
		{Min: 1000, Max: 2000},
	})
	assert.Equal(t, [][2]float64{{2000, 5000}}, gaps)
}

func TestCommissionSpans(t *testing.T) {
	amount := 150.0
	spans := commissionSpans([]domain.CommissionRange{
		{Min: 0, Max: 5000, Rate: 4},
		{Min: 5000.01, Max: 20000, Amount: &amount},
	})
	assert.Equal(t, []span{{Min: 0, Max: 5000}, {Min: 5000.01, Max: 20000}}, spans)
	assert.Nil(t, coverageGaps(spans))
}

func TestRangeAuditJobRun(t *testing.T) {
	leasers := &stubRangeLister{
		ranges: map[uuid.UUID][]domain.LeaserRange{
			uuid.New(): {
				{Min: 0, Max: 2500, Coefficient: 3.0},
				{Min: 5000, Max: 10000, Coefficient: 3.5},
			},
		},
	}
	levels := &stubCommissionLister{
		ranges: map[uuid.UUID][]domain.CommissionRange{
			uuid.New(): {
				{Min: 0, Max: 10000, Rate: 4},
			},
		},
	}

	// Just must not panic; findings go to the log.
	job := NewRangeAuditJob(leasers, levels, zap.NewNop(), time.Second)
	job.Run()
}
