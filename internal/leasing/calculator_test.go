package leasing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iTakecare/itakecarehub-sub001/internal/domain"
)

func TestFinancedAmount(t *testing.T) {
	t.Run("converts monthly payment to principal", func(t *testing.T) {
		assert.InDelta(t, 10000.0, FinancedAmount(350, 3.5), 0.001)
	})

	t.Run("zero coefficient returns zero", func(t *testing.T) {
		assert.Equal(t, 0.0, FinancedAmount(350, 0))
	})

	t.Run("negative coefficient returns zero", func(t *testing.T) {
		assert.Equal(t, 0.0, FinancedAmount(350, -1.5))
	})
}

func TestMonthlyPayment(t *testing.T) {
	t.Run("converts principal to monthly payment", func(t *testing.T) {
		assert.InDelta(t, 350.0, MonthlyPayment(10000, 3.5), 0.001)
	})

	t.Run("round trips with FinancedAmount", func(t *testing.T) {
		monthly := MonthlyPayment(8400, 3.2)
		assert.InDelta(t, 8400.0, FinancedAmount(monthly, 3.2), 0.001)
	})

	t.Run("non-positive coefficient returns zero", func(t *testing.T) {
		assert.Equal(t, 0.0, MonthlyPayment(10000, 0))
		assert.Equal(t, 0.0, MonthlyPayment(10000, -3))
	})
}

func TestItemTotal(t *testing.T) {
	t.Run("applies margin on top of price times quantity", func(t *testing.T) {
		assert.InDelta(t, 2200.0, ItemTotal(1000, 2, 10), 0.001)
	})

	t.Run("zero margin", func(t *testing.T) {
		assert.InDelta(t, 3000.0, ItemTotal(1500, 2, 0), 0.001)
	})

	t.Run("quantity below one returns zero", func(t *testing.T) {
		assert.Equal(t, 0.0, ItemTotal(1000, 0, 10))
	})
}

func TestApplyMarginAdjustment(t *testing.T) {
	t.Run("inactive keeps base monthly payment", func(t *testing.T) {
		monthly, diff := ApplyMarginAdjustment(10000, 3.5, MarginAdjustment{NewCoef: 3.8, Active: false})
		assert.InDelta(t, 350.0, monthly, 0.001)
		assert.InDelta(t, 30.0, diff, 0.001)
	})

	t.Run("active re-derives from adjusted coefficient", func(t *testing.T) {
		monthly, diff := ApplyMarginAdjustment(10000, 3.5, MarginAdjustment{NewCoef: 3.8, Active: true})
		assert.InDelta(t, 380.0, monthly, 0.001)
		assert.InDelta(t, 30.0, diff, 0.001)
	})

	t.Run("toggling active with unchanged coefficient keeps monthly payment", func(t *testing.T) {
		before, _ := ApplyMarginAdjustment(10000, 3.5, MarginAdjustment{NewCoef: 3.5, Active: false})
		after, _ := ApplyMarginAdjustment(10000, 3.5, MarginAdjustment{NewCoef: 3.5, Active: true})
		assert.Equal(t, before, after)
	})

	t.Run("zero adjusted coefficient falls back to base", func(t *testing.T) {
		monthly, diff := ApplyMarginAdjustment(10000, 3.5, MarginAdjustment{NewCoef: 0, Active: true})
		assert.InDelta(t, 350.0, monthly, 0.001)
		assert.Equal(t, 0.0, diff)
	})
}

func TestResolveRange(t *testing.T) {
	ranges := []domain.LeaserRange{
		{Min: 0, Max: 2500, Coefficient: 3.0, Position: 0},
		{Min: 2500.01, Max: 10000, Coefficient: 3.5, Position: 1},
	}

	t.Run("boundary amount matches the first range", func(t *testing.T) {
		r := ResolveRange(ranges, 2500)
		require.NotNil(t, r)
		assert.Equal(t, 3.0, r.Coefficient)
	})

	t.Run("amount just above boundary matches the second range", func(t *testing.T) {
		r := ResolveRange(ranges, 2500.01)
		require.NotNil(t, r)
		assert.Equal(t, 3.5, r.Coefficient)
	})

	t.Run("amount above all ranges returns nil", func(t *testing.T) {
		assert.Nil(t, ResolveRange(ranges, 10000.01))
	})

	t.Run("amount in a gap returns nil", func(t *testing.T) {
		gapped := []domain.LeaserRange{
			{Min: 0, Max: 1000, Coefficient: 3.0, Position: 0},
			{Min: 5000, Max: 10000, Coefficient: 3.5, Position: 1},
		}
		assert.Nil(t, ResolveRange(gapped, 2000))
	})

	t.Run("overlapping ranges resolve by configured order", func(t *testing.T) {
		overlapping := []domain.LeaserRange{
			{Min: 0, Max: 5000, Coefficient: 3.2, Position: 0},
			{Min: 4000, Max: 10000, Coefficient: 3.6, Position: 1},
		}
		r := ResolveRange(overlapping, 4500)
		require.NotNil(t, r)
		assert.Equal(t, 3.2, r.Coefficient)
	})

	t.Run("empty range list returns nil", func(t *testing.T) {
		assert.Nil(t, ResolveRange(nil, 100))
	})
}

func TestValidateRanges(t *testing.T) {
	t.Run("accepts non-overlapping ranges with gaps", func(t *testing.T) {
		err := ValidateRanges([]domain.LeaserRange{
			{Min: 0, Max: 1000, Coefficient: 3.0},
			{Min: 5000, Max: 10000, Coefficient: 3.5},
		})
		assert.NoError(t, err)
	})

	t.Run("rejects overlap", func(t *testing.T) {
		err := ValidateRanges([]domain.LeaserRange{
			{Min: 0, Max: 5000, Coefficient: 3.0},
			{Min: 4999, Max: 10000, Coefficient: 3.5},
		})
		assert.Error(t, err)
	})

	t.Run("rejects shared boundary", func(t *testing.T) {
		err := ValidateRanges([]domain.LeaserRange{
			{Min: 0, Max: 2500, Coefficient: 3.0},
			{Min: 2500, Max: 10000, Coefficient: 3.5},
		})
		assert.Error(t, err)
	})

	t.Run("rejects negative minimum", func(t *testing.T) {
		err := ValidateRanges([]domain.LeaserRange{{Min: -1, Max: 100, Coefficient: 3.0}})
		assert.Error(t, err)
	})

	t.Run("rejects min above max", func(t *testing.T) {
		err := ValidateRanges([]domain.LeaserRange{{Min: 200, Max: 100, Coefficient: 3.0}})
		assert.Error(t, err)
	})

	t.Run("rejects non-positive coefficient", func(t *testing.T) {
		err := ValidateRanges([]domain.LeaserRange{{Min: 0, Max: 100, Coefficient: 0}})
		assert.Error(t, err)
	})
}
