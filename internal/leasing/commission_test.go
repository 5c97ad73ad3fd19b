package leasing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iTakecare/itakecarehub-sub001/internal/domain"
)

func flatAmount(v float64) *float64 { return &v }

func TestResolveCommission(t *testing.T) {
	level := &domain.CommissionLevel{
		Name:          "Gold",
		PrincipalType: domain.PrincipalAmbassador,
		Ranges: []domain.CommissionRange{
			{Min: 0, Max: 5000, Rate: 4, Position: 0},
			{Min: 5000.01, Max: 20000, Rate: 6, Position: 1},
			{Min: 20000.01, Max: 50000, Amount: flatAmount(1500), Position: 2},
		},
	}

	t.Run("rate tier multiplies financed amount", func(t *testing.T) {
		res := ResolveCommission(10000, level)
		assert.InDelta(t, 600.0, res.Amount, 0.001)
		assert.Equal(t, 6.0, res.Rate)
		assert.Equal(t, "Gold", res.LevelName)
	})

	t.Run("flat tier pays its amount regardless of financed amount", func(t *testing.T) {
		res := ResolveCommission(30000, level)
		assert.Equal(t, 1500.0, res.Amount)
		assert.Equal(t, 0.0, res.Rate)
	})

	t.Run("amount outside all tiers yields zero result", func(t *testing.T) {
		res := ResolveCommission(99999, level)
		assert.Equal(t, CommissionResult{}, res)
	})

	t.Run("nil level yields zero result", func(t *testing.T) {
		assert.Equal(t, CommissionResult{}, ResolveCommission(10000, nil))
	})

	t.Run("level without ranges yields zero result", func(t *testing.T) {
		empty := &domain.CommissionLevel{Name: "Empty"}
		assert.Equal(t, CommissionResult{}, ResolveCommission(10000, empty))
	})
}

func TestValidateCommissionRanges(t *testing.T) {
	t.Run("accepts zero rate tiers", func(t *testing.T) {
		err := ValidateCommissionRanges([]domain.CommissionRange{
			{Min: 0, Max: 5000, Rate: 0, Amount: flatAmount(200)},
		})
		assert.NoError(t, err)
	})

	t.Run("rejects overlapping tiers", func(t *testing.T) {
		err := ValidateCommissionRanges([]domain.CommissionRange{
			{Min: 0, Max: 5000, Rate: 4},
			{Min: 3000, Max: 10000, Rate: 6},
		})
		assert.Error(t, err)
	})
}
