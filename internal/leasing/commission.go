package leasing

import (
	"sort"

	"github.com/iTakecare/itakecarehub-sub001/internal/domain"
)

// CommissionResult is the outcome of resolving a financed amount against a
// commission level. A miss yields the zero value rather than an error:
// commission is a display enhancement, never a blocker.
type CommissionResult struct {
	Amount    float64
	Rate      float64
	LevelName string
}

// ResolveCommission looks up the tier covering the financed amount in the
// level's range table. A tier with a flat Amount pays that amount; otherwise
// the tier's rate is applied to the financed amount. A nil level, an empty
// table or an amount outside every tier all yield the zero result.
func ResolveCommission(financedAmount float64, level *domain.CommissionLevel) CommissionResult {
	if level == nil {
		return CommissionResult{}
	}

	sorted := make([]domain.CommissionRange, len(level.Ranges))
	copy(sorted, level.Ranges)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Position < sorted[j].Position
	})

	for i := range sorted {
		r := &sorted[i]
		if financedAmount < r.Min || financedAmount > r.Max {
			continue
		}
		if r.Amount != nil {
			return CommissionResult{Amount: *r.Amount, Rate: 0, LevelName: level.Name}
		}
		return CommissionResult{
			Amount:    financedAmount * r.Rate / 100,
			Rate:      r.Rate,
			LevelName: level.Name,
		}
	}
	return CommissionResult{}
}

// ValidateCommissionRanges rejects malformed commission tier sets. Same
// rules as leaser ranges except a zero rate is allowed (flat-amount tiers
// carry Rate 0).
func ValidateCommissionRanges(ranges []domain.CommissionRange) error {
	converted := make([]domain.LeaserRange, len(ranges))
	for i, r := range ranges {
		converted[i] = domain.LeaserRange{Min: r.Min, Max: r.Max, Coefficient: 1, Position: r.Position}
	}
	return ValidateRanges(converted)
}
