// Package leasing holds the pure pricing arithmetic: coefficient range
// resolution, monthly payment and financed amount conversions, equipment
// totals and tiered commission lookup. Nothing in here touches the database.
package leasing

import (
	"fmt"
	"sort"

	"github.com/iTakecare/itakecarehub-sub001/internal/domain"
)

// ResolveRange returns the first range, in configured order, whose bounds
// contain amount. Bounds are inclusive on both ends. A nil result means no
// range covers the amount; callers treat that as an expected outcome, not an
// error.
func ResolveRange(ranges []domain.LeaserRange, amount float64) *domain.LeaserRange {
	sorted := make([]domain.LeaserRange, len(ranges))
	copy(sorted, ranges)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Position < sorted[j].Position
	})
	for i := range sorted {
		if amount >= sorted[i].Min && amount <= sorted[i].Max {
			return &sorted[i]
		}
	}
	return nil
}

// ValidateRanges rejects malformed range sets at configuration time:
// negative bounds, min above max, non-positive coefficients and overlapping
// intervals. Gaps between ranges are allowed.
func ValidateRanges(ranges []domain.LeaserRange) error {
	for _, r := range ranges {
		if r.Min < 0 {
			return fmt.Errorf("range [%g, %g]: minimum must not be negative", r.Min, r.Max)
		}
		if r.Min > r.Max {
			return fmt.Errorf("range [%g, %g]: minimum exceeds maximum", r.Min, r.Max)
		}
		if r.Coefficient <= 0 {
			return fmt.Errorf("range [%g, %g]: coefficient must be positive", r.Min, r.Max)
		}
	}

	sorted := make([]domain.LeaserRange, len(ranges))
	copy(sorted, ranges)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Min < sorted[j].Min
	})
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Min <= sorted[i-1].Max {
			return fmt.Errorf("range [%g, %g] overlaps [%g, %g]",
				sorted[i].Min, sorted[i].Max, sorted[i-1].Min, sorted[i-1].Max)
		}
	}
	return nil
}
