package leasing

// Coefficients are expressed as "monthly payment per 100 financed": a
// coefficient of 3.5 means 3.50 of monthly payment per 100 of principal.

// FinancedAmount converts a monthly payment back to the financed principal.
// A coefficient of zero or below yields 0; division never happens on a
// non-positive coefficient.
func FinancedAmount(monthlyPayment, coefficient float64) float64 {
	if coefficient <= 0 {
		return 0
	}
	return monthlyPayment * 100 / coefficient
}

// MonthlyPayment converts a financed amount to its monthly payment
func MonthlyPayment(financedAmount, coefficient float64) float64 {
	if coefficient <= 0 {
		return 0
	}
	return financedAmount * coefficient / 100
}

// ItemTotal is the sale price of one equipment line: purchase price times
// quantity with the margin percentage applied on top.
func ItemTotal(purchasePrice float64, quantity int, marginPercent float64) float64 {
	if quantity < 1 {
		return 0
	}
	return purchasePrice * float64(quantity) * (1 + marginPercent/100)
}

// MarginAdjustment is the offer-level override applied on top of per-item
// margins to reach a target monthly payment.
type MarginAdjustment struct {
	NewCoef float64
	Active  bool
}

// ApplyMarginAdjustment computes the displayed monthly payment under the
// adjustment's mode. When the adjustment is active the monthly payment is
// re-derived from the adjusted coefficient; when inactive the coefficient
// change is only recorded as a margin difference and the displayed monthly
// payment stays on the base coefficient. Toggling Active with an unchanged
// coefficient therefore leaves the monthly payment numerically unchanged.
func ApplyMarginAdjustment(totalWithMargin, baseCoef float64, adj MarginAdjustment) (monthly, marginDifference float64) {
	base := MonthlyPayment(totalWithMargin, baseCoef)

	effectiveCoef := adj.NewCoef
	if effectiveCoef <= 0 {
		effectiveCoef = baseCoef
	}
	adjusted := MonthlyPayment(totalWithMargin, effectiveCoef)
	marginDifference = adjusted - base

	if adj.Active {
		return adjusted, marginDifference
	}
	return base, marginDifference
}
