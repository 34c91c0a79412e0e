// This file implements the discounting engine: per-year discount factors,
// present values, and the Gordon growth terminal value.
package dcf

import "math"

// DiscountFactors returns the end-of-period discount factors for years 1..years.
//
// FORMULA: DF_t = 1 / (1 + rate)^t
func DiscountFactors(rate float64, years int) []float64 {
	factors := make([]float64, years)
	for y := 1; y <= years; y++ {
		factors[y-1] = 1 / math.Pow(1+rate, float64(y))
	}
	return factors
}

// PresentValues discounts each cash flow by its matching factor.
//
// FORMULA: PV_t = CF_t × DF_t
//
// The slices are expected to be the same length; extra entries in either are
// ignored.
func PresentValues(cashflows, factors []float64) []float64 {
	n := len(cashflows)
	if len(factors) < n {
		n = len(factors)
	}
	pvs := make([]float64, n)
	for i := 0; i < n; i++ {
		pvs[i] = cashflows[i] * factors[i]
	}
	return pvs
}

// TerminalValue capitalizes the final-year FCF as a growing perpetuity.
//
// FORMULA: TV = FCF_N × (1 + g) / (rate - g)
//
// Fails with ErrInfeasibleSpread when rate <= g: the formula has no finite
// positive value there and the caller must correct the assumptions.
func TerminalValue(finalFCF, terminalGrowth, rate float64) (float64, error) {
	if rate <= terminalGrowth {
		return 0, spreadError(rate, terminalGrowth)
	}
	return finalFCF * (1 + terminalGrowth) / (rate - terminalGrowth), nil
}

// PVTerminalValue discounts the terminal value back to today using the
// final forecast year's discount factor.
//
// FORMULA: PV(TV) = TV × DF_N
func PVTerminalValue(terminalValue, finalDiscountFactor float64) float64 {
	return terminalValue * finalDiscountFactor
}
