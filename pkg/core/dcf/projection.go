// This file implements the projection engine: revenue compounding and the
// ratio-driven operating lines derived from it. All functions are total over
// real inputs and perform no validation; see Assumptions.Validate.
package dcf

// ProjectRevenue compounds current revenue through the per-year growth rates.
//
// FORMULA: Revenue_t = Revenue_{t-1} × (1 + Growth_t)
//
// Year 0 is currentRevenue and is not included in the output; the returned
// slice covers forecast years 1..len(growthRates).
func ProjectRevenue(currentRevenue float64, growthRates []float64) []float64 {
	revenues := make([]float64, len(growthRates))
	prior := currentRevenue
	for i, growth := range growthRates {
		prior *= 1 + growth
		revenues[i] = prior
	}
	return revenues
}

// EBIT applies a constant operating margin to each projected revenue year.
//
// FORMULA: EBIT_t = Revenue_t × Margin
func EBIT(revenues []float64, margin float64) []float64 {
	ebits := make([]float64, len(revenues))
	for i, rev := range revenues {
		ebits[i] = rev * margin
	}
	return ebits
}

// NOPAT converts EBIT to net operating profit after tax.
//
// FORMULA: NOPAT_t = EBIT_t × (1 - TaxRate)
func NOPAT(ebits []float64, taxRate float64) []float64 {
	nopats := make([]float64, len(ebits))
	for i, ebit := range ebits {
		nopats[i] = ebit * (1 - taxRate)
	}
	return nopats
}

// FCF models free cash flow as a fixed fraction of NOPAT.
//
// FORMULA: FCF_t = NOPAT_t × Conversion
func FCF(nopats []float64, conversion float64) []float64 {
	fcfs := make([]float64, len(nopats))
	for i, nopat := range nopats {
		fcfs[i] = nopat * conversion
	}
	return fcfs
}

// ProjectFCF runs the full projection chain for a set of assumptions and
// returns the free cash flow series. The sensitivity sweep uses this to
// project once and re-discount many times.
func ProjectFCF(a Assumptions) []float64 {
	revenues := ProjectRevenue(a.CurrentRevenue, a.GrowthRates)
	return FCF(NOPAT(EBIT(revenues, a.EBITMargin), a.TaxRate), a.FCFConversion)
}
