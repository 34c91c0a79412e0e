// Package dcf implements the Discounted Cash Flow valuation engine:
// revenue/EBIT/NOPAT/FCF projection, discounting, terminal value,
// enterprise-value aggregation, and the two-variable sensitivity sweep.
// Every operation is a pure function of its inputs; this package is the
// single source of truth for the formulas, and any UI or API layer calls
// into it rather than re-deriving them.
package dcf

import "fmt"

// ForecastYears is the explicit forecast horizon of the model.
const ForecastYears = 5

// Assumptions is the immutable input record for a valuation run.
// Rates are fractions (0.10 = 10%), revenue is in $M.
type Assumptions struct {
	CurrentRevenue float64   `json:"current_revenue"`
	GrowthRates    []float64 `json:"growth_rates"` // one per forecast year
	EBITMargin     float64   `json:"ebit_margin"`
	TaxRate        float64   `json:"tax_rate"`
	WACC           float64   `json:"wacc"`
	TerminalGrowth float64   `json:"terminal_growth"`
	FCFConversion  float64   `json:"fcf_conversion"` // fraction of NOPAT converted to FCF
}

// DefaultAssumptions returns the standard starting scenario
// ($100M revenue, decaying growth, 20% margin, 25% tax, 10% WACC, 3% g).
func DefaultAssumptions() Assumptions {
	return Assumptions{
		CurrentRevenue: 100.0,
		GrowthRates:    []float64{0.15, 0.12, 0.10, 0.08, 0.06},
		EBITMargin:     0.20,
		TaxRate:        0.25,
		WACC:           0.10,
		TerminalGrowth: 0.03,
		FCFConversion:  0.80,
	}
}

// Validate checks the record at the input boundary. The projection and
// discounting functions themselves are total over real inputs; callers are
// expected to reject bad assumptions here before running a valuation.
func (a Assumptions) Validate() error {
	if a.CurrentRevenue <= 0 {
		return fmt.Errorf("current_revenue must be positive, got %.2f", a.CurrentRevenue)
	}
	if len(a.GrowthRates) != ForecastYears {
		return fmt.Errorf("growth_rates must have %d entries, got %d", ForecastYears, len(a.GrowthRates))
	}
	if a.TaxRate < 0 || a.TaxRate >= 1 {
		return fmt.Errorf("tax_rate must be in [0, 1), got %.4f", a.TaxRate)
	}
	if a.FCFConversion <= 0 || a.FCFConversion > 1 {
		return fmt.Errorf("fcf_conversion must be in (0, 1], got %.4f", a.FCFConversion)
	}
	if a.WACC <= a.TerminalGrowth {
		return spreadError(a.WACC, a.TerminalGrowth)
	}
	return nil
}
