// Package insight derives summary metrics and commentary from a completed
// valuation. Everything in metrics.go is deterministic; the optional LLM
// commentary lives in generator.go.
package insight

import (
	"fmt"
	"math"

	"ma_valuation/pkg/core/dcf"
)

// Metrics summarizes a valuation for the dashboard's insight panel.
type Metrics struct {
	RevenueMultiple      float64  `json:"revenue_multiple"`      // EV / current revenue
	ExitRevenueMultiple  float64  `json:"exit_revenue_multiple"` // EV / year-5 revenue
	EBITDAMultiple       float64  `json:"ebitda_multiple"`       // EV / grossed-up year-5 EBIT
	TerminalContribution float64  `json:"terminal_contribution"` // PV(TV) / EV
	ForecastContribution float64  `json:"forecast_contribution"` // PV(forecast) / EV
	RevenueCAGR          float64  `json:"revenue_cagr"`
	Spread               float64  `json:"wacc_growth_spread"`
	Warnings             []string `json:"warnings"`
}

// Thresholds for the advisory warnings.
const (
	highTerminalShare = 0.75
	minReliableSpread = 0.03
)

// ComputeMetrics derives the insight metrics from assumptions and their
// valuation result. The EBITDA multiple is an estimate: year-5 EBIT grossed
// up by 1/(1-t) stands in for EBITDA since D&A is not modeled separately.
func ComputeMetrics(a dcf.Assumptions, r *dcf.Result) Metrics {
	finalRevenue := r.Revenues[len(r.Revenues)-1]
	finalEBIT := r.EBITs[len(r.EBITs)-1]

	m := Metrics{
		RevenueMultiple:      r.EnterpriseValue / a.CurrentRevenue,
		ExitRevenueMultiple:  r.EnterpriseValue / finalRevenue,
		EBITDAMultiple:       r.EnterpriseValue / (finalEBIT / (1 - a.TaxRate)),
		TerminalContribution: r.PVTerminalValue / r.EnterpriseValue,
		ForecastContribution: r.PVForecastPeriod / r.EnterpriseValue,
		RevenueCAGR:          math.Pow(finalRevenue/a.CurrentRevenue, 1.0/float64(len(r.Revenues))) - 1,
		Spread:               a.WACC - a.TerminalGrowth,
	}

	if m.TerminalContribution > highTerminalShare {
		m.Warnings = append(m.Warnings, fmt.Sprintf(
			"High terminal value risk: %.1f%% of enterprise value sits in the terminal period",
			m.TerminalContribution*100))
	}
	if m.Spread < minReliableSpread {
		m.Warnings = append(m.Warnings, fmt.Sprintf(
			"WACC-terminal growth spread of %.1fpp is below 3pp and may produce unreliable results",
			m.Spread*100))
	}

	return m
}
