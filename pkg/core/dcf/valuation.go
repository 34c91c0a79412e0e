package dcf

// Result holds every intermediate series and total from a base-case
// valuation. The JSON field names are a contract with downstream consumers
// (projection chart, waterfall, summary metrics) and must not change.
type Result struct {
	Revenues         []float64 `json:"revenues"`
	EBITs            []float64 `json:"ebits"`
	NOPATs           []float64 `json:"nopats"`
	FCFs             []float64 `json:"fcfs"`
	DiscountFactors  []float64 `json:"discount_factors"`
	PVFCFs           []float64 `json:"pv_fcfs"`
	TerminalValue    float64   `json:"terminal_value"`
	PVTerminalValue  float64   `json:"pv_terminal_value"`
	PVForecastPeriod float64   `json:"pv_forecast_period"`
	EnterpriseValue  float64   `json:"enterprise_value"`
}

// EnterpriseValue sums the forecast-period present values and adds the
// discounted terminal value.
//
// FORMULA: EV = Σ PV(FCF_t) + PV(TV)
func EnterpriseValue(pvFCFs []float64, pvTerminalValue float64) (pvForecastPeriod, enterpriseValue float64) {
	for _, pv := range pvFCFs {
		pvForecastPeriod += pv
	}
	return pvForecastPeriod, pvForecastPeriod + pvTerminalValue
}

// RunValuation sequences projection, discounting, and aggregation for one
// set of assumptions. This is the sole entry point for a base-case
// valuation; it returns a fresh immutable Result on every call and fails
// with ErrInfeasibleSpread when wacc <= terminal_growth.
func RunValuation(a Assumptions) (*Result, error) {
	revenues := ProjectRevenue(a.CurrentRevenue, a.GrowthRates)
	ebits := EBIT(revenues, a.EBITMargin)
	nopats := NOPAT(ebits, a.TaxRate)
	fcfs := FCF(nopats, a.FCFConversion)

	factors := DiscountFactors(a.WACC, len(fcfs))
	pvFCFs := PresentValues(fcfs, factors)

	tv, err := TerminalValue(fcfs[len(fcfs)-1], a.TerminalGrowth, a.WACC)
	if err != nil {
		return nil, err
	}
	pvTV := PVTerminalValue(tv, factors[len(factors)-1])

	pvForecast, ev := EnterpriseValue(pvFCFs, pvTV)

	return &Result{
		Revenues:         revenues,
		EBITs:            ebits,
		NOPATs:           nopats,
		FCFs:             fcfs,
		DiscountFactors:  factors,
		PVFCFs:           pvFCFs,
		TerminalValue:    tv,
		PVTerminalValue:  pvTV,
		PVForecastPeriod: pvForecast,
		EnterpriseValue:  ev,
	}, nil
}
