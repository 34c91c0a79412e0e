// This file implements the sensitivity engine: the WACC × terminal-growth
// grid sweep and the ±1pp WACC sensitivity scalar.
package dcf

import (
	"math"

	"golang.org/x/sync/errgroup"
)

// Grid is the result of a two-variable sensitivity sweep. Values is indexed
// [growthRow][waccCol], matching the ordered axis slices.
//
// Infeasible-cell policy: a cell whose (wacc, growth) pair violates
// wacc > growth is set to NaN and counted in InfeasibleCells; the sweep
// itself never aborts. Callers rendering the grid should mask NaN cells.
type Grid struct {
	WACCValues      []float64   `json:"wacc_values"`
	GrowthValues    []float64   `json:"growth_values"`
	Values          [][]float64 `json:"values"`
	InfeasibleCells int         `json:"infeasible_cells"`
}

// Linspace returns n evenly spaced values from start to stop inclusive.
func Linspace(start, stop float64, n int) []float64 {
	if n <= 1 {
		return []float64{start}
	}
	step := (stop - start) / float64(n-1)
	values := make([]float64, n)
	for i := range values {
		values[i] = start + float64(i)*step
	}
	return values
}

// DefaultWACCRange is the standard sweep axis for the discount rate (6%-14%).
func DefaultWACCRange() []float64 { return Linspace(0.06, 0.14, 9) }

// DefaultGrowthRange is the standard sweep axis for terminal growth (2%-5%).
func DefaultGrowthRange() []float64 { return Linspace(0.02, 0.05, 7) }

// cellEnterpriseValue re-discounts an already-projected FCF series at one
// (rate, growth) pair. Returns NaN for an infeasible pair.
func cellEnterpriseValue(fcfs []float64, rate, growth float64) float64 {
	tv, err := TerminalValue(fcfs[len(fcfs)-1], growth, rate)
	if err != nil {
		return math.NaN()
	}
	factors := DiscountFactors(rate, len(fcfs))
	pvFCFs := PresentValues(fcfs, factors)
	pvTV := PVTerminalValue(tv, factors[len(factors)-1])
	_, ev := EnterpriseValue(pvFCFs, pvTV)
	return ev
}

// SensitivityGrid recomputes enterprise value for every (growth, wacc) pair
// over a fixed FCF series. Projection is rate/growth-invariant, so it is not
// rerun; only discounting and the terminal value change per cell.
//
// Rows are computed concurrently. Each cell is self-contained and writes
// only its own index, so the result is identical to a sequential sweep.
func SensitivityGrid(fcfs, waccValues, growthValues []float64) *Grid {
	grid := &Grid{
		WACCValues:   waccValues,
		GrowthValues: growthValues,
		Values:       make([][]float64, len(growthValues)),
	}
	rowInfeasible := make([]int, len(growthValues))

	var g errgroup.Group
	for i, growth := range growthValues {
		i, growth := i, growth
		g.Go(func() error {
			row := make([]float64, len(waccValues))
			for j, rate := range waccValues {
				ev := cellEnterpriseValue(fcfs, rate, growth)
				if math.IsNaN(ev) {
					rowInfeasible[i]++
				}
				row[j] = ev
			}
			grid.Values[i] = row
			return nil
		})
	}
	g.Wait()

	for _, n := range rowInfeasible {
		grid.InfeasibleCells += n
	}
	return grid
}

// MaskedValues returns the grid with infeasible cells as nil instead of
// NaN, which standard JSON encoding cannot represent.
func (g *Grid) MaskedValues() [][]*float64 {
	masked := make([][]*float64, len(g.Values))
	for i, row := range g.Values {
		masked[i] = make([]*float64, len(row))
		for j := range row {
			if !math.IsNaN(row[j]) {
				v := row[j]
				masked[i][j] = &v
			}
		}
	}
	return masked
}

// WACCSensitivityResult carries the ±1pp sensitivity scalar together with
// the base enterprise value it was measured against.
type WACCSensitivityResult struct {
	Sensitivity         float64 `json:"wacc_sensitivity"`
	BaseEnterpriseValue float64 `json:"base_enterprise_value"`
}

// WACCSensitivity measures how enterprise value reacts to a 1pp move in the
// discount rate, holding every other assumption fixed.
//
// FORMULA: S = (EV(wacc-1pp) - EV(wacc+1pp)) / (2 × EV(wacc))
//
// All three valuations reuse RunValuation. Fails when the perturbed rate at
// wacc-1pp no longer exceeds terminal growth.
func WACCSensitivity(a Assumptions) (*WACCSensitivityResult, error) {
	base, err := RunValuation(a)
	if err != nil {
		return nil, err
	}

	up := a
	up.WACC = a.WACC + 0.01
	resUp, err := RunValuation(up)
	if err != nil {
		return nil, err
	}

	down := a
	down.WACC = a.WACC - 0.01
	resDown, err := RunValuation(down)
	if err != nil {
		return nil, err
	}

	return &WACCSensitivityResult{
		Sensitivity:         (resDown.EnterpriseValue - resUp.EnterpriseValue) / (2 * base.EnterpriseValue),
		BaseEnterpriseValue: base.EnterpriseValue,
	}, nil
}
