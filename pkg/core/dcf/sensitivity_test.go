package dcf

import (
	"math"
	"testing"
)

func TestLinspace(t *testing.T) {
	values := Linspace(0.06, 0.14, 9)
	if len(values) != 9 {
		t.Fatalf("Expected 9 values, got %d", len(values))
	}
	if math.Abs(values[0]-0.06) > 1e-12 || math.Abs(values[8]-0.14) > 1e-12 {
		t.Errorf("Endpoints wrong: %f .. %f", values[0], values[8])
	}
	// Step = 0.08 / 8 = 0.01
	if math.Abs(values[1]-values[0]-0.01) > 1e-12 {
		t.Errorf("Expected 0.01 step, got %f", values[1]-values[0])
	}
}

func TestSensitivityGrid_MatchesBaseCase(t *testing.T) {
	a := DefaultAssumptions()
	base, err := RunValuation(a)
	if err != nil {
		t.Fatalf("Base valuation failed: %v", err)
	}

	// Default axes contain the base (0.10, 0.03) coordinate:
	// wacc index 4 (0.06 + 4*0.01), growth index 2 (0.02 + 2*0.005).
	grid := SensitivityGrid(base.FCFs, DefaultWACCRange(), DefaultGrowthRange())

	cell := grid.Values[2][4]
	if math.Abs(cell-base.EnterpriseValue) > 1e-6 {
		t.Errorf("Grid cell %f != base EV %f", cell, base.EnterpriseValue)
	}
	if grid.InfeasibleCells != 0 {
		t.Errorf("Default ranges should be fully feasible, got %d infeasible cells", grid.InfeasibleCells)
	}
}

func TestSensitivityGrid_Shape(t *testing.T) {
	fcfs := ProjectFCF(DefaultAssumptions())
	waccs := Linspace(0.08, 0.12, 5)
	growths := Linspace(0.02, 0.04, 3)

	grid := SensitivityGrid(fcfs, waccs, growths)
	if len(grid.Values) != 3 {
		t.Fatalf("Expected 3 growth rows, got %d", len(grid.Values))
	}
	for i, row := range grid.Values {
		if len(row) != 5 {
			t.Errorf("Row %d: expected 5 wacc columns, got %d", i, len(row))
		}
	}
}

func TestSensitivityGrid_InfeasibleCellsAreNaN(t *testing.T) {
	fcfs := ProjectFCF(DefaultAssumptions())

	// Growth 0.05 vs rates {0.04, 0.05, 0.06}: the first two pairs are
	// infeasible (rate <= growth) and must come back as NaN sentinels
	// without aborting the sweep.
	grid := SensitivityGrid(fcfs, []float64{0.04, 0.05, 0.06}, []float64{0.03, 0.05})

	if grid.InfeasibleCells != 2 {
		t.Errorf("Expected 2 infeasible cells, got %d", grid.InfeasibleCells)
	}
	if !math.IsNaN(grid.Values[1][0]) || !math.IsNaN(grid.Values[1][1]) {
		t.Errorf("Infeasible cells should be NaN, got %v", grid.Values[1])
	}
	if math.IsNaN(grid.Values[1][2]) {
		t.Error("Feasible cell (0.06, 0.05) should not be NaN")
	}
	// The feasible growth row must be untouched by its neighbor's failures.
	for j, v := range grid.Values[0] {
		if math.IsNaN(v) {
			t.Errorf("Row 0 col %d unexpectedly NaN", j)
		}
	}
}

func TestSensitivityGrid_MatchesSequential(t *testing.T) {
	// The concurrent sweep must be bit-for-bit identical to a plain loop.
	fcfs := ProjectFCF(DefaultAssumptions())
	waccs := DefaultWACCRange()
	growths := DefaultGrowthRange()

	grid := SensitivityGrid(fcfs, waccs, growths)

	for i, growth := range growths {
		for j, rate := range waccs {
			factors := DiscountFactors(rate, len(fcfs))
			pvFCFs := PresentValues(fcfs, factors)
			tv, err := TerminalValue(fcfs[len(fcfs)-1], growth, rate)
			if err != nil {
				t.Fatalf("Unexpected infeasible pair (%f, %f)", rate, growth)
			}
			_, want := EnterpriseValue(pvFCFs, PVTerminalValue(tv, factors[len(factors)-1]))
			if grid.Values[i][j] != want {
				t.Errorf("Cell [%d][%d]: concurrent %v != sequential %v", i, j, grid.Values[i][j], want)
			}
		}
	}
}

func TestWACCSensitivity(t *testing.T) {
	a := DefaultAssumptions()
	res, err := WACCSensitivity(a)
	if err != nil {
		t.Fatalf("Sensitivity failed: %v", err)
	}

	// Cross-check against three explicit valuations.
	base, _ := RunValuation(a)
	up := a
	up.WACC += 0.01
	resUp, _ := RunValuation(up)
	down := a
	down.WACC -= 0.01
	resDown, _ := RunValuation(down)

	want := (resDown.EnterpriseValue - resUp.EnterpriseValue) / (2 * base.EnterpriseValue)
	if math.Abs(res.Sensitivity-want) > 1e-12 {
		t.Errorf("Sensitivity: expected %f, got %f", want, res.Sensitivity)
	}
	if res.BaseEnterpriseValue != base.EnterpriseValue {
		t.Errorf("Base EV: expected %f, got %f", base.EnterpriseValue, res.BaseEnterpriseValue)
	}

	// EV falls as WACC rises, so the centered difference is positive.
	if res.Sensitivity <= 0 {
		t.Errorf("Expected positive sensitivity, got %f", res.Sensitivity)
	}
}

func TestWACCSensitivity_DegeneratePerturbation(t *testing.T) {
	// WACC of 3.9% puts the -1pp shock at 2.9%, below the 3% growth floor.
	a := DefaultAssumptions()
	a.WACC = 0.039
	if _, err := WACCSensitivity(a); err == nil {
		t.Error("Expected failure when wacc - 1pp crosses terminal growth")
	}
}
