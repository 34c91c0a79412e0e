package dcf

import (
	"errors"
	"math"
	"testing"
)

func TestDiscountFactors_Boundaries(t *testing.T) {
	factors := DiscountFactors(0.10, 5)

	if len(factors) != 5 {
		t.Fatalf("Expected 5 factors, got %d", len(factors))
	}

	// DF_1 = 1 / 1.1, DF_5 = 1 / 1.1^5
	if math.Abs(factors[0]-1/1.1) > 1e-12 {
		t.Errorf("DF_1: expected %f, got %f", 1/1.1, factors[0])
	}
	exp5 := 1 / math.Pow(1.1, 5)
	if math.Abs(factors[4]-exp5) > 1e-12 {
		t.Errorf("DF_5: expected %f, got %f", exp5, factors[4])
	}

	// Strictly decreasing
	for i := 1; i < len(factors); i++ {
		if factors[i] >= factors[i-1] {
			t.Errorf("Factors not decreasing at year %d: %f >= %f", i+1, factors[i], factors[i-1])
		}
	}
}

func TestPresentValues(t *testing.T) {
	pvs := PresentValues([]float64{10, 20, 30}, []float64{0.9, 0.8, 0.7})
	expected := []float64{9, 16, 21}
	for i, exp := range expected {
		if math.Abs(pvs[i]-exp) > 1e-12 {
			t.Errorf("PV[%d]: expected %f, got %f", i, exp, pvs[i])
		}
	}
}

func TestTerminalValue(t *testing.T) {
	// TV = 20 * 1.03 / (0.10 - 0.03) = 20.6 / 0.07 = 294.2857...
	tv, err := TerminalValue(20, 0.03, 0.10)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	expected := 20 * 1.03 / 0.07
	if math.Abs(tv-expected) > 0.0001 {
		t.Errorf("Expected TV %f, got %f", expected, tv)
	}
}

func TestTerminalValue_InfeasibleSpread(t *testing.T) {
	// Equality must fail, not return +Inf.
	if _, err := TerminalValue(20, 0.10, 0.10); err == nil {
		t.Error("Expected error for rate == growth")
	}

	// Rate below growth must fail, not return a negative value.
	_, err := TerminalValue(20, 0.12, 0.10)
	if err == nil {
		t.Fatal("Expected error for rate < growth")
	}
	if !errors.Is(err, ErrInfeasibleSpread) {
		t.Errorf("Expected ErrInfeasibleSpread, got %v", err)
	}
}

func TestPVTerminalValue(t *testing.T) {
	// 300 * 0.62 = 186
	if pv := PVTerminalValue(300, 0.62); math.Abs(pv-186) > 1e-12 {
		t.Errorf("Expected 186, got %f", pv)
	}
}
