// Package valuation exposes the DCF engine over HTTP for the dashboard.
package valuation

import (
	"encoding/json"
	"fmt"
	"net/http"

	"ma_valuation/pkg/core/dcf"
	"ma_valuation/pkg/core/insight"
)

var generator *insight.Generator

// InitHandler wires the insight generator used by the commentary endpoint.
func InitHandler(g *insight.Generator) {
	generator = g
}

func allowCORS(w http.ResponseWriter, r *http.Request) bool {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return true
	}
	return false
}

// decodeAssumptions binds and validates the request body. A missing
// fcf_conversion falls back to the 0.8 default before validation.
func decodeAssumptions(w http.ResponseWriter, r *http.Request) (dcf.Assumptions, bool) {
	var a dcf.Assumptions
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return a, false
	}
	if a.FCFConversion == 0 {
		a.FCFConversion = 0.80
	}
	if err := a.Validate(); err != nil {
		http.Error(w, fmt.Sprintf("Invalid assumptions: %v", err), http.StatusUnprocessableEntity)
		return a, false
	}
	return a, true
}

// HandleRun computes a base-case valuation: POST /api/valuation/run.
func HandleRun(w http.ResponseWriter, r *http.Request) {
	if allowCORS(w, r) {
		return
	}

	a, ok := decodeAssumptions(w, r)
	if !ok {
		return
	}

	result, err := dcf.RunValuation(a)
	if err != nil {
		// Validate catches the spread upfront; reaching here means the
		// engine itself rejected the inputs.
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	fmt.Printf("[VALUATION] Run: EV=$%.1fM (wacc=%.2f, g=%.2f)\n", result.EnterpriseValue, a.WACC, a.TerminalGrowth)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// SensitivityRequest optionally overrides the sweep axes.
type SensitivityRequest struct {
	Assumptions  dcf.Assumptions `json:"assumptions"`
	WACCValues   []float64       `json:"wacc_values,omitempty"`
	GrowthValues []float64       `json:"growth_values,omitempty"`
}

// SensitivityResponse carries the grid (nulls for infeasible cells), the
// axes it was built over, and the ±1pp WACC scalar when computable.
type SensitivityResponse struct {
	WACCValues           []float64                  `json:"wacc_values"`
	GrowthValues         []float64                  `json:"growth_values"`
	Values               [][]*float64               `json:"values"`
	InfeasibleCells      int                        `json:"infeasible_cells"`
	WACCSensitivity      *dcf.WACCSensitivityResult `json:"wacc_sensitivity,omitempty"`
	WACCSensitivityError string                     `json:"wacc_sensitivity_error,omitempty"`
}

// HandleSensitivity runs the grid sweep: POST /api/valuation/sensitivity.
func HandleSensitivity(w http.ResponseWriter, r *http.Request) {
	if allowCORS(w, r) {
		return
	}

	var req SensitivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if req.Assumptions.FCFConversion == 0 {
		req.Assumptions.FCFConversion = 0.80
	}
	if err := req.Assumptions.Validate(); err != nil {
		http.Error(w, fmt.Sprintf("Invalid assumptions: %v", err), http.StatusUnprocessableEntity)
		return
	}

	waccValues := req.WACCValues
	if len(waccValues) == 0 {
		waccValues = dcf.DefaultWACCRange()
	}
	growthValues := req.GrowthValues
	if len(growthValues) == 0 {
		growthValues = dcf.DefaultGrowthRange()
	}

	fcfs := dcf.ProjectFCF(req.Assumptions)
	grid := dcf.SensitivityGrid(fcfs, waccValues, growthValues)

	resp := SensitivityResponse{
		WACCValues:      grid.WACCValues,
		GrowthValues:    grid.GrowthValues,
		Values:          grid.MaskedValues(),
		InfeasibleCells: grid.InfeasibleCells,
	}

	scalar, err := dcf.WACCSensitivity(req.Assumptions)
	if err != nil {
		resp.WACCSensitivityError = err.Error()
	} else {
		resp.WACCSensitivity = scalar
	}

	fmt.Printf("[VALUATION] Sweep: %dx%d grid, %d infeasible cells\n",
		len(growthValues), len(waccValues), grid.InfeasibleCells)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// HandleInsight derives summary metrics and commentary: POST /api/valuation/insight.
func HandleInsight(w http.ResponseWriter, r *http.Request) {
	if allowCORS(w, r) {
		return
	}

	a, ok := decodeAssumptions(w, r)
	if !ok {
		return
	}

	result, err := dcf.RunValuation(a)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	gen := generator
	if gen == nil {
		gen = insight.NewGenerator(nil)
	}
	commentary, err := gen.Generate(r.Context(), a, result)
	if err != nil {
		http.Error(w, fmt.Sprintf("Insight generation failed: %v", err), http.StatusInternalServerError)
		return
	}

	fmt.Printf("[INSIGHT] Commentary generated (source=%s)\n", commentary.Source)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(commentary)
}
