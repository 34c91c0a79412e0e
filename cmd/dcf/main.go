// Command dcf is a one-shot calculator over the valuation engine. It reads
// assumptions from -data (inline JSON) or -file (JSON or Hjson), falls back
// to the default scenario, and prints the requested result as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"ma_valuation/pkg/core/dcf"
	"ma_valuation/pkg/core/insight"
	"ma_valuation/pkg/core/utils"
)

func main() {
	mode := flag.String("mode", "value", "Mode: value, sensitivity, or insight")
	dataStr := flag.String("data", "", "Inline JSON assumptions payload")
	filePath := flag.String("file", "", "Assumptions file (.json or .hjson)")
	flag.Parse()

	godotenv.Load()

	a, err := loadAssumptions(*dataStr, *filePath)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	if err := a.Validate(); err != nil {
		fmt.Printf("Error: invalid assumptions: %v\n", err)
		os.Exit(1)
	}

	switch *mode {
	case "value":
		runValue(a)
	case "sensitivity":
		runSensitivity(a)
	case "insight":
		runInsight(a)
	default:
		fmt.Printf("Unknown mode: %s\n", *mode)
		os.Exit(1)
	}
}

func loadAssumptions(dataStr, filePath string) (dcf.Assumptions, error) {
	a := dcf.DefaultAssumptions()

	if dataStr != "" {
		if err := json.Unmarshal([]byte(dataStr), &a); err != nil {
			return a, fmt.Errorf("unmarshaling -data payload: %v", err)
		}
		return a, nil
	}

	if filePath != "" {
		bytes, err := os.ReadFile(filePath)
		if err != nil {
			return a, fmt.Errorf("reading %s: %v", filePath, err)
		}
		if filepath.Ext(filePath) == ".hjson" {
			if err := utils.ParseHJSONToStruct(bytes, &a); err != nil {
				return a, err
			}
			return a, nil
		}
		if err := json.Unmarshal(bytes, &a); err != nil {
			return a, fmt.Errorf("parsing %s: %v", filePath, err)
		}
	}

	return a, nil
}

func printJSON(v interface{}) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("Error marshaling output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

func runValue(a dcf.Assumptions) {
	result, err := dcf.RunValuation(a)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	printJSON(result)
}

func runSensitivity(a dcf.Assumptions) {
	fcfs := dcf.ProjectFCF(a)
	grid := dcf.SensitivityGrid(fcfs, dcf.DefaultWACCRange(), dcf.DefaultGrowthRange())

	out := struct {
		WACCValues      []float64                  `json:"wacc_values"`
		GrowthValues    []float64                  `json:"growth_values"`
		Values          [][]*float64               `json:"values"`
		InfeasibleCells int                        `json:"infeasible_cells"`
		WACCSensitivity *dcf.WACCSensitivityResult `json:"wacc_sensitivity,omitempty"`
	}{
		WACCValues:      grid.WACCValues,
		GrowthValues:    grid.GrowthValues,
		Values:          grid.MaskedValues(),
		InfeasibleCells: grid.InfeasibleCells,
	}
	if scalar, err := dcf.WACCSensitivity(a); err == nil {
		out.WACCSensitivity = scalar
	} else {
		fmt.Printf("Warning: WACC sensitivity unavailable: %v\n", err)
	}
	printJSON(out)
}

func runInsight(a dcf.Assumptions) {
	result, err := dcf.RunValuation(a)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	var provider insight.Provider
	if os.Getenv("GEMINI_API_KEY") != "" {
		provider = &insight.GeminiProvider{}
	}
	commentary, err := insight.NewGenerator(provider).Generate(context.Background(), a, result)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	printJSON(commentary)
}
