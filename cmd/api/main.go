package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"ma_valuation/pkg/api/presets"
	"ma_valuation/pkg/api/valuation"
	"ma_valuation/pkg/core/insight"
	"ma_valuation/pkg/core/store"
)

// ServerConfig mirrors config/server.yaml.
type ServerConfig struct {
	Port      int    `yaml:"port"`
	PresetDir string `yaml:"preset_dir"`
	Insight   struct {
		Provider string `yaml:"provider"`
		Model    string `yaml:"model"`
	} `yaml:"insight"`
}

func main() {
	// Load environment variables (DATABASE_URL, GEMINI_API_KEY)
	godotenv.Load()

	cfg := ServerConfig{Port: 8080}
	if data, err := os.ReadFile("config/server.yaml"); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			fmt.Printf("[WARNING] Failed to parse config/server.yaml: %v\n", err)
		}
	}
	if cfg.Port == 0 {
		cfg.Port = 8080
	}

	// Preset storage: Postgres when configured, local files otherwise.
	ctx := context.Background()
	if os.Getenv("DATABASE_URL") != "" {
		if err := store.InitDB(ctx); err != nil {
			fmt.Printf("[WARNING] Database init failed, falling back to file presets: %v\n", err)
		}
	}
	presets.InitHandler(store.NewPresetStore(store.GetPool(), cfg.PresetDir))

	// Insight commentary: Gemini when configured, deterministic template otherwise.
	var provider insight.Provider
	if cfg.Insight.Provider == "gemini" && os.Getenv("GEMINI_API_KEY") != "" {
		provider = &insight.GeminiProvider{Model: cfg.Insight.Model}
		fmt.Println("[INSIGHT] Gemini commentary enabled")
	} else {
		fmt.Println("[INSIGHT] Using deterministic template commentary")
	}
	valuation.InitHandler(insight.NewGenerator(provider))

	// Valuation endpoints
	http.HandleFunc("/api/valuation/run", valuation.HandleRun)
	http.HandleFunc("/api/valuation/sensitivity", valuation.HandleSensitivity)
	http.HandleFunc("/api/valuation/insight", valuation.HandleInsight)

	// Preset endpoints
	http.HandleFunc("/api/presets", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			presets.HandleSave(w, r)
			return
		}
		presets.HandleList(w, r)
	})
	http.HandleFunc("/api/presets/get", presets.HandleGet)

	fmt.Printf("API server starting on :%d...\n", cfg.Port)
	fmt.Println("  - POST /api/valuation/run          (base-case DCF)")
	fmt.Println("  - POST /api/valuation/sensitivity  (WACC x growth sweep)")
	fmt.Println("  - POST /api/valuation/insight      (metrics + commentary)")
	fmt.Println("  - GET  /api/presets                (list presets)")
	fmt.Println("  - POST /api/presets                (save preset)")
	fmt.Println("  - GET  /api/presets/get?name=      (load preset)")

	if err := http.ListenAndServe(fmt.Sprintf(":%d", cfg.Port), nil); err != nil {
		fmt.Printf("[FATAL] Server failed to start: %v\n", err)
		os.Exit(1)
	}
}
