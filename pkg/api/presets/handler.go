// Package presets exposes assumption-preset CRUD for the dashboard.
package presets

import (
	"encoding/json"
	"fmt"
	"net/http"

	"ma_valuation/pkg/core/dcf"
	"ma_valuation/pkg/core/store"
)

var presetStore *store.PresetStore

// InitHandler wires the preset store used by all endpoints.
func InitHandler(s *store.PresetStore) {
	presetStore = s
}

func allowCORS(w http.ResponseWriter, r *http.Request) bool {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return true
	}
	return false
}

// SaveRequest is the body for POST /api/presets.
type SaveRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Assumptions dcf.Assumptions `json:"assumptions"`
}

// HandleList returns all stored presets: GET /api/presets.
func HandleList(w http.ResponseWriter, r *http.Request) {
	if allowCORS(w, r) {
		return
	}

	presets, err := presetStore.List(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to list presets: %v", err), http.StatusInternalServerError)
		return
	}
	if presets == nil {
		presets = []*store.Preset{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(presets)
}

// HandleSave stores a named preset: POST /api/presets.
func HandleSave(w http.ResponseWriter, r *http.Request) {
	if allowCORS(w, r) {
		return
	}

	var req SaveRequest
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

	p := &store.Preset{
		Name:        req.Name,
		Description: req.Description,
		Assumptions: req.Assumptions,
	}
	if err := presetStore.Save(r.Context(), p); err != nil {
		http.Error(w, fmt.Sprintf("Failed to save preset: %v", err), http.StatusInternalServerError)
		return
	}

	fmt.Printf("[PRESET] Saved %q (%s)\n", p.Name, p.ID)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(p)
}

// HandleGet loads one preset by name: GET /api/presets/get?name=...
func HandleGet(w http.ResponseWriter, r *http.Request) {
	if allowCORS(w, r) {
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		http.Error(w, "Missing name parameter", http.StatusBadRequest)
		return
	}

	p, err := presetStore.Get(r.Context(), name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(p)
}
