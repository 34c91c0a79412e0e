package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"ma_valuation/pkg/core/dcf"
	"ma_valuation/pkg/core/utils"
)

// Preset is a named, reloadable set of valuation assumptions.
type Preset struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Assumptions dcf.Assumptions `json:"assumptions"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// PresetStore stores presets in Postgres with a file-based fallback.
// If pool is nil, presets live as JSON files in dir; analyst-authored
// Hjson files in the same directory are readable too.
type PresetStore struct {
	pool    *pgxpool.Pool
	fileDir string
}

// NewPresetStore creates a preset store. With a nil pool and empty dir it
// defaults to .cache/presets.
func NewPresetStore(pool *pgxpool.Pool, dir string) *PresetStore {
	if pool == nil && dir == "" {
		dir = filepath.Join(".cache", "presets")
	}
	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			fmt.Printf("[PRESET] Warning: cannot create preset dir: %v\n", err)
		}
	}
	return &PresetStore{pool: pool, fileDir: dir}
}

// Save upserts a preset by name. A missing ID is assigned a fresh UUID.
//
// Schema assumption:
// CREATE TABLE IF NOT EXISTS dcf_presets (
//   name TEXT PRIMARY KEY,
//   id UUID,
//   description TEXT,
//   assumptions JSONB,
//   updated_at TIMESTAMPTZ
// );
func (s *PresetStore) Save(ctx context.Context, p *Preset) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("preset name must not be empty")
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.UpdatedAt = time.Now().UTC()

	assumptionsJSON, err := json.Marshal(p.Assumptions)
	if err != nil {
		return fmt.Errorf("failed to marshal assumptions: %w", err)
	}

	if s.pool != nil {
		query := `
			INSERT INTO dcf_presets (name, id, description, assumptions, updated_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (name)
			DO UPDATE SET
				description = EXCLUDED.description,
				assumptions = EXCLUDED.assumptions,
				updated_at = EXCLUDED.updated_at
		`
		if _, err := s.pool.Exec(ctx, query, p.Name, p.ID, p.Description, assumptionsJSON, p.UpdatedAt); err != nil {
			return fmt.Errorf("failed to save preset: %w", err)
		}
		return nil
	}

	fileBytes, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal preset: %w", err)
	}
	if err := os.WriteFile(s.presetPath(p.Name), fileBytes, 0644); err != nil {
		return fmt.Errorf("failed to save preset file: %w", err)
	}
	return nil
}

// Get loads a preset by name. In file mode it tries the JSON file first and
// then an .hjson file of the same name.
func (s *PresetStore) Get(ctx context.Context, name string) (*Preset, error) {
	if s.pool != nil {
		query := `
			SELECT id, name, description, assumptions, updated_at
			FROM dcf_presets
			WHERE name = $1
			LIMIT 1
		`
		var p Preset
		var assumptionsJSON []byte
		err := s.pool.QueryRow(ctx, query, name).Scan(&p.ID, &p.Name, &p.Description, &assumptionsJSON, &p.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("preset %q not found: %w", name, err)
		}
		if err := json.Unmarshal(assumptionsJSON, &p.Assumptions); err != nil {
			return nil, fmt.Errorf("failed to unmarshal stored assumptions: %w", err)
		}
		return &p, nil
	}

	if bytes, err := os.ReadFile(s.presetPath(name)); err == nil {
		var p Preset
		if err := json.Unmarshal(bytes, &p); err != nil {
			return nil, fmt.Errorf("failed to parse preset file: %w", err)
		}
		return &p, nil
	}

	hjsonPath := strings.TrimSuffix(s.presetPath(name), ".json") + ".hjson"
	if bytes, err := os.ReadFile(hjsonPath); err == nil {
		var p Preset
		if err := utils.ParseHJSONToStruct(bytes, &p); err != nil {
			return nil, fmt.Errorf("failed to parse hjson preset: %w", err)
		}
		if p.Name == "" {
			p.Name = name
		}
		return &p, nil
	}

	return nil, fmt.Errorf("preset %q not found", name)
}

// List returns all presets ordered by name.
func (s *PresetStore) List(ctx context.Context) ([]*Preset, error) {
	if s.pool != nil {
		query := `
			SELECT id, name, description, assumptions, updated_at
			FROM dcf_presets
			ORDER BY name
		`
		rows, err := s.pool.Query(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("failed to list presets: %w", err)
		}
		defer rows.Close()

		var presets []*Preset
		for rows.Next() {
			var p Preset
			var assumptionsJSON []byte
			if err := rows.Scan(&p.ID, &p.Name, &p.Description, &assumptionsJSON, &p.UpdatedAt); err != nil {
				return nil, err
			}
			if err := json.Unmarshal(assumptionsJSON, &p.Assumptions); err != nil {
				return nil, fmt.Errorf("failed to unmarshal stored assumptions: %w", err)
			}
			presets = append(presets, &p)
		}
		return presets, rows.Err()
	}

	entries, err := os.ReadDir(s.fileDir)
	if err != nil {
		return nil, nil
	}

	var presets []*Preset
	seen := make(map[string]bool)
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if ext != ".json" && ext != ".hjson" {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ext)
		if seen[name] {
			continue
		}
		seen[name] = true
		p, err := s.Get(ctx, name)
		if err != nil {
			fmt.Printf("[PRESET] Skipping unreadable preset %s: %v\n", entry.Name(), err)
			continue
		}
		presets = append(presets, p)
	}
	sort.Slice(presets, func(i, j int) bool { return presets[i].Name < presets[j].Name })
	return presets, nil
}

func (s *PresetStore) presetPath(name string) string {
	safe := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "_"))
	return filepath.Join(s.fileDir, safe+".json")
}
