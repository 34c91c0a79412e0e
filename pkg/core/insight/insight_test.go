package insight

import (
	"context"
	"math"
	"strings"
	"testing"

	"ma_valuation/pkg/core/dcf"
)

func mustRun(t *testing.T, a dcf.Assumptions) *dcf.Result {
	t.Helper()
	r, err := dcf.RunValuation(a)
	if err != nil {
		t.Fatalf("Valuation failed: %v", err)
	}
	return r
}

func TestComputeMetrics_Defaults(t *testing.T) {
	a := dcf.DefaultAssumptions()
	r := mustRun(t, a)
	m := ComputeMetrics(a, r)

	if math.Abs(m.RevenueMultiple-r.EnterpriseValue/100) > 1e-9 {
		t.Errorf("Revenue multiple: expected %f, got %f", r.EnterpriseValue/100, m.RevenueMultiple)
	}

	// Contributions partition the enterprise value.
	if math.Abs(m.TerminalContribution+m.ForecastContribution-1) > 1e-9 {
		t.Errorf("Contributions should sum to 1, got %f", m.TerminalContribution+m.ForecastContribution)
	}

	// CAGR check: (162.195264 / 100)^(1/5) - 1 = 10.17%...
	expCAGR := math.Pow(1.62195264, 0.2) - 1
	if math.Abs(m.RevenueCAGR-expCAGR) > 1e-6 {
		t.Errorf("CAGR: expected %f, got %f", expCAGR, m.RevenueCAGR)
	}

	// Default scenario: 7pp spread, ~64% terminal share. No warnings.
	if len(m.Warnings) != 0 {
		t.Errorf("Expected no warnings for defaults, got %v", m.Warnings)
	}
}

func TestComputeMetrics_Warnings(t *testing.T) {
	// 5% WACC against 3% growth: thin 2pp spread inflates the perpetuity,
	// so both the spread and terminal-share warnings should fire.
	a := dcf.DefaultAssumptions()
	a.WACC = 0.05
	r := mustRun(t, a)
	m := ComputeMetrics(a, r)

	if m.TerminalContribution <= 0.75 {
		t.Fatalf("Scenario should be terminal-heavy, got %f", m.TerminalContribution)
	}
	if len(m.Warnings) != 2 {
		t.Errorf("Expected 2 warnings, got %v", m.Warnings)
	}
}

func TestGenerator_TemplateFallback(t *testing.T) {
	a := dcf.DefaultAssumptions()
	r := mustRun(t, a)

	c, err := NewGenerator(nil).Generate(context.Background(), a, r)
	if err != nil {
		t.Fatalf("Template generation failed: %v", err)
	}
	if c.Source != "template" {
		t.Errorf("Expected template source, got %q", c.Source)
	}
	if !strings.Contains(c.Markdown, "Enterprise Value") {
		t.Errorf("Markdown missing summary: %q", c.Markdown)
	}
	if !strings.Contains(c.HTML, "<li>") {
		t.Errorf("HTML not rendered: %q", c.HTML)
	}
}

// fakeProvider returns a canned reply, optionally malformed.
type fakeProvider struct {
	reply string
	err   error
}

func (f *fakeProvider) GenerateResponse(ctx context.Context, prompt, systemPrompt string, options map[string]interface{}) (string, error) {
	return f.reply, f.err
}

func TestGenerator_ProviderReplyRepaired(t *testing.T) {
	a := dcf.DefaultAssumptions()
	r := mustRun(t, a)

	// Single-quoted keys: the lenient parser must still bind it.
	p := &fakeProvider{reply: `{'headline': 'Solid mid-case', 'commentary_markdown': '## Note\nLooks fine.'}`}
	c, err := NewGenerator(p).Generate(context.Background(), a, r)
	if err != nil {
		t.Fatalf("Generation failed: %v", err)
	}
	if c.Source != "gemini" {
		t.Errorf("Expected gemini source, got %q", c.Source)
	}
	if c.Headline != "Solid mid-case" {
		t.Errorf("Unexpected headline %q", c.Headline)
	}
}

func TestGenerator_ProviderFailureFallsBack(t *testing.T) {
	a := dcf.DefaultAssumptions()
	r := mustRun(t, a)

	p := &fakeProvider{reply: "I am sorry, I cannot produce JSON today."}
	c, err := NewGenerator(p).Generate(context.Background(), a, r)
	if err != nil {
		t.Fatalf("Generation should fall back, not fail: %v", err)
	}
	if c.Source != "template" {
		t.Errorf("Expected template fallback, got %q", c.Source)
	}
}
