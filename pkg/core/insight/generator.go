package insight

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"ma_valuation/pkg/core/dcf"
	"ma_valuation/pkg/core/utils"
)

// Commentary is the narrative layer over the metrics. Markdown is the
// canonical form; HTML is rendered from it for the dashboard.
type Commentary struct {
	Headline string  `json:"headline"`
	Markdown string  `json:"commentary_markdown"`
	HTML     string  `json:"commentary_html"`
	Source   string  `json:"source"` // "gemini" or "template"
	Metrics  Metrics `json:"metrics"`
}

// Generator produces commentary for a valuation. With no provider it falls
// back to a deterministic template built from the metrics, so callers work
// offline and results stay reproducible.
type Generator struct {
	provider Provider
}

func NewGenerator(provider Provider) *Generator {
	return &Generator{provider: provider}
}

const systemPrompt = `You are an M&A analyst. Given DCF valuation metrics, write a short,
factual commentary. Respond with JSON: {"headline": string,
"commentary_markdown": string}. No investment advice.`

// modelReply is the schema the provider's JSON must bind to.
type modelReply struct {
	Headline string `json:"headline"`
	Markdown string `json:"commentary_markdown"`
}

// Generate builds commentary for the given valuation. Provider failures and
// unparseable replies degrade to the template rather than failing the call;
// the Source field tells the caller which path produced the text.
func (g *Generator) Generate(ctx context.Context, a dcf.Assumptions, r *dcf.Result) (*Commentary, error) {
	metrics := ComputeMetrics(a, r)

	if g.provider != nil {
		if c, err := g.fromProvider(ctx, metrics, r); err == nil {
			return c, nil
		} else {
			fmt.Printf("[INSIGHT] Provider failed, falling back to template: %v\n", err)
		}
	}

	return g.fromTemplate(metrics, r)
}

func (g *Generator) fromProvider(ctx context.Context, metrics Metrics, r *dcf.Result) (*Commentary, error) {
	metricsJSON, err := json.Marshal(metrics)
	if err != nil {
		return nil, err
	}
	prompt := fmt.Sprintf("Enterprise value: $%.1fM.\nMetrics: %s", r.EnterpriseValue, metricsJSON)

	raw, err := g.provider.GenerateResponse(ctx, prompt, systemPrompt, nil)
	if err != nil {
		return nil, err
	}

	var reply modelReply
	if _, err := utils.SmartParse(raw, &reply); err != nil {
		return nil, fmt.Errorf("commentary did not bind to schema: %w", err)
	}
	if reply.Markdown == "" {
		return nil, fmt.Errorf("commentary reply had empty markdown")
	}

	html, err := utils.RenderMarkdown(reply.Markdown)
	if err != nil {
		return nil, err
	}

	return &Commentary{
		Headline: reply.Headline,
		Markdown: utils.CleanMarkdown(reply.Markdown),
		HTML:     html,
		Source:   "gemini",
		Metrics:  metrics,
	}, nil
}

func (g *Generator) fromTemplate(metrics Metrics, r *dcf.Result) (*Commentary, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "## Valuation Summary\n\n")
	fmt.Fprintf(&b, "- **Enterprise Value**: $%.1fM (%.1fx current revenue)\n", r.EnterpriseValue, metrics.RevenueMultiple)
	fmt.Fprintf(&b, "- **Terminal Value Contribution**: %.1f%%\n", metrics.TerminalContribution*100)
	fmt.Fprintf(&b, "- **Forecast Period Contribution**: %.1f%%\n", metrics.ForecastContribution*100)
	fmt.Fprintf(&b, "- **5-Year Revenue CAGR**: %.2f%%\n", metrics.RevenueCAGR*100)
	fmt.Fprintf(&b, "- **WACC - Terminal Growth Spread**: %.1fpp\n", metrics.Spread*100)
	for _, w := range metrics.Warnings {
		fmt.Fprintf(&b, "\n> **Warning**: %s\n", w)
	}

	markdown := b.String()
	html, err := utils.RenderMarkdown(markdown)
	if err != nil {
		return nil, err
	}

	return &Commentary{
		Headline: fmt.Sprintf("Enterprise value of $%.1fM at a %.1fx revenue multiple", r.EnterpriseValue, metrics.RevenueMultiple),
		Markdown: markdown,
		HTML:     html,
		Source:   "template",
		Metrics:  metrics,
	}, nil
}
