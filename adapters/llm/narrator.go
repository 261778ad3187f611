package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"datalens/ports"
)

// maxPromptItems caps how many correlations and patterns are inlined
// into the prompt.
const maxPromptItems = 3

// Narrator generates the executive report through a chat-completion
// endpoint. Any failure is returned to the caller, which falls back to
// the template narrator.
type Narrator struct {
	client ChatClient
	config Config
}

// NewNarrator creates an LLM-backed narrator
func NewNarrator(client ChatClient, config Config) *Narrator {
	return &Narrator{client: client, config: config}
}

// Narrate builds a grounded prompt from the analysis contract and asks
// the model for a markdown business report.
func (n *Narrator) Narrate(ctx context.Context, rc ports.ReportContext) (string, error) {
	prompt, err := buildPrompt(rc)
	if err != nil {
		return "", fmt.Errorf("build report prompt: %w", err)
	}
	return n.client.ChatCompletion(ctx, n.config.Model, prompt, n.config.MaxTokens)
}

func buildPrompt(rc ports.ReportContext) (string, error) {
	strong := rc.Result.Correlations.StrongCorrelations
	if len(strong) > maxPromptItems {
		strong = strong[:maxPromptItems]
	}
	patterns := rc.Result.Patterns
	if len(patterns) > maxPromptItems {
		patterns = patterns[:maxPromptItems]
	}

	strongJSON, err := json.MarshalIndent(strong, "", "  ")
	if err != nil {
		return "", err
	}
	patternsJSON, err := json.MarshalIndent(patterns, "", "  ")
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Please write a comprehensive executive summary report based on this data analysis:\n\n")
	fmt.Fprintf(&b, "DATA OVERVIEW:\n")
	fmt.Fprintf(&b, "- Dataset contains %d rows and %d columns\n", rc.Metadata.RowCount, rc.Metadata.ColumnCount)
	fmt.Fprintf(&b, "- Numeric columns: %s\n", strings.Join(rc.Metadata.NumericColumns, ", "))
	fmt.Fprintf(&b, "- Categorical columns: %s\n\n", strings.Join(rc.Metadata.CategoricalColumns, ", "))
	fmt.Fprintf(&b, "KEY FINDINGS:\n")
	fmt.Fprintf(&b, "- %d variables analyzed\n", rc.Result.Summary.VariablesAnalyzed)
	fmt.Fprintf(&b, "- %d strong correlations discovered\n", rc.Result.Summary.StrongCorrelationsFound)
	fmt.Fprintf(&b, "- %d patterns identified\n", rc.Result.Summary.PatternsIdentified)
	fmt.Fprintf(&b, "- %d visualizations planned\n\n", rc.Catalog.VisualizationsCreated)
	fmt.Fprintf(&b, "STRONG CORRELATIONS:\n%s\n\n", strongJSON)
	fmt.Fprintf(&b, "KEY PATTERNS:\n%s\n\n", patternsJSON)
	fmt.Fprintf(&b, "Please provide:\n")
	fmt.Fprintf(&b, "1. Executive Summary (2-3 paragraphs)\n")
	fmt.Fprintf(&b, "2. Key Insights (bullet points)\n")
	fmt.Fprintf(&b, "3. Data Quality Assessment\n")
	fmt.Fprintf(&b, "4. Recommendations for Action\n")
	fmt.Fprintf(&b, "5. Technical Notes\n\n")
	fmt.Fprintf(&b, "Format as a professional business report in markdown.\n")
	return b.String(), nil
}
