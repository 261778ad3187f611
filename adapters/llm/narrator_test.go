package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"datalens/domain/analysis"
	"datalens/domain/charts"
	"datalens/domain/dataset"
	"datalens/ports"
)

func reportContext() ports.ReportContext {
	return ports.ReportContext{
		Metadata: dataset.Metadata{
			RowCount:           10,
			ColumnCount:        3,
			NumericColumns:     []string{"revenue", "cost"},
			CategoricalColumns: []string{"region"},
		},
		Result: analysis.Result{
			Correlations: analysis.Correlations{
				StrongCorrelations: []analysis.CorrelationEntry{
					{Variable1: "revenue", Variable2: "cost", Correlation: 0.98, Strength: analysis.StrengthStrong},
				},
			},
			Summary: analysis.Summary{VariablesAnalyzed: 2, StrongCorrelationsFound: 1, PatternsIdentified: 2},
		},
		Catalog: charts.Catalog{VisualizationsCreated: 4},
	}
}

func TestNarrate_ReturnsModelOutput(t *testing.T) {
	client := &MockChatClient{Response: "# Report\n\nGenerated."}
	narrator := NewNarrator(client, Config{Model: "gpt-4o-mini", MaxTokens: 2000})

	body, err := narrator.Narrate(context.Background(), reportContext())
	if err != nil {
		t.Fatalf("Narrate failed: %v", err)
	}
	if body != client.Response {
		t.Errorf("Expected model output passed through, got %q", body)
	}
}

func TestNarrate_PropagatesClientError(t *testing.T) {
	client := &MockChatClient{Error: errors.New("rate limited")}
	narrator := NewNarrator(client, Config{Model: "gpt-4o-mini"})

	_, err := narrator.Narrate(context.Background(), reportContext())
	if err == nil {
		t.Fatal("Expected client error surfaced to caller")
	}
}

func TestBuildPrompt_GroundedInAnalysis(t *testing.T) {
	prompt, err := buildPrompt(reportContext())
	if err != nil {
		t.Fatalf("buildPrompt failed: %v", err)
	}

	for _, fragment := range []string{
		"10 rows and 3 columns",
		"Numeric columns: revenue, cost",
		"1 strong correlations discovered",
		"4 visualizations planned",
		`"variable1": "revenue"`,
		"Format as a professional business report in markdown.",
	} {
		if !strings.Contains(prompt, fragment) {
			t.Errorf("Prompt missing %q", fragment)
		}
	}
}

func TestBuildPrompt_CapsInlinedItems(t *testing.T) {
	rc := reportContext()
	for i := 0; i < 10; i++ {
		rc.Result.Correlations.StrongCorrelations = append(rc.Result.Correlations.StrongCorrelations,
			analysis.CorrelationEntry{Variable1: "a", Variable2: "b", Correlation: 0.6})
	}

	prompt, err := buildPrompt(rc)
	if err != nil {
		t.Fatalf("buildPrompt failed: %v", err)
	}
	if n := strings.Count(prompt, `"variable1"`); n > maxPromptItems {
		t.Errorf("Expected at most %d inlined correlations, got %d", maxPromptItems, n)
	}
}

func TestNewClient_RequiresCredential(t *testing.T) {
	if _, err := NewClient(Config{}); err == nil {
		t.Error("Expected error without API key")
	}
	if _, err := NewClient(Config{APIKey: "sk-test"}); err != nil {
		t.Errorf("Expected client with API key, got %v", err)
	}
}
