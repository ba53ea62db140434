package enrich

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"graphscope/backend/internal/graph"
)

func TestEnrich_DisabledWithoutAPIKey(t *testing.T) {
	e := NewDefinitionEnricher("https://api.openai.com", "", "gpt-4o-mini", zap.NewNop())
	if e.Enabled() {
		t.Fatal("enricher must stay disabled without an API key")
	}

	got, err := e.Enrich(context.Background(), graph.GraphNode{URI: "kb://x", Label: "X"})
	if err != nil || got != "" {
		t.Errorf("disabled enricher should return empty definition, got %q, %v", got, err)
	}
}

func TestEnrich_ExistingDefinitionPassesThrough(t *testing.T) {
	e := NewDefinitionEnricher("https://api.openai.com", "", "gpt-4o-mini", zap.NewNop())
	node := graph.GraphNode{URI: "kb://x", Label: "X", Definition: "already defined"}

	got, err := e.Enrich(context.Background(), node)
	if err != nil {
		t.Fatalf("Enrich failed: %v", err)
	}
	if got != "already defined" {
		t.Errorf("existing definition must pass through untouched, got %q", got)
	}
}
