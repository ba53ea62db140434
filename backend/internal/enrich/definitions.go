// Package enrich fills in missing node definitions through an
// OpenAI-compatible endpoint. Strictly best-effort: it is disabled
// without an API key and its failures never block navigation.
package enrich

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"graphscope/backend/internal/graph"
)

// DefinitionEnricher produces one-paragraph definitions for nodes that
// arrived without one
type DefinitionEnricher struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// NewDefinitionEnricher creates an enricher. With an empty API key the
// enricher is disabled and Enrich returns the node's definition as-is.
func NewDefinitionEnricher(baseURL, apiKey, model string, log *zap.Logger) *DefinitionEnricher {
	e := &DefinitionEnricher{model: model, logger: log}
	if apiKey == "" {
		return e
	}
	config := openai.DefaultConfig(apiKey)
	config.BaseURL = strings.TrimSuffix(baseURL, "/") + "/v1"
	e.client = openai.NewClientWithConfig(config)
	return e
}

// Enabled reports whether the enricher has a configured client
func (e *DefinitionEnricher) Enabled() bool {
	return e.client != nil
}

// Enrich returns a definition for the node: the existing one when
// present, a generated one when the enricher is enabled, and the empty
// string otherwise.
func (e *DefinitionEnricher) Enrich(ctx context.Context, node graph.GraphNode) (string, error) {
	if node.Definition != "" {
		return node.Definition, nil
	}
	if !e.Enabled() {
		return "", nil
	}

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You write one-paragraph encyclopedia definitions. Answer with the definition only, no preamble.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf("Define the %s %q.", node.Kind, node.Label),
			},
		},
		MaxTokens:   200,
		Temperature: 0.2,
	})
	if err != nil {
		return "", fmt.Errorf("definition enrichment failed for %s: %w", node.URI, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("definition enrichment returned no choices for %s", node.URI)
	}

	definition := strings.TrimSpace(resp.Choices[0].Message.Content)
	e.logger.Debug("Definition enriched",
		zap.String("uri", node.URI),
		zap.Int("length", len(definition)),
	)
	return definition, nil
}
