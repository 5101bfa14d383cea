// Package agent provides the optional AI layer: stage refinement and chat
// summaries on top of a text-completion service. Everything here is
// advisory and best-effort; rule-based results never depend on it.
package agent

import (
	"context"
	"fmt"
	"strings"

	"trbe_ops_backend/platform/config"

	"google.golang.org/genai"
)

// Completer is the minimal text-completion capability the agent layer
// consumes. Output is untrusted and validated by callers.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// GeminiCompleter implements Completer on the Gemini API.
type GeminiCompleter struct {
	client *genai.Client
	model  string
}

// NewGeminiCompleter builds the Gemini-backed completer. Returns nil when no
// API key is configured; a nil completer disables refinement and summaries.
func NewGeminiCompleter(ctx context.Context, cfg config.AIConfig) (*GeminiCompleter, error) {
	if !cfg.IsAIEnabled() {
		return nil, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GetGeminiAPIKey(),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("init gemini client: %w", err)
	}

	return &GeminiCompleter{
		client: client,
		model:  cfg.GetGeminiModel(),
	}, nil
}

// Complete runs a single deterministic completion and returns the trimmed
// response text.
func (g *GeminiCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0),
	})
	if err != nil {
		return "", fmt.Errorf("gemini completion: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("gemini completion: empty response")
	}
	return text, nil
}
