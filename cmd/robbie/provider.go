package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fwojciec/robbie"
	"github.com/fwojciec/robbie/gemini"
	"github.com/fwojciec/robbie/openai"
)

const (
	providerOpenAI = "openai"
	providerGemini = "gemini"
)

// backendParams holds everything needed to pick a backend. Env var values
// are read in run() and passed in.
type backendParams struct {
	provider  string
	apiKey    string
	baseURL   string
	openaiKey string
	geminiKey string
}

// resolveBackend selects and constructs the completion backend. An explicit
// -api-key overrides the provider's env var.
func resolveBackend(ctx context.Context, p backendParams, logger *slog.Logger) (robbie.Backend, error) {
	switch p.provider {
	case "", providerOpenAI:
		key := p.apiKey
		if key == "" {
			key = p.openaiKey
		}
		if p.baseURL == "" {
			return nil, fmt.Errorf("base_url not set (use robbie.toml or ROBBIE_BASE_URL)")
		}
		return openai.New(p.baseURL, openai.WithAPIKey(key), openai.WithLogger(logger)), nil
	case providerGemini:
		key := p.apiKey
		if key == "" {
			key = p.geminiKey
		}
		if key == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY not set (use -api-key flag or environment variable)")
		}
		client, err := gemini.New(ctx, key, gemini.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown provider %q: must be %q or %q", p.provider, providerOpenAI, providerGemini)
	}
}
