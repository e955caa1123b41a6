package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/fwojciec/robbie"
	"google.golang.org/genai"
)

// Interface compliance check.
var _ robbie.Backend = (*Client)(nil)

// Client implements [robbie.Backend] for the Google Gemini API.
type Client struct {
	client      *genai.Client
	httpClient  *http.Client
	httpOptions genai.HTTPOptions
	logger      *slog.Logger
}

// Option configures a [Client].
type Option func(*Client)

// WithBaseURL overrides the API endpoint. Useful for testing with httptest.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.httpOptions.BaseURL = url }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a new Gemini [Client] with the given API key and options.
func New(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	c := &Client{logger: robbie.DiscardLogger()}
	for _, o := range opts {
		o(c)
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  c.httpClient,
		HTTPOptions: c.httpOptions,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	c.client = gc
	return c, nil
}

// ListModels returns the ids of models that support content generation,
// without the "models/" resource prefix.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	var ids []string
	for m, err := range c.client.Models.All(ctx) {
		if err != nil {
			return nil, fmt.Errorf("gemini: %w", err)
		}
		if len(m.SupportedActions) > 0 && !slices.Contains(m.SupportedActions, generateAction) {
			continue
		}
		ids = append(ids, strings.TrimPrefix(m.Name, modelPrefix))
	}
	c.logger.DebugContext(ctx, "gemini models", "count", len(ids))
	return ids, nil
}

// Complete sends the serialized prompt and returns one fragment per
// candidate.
func (c *Client) Complete(ctx context.Context, req robbie.CompletionRequest) ([]string, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	resp, err := c.client.Models.GenerateContent(ctx, req.Model, genai.Text(req.Prompt), BuildConfig(req.Sampling))
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	c.logger.DebugContext(ctx, "gemini completion", "model", req.Model, "candidates", len(resp.Candidates))
	return CandidateTexts(resp), nil
}

// BuildConfig maps sampling parameters onto a generation config. Every
// parameter is set explicitly so zero values are sent rather than left to
// server defaults.
func BuildConfig(s robbie.Sampling) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		MaxOutputTokens:  int32(s.MaxTokens),
		Temperature:      genai.Ptr(float32(s.Temperature)),
		TopP:             genai.Ptr(float32(s.TopP)),
		FrequencyPenalty: genai.Ptr(float32(s.FrequencyPenalty)),
		PresencePenalty:  genai.Ptr(float32(s.PresencePenalty)),
	}
}

// CandidateTexts returns the concatenated text parts of each candidate.
// Thought parts are skipped.
func CandidateTexts(resp *genai.GenerateContentResponse) []string {
	if resp == nil {
		return nil
	}
	texts := make([]string, 0, len(resp.Candidates))
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		var b strings.Builder
		for _, p := range cand.Content.Parts {
			if p == nil || p.Thought {
				continue
			}
			b.WriteString(p.Text)
		}
		texts = append(texts, b.String())
	}
	return texts
}
