package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/fwojciec/robbie"
)

// Interface compliance check.
var _ robbie.Backend = (*Client)(nil)

// Client talks to an OpenAI-compatible server.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a [Client].
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithAPIKey sends key as a bearer token. Local servers usually need none.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a [Client] for the server at baseURL, e.g.
// "http://localhost:8080".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		logger:     robbie.DiscardLogger(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// ListModels returns the ids of the models the server has loaded, in the
// order the server reports them.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	var list apiModelList
	if err := c.do(ctx, http.MethodGet, modelsPath, nil, &list); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(list.Data))
	for _, m := range list.Data {
		ids = append(ids, m.ID)
	}
	return ids, nil
}

// Complete sends the serialized prompt and returns the text of each choice
// in order.
func (c *Client) Complete(ctx context.Context, req robbie.CompletionRequest) ([]string, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("openai: %w", err)
	}
	body, err := json.Marshal(apiCompletionRequest{
		Model:            req.Model,
		Prompt:           req.Prompt,
		Temperature:      req.Sampling.Temperature,
		MaxTokens:        req.Sampling.MaxTokens,
		TopP:             req.Sampling.TopP,
		FrequencyPenalty: req.Sampling.FrequencyPenalty,
		PresencePenalty:  req.Sampling.PresencePenalty,
	})
	if err != nil {
		return nil, fmt.Errorf("openai: %w", err)
	}

	var resp apiCompletionResponse
	if err := c.do(ctx, http.MethodPost, completionsPath, body, &resp); err != nil {
		return nil, err
	}
	texts := make([]string, 0, len(resp.Choices))
	for _, ch := range resp.Choices {
		texts = append(texts, ch.Text)
	}
	return texts, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return fmt.Errorf("openai: %w", err)
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("openai: %w", err)
	}
	defer resp.Body.Close()
	c.logger.DebugContext(ctx, "openai request", "method", method, "url", httpReq.URL.String(), "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseHTTPError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("openai: decode response: %w", err)
	}
	return nil
}

func parseHTTPError(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("openai: HTTP %d (failed to read body: %w)", resp.StatusCode, err)
	}
	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.Error.Message == "" {
		return fmt.Errorf("openai: HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return fmt.Errorf("openai: HTTP %d: %s", resp.StatusCode, apiErr.Error.Message)
}
