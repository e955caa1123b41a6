package robbie

import (
	"context"
	"strings"
)

// Sampling carries the generation parameters forwarded with every request.
// Values are passed through as configured; no range checks are applied.
type Sampling struct {
	MaxTokens        int
	Temperature      float64
	TopP             float64
	FrequencyPenalty float64
	PresencePenalty  float64
}

// CompletionRequest is one text-completion call.
type CompletionRequest struct {
	Model    string
	Prompt   string
	Sampling Sampling
}

// Completer is a strategy pattern interface for text-completion backends.
// Complete returns the generated text fragments in the order the backend
// produced them.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) ([]string, error)
}

// ModelLister reports the model identifiers a backend serves.
type ModelLister interface {
	ListModels(ctx context.Context) ([]string, error)
}

// Backend is a Completer that can also list its models.
type Backend interface {
	Completer
	ModelLister
}

// JoinFragments concatenates fragments, following each with a single space.
func JoinFragments(fragments []string) string {
	var b strings.Builder
	for _, f := range fragments {
		b.WriteString(f)
		b.WriteByte(' ')
	}
	return b.String()
}
