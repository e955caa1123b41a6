// Package mock provides test doubles for robbie interfaces using function fields.
package mock

import (
	"context"

	"github.com/fwojciec/robbie"
)

// Interface compliance checks.
var (
	_ robbie.Backend    = (*Backend)(nil)
	_ robbie.LineSource = (*LineSource)(nil)
)

// Backend is a test double for robbie.Backend.
// Set the function fields for the methods you need.
type Backend struct {
	CompleteFn   func(ctx context.Context, req robbie.CompletionRequest) ([]string, error)
	ListModelsFn func(ctx context.Context) ([]string, error)
}

// Complete delegates to CompleteFn.
func (b *Backend) Complete(ctx context.Context, req robbie.CompletionRequest) ([]string, error) {
	return b.CompleteFn(ctx, req)
}

// ListModels delegates to ListModelsFn.
func (b *Backend) ListModels(ctx context.Context) ([]string, error) {
	return b.ListModelsFn(ctx)
}

// LineSource is a test double for robbie.LineSource.
type LineSource struct {
	ReadLineFn func() (string, error)
}

// ReadLine delegates to ReadLineFn.
func (s *LineSource) ReadLine() (string, error) {
	return s.ReadLineFn()
}
