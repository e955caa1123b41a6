package robbie

import "fmt"

// Validate checks the structural constraints every backend relies on.
// Sampling values are not range-checked.
func (r CompletionRequest) Validate() error {
	if r.Model == "" {
		return fmt.Errorf("model must be set: %w", ErrValidation)
	}
	if r.Prompt == "" {
		return fmt.Errorf("prompt must be set: %w", ErrValidation)
	}
	return nil
}
