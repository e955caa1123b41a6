// Package bubbletea shows a Bubble Tea spinner on the console while a
// completion request is in flight.
package bubbletea

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/robbie"
)

// DefaultLabel is shown next to the spinner.
const DefaultLabel = "thinking..."

// Waiter runs completion calls behind a spinner. It satisfies
// [robbie.Waiter] through its Wait method.
type Waiter struct {
	out    io.Writer
	label  string
	styles Styles
	opts   []tea.ProgramOption
}

// WaiterOption configures a [Waiter].
type WaiterOption func(*Waiter)

// WithLabel sets the text shown next to the spinner.
func WithLabel(label string) WaiterOption {
	return func(w *Waiter) { w.label = label }
}

// WithProgramOptions appends Bubble Tea program options.
func WithProgramOptions(opts ...tea.ProgramOption) WaiterOption {
	return func(w *Waiter) { w.opts = append(w.opts, opts...) }
}

// NewWaiter creates a Waiter drawing on out with colors from theme.
func NewWaiter(out io.Writer, theme robbie.Theme, opts ...WaiterOption) *Waiter {
	w := &Waiter{
		out:    out,
		label:  DefaultLabel,
		styles: NewStyles(theme),
	}
	for _, o := range opts {
		o(w)
	}
	return w
}

// Wait calls fn while animating the spinner and returns its result. The
// program reads no input and installs no signal handler, so stdin stays
// with the line reader and interrupts reach ctx.
func (w *Waiter) Wait(ctx context.Context, fn func(context.Context) ([]string, error)) ([]string, error) {
	opts := append([]tea.ProgramOption{
		tea.WithInput(nil),
		tea.WithOutput(w.out),
		tea.WithoutSignalHandler(),
		tea.WithoutBracketedPaste(),
	}, w.opts...)
	p := tea.NewProgram(New(ctx, fn, w.label, w.styles), opts...)
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("bubbletea: %w", err)
	}
	m, ok := final.(Model)
	if !ok {
		return nil, fmt.Errorf("bubbletea: unexpected model %T", final)
	}
	return m.Result()
}
