package bubbletea

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

var _ tea.Model = Model{}

// CompleteFunc performs a blocking completion call.
type CompleteFunc func(ctx context.Context) ([]string, error)

// DoneMsg carries the result of the completion call.
type DoneMsg struct {
	Fragments []string
	Err       error
}

// Model animates a spinner until the completion call returns.
type Model struct {
	// Spinner is the animated indicator. Exported for test access.
	Spinner spinner.Model

	ctx    context.Context
	cancel context.CancelFunc
	run    CompleteFunc
	label  string
	styles Styles

	done      bool
	fragments []string
	err       error
}

// New creates a Model that calls run when started. Canceling ctx, or
// pressing Ctrl+C when the program has input, cancels the call.
func New(ctx context.Context, run CompleteFunc, label string, styles Styles) Model {
	ctx, cancel := context.WithCancel(ctx)
	return Model{
		Spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(styles.Spinner),
		),
		ctx:    ctx,
		cancel: cancel,
		run:    run,
		label:  label,
		styles: styles,
	}
}

// Done reports whether the completion call has returned.
func (m Model) Done() bool { return m.done }

// Result returns the fragments and error of the completion call.
func (m Model) Result() ([]string, error) { return m.fragments, m.err }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Spinner.Tick, complete(m.ctx, m.run))
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case DoneMsg:
		m.done = true
		m.fragments = msg.Fragments
		m.err = msg.Err
		m.cancel()
		return m, tea.Quit

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			// The call observes the cancellation and reports back via DoneMsg.
			m.cancel()
		}
		return m, nil

	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model. The line is cleared once the call returns.
func (m Model) View() string {
	if m.done {
		return ""
	}
	return m.Spinner.View() + " " + m.styles.Muted.Render(m.label)
}

func complete(ctx context.Context, run CompleteFunc) tea.Cmd {
	return func() tea.Msg {
		fragments, err := run(ctx)
		return DoneMsg{Fragments: fragments, Err: err}
	}
}
