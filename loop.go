package robbie

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// LineSource yields one user entry per call. *LineReader implements it.
type LineSource interface {
	ReadLine() (string, error)
}

// Waiter runs a completion call, typically while showing progress. The
// default waiter calls fn directly.
type Waiter func(ctx context.Context, fn func(context.Context) ([]string, error)) ([]string, error)

// Loop orchestrates the conversation between the user and a Backend. It
// strictly alternates between reading one entry and completing one reply.
type Loop struct {
	input   LineSource
	backend Backend

	out          io.Writer
	mu           sync.Mutex // guards sampling
	sampling     Sampling
	systemPrompt string
	threadID     string
	model        string
	name         string
	render       func(string) string
	wait         Waiter
	logger       *slog.Logger

	conv *Conversation
}

// Option configures a Loop.
type Option func(*Loop)

// WithOutput sets where replies and the model list are written.
func WithOutput(w io.Writer) Option {
	return func(l *Loop) { l.out = w }
}

// WithSampling sets the generation parameters sent with every request.
func WithSampling(s Sampling) Option {
	return func(l *Loop) { l.sampling = s }
}

// WithSystemPrompt sets the system turn the conversation starts with.
// Empty means no system turn.
func WithSystemPrompt(prompt string) Option {
	return func(l *Loop) { l.systemPrompt = prompt }
}

// WithThreadID sets the conversation thread. Empty means a random UUID.
func WithThreadID(id string) Option {
	return func(l *Loop) { l.threadID = id }
}

// WithModel pins the model instead of using the first listed one.
func WithModel(model string) Option {
	return func(l *Loop) { l.model = model }
}

// WithAssistantName sets the label printed before each reply.
func WithAssistantName(name string) Option {
	return func(l *Loop) { l.name = name }
}

// WithRenderer sets a display transform for replies. The stored turn is
// never affected.
func WithRenderer(render func(string) string) Option {
	return func(l *Loop) { l.render = render }
}

// WithWaiter wraps each completion call.
func WithWaiter(w Waiter) Option {
	return func(l *Loop) { l.wait = w }
}

// WithLogger sets the logger. If nil or not set, records are discarded.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loop) { l.logger = logger }
}

// NewLoop creates a Loop reading from input and completing with backend.
func NewLoop(input LineSource, backend Backend, opts ...Option) *Loop {
	l := &Loop{
		input:   input,
		backend: backend,
		out:     io.Discard,
		name:    DefaultConfig().Title.Name,
	}
	for _, o := range opts {
		o(l)
	}
	if l.render == nil {
		l.render = func(s string) string { return s }
	}
	if l.wait == nil {
		l.wait = func(ctx context.Context, fn func(context.Context) ([]string, error)) ([]string, error) {
			return fn(ctx)
		}
	}
	if l.logger == nil {
		l.logger = DiscardLogger()
	}
	return l
}

// Conversation returns the transcript, or nil before Start.
func (l *Loop) Conversation() *Conversation { return l.conv }

// Model returns the selected model, or "" before Start unless pinned.
func (l *Loop) Model() string { return l.model }

// Start lists the backend's models, selects the active one and creates the
// conversation. An empty model list is ErrNoModels.
func (l *Loop) Start(ctx context.Context) error {
	models, err := l.backend.ListModels(ctx)
	if err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	if len(models) == 0 {
		return ErrNoModels
	}

	fmt.Fprintln(l.out, "Available models:")
	for _, m := range models {
		fmt.Fprintf(l.out, " %s\n", m)
	}
	if l.model == "" {
		l.model = models[0]
	}

	threadID := l.threadID
	if threadID == "" {
		threadID = uuid.NewString()
	}
	l.conv = NewConversation(threadID)
	if l.systemPrompt != "" {
		l.conv.Append(RoleSystem, l.systemPrompt)
	}
	l.logger.Debug("session started", "thread", threadID, "model", l.model, "models", len(models))
	return nil
}

// Sampling returns the parameters used for the next completion.
func (l *Loop) Sampling() Sampling {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sampling
}

// SetSampling replaces the parameters for subsequent completions. It is
// safe to call while Run is in progress.
func (l *Loop) SetSampling(s Sampling) {
	l.mu.Lock()
	l.sampling = s
	l.mu.Unlock()
}

// Round reads one user entry, requests a completion for the whole
// transcript and appends the reply. Start must have been called.
func (l *Loop) Round(ctx context.Context) error {
	if l.conv == nil {
		return errors.New("loop not started")
	}

	line, err := l.input.ReadLine()
	if err != nil {
		return inputError{err: err}
	}
	l.conv.Append(RoleUser, line)

	req := CompletionRequest{
		Model:    l.model,
		Prompt:   FormatPrompt(l.conv),
		Sampling: l.Sampling(),
	}
	l.logger.Debug("requesting completion",
		"thread", l.conv.ThreadID(),
		"turns", l.conv.Len(),
		"prompt_bytes", len(req.Prompt))

	fragments, err := l.wait(ctx, func(ctx context.Context) ([]string, error) {
		return l.backend.Complete(ctx, req)
	})
	if err != nil {
		return fmt.Errorf("complete: %w", err)
	}

	reply := JoinFragments(fragments)
	l.conv.Append(RoleAssistant, reply)
	l.logger.Debug("completion received", "fragments", len(fragments), "reply_bytes", len(reply))

	if _, err := fmt.Fprintf(l.out, "%s: %s\n", l.name, l.render(reply)); err != nil {
		return fmt.Errorf("write reply: %w", err)
	}
	return nil
}

// Run starts the session and executes rounds until one fails or the user
// ends input. Ctrl+C and Ctrl+D at the prompt end the session without
// error.
func (l *Loop) Run(ctx context.Context) error {
	if err := l.Start(ctx); err != nil {
		return err
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := l.Round(ctx); err != nil {
			if endOfInput(err) {
				return nil
			}
			return err
		}
	}
}

// inputError marks failures of the LineSource so they are not confused
// with backend errors that happen to wrap the same causes.
type inputError struct {
	err error
}

func (e inputError) Error() string { return "read input: " + e.err.Error() }

func (e inputError) Unwrap() error { return e.err }

func endOfInput(err error) bool {
	var ie inputError
	if !errors.As(err, &ie) {
		return false
	}
	return errors.Is(ie.err, ErrInterrupted) || errors.Is(ie.err, io.EOF)
}
