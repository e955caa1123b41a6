package robbie_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/fwojciec/robbie"
	"github.com/fwojciec/robbie/mock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listModels(ids ...string) func(context.Context) ([]string, error) {
	return func(context.Context) ([]string, error) { return ids, nil }
}

func lines(err error, entries ...string) *mock.LineSource {
	i := 0
	return &mock.LineSource{ReadLineFn: func() (string, error) {
		if i >= len(entries) {
			return "", err
		}
		s := entries[i]
		i++
		return s, nil
	}}
}

func TestLoop_EndToEnd(t *testing.T) {
	t.Parallel()

	sampling := robbie.Sampling{MaxTokens: 16, Temperature: 0.7, TopP: 1.0}
	var got robbie.CompletionRequest
	backend := &mock.Backend{
		ListModelsFn: listModels("m1"),
		CompleteFn: func(_ context.Context, req robbie.CompletionRequest) ([]string, error) {
			got = req
			return []string{"Hello", "there"}, nil
		},
	}
	ft := newFakeTerm(io.EOF, concat(runes("hi"), []robbie.Event{enter})...)
	var out bytes.Buffer
	loop := robbie.NewLoop(robbie.NewLineReader(ft), backend,
		robbie.WithSampling(sampling),
		robbie.WithSystemPrompt("sys"),
		robbie.WithOutput(&out),
	)

	require.NoError(t, loop.Run(context.Background()))

	assert.Equal(t, "m1", loop.Model())
	assert.Equal(t, "m1", got.Model)
	assert.Equal(t, sampling, got.Sampling)
	assert.Equal(t, "<|begin_of_text|>\n"+
		"<|start_header_id|>System<|end_header_id|>\n\nsys<|eot_id|>\n"+
		"<|start_header_id|>User<|end_header_id|>\n\nhi\n<|eot_id|>\n"+
		"<|start_header_id|>Assistant<|end_header_id|>\n\n", got.Prompt)

	turns := loop.Conversation().Turns()
	require.Len(t, turns, 3)
	assert.Equal(t, robbie.Turn{Role: robbie.RoleSystem, Content: "sys"}, turns[0])
	assert.Equal(t, robbie.Turn{Role: robbie.RoleUser, Content: "hi\n"}, turns[1])
	assert.Equal(t, robbie.Turn{Role: robbie.RoleAssistant, Content: "Hello there "}, turns[2])

	assert.Equal(t, "Available models:\n m1\nRobbie: Hello there \n", out.String())
	assert.False(t, ft.raw)
}

func TestLoop_StartSelectsFirstModel(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	loop := robbie.NewLoop(lines(io.EOF), &mock.Backend{ListModelsFn: listModels("a", "b", "c")},
		robbie.WithOutput(&out))

	require.NoError(t, loop.Start(context.Background()))
	assert.Equal(t, "a", loop.Model())
	assert.Equal(t, "Available models:\n a\n b\n c\n", out.String())
}

func TestLoop_StartWithPinnedModel(t *testing.T) {
	t.Parallel()
	loop := robbie.NewLoop(lines(io.EOF), &mock.Backend{ListModelsFn: listModels("a", "b")},
		robbie.WithModel("b"))

	require.NoError(t, loop.Start(context.Background()))
	assert.Equal(t, "b", loop.Model())
}

func TestLoop_StartNoModels(t *testing.T) {
	t.Parallel()
	loop := robbie.NewLoop(lines(io.EOF), &mock.Backend{ListModelsFn: listModels()})

	err := loop.Start(context.Background())
	assert.ErrorIs(t, err, robbie.ErrNoModels)
	assert.Nil(t, loop.Conversation())
}

func TestLoop_StartListError(t *testing.T) {
	t.Parallel()
	listErr := errors.New("connection refused")
	loop := robbie.NewLoop(lines(io.EOF), &mock.Backend{
		ListModelsFn: func(context.Context) ([]string, error) { return nil, listErr },
	})

	err := loop.Start(context.Background())
	assert.ErrorIs(t, err, listErr)
	assert.Contains(t, err.Error(), "list models")
}

func TestLoop_ThreadID(t *testing.T) {
	t.Parallel()

	t.Run("configured", func(t *testing.T) {
		t.Parallel()
		loop := robbie.NewLoop(lines(io.EOF), &mock.Backend{ListModelsFn: listModels("m")},
			robbie.WithThreadID("primary_thread"))
		require.NoError(t, loop.Start(context.Background()))
		assert.Equal(t, "primary_thread", loop.Conversation().ThreadID())
	})

	t.Run("generated", func(t *testing.T) {
		t.Parallel()
		loop := robbie.NewLoop(lines(io.EOF), &mock.Backend{ListModelsFn: listModels("m")})
		require.NoError(t, loop.Start(context.Background()))
		_, err := uuid.Parse(loop.Conversation().ThreadID())
		assert.NoError(t, err)
	})
}

func TestLoop_NoSystemPrompt(t *testing.T) {
	t.Parallel()
	loop := robbie.NewLoop(lines(io.EOF), &mock.Backend{ListModelsFn: listModels("m")})
	require.NoError(t, loop.Start(context.Background()))
	assert.Equal(t, 0, loop.Conversation().Len())
}

func TestLoop_RoundBeforeStart(t *testing.T) {
	t.Parallel()
	loop := robbie.NewLoop(lines(io.EOF, "x\n"), &mock.Backend{})
	err := loop.Round(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not started")
}

func TestLoop_MultipleRoundsSendGrowingTranscript(t *testing.T) {
	t.Parallel()
	var prompts []string
	backend := &mock.Backend{
		ListModelsFn: listModels("m"),
		CompleteFn: func(_ context.Context, req robbie.CompletionRequest) ([]string, error) {
			prompts = append(prompts, req.Prompt)
			return []string{fmt.Sprintf("reply%d", len(prompts))}, nil
		},
	}
	loop := robbie.NewLoop(lines(io.EOF, "one\n", "two\n"), backend)

	require.NoError(t, loop.Run(context.Background()))
	require.Len(t, prompts, 2)
	assert.NotContains(t, prompts[0], "reply1")
	assert.Contains(t, prompts[1], "one\n<|eot_id|>")
	assert.Contains(t, prompts[1], "<|start_header_id|>Assistant<|end_header_id|>\n\nreply1 <|eot_id|>\n")
	assert.Equal(t, 4, loop.Conversation().Len())
}

func TestLoop_RunEndsCleanlyOnInterrupt(t *testing.T) {
	t.Parallel()
	loop := robbie.NewLoop(lines(robbie.ErrInterrupted), &mock.Backend{ListModelsFn: listModels("m")})
	assert.NoError(t, loop.Run(context.Background()))
}

func TestLoop_RunReturnsInputError(t *testing.T) {
	t.Parallel()
	ioErr := errors.New("device gone")
	loop := robbie.NewLoop(lines(ioErr), &mock.Backend{ListModelsFn: listModels("m")})

	err := loop.Run(context.Background())
	assert.ErrorIs(t, err, ioErr)
	assert.Contains(t, err.Error(), "read input")
}

func TestLoop_RunReturnsCompletionError(t *testing.T) {
	t.Parallel()
	httpErr := errors.New("openai: HTTP 500: boom")
	loop := robbie.NewLoop(lines(io.EOF, "hi\n"), &mock.Backend{
		ListModelsFn: listModels("m"),
		CompleteFn: func(context.Context, robbie.CompletionRequest) ([]string, error) {
			return nil, httpErr
		},
	})

	err := loop.Run(context.Background())
	assert.ErrorIs(t, err, httpErr)
	assert.Contains(t, err.Error(), "complete")
}

func TestLoop_CompletionEOFIsNotEndOfInput(t *testing.T) {
	t.Parallel()
	loop := robbie.NewLoop(lines(io.EOF, "hi\n"), &mock.Backend{
		ListModelsFn: listModels("m"),
		CompleteFn: func(context.Context, robbie.CompletionRequest) ([]string, error) {
			return nil, fmt.Errorf("post: %w", io.EOF)
		},
	})

	err := loop.Run(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

func TestLoop_RunStopsOnCancelledContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	backend := &mock.Backend{
		ListModelsFn: listModels("m"),
		CompleteFn: func(context.Context, robbie.CompletionRequest) ([]string, error) {
			cancel()
			return []string{"ok"}, nil
		},
	}
	loop := robbie.NewLoop(lines(io.EOF, "a\n", "b\n"), backend)

	err := loop.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, loop.Conversation().Len())
}

func TestLoop_RendererAffectsDisplayOnly(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	loop := robbie.NewLoop(lines(io.EOF, "hi\n"), &mock.Backend{
		ListModelsFn: listModels("m"),
		CompleteFn: func(context.Context, robbie.CompletionRequest) ([]string, error) {
			return []string{"**bold**"}, nil
		},
	},
		robbie.WithOutput(&out),
		robbie.WithAssistantName("Bot"),
		robbie.WithRenderer(strings.ToUpper),
	)

	require.NoError(t, loop.Run(context.Background()))
	assert.Contains(t, out.String(), "Bot: **BOLD** \n")
	turns := loop.Conversation().Turns()
	assert.Equal(t, "**bold** ", turns[len(turns)-1].Content)
}

func TestLoop_WaiterWrapsCompletion(t *testing.T) {
	t.Parallel()
	var waited int
	waiter := func(ctx context.Context, fn func(context.Context) ([]string, error)) ([]string, error) {
		waited++
		return fn(ctx)
	}
	loop := robbie.NewLoop(lines(io.EOF, "hi\n"), &mock.Backend{
		ListModelsFn: listModels("m"),
		CompleteFn: func(context.Context, robbie.CompletionRequest) ([]string, error) {
			return []string{"x"}, nil
		},
	}, robbie.WithWaiter(waiter))

	require.NoError(t, loop.Run(context.Background()))
	assert.Equal(t, 1, waited)
}

func TestLoop_LogsRoundAtDebug(t *testing.T) {
	t.Parallel()
	var logs bytes.Buffer
	loop := robbie.NewLoop(lines(io.EOF, "hi\n"), &mock.Backend{
		ListModelsFn: listModels("m"),
		CompleteFn: func(context.Context, robbie.CompletionRequest) ([]string, error) {
			return []string{"x"}, nil
		},
	},
		robbie.WithThreadID("t1"),
		robbie.WithLogger(robbie.NewLogger(&logs, "debug")),
	)

	require.NoError(t, loop.Run(context.Background()))
	assert.Contains(t, logs.String(), "requesting completion")
	assert.Contains(t, logs.String(), "thread=t1")
	assert.Contains(t, logs.String(), "completion received")
}

func TestLoop_SetSamplingAppliesToNextRound(t *testing.T) {
	t.Parallel()
	var got []robbie.Sampling
	loop := robbie.NewLoop(lines(io.EOF, "a\n", "b\n"), &mock.Backend{
		ListModelsFn: listModels("m"),
		CompleteFn: func(_ context.Context, req robbie.CompletionRequest) ([]string, error) {
			got = append(got, req.Sampling)
			return []string{"x"}, nil
		},
	}, robbie.WithSampling(robbie.Sampling{MaxTokens: 1}), robbie.WithOutput(io.Discard))

	ctx := context.Background()
	require.NoError(t, loop.Start(ctx))
	require.NoError(t, loop.Round(ctx))
	loop.SetSampling(robbie.Sampling{MaxTokens: 2, TopP: 0.5})
	assert.Equal(t, robbie.Sampling{MaxTokens: 2, TopP: 0.5}, loop.Sampling())
	require.NoError(t, loop.Round(ctx))

	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].MaxTokens)
	assert.Equal(t, 2, got[1].MaxTokens)
}
