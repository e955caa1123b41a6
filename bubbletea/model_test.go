package bubbletea_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/fwojciec/robbie"
	bt "github.com/fwojciec/robbie/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func styles() bt.Styles {
	return bt.NewStyles(robbie.DefaultTheme())
}

func finalModel(t *testing.T, tm *teatest.TestModel) bt.Model {
	t.Helper()
	fm := tm.FinalModel(t, teatest.WithFinalTimeout(5*time.Second))
	m, ok := fm.(bt.Model)
	require.True(t, ok)
	return m
}

func TestModel(t *testing.T) {
	t.Parallel()

	t.Run("returns fragments and quits", func(t *testing.T) {
		t.Parallel()
		run := func(context.Context) ([]string, error) {
			return []string{"Hello", "there"}, nil
		}
		tm := teatest.NewTestModel(t, bt.New(context.Background(), run, "thinking...", styles()),
			teatest.WithInitialTermSize(80, 24),
		)

		m := finalModel(t, tm)
		assert.True(t, m.Done())
		got, err := m.Result()
		require.NoError(t, err)
		assert.Equal(t, []string{"Hello", "there"}, got)
	})

	t.Run("shows label while waiting", func(t *testing.T) {
		t.Parallel()
		release := make(chan struct{})
		run := func(context.Context) ([]string, error) {
			<-release
			return []string{"ok"}, nil
		}
		tm := teatest.NewTestModel(t, bt.New(context.Background(), run, "asking Robbie", styles()),
			teatest.WithInitialTermSize(80, 24),
		)

		teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
			return bytes.Contains(out, []byte("asking Robbie"))
		}, teatest.WithDuration(5*time.Second))
		close(release)

		m := finalModel(t, tm)
		got, err := m.Result()
		require.NoError(t, err)
		assert.Equal(t, []string{"ok"}, got)
	})

	t.Run("ctrl+c cancels the call", func(t *testing.T) {
		t.Parallel()
		started := make(chan struct{})
		run := func(ctx context.Context) ([]string, error) {
			close(started)
			<-ctx.Done()
			return nil, ctx.Err()
		}
		tm := teatest.NewTestModel(t, bt.New(context.Background(), run, "thinking...", styles()),
			teatest.WithInitialTermSize(80, 24),
		)

		<-started
		tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})

		m := finalModel(t, tm)
		_, err := m.Result()
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("parent context cancels the call", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		started := make(chan struct{})
		run := func(ctx context.Context) ([]string, error) {
			close(started)
			<-ctx.Done()
			return nil, ctx.Err()
		}
		tm := teatest.NewTestModel(t, bt.New(ctx, run, "thinking...", styles()),
			teatest.WithInitialTermSize(80, 24),
		)

		<-started
		cancel()

		m := finalModel(t, tm)
		_, err := m.Result()
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestModel_Update(t *testing.T) {
	t.Parallel()

	t.Run("done message records result and quits", func(t *testing.T) {
		t.Parallel()
		m := bt.New(context.Background(), nil, "thinking...", styles())
		assert.NotEmpty(t, m.View())

		boom := errors.New("boom")
		updated, cmd := m.Update(bt.DoneMsg{Fragments: []string{"x"}, Err: boom})
		require.NotNil(t, cmd)
		assert.Equal(t, tea.Quit(), cmd())

		final := updated.(bt.Model)
		assert.True(t, final.Done())
		assert.Empty(t, final.View())
		got, err := final.Result()
		assert.Equal(t, []string{"x"}, got)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("view shows spinner and label", func(t *testing.T) {
		t.Parallel()
		m := bt.New(context.Background(), nil, "thinking...", styles())
		assert.Contains(t, m.View(), "thinking...")
		assert.False(t, m.Done())
	})

	t.Run("other keys are ignored", func(t *testing.T) {
		t.Parallel()
		m := bt.New(context.Background(), nil, "thinking...", styles())
		updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
		assert.Nil(t, cmd)
		assert.False(t, updated.(bt.Model).Done())
	})
}
