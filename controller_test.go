package chatstream_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fwojciec/chatstream"
	"github.com/fwojciec/chatstream/mock"
)

func TestController_Exchange(t *testing.T) {
	t.Parallel()

	backend := scriptedBackend(nil,
		chatstream.EventContent{Text: "He"},
		chatstream.EventContent{Text: "Hello"},
	)
	ctrl := chatstream.New(backend)

	turns := ctrl.Turns()
	require.Len(t, turns, 1)
	assert.Equal(t, chatstream.SpeakerAssistant, turns[0].Speaker)
	assert.Equal(t, chatstream.DefaultGreeting, turns[0].Text)
	assert.False(t, turns[0].Streaming)

	ex, ok := ctrl.Submit("hi")
	require.True(t, ok)
	assert.True(t, ctrl.Thinking())
	assert.True(t, ctrl.StreamActive())

	turns = ctrl.Turns()
	require.Len(t, turns, 2)
	assert.Equal(t, chatstream.SpeakerUser, turns[1].Speaker)
	assert.Equal(t, "hi", turns[1].Text)

	// First snapshot creates the streaming assistant turn.
	ctrl.HandleEvent(ex.Seq, <-ex.Events)
	assert.False(t, ctrl.Thinking())
	turns = ctrl.Turns()
	require.Len(t, turns, 3)
	assert.Equal(t, "He", turns[2].Text)
	assert.True(t, turns[2].Streaming)

	// Later snapshots replace the full text in place.
	ctrl.HandleEvent(ex.Seq, <-ex.Events)
	turns = ctrl.Turns()
	require.Len(t, turns, 3)
	assert.Equal(t, "Hello", turns[2].Text)
	assert.True(t, turns[2].Streaming)

	_, open := <-ex.Events
	require.False(t, open)
	ctrl.HandleDone(ex.Seq, <-ex.Done)

	assert.False(t, ctrl.StreamActive())
	assert.False(t, ctrl.Thinking())
	turns = ctrl.Turns()
	require.Len(t, turns, 3)
	assert.Equal(t, "Hello", turns[2].Text)
	assert.False(t, turns[2].Streaming)
}

func TestController_SubmitRejectsBlankInput(t *testing.T) {
	t.Parallel()

	ctrl := chatstream.New(&mock.Backend{})

	for _, input := range []string{"", "   ", "\t\n"} {
		ex, ok := ctrl.Submit(input)
		assert.Nil(t, ex)
		assert.False(t, ok)
	}
	assert.Len(t, ctrl.Turns(), 1)
	assert.False(t, ctrl.StreamActive())
}

func TestController_SubmitTrimsInput(t *testing.T) {
	t.Parallel()

	backend := scriptedBackend(nil)
	ctrl := chatstream.New(backend)

	ex, ok := ctrl.Submit("  hi  ")
	require.True(t, ok)
	drain(ctrl, ex)

	turns := ctrl.Turns()
	require.Len(t, turns, 2)
	assert.Equal(t, "hi", turns[1].Text)
}

func TestController_ResubmitCancelsPrevious(t *testing.T) {
	t.Parallel()

	opened := make(chan context.Context, 2)
	backend := &mock.Backend{
		StreamFn: func(ctx context.Context, message string) (chatstream.Stream, error) {
			opened <- ctx
			if message == "first" {
				return &mock.Stream{
					NextFn: func() (chatstream.Event, error) {
						<-ctx.Done()
						return nil, ctx.Err()
					},
				}, nil
			}
			return &mock.Stream{
				NextFn: func() (chatstream.Event, error) { return nil, io.EOF },
			}, nil
		},
	}
	ctrl := chatstream.New(backend)

	ex1, ok := ctrl.Submit("first")
	require.True(t, ok)
	ctx1 := <-opened

	ex2, ok := ctrl.Submit("second")
	require.True(t, ok)
	ctx2 := <-opened
	assert.Greater(t, ex2.Seq, ex1.Seq)

	// Submit cancels the superseded exchange synchronously.
	assert.ErrorIs(t, ctx1.Err(), context.Canceled)
	assert.NoError(t, ctx2.Err())

	// The first exchange reports cancellation, and its completion is stale.
	for range ex1.Events {
	}
	err1 := <-ex1.Done
	assert.ErrorIs(t, err1, context.Canceled)
	ctrl.HandleDone(ex1.Seq, err1)
	assert.True(t, ctrl.StreamActive())

	drain(ctrl, ex2)
	assert.False(t, ctrl.StreamActive())

	turns := ctrl.Turns()
	require.Len(t, turns, 3)
	assert.Equal(t, "first", turns[1].Text)
	assert.Equal(t, "second", turns[2].Text)
}

func TestController_StopFreezesPartialText(t *testing.T) {
	t.Parallel()

	backend := scriptedBackend(nil,
		chatstream.EventContent{Text: "He"},
		chatstream.EventContent{Text: "Hello"},
	)
	ctrl := chatstream.New(backend)

	ex, ok := ctrl.Submit("hi")
	require.True(t, ok)
	ctrl.HandleEvent(ex.Seq, <-ex.Events)

	ctrl.Stop()
	assert.False(t, ctrl.StreamActive())
	assert.False(t, ctrl.Thinking())

	turns := ctrl.Turns()
	require.Len(t, turns, 3)
	assert.Equal(t, "He", turns[2].Text)
	assert.False(t, turns[2].Streaming)

	// Anything still in flight from the stopped exchange is ignored.
	for evt := range ex.Events {
		ctrl.HandleEvent(ex.Seq, evt)
	}
	ctrl.HandleDone(ex.Seq, <-ex.Done)

	turns = ctrl.Turns()
	require.Len(t, turns, 3)
	assert.Equal(t, "He", turns[2].Text)
	assert.False(t, turns[2].Streaming)
}

func TestController_StopIdleIsNoop(t *testing.T) {
	t.Parallel()

	ctrl := chatstream.New(&mock.Backend{})
	before := ctrl.Turns()

	ctrl.Stop()
	ctrl.Stop()

	assert.Equal(t, before, ctrl.Turns())
	assert.False(t, ctrl.StreamActive())
}

func TestController_ErrorAppendsApology(t *testing.T) {
	t.Parallel()

	t.Run("before any content", func(t *testing.T) {
		t.Parallel()

		backend := &mock.Backend{
			StreamFn: func(ctx context.Context, message string) (chatstream.Stream, error) {
				return nil, fmt.Errorf("%w: connection refused", chatstream.ErrTransportOpen)
			},
		}
		ctrl := chatstream.New(backend)

		ex, ok := ctrl.Submit("hi")
		require.True(t, ok)
		drain(ctrl, ex)

		turns := ctrl.Turns()
		require.Len(t, turns, 3)
		assert.Equal(t, chatstream.SpeakerAssistant, turns[2].Speaker)
		assert.Equal(t, chatstream.ApologyText, turns[2].Text)
		assert.False(t, turns[2].Streaming)
		assert.False(t, ctrl.StreamActive())
	})

	t.Run("after partial content", func(t *testing.T) {
		t.Parallel()

		backend := scriptedBackend(
			fmt.Errorf("%w: unexpected EOF", chatstream.ErrStreamRead),
			chatstream.EventContent{Text: "He"},
		)
		ctrl := chatstream.New(backend)

		ex, ok := ctrl.Submit("hi")
		require.True(t, ok)
		drain(ctrl, ex)

		turns := ctrl.Turns()
		require.Len(t, turns, 4)
		assert.Equal(t, "He", turns[2].Text)
		assert.False(t, turns[2].Streaming)
		assert.Equal(t, chatstream.ApologyText, turns[3].Text)
	})
}

func TestController_CancellationIsNotAnError(t *testing.T) {
	t.Parallel()

	backend := scriptedBackend(context.Canceled,
		chatstream.EventContent{Text: "He"},
	)
	ctrl := chatstream.New(backend)

	ex, ok := ctrl.Submit("hi")
	require.True(t, ok)
	drain(ctrl, ex)

	turns := ctrl.Turns()
	require.Len(t, turns, 3)
	assert.Equal(t, "He", turns[2].Text)
	assert.False(t, turns[2].Streaming)
	for _, turn := range turns {
		assert.NotEqual(t, chatstream.ApologyText, turn.Text)
	}
}

func TestController_StaleEventIgnored(t *testing.T) {
	t.Parallel()

	backend := scriptedBackend(nil, chatstream.EventContent{Text: "Hello"})
	ctrl := chatstream.New(backend)

	ex, ok := ctrl.Submit("hi")
	require.True(t, ok)
	drain(ctrl, ex)
	before := ctrl.Turns()

	ctrl.HandleEvent(ex.Seq, chatstream.EventContent{Text: "late"})
	ctrl.HandleEvent(ex.Seq-1, chatstream.EventContent{Text: "stale"})
	ctrl.HandleDone(ex.Seq, errors.New("late failure"))

	assert.Equal(t, before, ctrl.Turns())
}

func TestController_Reset(t *testing.T) {
	t.Parallel()

	backend := scriptedBackend(nil, chatstream.EventContent{Text: "Hello"})
	ctrl := chatstream.New(backend, chatstream.WithGreeting("Welcome back"))

	ex, ok := ctrl.Submit("hi")
	require.True(t, ok)
	ctrl.HandleEvent(ex.Seq, <-ex.Events)
	require.Len(t, ctrl.Turns(), 3)

	ctrl.Reset()

	turns := ctrl.Turns()
	require.Len(t, turns, 1)
	assert.Equal(t, chatstream.SpeakerAssistant, turns[0].Speaker)
	assert.Equal(t, "Welcome back", turns[0].Text)
	assert.False(t, turns[0].Streaming)
	assert.False(t, ctrl.StreamActive())
	assert.False(t, ctrl.Thinking())
}

func TestController_WithGreeting(t *testing.T) {
	t.Parallel()

	ctrl := chatstream.New(&mock.Backend{}, chatstream.WithGreeting("안녕하세요!"))

	turns := ctrl.Turns()
	require.Len(t, turns, 1)
	assert.Equal(t, "안녕하세요!", turns[0].Text)
}

// scriptedBackend returns a backend whose stream yields the given events in
// order and then finishes with finalErr (io.EOF when nil).
func scriptedBackend(finalErr error, events ...chatstream.Event) *mock.Backend {
	return &mock.Backend{
		StreamFn: func(ctx context.Context, message string) (chatstream.Stream, error) {
			i := 0
			return &mock.Stream{
				NextFn: func() (chatstream.Event, error) {
					if i < len(events) {
						evt := events[i]
						i++
						return evt, nil
					}
					if finalErr != nil {
						return nil, finalErr
					}
					return nil, io.EOF
				},
			}, nil
		},
	}
}

// drain pumps an exchange to completion the way a host event loop would.
func drain(ctrl *chatstream.Controller, ex *chatstream.Exchange) {
	for evt := range ex.Events {
		ctrl.HandleEvent(ex.Seq, evt)
	}
	ctrl.HandleDone(ex.Seq, <-ex.Done)
}
