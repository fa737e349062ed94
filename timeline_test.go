package chatstream_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fwojciec/chatstream"
)

func TestTimeline_AppendAndTurns(t *testing.T) {
	t.Parallel()

	var tl chatstream.Timeline
	assert.Equal(t, 0, tl.Len())

	_, ok := tl.Last()
	assert.False(t, ok)

	tl.Append(chatstream.Turn{ID: "a", Speaker: chatstream.SpeakerAssistant, Text: "hi"})
	tl.Append(chatstream.Turn{ID: "b", Speaker: chatstream.SpeakerUser, Text: "hello"})

	assert.Equal(t, 2, tl.Len())
	last, ok := tl.Last()
	require.True(t, ok)
	assert.Equal(t, "b", last.ID)

	// Turns returns a copy; mutating it must not affect the timeline.
	turns := tl.Turns()
	turns[0].Text = "mutated"
	fresh := tl.Turns()
	assert.Equal(t, "hi", fresh[0].Text)
}

func TestTimeline_ReplaceText(t *testing.T) {
	t.Parallel()

	t.Run("replaces matching last turn and marks it streaming", func(t *testing.T) {
		t.Parallel()
		var tl chatstream.Timeline
		tl.Append(chatstream.Turn{ID: "a", Speaker: chatstream.SpeakerAssistant, Text: "He"})

		assert.True(t, tl.ReplaceText("a", "Hello"))
		last, _ := tl.Last()
		assert.Equal(t, "Hello", last.Text)
		assert.True(t, last.Streaming)
	})

	t.Run("rejects mismatched ID", func(t *testing.T) {
		t.Parallel()
		var tl chatstream.Timeline
		tl.Append(chatstream.Turn{ID: "a", Text: "He"})

		assert.False(t, tl.ReplaceText("b", "Hello"))
		last, _ := tl.Last()
		assert.Equal(t, "He", last.Text)
	})

	t.Run("rejects empty timeline", func(t *testing.T) {
		t.Parallel()
		var tl chatstream.Timeline
		assert.False(t, tl.ReplaceText("a", "Hello"))
	})
}

func TestTimeline_Settle(t *testing.T) {
	t.Parallel()

	var tl chatstream.Timeline
	tl.Append(chatstream.Turn{ID: "a", Text: "Hello", Streaming: true})

	assert.False(t, tl.Settle("other"))
	last, _ := tl.Last()
	assert.True(t, last.Streaming)

	assert.True(t, tl.Settle("a"))
	last, _ = tl.Last()
	assert.False(t, last.Streaming)

	// Already settled.
	assert.False(t, tl.Settle("a"))
}

func TestTimeline_Freeze(t *testing.T) {
	t.Parallel()

	t.Run("freezes streaming last turn regardless of ID", func(t *testing.T) {
		t.Parallel()
		var tl chatstream.Timeline
		tl.Append(chatstream.Turn{ID: "a", Text: "partial", Streaming: true})

		assert.True(t, tl.Freeze())
		last, _ := tl.Last()
		assert.Equal(t, "partial", last.Text)
		assert.False(t, last.Streaming)
	})

	t.Run("no-op on settled timeline", func(t *testing.T) {
		t.Parallel()
		var tl chatstream.Timeline
		tl.Append(chatstream.Turn{ID: "a", Text: "done"})

		assert.False(t, tl.Freeze())
	})

	t.Run("no-op on empty timeline", func(t *testing.T) {
		t.Parallel()
		var tl chatstream.Timeline
		assert.False(t, tl.Freeze())
	})
}
