package bubbletea

import (
	"strings"

	"github.com/fwojciec/chatstream"
	"github.com/fwojciec/chatstream/markdown"
)

var _ MessageBlock = (*AssistantTurnBlock)(nil)

// AssistantTurnBlock renders an assistant turn as markdown. The wire protocol
// replaces the full text on every event, so the block re-renders whenever the
// text changes; renders are cached per width, which pays off once the turn
// settles.
type AssistantTurnBlock struct {
	text      string
	streaming bool
	theme     chatstream.Theme
	byWidth   map[int]string
}

// NewAssistantTurnBlock creates a block for one assistant turn.
func NewAssistantTurnBlock(theme chatstream.Theme) *AssistantTurnBlock {
	return &AssistantTurnBlock{
		theme:   theme,
		byWidth: make(map[int]string),
	}
}

// SetText replaces the block's text with a new accumulated snapshot.
func (b *AssistantTurnBlock) SetText(text string) {
	if text == b.text {
		return
	}
	b.text = text
	clear(b.byWidth)
}

// SetStreaming updates the streaming indicator.
func (b *AssistantTurnBlock) SetStreaming(streaming bool) {
	if streaming == b.streaming {
		return
	}
	b.streaming = streaming
	clear(b.byWidth)
}

func (b *AssistantTurnBlock) View(width int) string {
	if width <= 0 {
		return ""
	}
	if cached, ok := b.byWidth[width]; ok {
		return cached
	}

	source := b.text
	if b.streaming && hasUnclosedFence(source) {
		// Close fence only for rendering so partial streams display safely.
		source += "\n```"
	}
	rendered := markdown.Render(source, width, b.theme)
	if b.streaming {
		rendered += "▌"
	}
	b.byWidth[width] = rendered
	return rendered
}

// hasUnclosedFence detects an unclosed fenced code block by checking for an
// odd number of "```" occurrences. Triple backticks inside inline code spans
// would miscount, but they are rare enough in chat output to ignore.
func hasUnclosedFence(s string) bool {
	return strings.Count(s, "```")%2 == 1
}
