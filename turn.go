package chatstream

import "time"

// Speaker identifies who authored a Turn.
type Speaker string

const (
	SpeakerUser      Speaker = "user"
	SpeakerAssistant Speaker = "assistant"
)

// Turn is one message in the conversation timeline.
//
// ID is assigned at creation and stable for the turn's lifetime. Text is set
// once for user turns; for an assistant turn it is replaced wholesale on each
// content event (the wire protocol sends full accumulated snapshots, not
// deltas) until the turn settles. Streaming is true only for the assistant
// turn currently receiving updates.
type Turn struct {
	ID        string
	Speaker   Speaker
	Text      string
	CreatedAt time.Time
	Streaming bool
}
