package chatstream

import "context"

// StreamState indicates the current state of a Stream.
type StreamState int

const (
	StreamStateNew       StreamState = iota // Before Next() is ever called.
	StreamStateStreaming                    // Mid-stream, receiving events.
	StreamStateComplete                     // Next() returned io.EOF.
	StreamStateError                        // Next() returned non-EOF error.
	StreamStateClosed                       // Close() called before terminal state.
)

// Stream uses a pull-based iterator pattern. Cancellation flows through the
// context passed to Backend.Stream().
//
// Next() returns the next decoded event, io.EOF on normal completion, or a
// terminal error. Exactly one terminal outcome occurs per stream.
//
// Text() returns the assistant text accumulated so far: partial while the
// stream is mid-flight or after a failure, final once the stream completes.
type Stream interface {
	Next() (Event, error)
	State() StreamState
	Text() string
	Close() error
}

// Backend opens one streaming exchange per user message.
type Backend interface {
	Stream(ctx context.Context, message string) (Stream, error)
}
