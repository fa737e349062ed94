package mock

import "github.com/fwojciec/chatstream"

// Stream is a test double for chatstream.Stream.
// Set the function fields for the methods you need. NextFn panics when nil
// to catch missing setup. StateFn, TextFn, and CloseFn are nil-safe (zero
// value, empty string, and no-op) because test code commonly calls
// defer stream.Close() and these methods rarely need custom behavior.
type Stream struct {
	NextFn  func() (chatstream.Event, error)
	StateFn func() chatstream.StreamState
	TextFn  func() string
	CloseFn func() error
}

// Next delegates to NextFn.
func (s *Stream) Next() (chatstream.Event, error) {
	return s.NextFn()
}

// State delegates to StateFn. Returns StreamStateNew when StateFn is nil.
func (s *Stream) State() chatstream.StreamState {
	if s.StateFn == nil {
		return chatstream.StreamStateNew
	}
	return s.StateFn()
}

// Text delegates to TextFn. Returns "" when TextFn is nil.
func (s *Stream) Text() string {
	if s.TextFn == nil {
		return ""
	}
	return s.TextFn()
}

// Close delegates to CloseFn. Returns nil when CloseFn is not set.
func (s *Stream) Close() error {
	if s.CloseFn == nil {
		return nil
	}
	return s.CloseFn()
}
