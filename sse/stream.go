package sse

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/fwojciec/chatstream"
)

// maxLineBytes bounds a single data line. Content snapshots carry the full
// accumulated response on one line, so the scanner needs far more headroom
// than bufio's 64KB default.
const maxLineBytes = 1 << 20

// stream implements [chatstream.Stream] by decoding `data: ` lines from a
// chunked HTTP response body.
//
// bufio.Scanner buffers partial lines across arbitrary chunk boundaries, so
// a multi-byte UTF-8 sequence split between two chunks is reassembled before
// the line is ever interpreted; the decoder never transcodes bytes.
type stream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
	ctx     context.Context
	log     zerolog.Logger
	state   chatstream.StreamState
	text    string // latest accumulated snapshot
	err     error  // terminal error, if any
}

// Interface compliance check.
var _ chatstream.Stream = (*stream)(nil)

func newStream(ctx context.Context, body io.ReadCloser, log zerolog.Logger) *stream {
	sc := bufio.NewScanner(body)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return &stream{
		body:    body,
		scanner: sc,
		ctx:     ctx,
		log:     log,
		state:   chatstream.StreamStateNew,
	}
}

// Next returns the next content event. io.EOF signals normal completion,
// whether via the [DONE] sentinel, a completed status, or the body ending.
// Once a terminal marker is seen, remaining input is never read.
func (s *stream) Next() (chatstream.Event, error) {
	switch s.state {
	case chatstream.StreamStateComplete:
		return nil, io.EOF
	case chatstream.StreamStateError:
		return nil, s.err
	case chatstream.StreamStateClosed:
		return nil, chatstream.ErrStreamClosed
	}

	for s.scanner.Scan() {
		s.state = chatstream.StreamStateStreaming

		payload, ok := strings.CutPrefix(s.scanner.Text(), dataPrefix)
		if !ok {
			// Blank keep-alives, comments, and unknown fields.
			continue
		}
		payload = strings.TrimSpace(payload)

		if payload == doneSentinel {
			s.state = chatstream.StreamStateComplete
			return nil, io.EOF
		}

		var evt wireEvent
		if err := json.Unmarshal([]byte(payload), &evt); err != nil {
			// One bad line never aborts the stream.
			s.log.Warn().Err(err).Str("payload", payload).Msg("malformed event")
			continue
		}

		if evt.Status == statusCompleted {
			s.state = chatstream.StreamStateComplete
			return nil, io.EOF
		}
		if evt.Status == statusStreaming && evt.Content == "" {
			// Start-of-stream heartbeat with no payload.
			continue
		}
		if evt.Type == typeContent && evt.Content != "" {
			s.text = strings.ReplaceAll(evt.Content, endTurnArtifact, "")
			return chatstream.EventContent{Text: s.text}, nil
		}
	}

	if err := s.scanner.Err(); err != nil {
		s.state = chatstream.StreamStateError
		if s.ctx.Err() != nil {
			// A read interrupted by cancellation is not a transport error.
			s.err = s.ctx.Err()
		} else {
			s.err = fmt.Errorf("%w: %v", chatstream.ErrStreamRead, err)
		}
		return nil, s.err
	}

	// Body ended without a terminal marker: normal completion.
	s.state = chatstream.StreamStateComplete
	return nil, io.EOF
}

// State returns the current stream state.
func (s *stream) State() chatstream.StreamState {
	return s.state
}

// Text returns the assistant text accumulated so far.
func (s *stream) Text() string {
	return s.text
}

// Close closes the underlying response body. Closing mid-stream makes
// subsequent Next calls return [chatstream.ErrStreamClosed].
func (s *stream) Close() error {
	if s.state != chatstream.StreamStateComplete && s.state != chatstream.StreamStateError {
		s.state = chatstream.StreamStateClosed
	}
	return s.body.Close()
}
