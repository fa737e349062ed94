package chatstream

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultGreeting seeds a fresh timeline's first assistant turn.
const DefaultGreeting = "Hello! How can I help you today?"

// ApologyText is appended as a new assistant turn when an exchange fails.
// It is deliberately a human-readable message, not an error code; the
// underlying error goes to the logger.
const ApologyText = "Sorry, something went wrong. Please try again."

// eventBufferSize is the capacity of an exchange's event channel.
const eventBufferSize = 256

// Controller is the session state machine. It owns the message timeline, the
// thinking and stream-active flags, and the cancel handle of the single
// in-flight exchange.
//
// All methods must be called from one goroutine, the host's event loop. The
// pump goroutine started by Submit only produces channel values and never
// touches controller state, so no locks are needed: there is one logical
// writer and it never yields mid-mutation.
type Controller struct {
	backend  Backend
	greeting string
	log      zerolog.Logger

	timeline Timeline
	thinking bool
	active   bool
	cancel   context.CancelFunc

	seq    int    // exchange counter; callbacks from a superseded exchange carry an older value
	turnID string // assistant turn ID reserved for the current exchange

	newID func() string
	now   func() time.Time
}

// Option configures a Controller.
type Option func(*Controller)

// WithGreeting sets the assistant turn that seeds the timeline.
func WithGreeting(text string) Option {
	return func(c *Controller) { c.greeting = text }
}

// WithLogger sets the controller's logger. Defaults to a no-op logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Controller) { c.log = log }
}

// New creates a Controller whose timeline is seeded with a greeting turn.
func New(backend Backend, opts ...Option) *Controller {
	c := &Controller{
		backend:  backend,
		greeting: DefaultGreeting,
		log:      zerolog.Nop(),
		newID:    uuid.NewString,
		now:      time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	c.seed()
	return c
}

func (c *Controller) seed() {
	c.timeline.Append(Turn{
		ID:        c.newID(),
		Speaker:   SpeakerAssistant,
		Text:      c.greeting,
		CreatedAt: c.now(),
	})
}

// Turns returns a copy of the current timeline for rendering.
func (c *Controller) Turns() []Turn { return c.timeline.Turns() }

// Thinking reports whether a response is awaited but no content has arrived.
func (c *Controller) Thinking() bool { return c.thinking }

// StreamActive reports whether an exchange is in flight. Input gating in the
// UI layer should derive from this flag rather than storing its own state.
func (c *Controller) StreamActive() bool { return c.active }

// Exchange carries the delivery channels of one Submit. Events yields decoded
// events in arrival order; once it closes, Done yields exactly one completion
// value: nil for normal completion, context.Canceled for an aborted exchange,
// or a transport error. The host loop feeds each event to HandleEvent and the
// completion value to HandleDone.
type Exchange struct {
	Seq    int
	Events <-chan Event
	Done   <-chan error
}

// Submit starts a new exchange for text. Any previous in-flight exchange is
// cancelled first, so at most one transport session is ever live. Empty or
// whitespace-only input returns (nil, false) with all state untouched.
func (c *Controller) Submit(text string) (*Exchange, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, false
	}

	c.cancelExchange()
	c.seq++
	c.turnID = c.newID()
	c.timeline.Append(Turn{
		ID:        c.newID(),
		Speaker:   SpeakerUser,
		Text:      text,
		CreatedAt: c.now(),
	})
	c.thinking = true
	c.active = true

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	events := make(chan Event, eventBufferSize)
	done := make(chan error, 1)
	go pump(ctx, c.backend, text, events, done)

	c.log.Debug().Int("seq", c.seq).Msg("exchange started")
	return &Exchange{Seq: c.seq, Events: events, Done: done}, true
}

// pump drives one backend stream to completion, forwarding events and then
// exactly one completion value. Errors that are a side effect of cancellation
// are normalized to context.Canceled so they never read as transport errors.
func pump(ctx context.Context, backend Backend, message string, events chan<- Event, done chan<- error) {
	defer close(events)

	stream, err := backend.Stream(ctx, message)
	if err != nil {
		if ctx.Err() != nil {
			err = context.Canceled
		}
		done <- err
		return
	}
	defer stream.Close()

	for {
		evt, err := stream.Next()
		if err == io.EOF {
			done <- nil
			return
		}
		if err != nil {
			if ctx.Err() != nil {
				err = context.Canceled
			}
			done <- err
			return
		}
		select {
		case events <- evt:
		case <-ctx.Done():
			done <- context.Canceled
			return
		}
	}
}

// HandleEvent folds one decoded event into the timeline. Events from a
// superseded or stopped exchange are ignored.
func (c *Controller) HandleEvent(seq int, evt Event) {
	if seq != c.seq || !c.active {
		return
	}
	content, ok := evt.(EventContent)
	if !ok {
		return
	}

	c.thinking = false
	if c.timeline.ReplaceText(c.turnID, content.Text) {
		return
	}
	// First content of the exchange: create the streaming assistant turn.
	c.timeline.Append(Turn{
		ID:        c.turnID,
		Speaker:   SpeakerAssistant,
		Text:      content.Text,
		CreatedAt: c.now(),
		Streaming: true,
	})
}

// HandleDone finishes the exchange, clearing both flags and the cancel
// handle. Normal completion and cancellation settle the exchange's assistant
// turn; an exchange that ended before any content arrived never created one,
// which is a valid outcome. On error the partial turn keeps its text (only
// its streaming flag is cleared) and a fixed apology turn is appended.
func (c *Controller) HandleDone(seq int, err error) {
	if seq != c.seq || !c.active {
		return
	}

	c.thinking = false
	c.active = false
	c.cancel = nil

	if err != nil && !errors.Is(err, context.Canceled) {
		c.log.Warn().Err(err).Int("seq", seq).Msg("exchange failed")
		c.timeline.Settle(c.turnID)
		c.timeline.Append(Turn{
			ID:        c.newID(),
			Speaker:   SpeakerAssistant,
			Text:      ApologyText,
			CreatedAt: c.now(),
		})
		return
	}

	c.timeline.Settle(c.turnID)
	c.log.Debug().Int("seq", seq).Msg("exchange finished")
}

// Stop aborts the in-flight exchange and freezes whatever partial text has
// accumulated, without waiting for the transport to acknowledge. This is the
// only path that settles a turn without a terminal from the transport. When
// no stream is active the timeline is left untouched.
func (c *Controller) Stop() {
	c.cancelExchange()
	c.thinking = false
	c.active = false
	c.timeline.Freeze()
}

// Reset stops any active exchange and restores the seeded initial timeline.
func (c *Controller) Reset() {
	c.Stop()
	c.timeline = Timeline{}
	c.seed()
}

// cancelExchange invokes and discards the current cancel handle, if any.
// A handle is invoked at most once; re-invocation attempts are no-ops.
func (c *Controller) cancelExchange() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}
