package chatstream

// Event is a sealed interface representing a decoded stream event.
// Events are purely semantic. Transport/protocol errors and stream
// termination come from Next()'s error return (io.EOF on normal completion),
// not from events. The unexported marker method prevents external
// implementations.
type Event interface {
	event()
}

// EventContent carries the assistant's accumulated output so far.
//
// The wire protocol sends the full text on every event, not an incremental
// delta, so consumers replace the displayed text rather than appending.
// Should a future server variant switch to delta fragments, this type's
// contract and the Controller's fold must change together; replacing deltas
// would silently truncate output.
type EventContent struct {
	Text string
}

func (EventContent) event() {}

// Interface compliance check.
var _ Event = EventContent{}
