package chatstream

import "errors"

// Sentinel errors for transport failure classification. Callers match with
// errors.Is; neither class is ever retried automatically.
var (
	// ErrTransportOpen indicates the request could not be sent or the
	// response status was non-success.
	ErrTransportOpen = errors.New("transport open failed")

	// ErrStreamRead indicates the connection dropped mid-stream or the
	// response body became unreadable.
	ErrStreamRead = errors.New("stream read failed")

	// ErrStreamClosed indicates an operation on a closed stream.
	ErrStreamClosed = errors.New("stream closed")
)
