// Package mock provides test doubles for chatstream interfaces using
// function fields.
package mock

import (
	"context"

	"github.com/fwojciec/chatstream"
)

// Interface compliance checks.
var (
	_ chatstream.Backend = (*Backend)(nil)
	_ chatstream.Stream  = (*Stream)(nil)
)

// Backend is a test double for chatstream.Backend.
// Set StreamFn before calling Stream.
type Backend struct {
	StreamFn func(ctx context.Context, message string) (chatstream.Stream, error)
}

// Stream delegates to StreamFn.
func (b *Backend) Stream(ctx context.Context, message string) (chatstream.Stream, error) {
	return b.StreamFn(ctx, message)
}
