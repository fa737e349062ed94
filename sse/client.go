package sse

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/fwojciec/chatstream"
)

// Interface compliance check.
var _ chatstream.Backend = (*Client)(nil)

// Client implements [chatstream.Backend] against a chat backend endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// Option configures a [Client].
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger used for malformed-line warnings and stream
// lifecycle debug lines. Defaults to a no-op logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New creates a new [Client] for the given base URL. An empty baseURL falls
// back to [DefaultBaseURL].
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: http.DefaultClient,
		log:        zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Stream POSTs the message and returns a [chatstream.Stream] decoding the
// chunked response body. Failure to send the request or a non-success status
// classifies as [chatstream.ErrTransportOpen]; there is no retry. A context
// already cancelled at open time surfaces as the context's error, not as a
// transport failure.
func (c *Client) Stream(ctx context.Context, message string) (chatstream.Stream, error) {
	body, err := json.Marshal(chatRequest{Message: message})
	if err != nil {
		return nil, fmt.Errorf("sse: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+chatPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("sse: %w: %v", chatstream.ErrTransportOpen, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("sse: %w: %v", chatstream.ErrTransportOpen, err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("sse: %w: HTTP %d: %s",
			chatstream.ErrTransportOpen, resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	c.log.Debug().Str("url", c.baseURL+chatPath).Msg("stream opened")
	return newStream(ctx, resp.Body, c.log), nil
}
