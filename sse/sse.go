// Package sse implements [chatstream.Backend] for the chat backend's
// server-sent-event style streaming endpoint.
//
// Wire protocol: the client POSTs {"message": ...} to the /chat path; the
// chunked response body carries newline-delimited `data: <payload>` lines.
// A payload is either the literal [DONE] sentinel or a JSON object with an
// optional status ("streaming" | "completed") and content snapshots of the
// shape {"type":"content","content":"..."}. Content carries the full
// accumulated assistant text so far, not a delta.
package sse

const (
	// DefaultBaseURL is used when no base URL is configured.
	DefaultBaseURL = "http://localhost:8000"

	chatPath = "/chat"

	dataPrefix   = "data: "
	doneSentinel = "[DONE]"

	statusStreaming = "streaming"
	statusCompleted = "completed"
	typeContent     = "content"

	// endTurnArtifact is model end-of-turn leakage the server sometimes
	// leaves in content snapshots; every occurrence is stripped before a
	// snapshot is surfaced.
	endTurnArtifact = "<|im_end|><|endofturn|>"
)

// chatRequest is the JSON body sent to the chat endpoint.
type chatRequest struct {
	Message string `json:"message"`
}

// wireEvent is the decoded shape of a data line's JSON payload. All fields
// are optional; unknown fields are ignored.
type wireEvent struct {
	Status  string `json:"status,omitempty"`
	Type    string `json:"type,omitempty"`
	Content string `json:"content,omitempty"`
}
