// Package sse carries model output to HTTP clients as Server-Sent Events.
package sse

// Event types emitted over a stream. Token and reasoning events are sent
// under the "message" SSE event name, errors under "error".
const (
	EventToken     = "token"
	EventReasoning = "reasoning"
	EventError     = "error"
)

// Event is a single frame of a streamed response.
type Event struct {
	Type    string `json:"type"`
	Content string `json:"content,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// Token returns a content frame.
func Token(content string) Event {
	return Event{Type: EventToken, Content: content}
}

// Reasoning returns a chain-of-thought frame.
func Reasoning(content string) Event {
	return Event{Type: EventReasoning, Content: content}
}

// Error returns a terminal error frame.
func Error(code, message string) Event {
	return Event{Type: EventError, Code: code, Message: message}
}
