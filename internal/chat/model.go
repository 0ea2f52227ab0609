package chat

import "context"

// Model abstracts chat completion providers.
type Model interface {
	// Invoke sends the conversation and blocks until the full response arrives.
	Invoke(ctx context.Context, messages []Message) (*Response, error)

	// Stream sends the conversation and delivers the response incrementally.
	// The returned channel closes when the stream ends; a mid-stream failure
	// arrives as a final chunk with Err set.
	Stream(ctx context.Context, messages []Message) (<-chan StreamChunk, error)
}
