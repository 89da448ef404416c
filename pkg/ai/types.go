package ai

import "context"

// Message is one turn of a chat-style completion request.
type Message struct {
	Role    string
	Content string
}

// Options tune a single completion call. Temperature differs between the
// answer-generation call and the deterministic comparison call, so it is
// per-request rather than client-level. A nil Temperature leaves the choice
// to the upstream API; zero is a real, transmitted value.
type Options struct {
	Model       string
	Temperature *float32
	MaxTokens   int
}

// Temperature returns a pointer to v for use in Options literals.
func Temperature(v float32) *float32 {
	return &v
}

// Completer abstracts the text-completion service consumed by the grader.
type Completer interface {
	Complete(ctx context.Context, messages []Message, opts Options) (string, error)
}
