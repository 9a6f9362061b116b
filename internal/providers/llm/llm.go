package llm

import "context"

// Provider is the AI completion collaborator. It is treated as unreliable:
// callers own their fallbacks.
type Provider interface {
	// StreamAnswer returns a stream of text chunks (incremental).
	StreamAnswer(ctx context.Context, prompt string) (chunks <-chan string, errs <-chan error)
	Close() error
}
