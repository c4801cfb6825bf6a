// Package llm provides the client for the remote chat completion API.
package llm

import "context"

// Completer answers a single question under a system instruction.
type Completer interface {
	// GetAnswer sends one system message and one user message and returns the
	// trimmed text of the first choice. Errors are *CompletionError values.
	GetAnswer(ctx context.Context, systemInstruction, question string) (string, error)
}

// Ensure Client implements Completer interface.
var _ Completer = (*Client)(nil)
