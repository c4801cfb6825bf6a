package llm

import (
	"context"
	"fmt"
)

// MockClient is an offline Completer used for local runs and demos.
type MockClient struct{}

// NewMockClient creates a new mock completion client.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Ensure MockClient implements Completer interface.
var _ Completer = (*MockClient)(nil)

// GetAnswer echoes the question back without calling the network.
func (m *MockClient) GetAnswer(ctx context.Context, systemInstruction, question string) (string, error) {
	return fmt.Sprintf("[MOCK] Received your question: %q. This is a mock answer.", truncate(question, 100)), nil
}

// truncate truncates a string to the given number of runes.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen]) + "..."
}
