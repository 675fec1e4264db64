package mock

import (
	"context"

	"github.com/poiesic/corpora/ai"
)

// MockGenerator is a test double for ai.Generator.
// It allows custom behavior injection via function fields.
type MockGenerator struct {
	// GenerateAnswerFunc is called by GenerateAnswer if set.
	// If nil, a canned answer echoing the last user message is returned.
	GenerateAnswerFunc func(ctx context.Context, messages []ai.Message, contextText string) (string, error)

	callCount int

	// LastContext records the contextText of the most recent call so tests
	// can assert what retrieved context the generator was given.
	LastContext string
}

// NewMockGenerator creates a mock generator with default canned behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// GenerateAnswer returns the injected response, or a canned answer.
func (m *MockGenerator) GenerateAnswer(ctx context.Context, messages []ai.Message, contextText string) (string, error) {
	m.callCount++
	m.LastContext = contextText

	if m.GenerateAnswerFunc != nil {
		return m.GenerateAnswerFunc(ctx, messages, contextText)
	}

	last := ""
	for _, msg := range messages {
		if msg.Role == ai.RoleUser {
			last = msg.Content
		}
	}
	return "mock answer to: " + last, nil
}

// CallCount returns the number of times GenerateAnswer was called.
func (m *MockGenerator) CallCount() int {
	return m.callCount
}

// Reset clears the call count and any injected behavior.
func (m *MockGenerator) Reset() {
	m.callCount = 0
	m.GenerateAnswerFunc = nil
	m.LastContext = ""
}
