package mock

import (
	"context"

	"github.com/poiesic/corpora/ai"
)

// MockAnalyzer is a test double for ai.ContentAnalyzer.
// It allows custom behavior injection via function fields.
type MockAnalyzer struct {
	// AnalyzeContentFunc is called by AnalyzeContent if set.
	// If nil, an empty finding list is returned.
	AnalyzeContentFunc func(ctx context.Context, text string) ([]ai.Finding, error)

	callCount int

	// LastText records the text of the most recent call.
	LastText string
}

// NewMockAnalyzer creates a mock analyzer with default canned behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockAnalyzer() *MockAnalyzer {
	return &MockAnalyzer{}
}

// AnalyzeContent returns the injected findings, or none.
func (m *MockAnalyzer) AnalyzeContent(ctx context.Context, text string) ([]ai.Finding, error) {
	m.callCount++
	m.LastText = text

	if m.AnalyzeContentFunc != nil {
		return m.AnalyzeContentFunc(ctx, text)
	}
	return []ai.Finding{}, nil
}

// CallCount returns the number of times AnalyzeContent was called.
func (m *MockAnalyzer) CallCount() int {
	return m.callCount
}

// Reset clears the call count and any injected behavior.
func (m *MockAnalyzer) Reset() {
	m.callCount = 0
	m.AnalyzeContentFunc = nil
	m.LastText = ""
}
