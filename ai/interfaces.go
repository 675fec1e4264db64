package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Role identifies the author of a conversation message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single turn in a conversation passed to a Generator.
type Message struct {
	Role    Role
	Content string
}

// Generator produces natural-language answers from a conversation,
// optionally grounded in retrieved context.
// Implementations must be thread-safe for concurrent use.
type Generator interface {
	// GenerateAnswer produces an answer to the conversation in messages.
	// When contextText is non-empty it is supplied to the model as the
	// retrieved document context to ground the answer in.
	// Returns an error if generation fails.
	GenerateAnswer(ctx context.Context, messages []Message, contextText string) (string, error)
}

// Finding is a single issue reported by model-based content analysis.
// Severity and Priority are the model's own labels; callers map them onto
// their typed tiers.
type Finding struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
	Current     string `json:"current"`
	Suggested   string `json:"suggested"`
	Location    string `json:"location"`
	Priority    string `json:"priority"`
}

// ContentAnalyzer reviews document text against content policy and reports
// findings. Implementations must be thread-safe for concurrent use.
type ContentAnalyzer interface {
	// AnalyzeContent reviews the given text and returns the findings.
	// Returns an error if analysis fails or the model response cannot be
	// parsed; the caller decides how to degrade.
	AnalyzeContent(ctx context.Context, text string) ([]Finding, error)
}

// Provider aggregates AI services for convenient initialization and lifecycle
// management. A provider creates and manages Embedder, Generator, and
// ContentAnalyzer instances, ensuring they share configuration and resources
// appropriately.
type Provider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Generator returns the answer generation service.
	// The returned Generator is safe for concurrent use.
	Generator() Generator

	// Analyzer returns the content analysis service.
	// The returned ContentAnalyzer is safe for concurrent use.
	Analyzer() ContentAnalyzer

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
