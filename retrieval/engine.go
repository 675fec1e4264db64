package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/poiesic/corpora/ai"
	"github.com/poiesic/corpora/core"
	"github.com/poiesic/corpora/index"
)

const defaultTopK = 5

// Source is one cited document chunk backing an answer, in rank order.
type Source struct {
	ID     string
	Title  string
	Text   string
	Score  float32
	FileID string
	Seq    int
}

// Result is the outcome of one retrieval pass.
type Result struct {
	Matches []core.RetrievalMatch

	// Confidence is the top match's similarity score, exactly 0 when
	// nothing matched.
	Confidence float32

	// ContextText is the rendered context block handed to the generator,
	// empty when there were no matches.
	ContextText string

	Sources []Source
}

// Answer is a generated reply plus the retrieval evidence behind it.
type Answer struct {
	Text        string
	ContextUsed bool
	Sources     []Source
	Confidence  float32
}

// Engine answers questions over the indexed corpus: embed the query, rank
// matches from the vector index, and ground the generator on what came back.
type Engine struct {
	embedder  ai.Embedder
	index     index.Store
	generator ai.Generator
	topK      int
	logger    *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// WithTopK sets how many matches a retrieval pass requests by default.
func WithTopK(k int) Option {
	return func(e *Engine) error {
		if k < 1 {
			return fmt.Errorf("top-k must be positive, got %d", k)
		}
		e.topK = k
		return nil
	}
}

// NewEngine creates a retrieval engine.
func NewEngine(embedder ai.Embedder, idx index.Store, generator ai.Generator, opts ...Option) (*Engine, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if idx == nil {
		return nil, ErrIndexRequired
	}
	if generator == nil {
		return nil, ErrGeneratorRequired
	}

	e := &Engine{
		embedder:  embedder,
		index:     idx,
		generator: generator,
		topK:      defaultTopK,
		logger:    slog.Default().With("component", "retrieval"),
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// Retrieve embeds the query and ranks the k most similar chunks.
// k <= 0 uses the engine default.
func (e *Engine) Retrieve(ctx context.Context, query string, k int) (*Result, error) {
	return e.RetrieveWithMonitor(ctx, query, k, nil)
}

// RetrieveWithMonitor is Retrieve with stage callbacks for observability.
//
// Failure policy: a query that cannot be embedded is fatal, because there
// is nothing to search with. An index that cannot be queried degrades to
// zero matches so the caller can still answer from general knowledge.
func (e *Engine) RetrieveWithMonitor(ctx context.Context, query string, k int, monitor Monitor) (*Result, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	if k <= 0 {
		k = e.topK
	}

	monitor.Start(query)

	embedding, err := e.embedder.EmbedText(ctx, query)
	if err != nil {
		e.logger.Error("error embedding query", "err", err)
		return nil, fmt.Errorf("embed query: %w", err)
	}
	monitor.AfterEmbedding(embedding)

	matches, err := e.index.Query(ctx, embedding, k, nil)
	if err != nil {
		e.logger.Warn("index query failed, continuing without context", "err", err)
		matches = nil
	}
	monitor.AfterIndexQuery(matches)

	result := &Result{
		Matches:     matches,
		ContextText: renderContext(matches),
		Sources:     buildSources(matches),
	}
	if len(matches) > 0 {
		result.Confidence = matches[0].Score
	}

	monitor.Finish(result)
	return result, nil
}

// Ask retrieves context for the question and asks the generator for an
// answer grounded on it. With zero matches the generator still runs,
// answering from general knowledge, and ContextUsed reports false.
func (e *Engine) Ask(ctx context.Context, question string, history []ai.Message) (*Answer, error) {
	result, err := e.Retrieve(ctx, question, 0)
	if err != nil {
		return nil, err
	}

	messages := make([]ai.Message, 0, len(history)+1)
	messages = append(messages, history...)
	messages = append(messages, ai.Message{Role: ai.RoleUser, Content: question})

	text, err := e.generator.GenerateAnswer(ctx, messages, result.ContextText)
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	return &Answer{
		Text:        text,
		ContextUsed: result.ContextText != "",
		Sources:     result.Sources,
		Confidence:  result.Confidence,
	}, nil
}

// Preview returns every stored chunk of one document in sequence order.
// A pure projection of the index; no retrieval logic runs.
func (e *Engine) Preview(ctx context.Context, fileID string) ([]core.Chunk, error) {
	matches, err := e.index.ListByFile(ctx, fileID)
	if err != nil {
		return nil, fmt.Errorf("list chunks of %s: %w", fileID, err)
	}

	chunks := make([]core.Chunk, 0, len(matches))
	for _, m := range matches {
		chunks = append(chunks, core.Chunk{
			FileID: m.Metadata.FileID,
			Seq:    m.Metadata.Seq,
			Text:   m.Metadata.Text,
		})
	}

	slices.SortStableFunc(chunks, func(a, b core.Chunk) int {
		return a.Seq - b.Seq
	})

	return chunks, nil
}

// renderContext formats matches as a context block, one source per block,
// labeled with the document name so the generator can cite it.
func renderContext(matches []core.RetrievalMatch) string {
	if len(matches) == 0 {
		return ""
	}

	blocks := make([]string, 0, len(matches))
	for _, m := range matches {
		name := m.Metadata.Name
		if name == "" {
			name = "Document"
		}
		text := m.Metadata.Text
		if text == "" {
			text = m.ID
		}
		blocks = append(blocks, "["+name+"]: "+text)
	}
	return strings.Join(blocks, "\n\n")
}

func buildSources(matches []core.RetrievalMatch) []Source {
	sources := make([]Source, 0, len(matches))
	for _, m := range matches {
		sources = append(sources, Source{
			ID:     m.ID,
			Title:  m.Metadata.Name,
			Text:   m.Metadata.Text,
			Score:  m.Score,
			FileID: m.Metadata.FileID,
			Seq:    m.Metadata.Seq,
		})
	}
	return sources
}
