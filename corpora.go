// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package corpora

import (
	"context"
	"log/slog"

	"github.com/poiesic/corpora/ai"
	"github.com/poiesic/corpora/ai/openai"
	"github.com/poiesic/corpora/core"
	"github.com/poiesic/corpora/index"
	"github.com/poiesic/corpora/index/badger"
	"github.com/poiesic/corpora/ingest"
	"github.com/poiesic/corpora/retrieval"
	"github.com/poiesic/corpora/review"
	"github.com/poiesic/corpora/source"
)

// Corpus wires the source store, vector index, and AI provider into one
// handle exposing the high-level operations: Sync, Ask, Preview, Review.
type Corpus struct {
	source   source.Store
	index    index.Store
	provider ai.Provider
	logger   *slog.Logger
}

// CorpusOption configures a Corpus.
type CorpusOption func(*corpusOptions)

type corpusOptions struct {
	aiConfig *ai.Config
	provider ai.Provider
}

// WithAIConfig sets the configuration for the default OpenAI-compatible
// provider. Ignored when WithProvider is also given.
func WithAIConfig(config *ai.Config) CorpusOption {
	return func(o *corpusOptions) {
		o.aiConfig = config
	}
}

// WithProvider injects a pre-built AI provider instead of constructing one
// from configuration. Tests use this to substitute mocks.
func WithProvider(provider ai.Provider) CorpusOption {
	return func(o *corpusOptions) {
		o.provider = provider
	}
}

// NewCorpus opens the vector index at indexPath (empty for in-memory) and
// wires it with the given source store and an AI provider.
func NewCorpus(indexPath string, src source.Store, opts ...CorpusOption) (*Corpus, error) {
	options := &corpusOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	idx, err := badger.Open(indexPath)
	if err != nil {
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			idx.Close()
			return nil, err
		}
	}

	return &Corpus{
		source:   src,
		index:    idx,
		provider: provider,
		logger:   slog.Default(),
	}, nil
}

// Close releases the AI provider and the index.
func (c *Corpus) Close() error {
	if err := c.provider.Close(); err != nil {
		c.logger.Error("error closing AI provider", "err", err)
	}
	if err := c.index.Close(); err != nil {
		c.logger.Error("error closing index", "err", err)
		return err
	}
	return nil
}

// Index returns the vector index store.
func (c *Corpus) Index() index.Store {
	return c.index
}

// Source returns the source file store.
func (c *Corpus) Source() source.Store {
	return c.source
}

// NewIngestionPipeline creates an ingestion pipeline over the corpus wiring.
func (c *Corpus) NewIngestionPipeline(opts ...ingest.Option) (*ingest.Pipeline, error) {
	return ingest.NewPipeline(c.source, c.index, c.provider.Embedder(), opts...)
}

// NewRetrievalEngine creates a retrieval engine over the corpus wiring.
func (c *Corpus) NewRetrievalEngine(opts ...retrieval.Option) (*retrieval.Engine, error) {
	return retrieval.NewEngine(c.provider.Embedder(), c.index, c.provider.Generator(), opts...)
}

// NewReviewer creates a content reviewer over the corpus wiring.
func (c *Corpus) NewReviewer(opts ...review.Option) (*review.Reviewer, error) {
	return review.NewReviewer(c.provider.Analyzer(), opts...)
}

// Sync ingests every file under a folder. See ingest.Pipeline.Sync for the
// failure isolation contract.
func (c *Corpus) Sync(ctx context.Context, folderID string, opts ...ingest.Option) (*core.SyncReport, error) {
	pipeline, err := c.NewIngestionPipeline(opts...)
	if err != nil {
		return nil, err
	}
	defer pipeline.Release()
	return pipeline.Sync(ctx, folderID)
}

// Ask answers a question grounded on the indexed corpus.
func (c *Corpus) Ask(ctx context.Context, question string, history []ai.Message) (*retrieval.Answer, error) {
	engine, err := c.NewRetrievalEngine()
	if err != nil {
		return nil, err
	}
	return engine.Ask(ctx, question, history)
}

// Preview returns the stored chunks of one document in sequence order.
func (c *Corpus) Preview(ctx context.Context, fileID string) ([]core.Chunk, error) {
	engine, err := c.NewRetrievalEngine()
	if err != nil {
		return nil, err
	}
	return engine.Preview(ctx, fileID)
}

// IngestDocument writes a derived artifact into the source store and
// indexes it in one step, returning the stored identity and the indexing
// outcome.
func (c *Corpus) IngestDocument(ctx context.Context, name string, data []byte, contentType, folderID string) (*source.StoredFile, core.FileOutcome, error) {
	stored, err := c.source.StoreBytes(ctx, name, data, contentType, folderID)
	if err != nil {
		return nil, core.FileOutcome{}, err
	}

	pipeline, err := c.NewIngestionPipeline()
	if err != nil {
		return stored, core.FileOutcome{}, err
	}
	defer pipeline.Release()

	file := core.SourceFile{
		ID:          stored.ID,
		Name:        name,
		ContentType: contentType,
	}
	return stored, pipeline.IngestDocument(ctx, file, data), nil
}
