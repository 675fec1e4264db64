package index

import (
	"context"

	"github.com/poiesic/corpora/core"
)

// Filter restricts a query to a subset of the index.
type Filter struct {
	// FileID limits matches to chunks of one source file.
	FileID string
}

// Store is the vector index consumed by the ingestion and retrieval
// pipelines. Implementations must be thread-safe and support concurrent
// access.
type Store interface {
	// Upsert inserts or overwrites vectors by ID. IDs are deterministic
	// per (file, chunk) so re-ingesting a file replaces its prior chunks
	// rather than duplicating them.
	Upsert(ctx context.Context, vectors ...core.IndexedVector) error

	// Query returns up to k matches most similar to the given vector,
	// ordered by similarity score descending. A nil filter searches the
	// whole index.
	Query(ctx context.Context, vector []float32, k int, filter *Filter) ([]core.RetrievalMatch, error)

	// ListByFile returns all stored chunks of one source file, ordered by
	// chunk sequence index ascending. Scores are zero; this is a
	// projection, not a similarity search.
	ListByFile(ctx context.Context, fileID string) ([]core.RetrievalMatch, error)

	// Close closes the index and releases resources.
	Close() error
}
