package source

import (
	"context"

	"github.com/poiesic/corpora/core"
)

// StoredFile identifies an artifact written back to the file store.
type StoredFile struct {
	ID       string
	ViewLink string // optional browser link, empty when the store has none
}

// Store is the remote file store the ingestion pipeline reads from and
// writes derived artifacts (such as transcripts) back to.
// Implementations must be thread-safe for concurrent use.
type Store interface {
	// ListFiles enumerates the files under a folder.
	// Fails with ErrAuth or ErrNotFound (wrapped).
	ListFiles(ctx context.Context, folderID string) ([]core.SourceFile, error)

	// FetchFile retrieves the raw bytes of a file. The declared content type
	// is passed through so stores that export documents on download
	// (e.g. office formats) can pick the export encoding.
	// Fails with ErrAuth or ErrPermission (wrapped).
	FetchFile(ctx context.Context, fileID, contentType string) ([]byte, error)

	// StoreBytes writes a derived artifact into a folder and returns its
	// identity in the store.
	StoreBytes(ctx context.Context, name string, data []byte, contentType, folderID string) (*StoredFile, error)
}
