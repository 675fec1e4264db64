package index

import (
	"encoding/json"

	"github.com/poiesic/corpora/core"
)

// NormalizeMetadata converts a loosely-typed metadata map into the typed
// structure. Earlier deployments stored metadata as JSON maps with drifting
// field names (fileId vs file_id, content vs text); this is the single
// place those variants are resolved, so no fallback chains leak into the
// read paths.
func NormalizeMetadata(m map[string]any) core.VectorMetadata {
	return core.VectorMetadata{
		FileID:      firstString(m, "fileId", "file_id", "fileID", "source"),
		Name:        firstString(m, "name", "title", "fileName", "file_name"),
		Text:        firstString(m, "text", "content", "chunk"),
		Seq:         firstInt(m, "seq", "chunkIndex", "chunk_index"),
		ContentType: firstString(m, "contentType", "content_type", "mimeType", "mime_type"),
	}
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

func firstInt(m map[string]any, keys ...string) int {
	for _, k := range keys {
		v, ok := m[k]
		if !ok {
			continue
		}
		switch n := v.(type) {
		case int:
			return n
		case float64: // encoding/json default for numbers
			return int(n)
		case json.Number:
			if i, err := n.Int64(); err == nil {
				return int(i)
			}
		}
	}
	return 0
}
