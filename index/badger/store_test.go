package badger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/corpora/core"
	"github.com/poiesic/corpora/index"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func vec(fileID string, seq int, vector []float32, text string) core.IndexedVector {
	return core.IndexedVector{
		ID:     core.VectorID(fileID, seq),
		Vector: vector,
		Metadata: core.VectorMetadata{
			FileID:      fileID,
			Name:        fileID + ".txt",
			Text:        text,
			Seq:         seq,
			ContentType: "text/plain",
		},
	}
}

func TestUpsertAndQuery(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx,
		vec("a", 0, []float32{1, 0, 0}, "exact match"),
		vec("a", 1, []float32{0.5, 0.5, 0}, "partial match"),
		vec("b", 0, []float32{0, 0, 1}, "orthogonal"),
	))

	matches, err := s.Query(ctx, []float32{1, 0, 0}, 10, nil)
	require.NoError(t, err)
	require.Len(t, matches, 3)

	assert.Equal(t, "a#0", matches[0].ID)
	assert.InDelta(t, 1.0, matches[0].Score, 1e-6)
	assert.Equal(t, "a#1", matches[1].ID)
	assert.Equal(t, "b#0", matches[2].ID)
	assert.Equal(t, "exact match", matches[0].Metadata.Text)
}

func TestQueryLimitsToK(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for seq := 0; seq < 8; seq++ {
		require.NoError(t, s.Upsert(ctx, vec("a", seq, []float32{1, float32(seq)}, "t")))
	}

	matches, err := s.Query(ctx, []float32{1, 0}, 3, nil)
	require.NoError(t, err)
	assert.Len(t, matches, 3)
}

func TestQueryWithFileFilter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx,
		vec("a", 0, []float32{1, 0}, "from a"),
		vec("b", 0, []float32{1, 0}, "from b"),
	))

	matches, err := s.Query(ctx, []float32{1, 0}, 10, &index.Filter{FileID: "b"})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "b#0", matches[0].ID)
}

// Upserting the same id replaces the record, so a re-ingested file never
// duplicates its chunks.
func TestUpsertOverwrites(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, vec("a", 0, []float32{1, 0}, "old text")))
	require.NoError(t, s.Upsert(ctx, vec("a", 0, []float32{0, 1}, "new text")))

	matches, err := s.Query(ctx, []float32{0, 1}, 10, nil)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "new text", matches[0].Metadata.Text)
	assert.InDelta(t, 1.0, matches[0].Score, 1e-6)
}

func TestListByFileOrdersBySequence(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	// Insert out of order across two files.
	require.NoError(t, s.Upsert(ctx,
		vec("a", 2, []float32{1}, "third"),
		vec("b", 0, []float32{1}, "other file"),
		vec("a", 0, []float32{1}, "first"),
		vec("a", 1, []float32{1}, "second"),
	))

	matches, err := s.ListByFile(ctx, "a")
	require.NoError(t, err)

	require.Len(t, matches, 3)
	assert.Equal(t, []string{"first", "second", "third"},
		[]string{matches[0].Metadata.Text, matches[1].Metadata.Text, matches[2].Metadata.Text})
	for _, m := range matches {
		assert.Zero(t, m.Score, "projection carries no similarity score")
	}
}

func TestListByFileUnknownFile(t *testing.T) {
	s := openTestStore(t)

	matches, err := s.ListByFile(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestQueryEmptyStore(t *testing.T) {
	s := openTestStore(t)

	matches, err := s.Query(context.Background(), []float32{1, 0}, 5, nil)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestClosedStore(t *testing.T) {
	s, err := Open("")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	err = s.Upsert(context.Background(), vec("a", 0, []float32{1}, "t"))
	assert.ErrorIs(t, err, index.ErrClosed)

	_, err = s.Query(context.Background(), []float32{1}, 5, nil)
	assert.ErrorIs(t, err, index.ErrClosed)
}

func TestRecordRoundTrip(t *testing.T) {
	original := vec("file-1", 7, []float32{0.1, -0.5, 3.25}, "round trip text")

	decoded, err := UnmarshalRecord(MarshalRecord(&original))
	require.NoError(t, err)
	assert.Equal(t, original, *decoded)
}

// Records written before the MUS codec were JSON with map metadata and
// drifting field names; the decoder normalizes them on read.
func TestUnmarshalLegacyJSONRecord(t *testing.T) {
	legacy := []byte(`{
		"id": "old#0",
		"vector": [0.25, 0.75],
		"metadata": {
			"file_id": "old",
			"fileName": "old.txt",
			"content": "legacy chunk text",
			"chunkIndex": 4,
			"mime_type": "text/plain"
		}
	}`)

	record, err := UnmarshalRecord(legacy)
	require.NoError(t, err)

	assert.Equal(t, "old#0", record.ID)
	assert.Equal(t, []float32{0.25, 0.75}, record.Vector)
	assert.Equal(t, "old", record.Metadata.FileID)
	assert.Equal(t, "old.txt", record.Metadata.Name)
	assert.Equal(t, "legacy chunk text", record.Metadata.Text)
	assert.Equal(t, 4, record.Metadata.Seq)
	assert.Equal(t, "text/plain", record.Metadata.ContentType)
}

func TestUnmarshalGarbage(t *testing.T) {
	_, err := UnmarshalRecord([]byte{})
	assert.ErrorIs(t, err, index.ErrSerializationFailed)
}
