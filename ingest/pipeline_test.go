package ingest

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/corpora/ai/mock"
	"github.com/poiesic/corpora/core"
	"github.com/poiesic/corpora/index"
	"github.com/poiesic/corpora/source"
)

// testSource implements source.Store over in-memory files.
type testSource struct {
	files   []core.SourceFile
	content map[string][]byte
	listErr error
}

func (s *testSource) ListFiles(ctx context.Context, folderID string) ([]core.SourceFile, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.files, nil
}

func (s *testSource) FetchFile(ctx context.Context, fileID, contentType string) ([]byte, error) {
	data, ok := s.content[fileID]
	if !ok {
		return nil, source.ErrNotFound
	}
	return data, nil
}

func (s *testSource) StoreBytes(ctx context.Context, name string, data []byte, contentType, folderID string) (*source.StoredFile, error) {
	return &source.StoredFile{ID: name}, nil
}

// testIndex implements index.Store over a map.
type testIndex struct {
	mu        sync.Mutex
	vectors   map[string]core.IndexedVector
	upsertErr error
}

func newTestIndex() *testIndex {
	return &testIndex{vectors: make(map[string]core.IndexedVector)}
}

func (s *testIndex) Upsert(ctx context.Context, vectors ...core.IndexedVector) error {
	if s.upsertErr != nil {
		return s.upsertErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range vectors {
		s.vectors[v.ID] = v
	}
	return nil
}

func (s *testIndex) Query(ctx context.Context, vector []float32, k int, filter *index.Filter) ([]core.RetrievalMatch, error) {
	return nil, nil
}

func (s *testIndex) ListByFile(ctx context.Context, fileID string) ([]core.RetrievalMatch, error) {
	return nil, nil
}

func (s *testIndex) Close() error { return nil }

func (s *testIndex) ids() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.vectors))
	for id := range s.vectors {
		out = append(out, id)
	}
	return out
}

func textFile(id, name string) core.SourceFile {
	return core.SourceFile{ID: id, Name: name, ContentType: "text/plain"}
}

const sampleText = "This is the first paragraph of a sample document used in tests.\n\n" +
	"This is the second paragraph, also comfortably above the minimum length."

func newTestPipeline(t *testing.T, src *testSource, idx *testIndex, opts ...Option) *Pipeline {
	t.Helper()
	p, err := NewPipeline(src, idx, mock.NewMockEmbedder(), opts...)
	require.NoError(t, err)
	t.Cleanup(p.Release)
	return p
}

func TestNewPipelineValidation(t *testing.T) {
	embedder := mock.NewMockEmbedder()

	_, err := NewPipeline(nil, newTestIndex(), embedder)
	assert.ErrorIs(t, err, ErrSourceRequired)

	_, err = NewPipeline(&testSource{}, nil, embedder)
	assert.ErrorIs(t, err, ErrIndexRequired)

	_, err = NewPipeline(&testSource{}, newTestIndex(), nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)
}

func TestSyncIndexesAllFiles(t *testing.T) {
	src := &testSource{
		files: []core.SourceFile{textFile("f1", "one.txt"), textFile("f2", "two.txt")},
		content: map[string][]byte{
			"f1": []byte(sampleText),
			"f2": []byte(sampleText),
		},
	}
	idx := newTestIndex()
	p := newTestPipeline(t, src, idx)

	report, err := p.Sync(context.Background(), "docs")
	require.NoError(t, err)

	require.Len(t, report.Files, 2)
	assert.Equal(t, 0, report.FailedFiles())
	assert.Equal(t, 4, report.TotalChunks)
	assert.ElementsMatch(t, []string{"f1#0", "f1#1", "f2#0", "f2#1"}, idx.ids())
}

// Three files where the middle one cannot be extracted: the report still has
// three entries and the totals reflect only the files that succeeded.
func TestSyncIsolatesFileFailure(t *testing.T) {
	bad := core.SourceFile{ID: "f2", Name: "two.docx",
		ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document"}
	src := &testSource{
		files: []core.SourceFile{textFile("f1", "one.txt"), bad, textFile("f3", "three.txt")},
		content: map[string][]byte{
			"f1": []byte(sampleText),
			"f2": []byte("this is not a zip archive"),
			"f3": []byte(sampleText),
		},
	}
	idx := newTestIndex()
	p := newTestPipeline(t, src, idx)

	report, err := p.Sync(context.Background(), "docs")
	require.NoError(t, err)

	require.Len(t, report.Files, 3)
	assert.Equal(t, 1, report.FailedFiles())

	failed := report.Files[1]
	assert.True(t, failed.Failed())
	assert.Equal(t, 0, failed.Chunks)
	assert.Contains(t, failed.Err, "extract")

	assert.Equal(t, 4, report.TotalChunks)
	assert.Len(t, idx.ids(), 4)
}

func TestSyncBenignOutcomes(t *testing.T) {
	src := &testSource{
		files: []core.SourceFile{
			textFile("empty", "empty.txt"),
			textFile("blank", "blank.txt"),
			textFile("short", "short.txt"),
		},
		content: map[string][]byte{
			"empty": {},
			"blank": []byte("   \n\n   "),
			"short": []byte("tiny"),
		},
	}
	p := newTestPipeline(t, src, newTestIndex())

	report, err := p.Sync(context.Background(), "")
	require.NoError(t, err)

	require.Len(t, report.Files, 3)
	assert.Equal(t, 0, report.FailedFiles(), "benign emptiness is not failure")
	assert.Equal(t, "empty file", report.Files[0].Note)
	assert.Equal(t, "no text extracted", report.Files[1].Note)
	assert.Equal(t, "no valid chunks", report.Files[2].Note)
}

func TestSyncFetchFailureIsRecorded(t *testing.T) {
	src := &testSource{
		files:   []core.SourceFile{textFile("gone", "gone.txt")},
		content: map[string][]byte{},
	}
	p := newTestPipeline(t, src, newTestIndex())

	report, err := p.Sync(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, report.Files, 1)
	assert.True(t, report.Files[0].Failed())
	assert.Contains(t, report.Files[0].Err, "fetch")
}

func TestSyncChunkFailureIsolation(t *testing.T) {
	src := &testSource{
		files:   []core.SourceFile{textFile("f1", "one.txt")},
		content: map[string][]byte{"f1": []byte(sampleText)},
	}
	idx := newTestIndex()

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		if strings.Contains(text, "second paragraph") {
			return nil, errors.New("embedding service hiccup")
		}
		return []float32{0.1, 0.2}, nil
	}

	p, err := NewPipeline(src, idx, embedder)
	require.NoError(t, err)
	defer p.Release()

	report, err := p.Sync(context.Background(), "")
	require.NoError(t, err)

	outcome := report.Files[0]
	assert.False(t, outcome.Failed(), "partial success is not failure")
	assert.Equal(t, 1, outcome.Chunks)
	assert.Equal(t, 2, outcome.TotalChunks)
	assert.ElementsMatch(t, []string{"f1#0"}, idx.ids())
}

func TestSyncAllChunksFailed(t *testing.T) {
	src := &testSource{
		files:   []core.SourceFile{textFile("f1", "one.txt")},
		content: map[string][]byte{"f1": []byte(sampleText)},
	}
	idx := newTestIndex()
	idx.upsertErr = errors.New("index down")

	p := newTestPipeline(t, src, idx)

	report, err := p.Sync(context.Background(), "")
	require.NoError(t, err)

	outcome := report.Files[0]
	assert.True(t, outcome.Failed())
	assert.Contains(t, outcome.Err, "all 2 chunks failed")
	assert.Contains(t, outcome.Err, "index down")
	assert.Equal(t, 2, outcome.TotalChunks)
}

func TestSyncListFailureIsFatal(t *testing.T) {
	src := &testSource{listErr: source.ErrAuth}
	p := newTestPipeline(t, src, newTestIndex())

	report, err := p.Sync(context.Background(), "")
	assert.Nil(t, report)
	assert.ErrorIs(t, err, ErrListSources)
	assert.ErrorIs(t, err, source.ErrAuth)
}

// Re-syncing an unchanged file overwrites the same ids instead of growing
// the index.
func TestSyncIdempotent(t *testing.T) {
	src := &testSource{
		files:   []core.SourceFile{textFile("f1", "one.txt")},
		content: map[string][]byte{"f1": []byte(sampleText)},
	}
	idx := newTestIndex()
	p := newTestPipeline(t, src, idx)

	_, err := p.Sync(context.Background(), "")
	require.NoError(t, err)
	first := idx.ids()

	_, err = p.Sync(context.Background(), "")
	require.NoError(t, err)

	assert.ElementsMatch(t, first, idx.ids())
}

func TestSyncWithWorkerPool(t *testing.T) {
	src := &testSource{
		files:   []core.SourceFile{textFile("f1", "one.txt")},
		content: map[string][]byte{"f1": []byte(sampleText)},
	}
	idx := newTestIndex()
	p := newTestPipeline(t, src, idx, WithPoolSize(4))

	report, err := p.Sync(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 2, report.TotalChunks)
	assert.Len(t, idx.ids(), 2)
}

func TestSyncCancelled(t *testing.T) {
	src := &testSource{
		files:   []core.SourceFile{textFile("f1", "one.txt")},
		content: map[string][]byte{"f1": []byte(sampleText)},
	}
	p := newTestPipeline(t, src, newTestIndex())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := p.Sync(ctx, "")
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, report)
	assert.Empty(t, report.Files)
}

func TestSyncCancelledMidPassKeepsPartialReport(t *testing.T) {
	src := &testSource{
		files: []core.SourceFile{textFile("f1", "one.txt"), textFile("f2", "two.txt")},
		content: map[string][]byte{
			"f1": []byte(sampleText),
			"f2": []byte(sampleText),
		},
	}
	idx := newTestIndex()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Cancel once the first file's chunks have embedded, so the pass is
	// interrupted between files.
	embedder := mock.NewMockEmbedder()
	var embedded int
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		embedded++
		if embedded == 2 {
			cancel()
		}
		return []float32{1, 0}, nil
	}

	p, err := NewPipeline(src, idx, embedder)
	require.NoError(t, err)
	t.Cleanup(p.Release)

	report, err := p.Sync(ctx, "")
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, report, "completed outcomes survive cancellation")
	require.Len(t, report.Files, 1)
	assert.Equal(t, "one.txt", report.Files[0].File.Name)
	assert.False(t, report.Files[0].Failed())
	assert.Equal(t, 2, report.TotalChunks)
	assert.ElementsMatch(t, []string{"f1#0", "f1#1"}, idx.ids())
}

func TestIngestDocument(t *testing.T) {
	idx := newTestIndex()
	p := newTestPipeline(t, &testSource{}, idx)

	file := core.SourceFile{ID: "doc-1", Name: "notes.txt", ContentType: "text/plain"}
	outcome := p.IngestDocument(context.Background(), file, []byte(sampleText))

	assert.False(t, outcome.Failed())
	assert.Equal(t, 2, outcome.Chunks)
	assert.ElementsMatch(t, []string{"doc-1#0", "doc-1#1"}, idx.ids())
}

func TestIngestDocumentRequiresID(t *testing.T) {
	p := newTestPipeline(t, &testSource{}, newTestIndex())

	outcome := p.IngestDocument(context.Background(), core.SourceFile{Name: "x"}, []byte("data"))
	assert.True(t, outcome.Failed())
}
