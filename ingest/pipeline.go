package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/corpora/ai"
	"github.com/poiesic/corpora/chunk"
	"github.com/poiesic/corpora/core"
	"github.com/poiesic/corpora/extract"
	"github.com/poiesic/corpora/index"
	"github.com/poiesic/corpora/source"
)

// Pipeline turns source files into indexed vectors. Files are processed
// sequentially to bound load on the embedding service; chunks within a
// file go through a worker pool.
type Pipeline struct {
	source    source.Store
	index     index.Store
	embedder  ai.Embedder
	extractor *extract.Extractor
	chunkCfg  chunk.Config
	pool      *ants.Pool
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for chunk embedding within a file.
// Default is 1, which keeps chunk processing sequential.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithChunkConfig overrides the default chunking parameters.
func WithChunkConfig(cfg chunk.Config) Option {
	return func(p *Pipeline) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		p.chunkCfg = cfg
		return nil
	}
}

// NewPipeline creates an ingestion pipeline.
func NewPipeline(src source.Store, idx index.Store, embedder ai.Embedder, opts ...Option) (*Pipeline, error) {
	if src == nil {
		return nil, ErrSourceRequired
	}
	if idx == nil {
		return nil, ErrIndexRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	pool, err := ants.NewPool(1)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		source:    src,
		index:     idx,
		embedder:  embedder,
		extractor: extract.NewExtractor(),
		chunkCfg:  chunk.DefaultConfig(),
		pool:      pool,
		logger:    slog.Default().With("component", "ingest"),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Sync ingests every file under a folder and reports the per-file outcomes.
// A file that fails does not abort the pass; within a file, a chunk that
// fails does not abort the file. The only fatal condition is the inability
// to list the source files at all.
//
// When the context ends mid-pass the remaining files are skipped and the
// report of already-completed files is returned together with the context
// error. Partial progress is never discarded.
func (p *Pipeline) Sync(ctx context.Context, folderID string) (*core.SyncReport, error) {
	files, err := p.source.ListFiles(ctx, folderID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrListSources, err)
	}

	p.logger.Info("sync started", "folder", folderID, "files", len(files))

	report := &core.SyncReport{
		Files: make([]core.FileOutcome, 0, len(files)),
	}

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			p.logger.Warn("sync interrupted",
				"folder", folderID, "completed", len(report.Files), "err", err)
			return report, err
		}

		outcome := p.processFile(ctx, file)
		report.Files = append(report.Files, outcome)
		report.TotalChunks += outcome.Chunks

		switch {
		case outcome.Failed():
			p.logger.Error("file failed", "file", file.Name, "err", outcome.Err)
		case outcome.Note != "":
			p.logger.Info("file skipped", "file", file.Name, "note", outcome.Note)
		default:
			p.logger.Info("file indexed", "file", file.Name,
				"chunks", outcome.Chunks, "total", outcome.TotalChunks)
		}
	}

	p.logger.Info("sync finished",
		"files", len(report.Files),
		"failed", report.FailedFiles(),
		"chunks", report.TotalChunks)

	return report, nil
}

// IngestDocument indexes a document whose bytes the caller already holds,
// bypassing the source store fetch. Used for derived artifacts that are
// written and indexed in one step.
func (p *Pipeline) IngestDocument(ctx context.Context, file core.SourceFile, data []byte) core.FileOutcome {
	if err := core.ValidateSourceFile(&file); err != nil {
		return core.FileOutcome{File: file, Err: err.Error()}
	}
	return p.processBytes(ctx, file, data)
}

// processFile runs the full per-file sequence: fetch, extract, chunk,
// embed, upsert. Every failure is captured in the outcome; nothing
// escapes to abort the sync pass.
func (p *Pipeline) processFile(ctx context.Context, file core.SourceFile) core.FileOutcome {
	data, err := p.source.FetchFile(ctx, file.ID, file.ContentType)
	if err != nil {
		return core.FileOutcome{File: file, Err: fmt.Sprintf("fetch: %v", err)}
	}
	return p.processBytes(ctx, file, data)
}

func (p *Pipeline) processBytes(ctx context.Context, file core.SourceFile, data []byte) core.FileOutcome {
	outcome := core.FileOutcome{File: file}

	if len(data) == 0 {
		outcome.Note = "empty file"
		return outcome
	}

	text, err := p.extractor.Extract(data, file.ContentType)
	if err != nil {
		outcome.Err = fmt.Sprintf("extract: %v", err)
		return outcome
	}
	if strings.TrimSpace(text) == "" {
		outcome.Note = "no text extracted"
		return outcome
	}

	fragments := chunk.Split(text, p.chunkCfg)
	if len(fragments) == 0 {
		outcome.Note = "no valid chunks"
		return outcome
	}
	outcome.TotalChunks = len(fragments)

	succeeded, firstErr := p.indexChunks(ctx, file, fragments)
	outcome.Chunks = succeeded
	if succeeded == 0 {
		outcome.Err = fmt.Sprintf("all %d chunks failed: %v", len(fragments), firstErr)
	}
	return outcome
}

// indexChunks embeds and upserts each fragment through the worker pool.
// A failed chunk is logged and skipped. Returns the success count and the
// first error seen, which the caller surfaces only when nothing succeeded.
func (p *Pipeline) indexChunks(ctx context.Context, file core.SourceFile, fragments []string) (int, error) {
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		firstErr  error
	)

	record := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if err == nil {
			succeeded++
		} else if firstErr == nil {
			firstErr = err
		}
	}

	for seq, text := range fragments {
		if err := ctx.Err(); err != nil {
			record(err)
			break
		}

		wg.Add(1)
		task := func() {
			defer wg.Done()
			err := p.indexChunk(ctx, file, seq, text)
			if err != nil {
				p.logger.Error("chunk failed",
					"file", file.Name, "seq", seq, "err", err)
			}
			record(err)
		}

		// A released pool rejects submissions; fall back to inline execution
		// so the chunk is still counted.
		if err := p.pool.Submit(task); err != nil {
			task()
		}
	}

	wg.Wait()
	return succeeded, firstErr
}

func (p *Pipeline) indexChunk(ctx context.Context, file core.SourceFile, seq int, text string) error {
	vector, err := p.embedder.EmbedText(ctx, text)
	if err != nil {
		return fmt.Errorf("embed: %w", err)
	}

	vec := core.IndexedVector{
		ID:     core.VectorID(file.ID, seq),
		Vector: vector,
		Metadata: core.VectorMetadata{
			FileID:      file.ID,
			Name:        file.Name,
			Text:        text,
			Seq:         seq,
			ContentType: file.ContentType,
		},
	}

	if err := p.index.Upsert(ctx, vec); err != nil {
		return fmt.Errorf("upsert: %w", err)
	}
	return nil
}

// Release releases the worker pool. The pipeline falls back to inline
// chunk processing after release, so in-flight syncs still complete.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
