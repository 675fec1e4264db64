package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVectorID(t *testing.T) {
	assert.Equal(t, "file-1#0", VectorID("file-1", 0))
	assert.Equal(t, "file-1#12", VectorID("file-1", 12))
}

func TestKeyFromContentDeterministic(t *testing.T) {
	a := KeyFromContent("some content")
	b := KeyFromContent("some content")
	c := KeyFromContent("other content")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestFileOutcomeFailed(t *testing.T) {
	ok := FileOutcome{Chunks: 3}
	assert.False(t, ok.Failed())

	skipped := FileOutcome{Note: "empty file"}
	assert.False(t, skipped.Failed(), "a note is not a failure")

	failed := FileOutcome{Err: "fetch: boom"}
	assert.True(t, failed.Failed())
}

func TestSyncReportFailedFiles(t *testing.T) {
	report := SyncReport{Files: []FileOutcome{
		{Chunks: 2},
		{Err: "extract: bad"},
		{Note: "no text extracted"},
		{Err: "fetch: gone"},
	}}
	assert.Equal(t, 2, report.FailedFiles())
}

func TestSeverityString(t *testing.T) {
	assert.Equal(t, "low", SeverityLow.String())
	assert.Equal(t, "medium", SeverityMedium.String())
	assert.Equal(t, "high", SeverityHigh.String())
	assert.Equal(t, "unknown", Severity(0).String())
}

func TestParseSeverity(t *testing.T) {
	assert.Equal(t, SeverityHigh, ParseSeverity("high"))
	assert.Equal(t, SeverityMedium, ParseSeverity("medium"))
	assert.Equal(t, SeverityLow, ParseSeverity("low"))
	assert.Equal(t, SeverityLow, ParseSeverity("bogus"), "unknown labels under-claim")
}

func TestParsePriority(t *testing.T) {
	assert.Equal(t, PriorityImmediate, ParsePriority("immediate"))
	assert.Equal(t, PriorityHigh, ParsePriority("high"))
	assert.Equal(t, PriorityUnspecified, ParsePriority(""))
	assert.Equal(t, PriorityUnspecified, ParsePriority("someday"))
}

func TestAnalysisIssueDedupKey(t *testing.T) {
	a := AnalysisIssue{Description: "first description", Current: "same text", Location: "line 3"}
	b := AnalysisIssue{Description: "second description", Current: "same text", Location: "line 3"}
	assert.Equal(t, a.DedupKey(), b.DedupKey(), "description does not affect identity")

	c := AnalysisIssue{Current: "same text", Location: "line 4"}
	assert.NotEqual(t, a.DedupKey(), c.DedupKey())

	// Without current text the description is the identity.
	d := AnalysisIssue{Description: "finding", Location: "line 1"}
	e := AnalysisIssue{Description: "finding", Location: "line 1"}
	assert.Equal(t, d.DedupKey(), e.DedupKey())
}

func TestValidateSourceFile(t *testing.T) {
	assert.ErrorIs(t, ValidateSourceFile(nil), ErrInvalidSourceFile)
	assert.ErrorIs(t, ValidateSourceFile(&SourceFile{}), ErrEmptyFileID)
	assert.NoError(t, ValidateSourceFile(&SourceFile{ID: "f1"}))
}

func TestValidateChunk(t *testing.T) {
	assert.ErrorIs(t, ValidateChunk(nil), ErrInvalidChunk)
	assert.ErrorIs(t, ValidateChunk(&Chunk{Seq: 0, Text: "t"}), ErrEmptyFileID)
	assert.ErrorIs(t, ValidateChunk(&Chunk{FileID: "f", Seq: -1, Text: "t"}), ErrNegativeChunkSeq)
	assert.ErrorIs(t, ValidateChunk(&Chunk{FileID: "f", Seq: 0}), ErrEmptyChunkText)
	assert.NoError(t, ValidateChunk(&Chunk{FileID: "f", Seq: 0, Text: "t"}))
}
