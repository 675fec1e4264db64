package core

import (
	"encoding/binary"
	"strconv"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// SourceFile describes a document discovered in the remote file store.
// Files are re-discovered on every sync pass and are immutable for the
// duration of that pass.
type SourceFile struct {
	// ID is an opaque identifier assigned by the file store,
	// stable across sync passes.
	ID string

	// Name is the display name shown in reports and citations.
	Name string

	// ContentType is the declared MIME type of the file contents.
	ContentType string

	// ModifiedAt is the last-modified timestamp reported by the store.
	ModifiedAt time.Time
}

// Chunk is a bounded fragment of a document's text, the unit that is
// embedded, stored, and retrieved.
type Chunk struct {
	FileID string
	Seq    int // zero-based position within the source document
	Text   string
}

// VectorMetadata is the typed payload stored alongside each vector.
// All fields are populated at write time; legacy map-shaped records with
// alternate field names are normalized once at read time by the index store.
type VectorMetadata struct {
	FileID      string
	Name        string
	Text        string
	Seq         int
	ContentType string
}

// IndexedVector is an embedding plus its metadata, keyed so that
// re-ingesting a file overwrites its prior chunks instead of duplicating them.
type IndexedVector struct {
	ID       string
	Vector   []float32
	Metadata VectorMetadata
}

// RetrievalMatch is a single ranked hit from a vector index query.
type RetrievalMatch struct {
	ID       string
	Score    float32 // similarity in [0,1], higher is more relevant
	Metadata VectorMetadata
}

// VectorID derives the deterministic index identifier for a chunk from its
// owning file ID and sequence position.
func VectorID(fileID string, seq int) string {
	return fileID + "#" + strconv.Itoa(seq)
}

// KeyFromContent generates a deterministic 64-bit key from text using BLAKE2b.
// Identical content always produces the identical key.
func KeyFromContent(text string) uint64 {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return binary.LittleEndian.Uint64(sum)
}

// FileOutcome records what happened to a single file during a sync pass.
type FileOutcome struct {
	File SourceFile

	// Chunks is the number of chunks successfully embedded and upserted.
	Chunks int

	// TotalChunks is the number of chunks the document produced.
	TotalChunks int

	// Note records benign terminal states such as "empty file" or
	// "no text extracted". A file with a note and no error did not fail.
	Note string

	// Err is set only when the file produced zero indexed chunks for a
	// reason other than legitimate emptiness.
	Err string
}

// Failed reports whether the file contributed nothing to the index due to
// an actual failure rather than legitimate emptiness.
func (o *FileOutcome) Failed() bool {
	return o.Err != ""
}

// SyncReport is the aggregate, per-file outcome summary of one ingestion pass.
// A report is produced even when some or all files fail; only the inability
// to list source files at all aborts a sync.
type SyncReport struct {
	Files       []FileOutcome
	TotalChunks int
}

// FailedFiles returns the number of files that failed outright.
func (r *SyncReport) FailedFiles() int {
	n := 0
	for i := range r.Files {
		if r.Files[i].Failed() {
			n++
		}
	}
	return n
}

// Severity classifies how serious an analysis finding is.
type Severity int

const (
	SeverityLow Severity = iota + 1
	SeverityMedium
	SeverityHigh
)

// String returns the lowercase name of the severity tier.
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	default:
		return "unknown"
	}
}

// ParseSeverity maps a severity label to its tier. Unrecognized labels map
// to SeverityLow so a sloppy model response can only under-claim, and the
// count-based escalation still applies.
func ParseSeverity(s string) Severity {
	switch s {
	case "medium":
		return SeverityMedium
	case "high":
		return SeverityHigh
	default:
		return SeverityLow
	}
}

// Priority is an optional urgency tier attached to an analysis finding.
type Priority int

const (
	PriorityUnspecified Priority = iota
	PriorityLow
	PriorityMedium
	PriorityHigh
	PriorityImmediate
)

// String returns the lowercase name of the priority tier.
func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	case PriorityImmediate:
		return "immediate"
	default:
		return "unspecified"
	}
}

// ParsePriority maps a priority label to its tier. Unrecognized labels map
// to PriorityUnspecified.
func ParsePriority(s string) Priority {
	switch s {
	case "low":
		return PriorityLow
	case "medium":
		return PriorityMedium
	case "high":
		return PriorityHigh
	case "immediate":
		return PriorityImmediate
	default:
		return PriorityUnspecified
	}
}

// AnalysisIssue is a single finding from the content-review workflow,
// produced either by heuristic pattern rules or by model analysis.
type AnalysisIssue struct {
	Type        string
	Description string
	Severity    Severity

	// Current is the text the finding refers to; Suggested is an optional
	// replacement. Location identifies where in the document Current appears.
	Current   string
	Suggested string
	Location  string

	Priority Priority
}

// DedupKey derives the deduplication key for an issue. Two issues that refer
// to the same text at the same location are duplicates regardless of how
// they were found or described. Issues without current text fall back to
// the description so purely descriptive findings still deduplicate.
func (i *AnalysisIssue) DedupKey() uint64 {
	current := i.Current
	if current == "" {
		current = i.Description
	}
	return KeyFromContent(current + "|" + i.Location)
}
