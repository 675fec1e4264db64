package core

import "fmt"

// ValidateSourceFile checks that a source file has the fields the pipeline
// depends on. Display name and content type may be empty; the pipeline
// substitutes defaults for both.
func ValidateSourceFile(f *SourceFile) error {
	if f == nil {
		return ErrInvalidSourceFile
	}
	if f.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidSourceFile, ErrEmptyFileID)
	}
	return nil
}

// ValidateChunk checks that a chunk is well-formed before it is embedded
// and upserted.
func ValidateChunk(c *Chunk) error {
	if c == nil {
		return ErrInvalidChunk
	}
	if c.FileID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyFileID)
	}
	if c.Seq < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrNegativeChunkSeq)
	}
	if c.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyChunkText)
	}
	return nil
}

// ValidateSeverity checks that a severity value is one of the defined tiers.
func ValidateSeverity(s Severity) error {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return nil
	default:
		return fmt.Errorf("%w: %d", ErrInvalidSeverity, s)
	}
}
