package extract

import (
	"errors"
	"fmt"
)

// ErrUnsupportedType indicates the declared content type has no extractor.
var ErrUnsupportedType = errors.New("unsupported content type")

// Error reports that bytes were structurally invalid for their declared
// content type. It is a per-file, non-fatal condition: the pipeline records
// it in the file's outcome and moves on.
//
// A structurally valid document with no extractable text is NOT an Error;
// extraction returns an empty string instead, because that is a legitimate
// terminal state rather than a defect.
type Error struct {
	ContentType string
	Err         error
}

func (e *Error) Error() string {
	return fmt.Sprintf("extracting %s: %v", e.ContentType, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
