package extract

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"
)

// Content types with dedicated decoders.
const (
	TypeHTML  = "text/html"
	TypeXHTML = "application/xhtml+xml"
	TypeDocx  = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	TypePDF   = "application/pdf"
)

// Extractor converts raw file bytes plus a declared content type into plain
// text. It never decides whether a failure should skip a file; it reports
// what happened and leaves classification to the pipeline.
type Extractor struct {
	logger *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
	}
}

// NewExtractor creates a text extractor.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		logger: slog.Default().With("component", "extractor"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract converts data into plain text according to its declared content
// type. It returns a *Error when the bytes are structurally invalid for the
// type, and ("", nil) when the document is valid but contains no text.
func (e *Extractor) Extract(data []byte, contentType string) (string, error) {
	ct := normalizeContentType(contentType)

	switch {
	case ct == TypeHTML || ct == TypeXHTML:
		return e.extractHTML(data)
	case ct == TypeDocx:
		return e.extractDocx(data)
	case ct == TypePDF:
		return e.extractPDF(data)
	case strings.HasPrefix(ct, "text/") || ct == "application/json" || ct == "application/xml":
		return e.extractText(data, ct)
	default:
		return "", &Error{ContentType: contentType, Err: ErrUnsupportedType}
	}
}

// extractText handles the passthrough family: plain text, markdown, CSV,
// JSON. Invalid UTF-8 for a declared text type is structural invalidity.
func (e *Extractor) extractText(data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", nil
	}
	if !utf8.Valid(data) {
		return "", &Error{ContentType: contentType, Err: fmt.Errorf("not valid UTF-8 text")}
	}
	return string(data), nil
}

// normalizeContentType lowers the type and strips any parameters
// ("text/plain; charset=utf-8" matches as "text/plain").
func normalizeContentType(contentType string) string {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	return ct
}
