// Package extract converts raw document bytes into plain text.
//
// Extraction is polymorphic over the declared content type: text formats
// pass through, HTML is stripped to its text nodes, DOCX and PDF go through
// format-specific decoders. Structurally invalid bytes produce an *Error;
// a valid document with no text produces an empty string, which callers
// must treat as a distinct, non-failing state.
package extract
