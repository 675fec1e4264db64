// Package chunk segments plain text into bounded, overlapping fragments
// for embedding. See Split for the tiered fallback strategy.
package chunk
