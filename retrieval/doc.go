// Package retrieval ranks indexed chunks against a query and grounds
// generated answers on them. Retrieval degrades rather than fails: an
// unreachable index yields an answer without context, never an error.
package retrieval
