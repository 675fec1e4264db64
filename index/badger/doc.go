// Package badger implements the vector index on BadgerDB. Records are
// MUS-serialized; queries are a full scan with dot-product scoring, which
// is adequate for corpora up to a few hundred thousand chunks.
package badger
