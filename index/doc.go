// Package index defines the vector index contract: upsert, similarity
// query, and per-file projection. The badger subpackage provides a local
// implementation; remote vector databases can be dropped in behind the
// same interface.
package index
