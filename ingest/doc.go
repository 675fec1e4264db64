// Package ingest implements the document ingestion pipeline: fetch,
// extract, chunk, embed, upsert. Its defining property is two-level
// failure isolation. A malformed file costs only that file, and a failed
// chunk costs only that chunk; the rest of the batch always lands.
package ingest
