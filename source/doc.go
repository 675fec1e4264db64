// Package source defines the remote file store contract consumed by the
// ingestion pipeline: list a folder, fetch file bytes, store derived
// artifacts. Credential and session management belong to the
// implementations; the pipeline only sees typed failures.
package source
