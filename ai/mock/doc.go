// Package mock provides test doubles for the ai interfaces.
//
// The doubles default to deterministic behavior (hash-derived vectors,
// canned answers) and accept injected functions for failure scenarios.
package mock
