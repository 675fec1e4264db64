// Package openai implements the ai interfaces against OpenAI-compatible
// services (OpenAI, Ollama, LocalAI, vLLM).
//
// Clients retry transient failures internally with exponential backoff, so
// callers see exactly one outcome per embedding or generation call.
package openai
