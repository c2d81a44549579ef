// Package llm wraps the remote language-model capabilities: chat completion
// over a role-tagged history window, and voice-note transcription. Failures
// carry the upstream diagnostic and are never retried here.
package llm
