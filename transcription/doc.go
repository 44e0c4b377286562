// Package transcription defines the transcription provider interface
// and common types for interacting with speech-to-text backends.
//
// Backends register a Factory in a Registry under a name; the pipeline
// resolves a Provider by name and optionally wraps it via
// WithResilience to add rate limiting, circuit breaking and a per-call
// timeout.
package transcription
