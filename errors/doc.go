// Package errors defines the pipeline error taxonomy.
//
// Errors fall into four classes:
//
//   - fatal: the audio cannot be read or split; aborts the run
//   - transient: a single chunk call failed or timed out; retried
//   - degraded: a cache tier is unreachable; absorbed as a miss
//   - terminal: cancellation or exhausted retries
//
// IsRetryable feeds the resilience retry policy; only fatal and
// terminal errors ever escape the orchestrator.
package errors
