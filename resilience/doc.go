// Package resilience provides the fault-tolerance primitives the
// transcription pipeline is built from.
//
//   - Retry: exponential backoff with jitter for transient chunk failures
//   - Bulkhead: the counting admission gate bounding in-flight chunks
//   - RateLimiter: token bucket smoothing calls to the speech backend
//   - CircuitBreaker: fail-fast when the backend is persistently down
//
// Retry consults errors.IsRetryable by default, so fatal pipeline
// errors short-circuit instead of burning attempts.
package resilience
