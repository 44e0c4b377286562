// Package errors provides unified error handling for the transcription
// pipeline. It implements structured error types with error codes and
// retryable detection so the retry layer can distinguish transient
// chunk failures from fatal run failures.
package errors

import (
	"errors"
	"fmt"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Retryable: IsRetryableCode(code),
	}
}

// IsRetryable reports whether err (or any error it wraps) is a
// retryable AppError. Unknown errors are treated as retryable so a
// raw network error from a backend still enters the retry path.
func IsRetryable(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Retryable
	}
	return true
}

// CodeOf returns the error code of err, or ErrCodeInternal for
// non-AppError values.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

// --- Common Error Constructors ---

// AudioDecode creates a fatal error for an audio source that cannot be read or split.
func AudioDecode(source string) *AppError {
	return &AppError{
		Code: ErrCodeAudioDecode, Message: fmt.Sprintf("audio source %q could not be decoded or split", source),
		Retryable: false,
		Details:   map[string]any{"source": source},
	}
}

// Transcription creates a transient error for a failed transcription call.
func Transcription(chunkIndex int) *AppError {
	return &AppError{
		Code: ErrCodeTranscription, Message: fmt.Sprintf("transcription of chunk %d failed", chunkIndex),
		Retryable: true,
		Details:   map[string]any{"chunk_index": chunkIndex},
	}
}

// ChunkTimeout creates a transient error for a chunk call that timed out.
func ChunkTimeout(chunkIndex int) *AppError {
	return &AppError{
		Code: ErrCodeChunkTimeout, Message: fmt.Sprintf("transcription of chunk %d timed out", chunkIndex),
		Retryable: true,
		Details:   map[string]any{"chunk_index": chunkIndex},
	}
}

// ServiceUnavailable creates a transient error for an unreachable backend.
func ServiceUnavailable(service string) *AppError {
	return &AppError{
		Code: ErrCodeServiceUnavailable, Message: fmt.Sprintf("%s is temporarily unavailable", service),
		Retryable: true,
		Details:   map[string]any{"service": service},
	}
}

// RateLimited creates a transient error for a rate-limited call.
func RateLimited(service string) *AppError {
	return &AppError{
		Code: ErrCodeRateLimited, Message: fmt.Sprintf("%s rejected the call rate", service),
		Retryable: true,
		Details:   map[string]any{"service": service},
	}
}

// CacheUnavailable creates a degraded error for an unreachable cache tier.
// The cache treats this as a miss; it never reaches the caller.
func CacheUnavailable(tier string) *AppError {
	return &AppError{
		Code: ErrCodeCacheUnavailable, Message: fmt.Sprintf("cache tier %q is unavailable", tier),
		Retryable: true,
		Details:   map[string]any{"tier": tier},
	}
}

// RunCancelled creates a terminal error for a cancelled run.
func RunCancelled(runID string) *AppError {
	return &AppError{
		Code: ErrCodeRunCancelled, Message: "transcription run was cancelled",
		Retryable: false,
		Details:   map[string]any{"run_id": runID},
	}
}

// InvalidInput creates a fatal error for invalid input.
func InvalidInput(message string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidInput, Message: message,
		Retryable: false,
	}
}

// Internal creates a new AppError for an internal error.
func Internal(message string) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: message,
		Retryable: false,
	}
}
