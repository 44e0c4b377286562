package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Fatal errors (abort the whole run, never retried)
const (
	// ErrCodeAudioDecode indicates the audio source could not be read or split.
	ErrCodeAudioDecode ErrorCode = "AUDIO_DECODE_FAILED"
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// Transient errors (retried with backoff, isolated per chunk)
const (
	// ErrCodeTranscription indicates a single transcription call failed.
	ErrCodeTranscription ErrorCode = "TRANSCRIPTION_FAILED"
	// ErrCodeChunkTimeout indicates a chunk transcription call timed out.
	ErrCodeChunkTimeout ErrorCode = "CHUNK_TIMEOUT"
	// ErrCodeServiceUnavailable indicates the transcription backend is temporarily unavailable.
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	// ErrCodeRateLimited indicates the transcription backend rejected the call rate.
	ErrCodeRateLimited ErrorCode = "RATE_LIMITED"
)

// Degraded errors (absorbed, logged, never propagated)
const (
	// ErrCodeCacheUnavailable indicates a cache tier could not be reached.
	ErrCodeCacheUnavailable ErrorCode = "CACHE_UNAVAILABLE"
)

// Terminal errors
const (
	// ErrCodeRunCancelled indicates the run was cancelled by the caller.
	ErrCodeRunCancelled ErrorCode = "RUN_CANCELLED"
	// ErrCodeInternal indicates an internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeTranscription:      true,
	ErrCodeChunkTimeout:       true,
	ErrCodeServiceUnavailable: true,
	ErrCodeRateLimited:        true,
	ErrCodeCacheUnavailable:   true,
	ErrCodeAudioDecode:        false,
	ErrCodeInvalidInput:       false,
	ErrCodeRunCancelled:       false,
	ErrCodeInternal:           false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
