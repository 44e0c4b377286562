package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	err := New(ErrCodeTranscription, "chunk failed")
	want := "TRANSCRIPTION_FAILED: chunk failed"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}

	withCause := New(ErrCodeTranscription, "chunk failed").WithCause(stderrors.New("boom"))
	want = "TRANSCRIPTION_FAILED: chunk failed (cause: boom)"
	if withCause.Error() != want {
		t.Errorf("expected %q, got %q", want, withCause.Error())
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := stderrors.New("connection reset")
	err := ServiceUnavailable("whisper").WithCause(cause)

	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"transcription failure", Transcription(2), true},
		{"chunk timeout", ChunkTimeout(0), true},
		{"rate limited", RateLimited("whisper"), true},
		{"audio decode", AudioDecode("broken.mp3"), false},
		{"invalid input", InvalidInput("empty source"), false},
		{"run cancelled", RunCancelled("abc"), false},
		{"wrapped transient", fmt.Errorf("outer: %w", ChunkTimeout(1)), true},
		{"wrapped fatal", fmt.Errorf("outer: %w", AudioDecode("x")), false},
		{"unknown error", stderrors.New("network blip"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(AudioDecode("f")); got != ErrCodeAudioDecode {
		t.Errorf("expected AUDIO_DECODE_FAILED, got %s", got)
	}
	if got := CodeOf(stderrors.New("plain")); got != ErrCodeInternal {
		t.Errorf("expected INTERNAL_ERROR for plain error, got %s", got)
	}
}

func TestWithDetail(t *testing.T) {
	err := Transcription(3).WithDetail("attempt", 2)
	if err.Details["attempt"] != 2 {
		t.Errorf("expected detail attempt=2, got %v", err.Details["attempt"])
	}
	if err.Details["chunk_index"] != 3 {
		t.Errorf("expected constructor detail preserved, got %v", err.Details["chunk_index"])
	}
}
