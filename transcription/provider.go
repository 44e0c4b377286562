package transcription

import "context"

// Provider is the interface that transcription backends must implement.
// Implementations receive chunk-sized byte payloads and must be safe
// for concurrent use.
type Provider interface {
	// Name returns the provider's registered name.
	Name() string

	// IsAvailable reports whether the backend can currently accept
	// requests.
	IsAvailable(ctx context.Context) bool

	// Transcribe sends audio for transcription and returns the result.
	Transcribe(ctx context.Context, req Request) (*Response, error)
}

// Factory creates a Provider from a generic config map.
type Factory func(cfg map[string]any) (Provider, error)
