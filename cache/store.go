package cache

import (
	"context"
	"strings"
	"time"
)

// DefaultTTL is the default lifetime for transcription cache entries.
const DefaultTTL = 24 * time.Hour

// Store is the uniform interface both cache tiers implement.
type Store interface {
	// Get retrieves a value by key. A missing or expired entry returns
	// found == false with a nil error.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// Put stores a value with a TTL. TTL of 0 means no expiration.
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes the key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// Key builds the content-addressed cache key: the hex content hash
// joined with the normalized requested language. Identical audio bytes
// with the same requested language always collide to the same entry
// regardless of the upload name; requesting a different language
// produces an independent key.
func Key(contentHash, language string) string {
	return contentHash + ":" + NormalizeLanguage(language)
}

// NormalizeLanguage lowercases and trims a language code, mapping the
// empty string to "auto".
func NormalizeLanguage(language string) string {
	lang := strings.ToLower(strings.TrimSpace(language))
	if lang == "" {
		return "auto"
	}
	return lang
}
