package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Typed provides JSON-serialized get/put operations on any Store.
// The pipeline uses it to round-trip chunk and transcript results.
type Typed[T any] struct {
	store Store
}

// NewTyped creates a Typed view over a Store.
func NewTyped[T any](store Store) *Typed[T] {
	return &Typed[T]{store: store}
}

// Get deserializes the cached JSON value. Returns (nil, false, nil)
// on a miss. A corrupt entry is deleted and treated as a miss.
func (t *Typed[T]) Get(ctx context.Context, key string) (*T, bool, error) {
	raw, found, err := t.store.Get(ctx, key)
	if err != nil || !found {
		return nil, false, err
	}

	var val T
	if err := json.Unmarshal(raw, &val); err != nil {
		_ = t.store.Delete(ctx, key)
		return nil, false, nil
	}
	return &val, true, nil
}

// Put serializes to JSON and stores with TTL.
func (t *Typed[T]) Put(ctx context.Context, key string, val *T, ttl time.Duration) error {
	data, err := json.Marshal(val)
	if err != nil {
		return fmt.Errorf("typed cache marshal %q: %w", key, err)
	}
	return t.store.Put(ctx, key, data, ttl)
}

// Delete removes the key.
func (t *Typed[T]) Delete(ctx context.Context, key string) error {
	return t.store.Delete(ctx, key)
}
