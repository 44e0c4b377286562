package cache

import (
	"context"
	"time"

	"github.com/skillsenselab/scribekit/logger"
)

// Tiered combines a fast local tier with a shared persistent tier.
//
// Get tries the fast tier first, then the persistent tier; a
// persistent hit is promoted into the fast tier before returning.
// Put writes to the persistent tier always and to the fast tier
// best-effort. Either tier failing degrades to a miss or no-op — the
// cache is never a correctness dependency, so tier errors are logged
// and absorbed.
type Tiered struct {
	fast       Store
	persistent Store
	log        *logger.Logger
}

// NewTiered creates a tiered cache. Either tier may be nil, in which
// case only the remaining tier is used.
func NewTiered(fast, persistent Store, log *logger.Logger) *Tiered {
	if log == nil {
		log = logger.Nop()
	}
	return &Tiered{
		fast:       fast,
		persistent: persistent,
		log:        log.WithComponent("cache"),
	}
}

// Get looks the key up across tiers with write-back promotion.
func (t *Tiered) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if t.fast != nil {
		value, found, err := t.fast.Get(ctx, key)
		if err != nil {
			t.log.Warn("fast tier get failed, treating as miss", logger.Fields(
				logger.FieldCacheTier, "fast", logger.FieldError, err.Error()))
		} else if found {
			return value, true, nil
		}
	}

	if t.persistent != nil {
		value, found, err := t.persistent.Get(ctx, key)
		if err != nil {
			t.log.Warn("persistent tier get failed, treating as miss", logger.Fields(
				logger.FieldCacheTier, "persistent", logger.FieldError, err.Error()))
			return nil, false, nil
		}
		if found {
			t.promote(ctx, key, value)
			return value, true, nil
		}
	}

	return nil, false, nil
}

// Put writes to the persistent tier always and the fast tier
// opportunistically. Failures are logged, never returned.
func (t *Tiered) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if t.persistent != nil {
		if err := t.persistent.Put(ctx, key, value, ttl); err != nil {
			t.log.Warn("persistent tier put failed, entry not persisted", logger.Fields(
				logger.FieldCacheTier, "persistent", logger.FieldError, err.Error()))
		}
	}

	if t.fast != nil {
		if err := t.fast.Put(ctx, key, value, ttl); err != nil {
			t.log.Warn("fast tier put skipped", logger.Fields(
				logger.FieldCacheTier, "fast", logger.FieldError, err.Error()))
		}
	}

	return nil
}

// Delete removes the key from both tiers.
func (t *Tiered) Delete(ctx context.Context, key string) error {
	if t.fast != nil {
		if err := t.fast.Delete(ctx, key); err != nil {
			t.log.Warn("fast tier delete failed", logger.Fields(
				logger.FieldCacheTier, "fast", logger.FieldError, err.Error()))
		}
	}
	if t.persistent != nil {
		if err := t.persistent.Delete(ctx, key); err != nil {
			t.log.Warn("persistent tier delete failed", logger.Fields(
				logger.FieldCacheTier, "persistent", logger.FieldError, err.Error()))
		}
	}
	return nil
}

// promote copies a persistent hit into the fast tier.
func (t *Tiered) promote(ctx context.Context, key string, value []byte) {
	if t.fast == nil {
		return
	}
	if err := t.fast.Put(ctx, key, value, DefaultTTL); err != nil {
		t.log.Debug("promotion to fast tier skipped", logger.Fields(
			logger.FieldCacheTier, "fast", logger.FieldError, err.Error()))
	}
}

// compile-time interface check
var _ Store = (*Tiered)(nil)
