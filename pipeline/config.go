package pipeline

import (
	"time"

	"github.com/skillsenselab/scribekit/cache"
	"github.com/skillsenselab/scribekit/validation"
)

// Config holds the pipeline's tunable parameters.
type Config struct {
	// MaxConcurrency bounds in-flight chunk transcriptions.
	MaxConcurrency int `json:"max_concurrency" yaml:"max_concurrency" mapstructure:"max_concurrency" validate:"min=0"`
	// MaxRetries is the attempt budget per chunk (including the first).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries" validate:"min=0"`
	// RetryBaseDelay is the initial backoff, doubled per attempt.
	RetryBaseDelay time.Duration `json:"retry_base_delay" yaml:"retry_base_delay" mapstructure:"retry_base_delay"`
	// ChunkTimeout bounds each transcription attempt; a timed-out
	// attempt fails like any other and re-enters the retry path.
	// Zero disables the per-attempt deadline.
	ChunkTimeout time.Duration `json:"chunk_timeout" yaml:"chunk_timeout" mapstructure:"chunk_timeout"`
	// CacheTTL is the lifetime of cache entries written by the run.
	CacheTTL time.Duration `json:"cache_ttl" yaml:"cache_ttl" mapstructure:"cache_ttl"`
	// Model is the transcription model passed to the provider; empty
	// uses the provider's default.
	Model string `json:"model,omitempty" yaml:"model" mapstructure:"model"`
	// Format is the response format passed to the provider.
	Format string `json:"format,omitempty" yaml:"format" mapstructure:"format"`
}

// ApplyDefaults fills in zero values with defaults.
func (c *Config) ApplyDefaults() {
	if c.MaxConcurrency <= 0 {
		c.MaxConcurrency = 4
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	if c.RetryBaseDelay <= 0 {
		c.RetryBaseDelay = time.Second
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = cache.DefaultTTL
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	return validation.Validate(c)
}
