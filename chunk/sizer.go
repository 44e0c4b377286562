package chunk

import (
	"github.com/skillsenselab/scribekit/errors"
	"github.com/skillsenselab/scribekit/validation"
)

const megabyte = 1024 * 1024

// SizerConfig bounds the chunk size heuristic.
type SizerConfig struct {
	// MinChunkMB is the smallest chunk size the heuristic may pick.
	MinChunkMB int `mapstructure:"min_chunk_mb" validate:"omitempty,gte=1"`
	// MaxChunkMB is the largest chunk size the heuristic may pick.
	MaxChunkMB int `mapstructure:"max_chunk_mb" validate:"omitempty,gte=1"`
	// APILimitMB is the external API's maximum accepted payload size.
	// It always wins over the heuristic.
	APILimitMB int `mapstructure:"api_limit_mb" validate:"omitempty,gte=1"`
}

// ApplyDefaults sets the standard bounds.
func (c *SizerConfig) ApplyDefaults() {
	if c.MinChunkMB <= 0 {
		c.MinChunkMB = 10
	}
	if c.MaxChunkMB <= 0 {
		c.MaxChunkMB = 25
	}
	if c.APILimitMB <= 0 {
		c.APILimitMB = 25
	}
}

// Validate checks the configured bounds.
func (c *SizerConfig) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	if c.MinChunkMB > 0 && c.MaxChunkMB > 0 && c.MinChunkMB > c.MaxChunkMB {
		return errors.InvalidInput("min_chunk_mb must not exceed max_chunk_mb")
	}
	return nil
}

// ComputeChunkSize picks a chunk byte size and chunk count for a file.
//
// The base size follows the file-size tier (<50MB → 15MB, 50-100MB →
// 20MB, >100MB → 25MB), nudged by bitrate: high-bitrate audio (>320
// kbps) gets +5MB so chunks hold comparable playback time, low-bitrate
// audio (<128 kbps) gets -5MB. The result is clamped to
// [MinChunkMB, MaxChunkMB] and never exceeds APILimitMB.
//
// Pure function: identical inputs always produce identical results.
func (c SizerConfig) ComputeChunkSize(fileSizeBytes int64, bitrateKbps int) (chunkSizeBytes int64, count int) {
	c.ApplyDefaults()

	var sizeMB int
	switch {
	case fileSizeBytes < 50*megabyte:
		sizeMB = 15
	case fileSizeBytes <= 100*megabyte:
		sizeMB = 20
	default:
		sizeMB = 25
	}

	if bitrateKbps > 320 {
		sizeMB += 5
	} else if bitrateKbps > 0 && bitrateKbps < 128 {
		sizeMB -= 5
	}

	if sizeMB < c.MinChunkMB {
		sizeMB = c.MinChunkMB
	}
	if sizeMB > c.MaxChunkMB {
		sizeMB = c.MaxChunkMB
	}
	if sizeMB > c.APILimitMB {
		sizeMB = c.APILimitMB
	}

	chunkSizeBytes = int64(sizeMB) * megabyte
	count = int((fileSizeBytes + chunkSizeBytes - 1) / chunkSizeBytes)
	if count < 1 {
		count = 1
	}
	return chunkSizeBytes, count
}
