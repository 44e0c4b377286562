package chunk

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"time"

	"github.com/skillsenselab/scribekit/errors"
)

// Split cuts an audio source into ordered chunks of at most
// chunkSizeBytes. The chunks are contiguous, non-overlapping and
// cover the whole source; the final chunk takes any remainder.
// Per-chunk durations are proportional to byte length.
//
// Reading the source is the only failure mode and it is fatal: a
// partial chunk list is never returned.
func Split(src Source, chunkSizeBytes int64) ([]Chunk, error) {
	if src == nil {
		return nil, errors.InvalidInput("audio source is nil")
	}
	if chunkSizeBytes <= 0 {
		return nil, errors.InvalidInput("chunk size must be positive")
	}

	totalSize := src.Size()
	if totalSize <= 0 {
		return nil, errors.AudioDecode("source").WithDetail("size", totalSize)
	}

	totalDuration := src.Duration()

	count := int((totalSize + chunkSizeBytes - 1) / chunkSizeBytes)
	chunks := make([]Chunk, 0, count)

	var offset int64
	for i := 0; i < count; i++ {
		length := chunkSizeBytes
		if offset+length > totalSize {
			length = totalSize - offset
		}

		hash, err := hashRange(src, offset, length)
		if err != nil {
			return nil, errors.AudioDecode("source").WithCause(err).WithDetail("chunk_index", i)
		}

		chunks = append(chunks, Chunk{
			Index:             i,
			Offset:            offset,
			Length:            length,
			EstimatedDuration: proportionalDuration(totalDuration, length, totalSize),
			ContentHash:       hash,
		})
		offset += length
	}

	return chunks, nil
}

// HashSource computes the hex SHA-256 of the whole source. The
// orchestrator uses it for the whole-file cache key.
func HashSource(src Source) (string, error) {
	if src == nil {
		return "", errors.InvalidInput("audio source is nil")
	}
	hash, err := hashRange(src, 0, src.Size())
	if err != nil {
		return "", errors.AudioDecode("source").WithCause(err)
	}
	return hash, nil
}

// ReadChunk returns the raw bytes for a chunk.
func ReadChunk(src Source, c Chunk) ([]byte, error) {
	buf := make([]byte, c.Length)
	if _, err := io.ReadFull(io.NewSectionReader(src, c.Offset, c.Length), buf); err != nil {
		return nil, errors.AudioDecode("source").WithCause(err).WithDetail("chunk_index", c.Index)
	}
	return buf, nil
}

func hashRange(src Source, offset, length int64) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, io.NewSectionReader(src, offset, length)); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func proportionalDuration(total time.Duration, length, totalSize int64) time.Duration {
	if total <= 0 || totalSize <= 0 {
		return 0
	}
	return time.Duration(float64(total) * float64(length) / float64(totalSize))
}
