package chunk

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"
)

// Chunk is a contiguous byte-bounded slice of an audio source, sized
// to satisfy the external API's payload limit. The 0-based Index
// reflects playback order and is the sole ordering key downstream;
// completion order carries no meaning.
type Chunk struct {
	// Index is the chunk's position in playback order.
	Index int `json:"index"`
	// Offset is the byte offset of the chunk within the source.
	Offset int64 `json:"offset"`
	// Length is the chunk's size in bytes.
	Length int64 `json:"length"`
	// EstimatedDuration is the chunk's share of the source duration,
	// proportional to its byte length.
	EstimatedDuration time.Duration `json:"estimated_duration"`
	// ContentHash is the hex-encoded SHA-256 of the chunk bytes.
	ContentHash string `json:"content_hash"`
}

// End returns the byte offset one past the chunk's last byte.
func (c Chunk) End() int64 {
	return c.Offset + c.Length
}

// Source is the audio input abstraction the splitter consumes. The
// library does not decode codecs; callers supply the total duration
// when they know it (a zero duration falls back to byte-proportional
// estimates downstream).
type Source interface {
	io.ReaderAt
	// Size returns the total size in bytes.
	Size() int64
	// Duration returns the total playback duration, or 0 when unknown.
	Duration() time.Duration
}

// FileSource is a Source backed by a file on disk.
type FileSource struct {
	f        *os.File
	size     int64
	duration time.Duration
}

// NewFileSource opens path as an audio source. duration may be zero
// when the caller has not probed the file.
func NewFileSource(path string, duration time.Duration) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open audio source: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat audio source: %w", err)
	}
	return &FileSource{f: f, size: info.Size(), duration: duration}, nil
}

func (s *FileSource) ReadAt(p []byte, off int64) (int, error) { return s.f.ReadAt(p, off) }
func (s *FileSource) Size() int64                             { return s.size }
func (s *FileSource) Duration() time.Duration                 { return s.duration }

// Close releases the underlying file.
func (s *FileSource) Close() error { return s.f.Close() }

// BytesSource is a Source backed by an in-memory byte slice.
type BytesSource struct {
	r        *bytes.Reader
	duration time.Duration
}

// NewBytesSource wraps data as an audio source.
func NewBytesSource(data []byte, duration time.Duration) *BytesSource {
	return &BytesSource{r: bytes.NewReader(data), duration: duration}
}

func (s *BytesSource) ReadAt(p []byte, off int64) (int, error) { return s.r.ReadAt(p, off) }
func (s *BytesSource) Size() int64                             { return s.r.Size() }
func (s *BytesSource) Duration() time.Duration                 { return s.duration }
