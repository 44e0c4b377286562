package pipeline

import "github.com/skillsenselab/scribekit/transcription"

// GapMarker is the placeholder text emitted for a permanently failed
// chunk so the transcript makes the gap visible instead of silently
// collapsing it.
const GapMarker = "[inaudible]"

// ChunkResult is the outcome of transcribing one chunk, produced
// either by a cache hit or by a provider call and consumed exactly
// once by the merger. Segment timestamps are relative to the chunk's
// own start.
type ChunkResult struct {
	// Index is the chunk's position in playback order.
	Index int `json:"index"`
	// Text is the chunk's transcription text.
	Text string `json:"text"`
	// Language is the detected or requested language for this chunk.
	Language string `json:"language,omitempty"`
	// Segments are time-aligned portions, 0-based within the chunk.
	Segments []transcription.Segment `json:"segments,omitempty"`
	// DurationMs is the chunk's audio duration in milliseconds.
	DurationMs int64 `json:"duration_ms"`
	// FromCache reports whether the result was served from cache.
	FromCache bool `json:"from_cache"`
}

// TranscriptResult is the merged whole-file transcript with aggregate
// run statistics.
type TranscriptResult struct {
	// Text is the space-joined transcript across all chunks.
	Text string `json:"text"`
	// Language is the dominant language across chunk results.
	Language string `json:"language,omitempty"`
	// Segments are time-aligned across the whole file; timestamps of
	// each chunk's segments are shifted by the cumulative duration of
	// all prior chunks.
	Segments []transcription.Segment `json:"segments,omitempty"`
	// ChunkCount is the number of chunks the file was split into.
	ChunkCount int `json:"chunk_count"`
	// CacheHits counts chunk results served from cache.
	CacheHits int `json:"cache_hits"`
	// PermanentGaps lists indices of chunks that failed permanently.
	PermanentGaps []int `json:"permanent_gaps,omitempty"`
	// DurationMs is the total audio duration in milliseconds.
	DurationMs int64 `json:"duration_ms"`
	// FromCache reports a whole-file cache hit (no chunking happened).
	FromCache bool `json:"from_cache"`
}
