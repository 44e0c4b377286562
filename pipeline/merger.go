package pipeline

import (
	"strings"

	"github.com/skillsenselab/scribekit/chunk"
	"github.com/skillsenselab/scribekit/transcription"
)

// Merge reassembles chunk results into one transcript. Chunks are
// visited in index order regardless of completion order; each chunk's
// segments are shifted by the cumulative duration of all prior chunks.
//
// A missing index means the chunk failed permanently: the merger emits
// a zero-duration GapMarker segment pinned at the gap's start, records
// the index in PermanentGaps, and advances the offset by the chunk's
// estimated duration so later timestamps stay aligned.
//
// Dominant language is the most frequent language across present
// results, ties broken by the language seen at the lowest index.
func Merge(results map[int]ChunkResult, chunks []chunk.Chunk) *TranscriptResult {
	out := &TranscriptResult{ChunkCount: len(chunks)}

	var parts []string
	var offsetSec float64
	langCount := make(map[string]int)
	langFirst := make(map[string]int)

	for i, ch := range chunks {
		res, ok := results[i]
		if !ok {
			out.PermanentGaps = append(out.PermanentGaps, i)
			parts = append(parts, GapMarker)
			out.Segments = append(out.Segments, transcription.Segment{
				Start: offsetSec,
				End:   offsetSec,
				Text:  GapMarker,
			})
			offsetSec += ch.EstimatedDuration.Seconds()
			continue
		}

		if text := strings.TrimSpace(res.Text); text != "" {
			parts = append(parts, text)
		}
		for _, seg := range res.Segments {
			out.Segments = append(out.Segments, transcription.Segment{
				Start: seg.Start + offsetSec,
				End:   seg.End + offsetSec,
				Text:  seg.Text,
			})
		}
		if res.FromCache {
			out.CacheHits++
		}
		if lang := res.Language; lang != "" {
			if _, seen := langFirst[lang]; !seen {
				langFirst[lang] = i
			}
			langCount[lang]++
		}

		dur := float64(res.DurationMs) / 1000
		if dur <= 0 {
			dur = ch.EstimatedDuration.Seconds()
		}
		offsetSec += dur
	}

	out.Text = strings.Join(parts, " ")
	out.DurationMs = int64(offsetSec * 1000)
	out.Language = dominantLanguage(langCount, langFirst)
	return out
}

// dominantLanguage picks the most frequent language; on a tie the
// language first seen at the lowest chunk index wins.
func dominantLanguage(count map[string]int, first map[string]int) string {
	var best string
	for lang, n := range count {
		switch {
		case best == "", n > count[best]:
			best = lang
		case n == count[best] && first[lang] < first[best]:
			best = lang
		}
	}
	return best
}
