// Package chunk computes chunk sizes and splits audio sources into
// ordered, content-hashed byte ranges.
//
// ComputeChunkSize is a pure heuristic over file size and bitrate,
// hard-capped by the external API's payload limit. Split produces
// contiguous chunks whose union covers the source exactly, each
// carrying a SHA-256 content hash that keys the result cache.
package chunk
