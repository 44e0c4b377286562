// Package cache implements the tiered content-addressed result cache.
//
// Keys are derived from the audio content hash plus the normalized
// requested language, so byte-identical uploads share entries no
// matter what they were named. The fast tier is an in-process TTL
// map; the persistent tier is Redis. Gets promote persistent hits
// into the fast tier; Puts write through to the persistent tier and
// best-effort to the fast tier. An unreachable tier degrades to a
// miss or no-op — callers never see cache errors.
package cache
