// Package logger provides structured logging built on zerolog.
//
// Loggers are created per service and tagged per component. The
// pipeline packages attach domain fields (run_id, chunk_index,
// content_hash, cache_tier) through the Fields helper so log lines
// can be correlated across a transcription run.
//
//	log := logger.NewDefault("scribekit")
//	log.WithComponent("controller").Info("chunk done",
//		logger.Fields(logger.FieldChunkIndex, 3))
package logger
