// Package pipeline implements chunked-parallel audio transcription:
// a bounded-concurrency controller with per-chunk retry and caching, a
// timestamp-aligning merger, and an orchestrator that ties chunk
// sizing, splitting, caching and merging into one TranscribeFile
// operation.
//
//	orch, err := pipeline.NewOrchestrator(pipeline.Config{},
//		provider,
//		pipeline.WithCache(tiered),
//		pipeline.WithLogger(log),
//		pipeline.WithProgress(pipeline.ProgressFunc(func(done, total int) {
//			fmt.Printf("%d/%d\n", done, total)
//		})),
//	)
//	result, err := orch.TranscribeFile(ctx, src, "en")
//
// One permanently failed chunk never aborts a run: the merged
// transcript carries a gap marker for it and lists the index in
// PermanentGaps. The cache is content-addressed (chunk SHA-256 +
// requested language), so identical re-uploads are served without
// provider calls.
package pipeline
