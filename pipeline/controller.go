package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/skillsenselab/scribekit/cache"
	"github.com/skillsenselab/scribekit/chunk"
	"github.com/skillsenselab/scribekit/errors"
	"github.com/skillsenselab/scribekit/logger"
	"github.com/skillsenselab/scribekit/observability"
	"github.com/skillsenselab/scribekit/resilience"
)

// TranscribeFunc transcribes one chunk. The controller calls it only
// on cache misses, through the retry layer.
type TranscribeFunc func(ctx context.Context, c chunk.Chunk) (ChunkResult, error)

// Controller runs chunk transcriptions with bounded parallelism.
//
// Per-chunk state machine: pending → inFlight → {succeeded | retrying |
// permanentlyFailed}. A cache hit moves a chunk straight to succeeded
// without occupying a concurrency slot. A permanently failed chunk
// never aborts the others.
type Controller struct {
	cfg     Config
	cache   *cache.Typed[ChunkResult]
	log     *logger.Logger
	metrics *observability.PipelineMetrics
}

// NewController creates a controller. store may be nil to disable
// per-chunk caching; log may be nil.
func NewController(cfg Config, store cache.Store, log *logger.Logger, metrics *observability.PipelineMetrics) *Controller {
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.Nop()
	}
	c := &Controller{
		cfg:     cfg,
		log:     log.WithComponent("controller"),
		metrics: metrics,
	}
	if store != nil {
		c.cache = cache.NewTyped[ChunkResult](store)
	}
	return c
}

// RunChunks processes all chunks to a terminal state and returns the
// result map keyed by chunk index plus the sorted indices of
// permanently failed chunks.
//
// Cancellation stops admitting new chunks, lets in-flight chunks
// settle, and returns the context error alongside the results
// collected so far. Results already written to the cache stay there.
func (c *Controller) RunChunks(ctx context.Context, chunks []chunk.Chunk, language string, transcribe TranscribeFunc, sink ProgressSink) (map[int]ChunkResult, []int, error) {
	r := newRun(chunks, sink)
	log := c.log.WithFields(logger.Fields(
		logger.FieldRunID, r.id,
		logger.FieldChunkCount, len(chunks),
	))
	log.Info("chunk processing started", logger.Fields(logger.FieldLanguage, cache.NormalizeLanguage(language)))

	// Cache pass first: hits reach a terminal state without ever
	// occupying a concurrency slot.
	pending := make([]chunk.Chunk, 0, len(chunks))
	for _, ch := range chunks {
		if res, ok := c.cacheGet(ctx, ch, language); ok {
			c.metrics.RecordCacheHit(ctx, "chunk")
			log.Debug("chunk served from cache", logger.Fields(logger.FieldChunkIndex, ch.Index))
			r.complete(res)
			continue
		}
		pending = append(pending, ch)
	}

	bh := resilience.NewBulkhead(resilience.BulkheadConfig{
		Name:          "chunk-transcription",
		MaxConcurrent: c.cfg.MaxConcurrency,
	})

	var wg sync.WaitGroup
	var admitErr error
	for _, ch := range pending {
		if err := bh.Acquire(ctx); err != nil {
			// Cancelled while waiting for a slot: stop admitting.
			admitErr = err
			break
		}

		wg.Add(1)
		go func(ch chunk.Chunk) {
			defer wg.Done()
			defer bh.Release()
			c.processChunk(ctx, r, ch, language, transcribe, log)
		}(ch)
	}
	wg.Wait()

	results, failed := r.snapshot()

	if admitErr == nil && ctx.Err() != nil {
		admitErr = ctx.Err()
	}
	if admitErr != nil {
		log.Warn("chunk processing cancelled", logger.Fields(
			"completed", len(results),
			"failed", len(failed),
		))
		return results, failed, errors.RunCancelled(r.id).WithCause(admitErr)
	}

	log.Info("chunk processing finished", logger.Fields(
		"succeeded", len(results),
		"failed", len(failed),
	))
	return results, failed, nil
}

// processChunk drives one chunk to a terminal state: retry with
// exponential backoff, then record success (with cache write-back) or
// permanent failure.
func (c *Controller) processChunk(ctx context.Context, r *run, ch chunk.Chunk, language string, transcribe TranscribeFunc, log *logger.Logger) {
	ctx, span := observability.StartSpan(ctx, observability.SpanChunk)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrRunID, r.id)
	observability.SetSpanAttribute(ctx, observability.AttrChunkIndex, ch.Index)

	c.metrics.RecordChunkStart(ctx)
	start := time.Now()

	retryCfg := resilience.DefaultRetryConfig()
	retryCfg.MaxAttempts = c.cfg.MaxRetries
	retryCfg.InitialBackoff = c.cfg.RetryBaseDelay
	retryCfg.OnRetry = func(attempt int, err error, backoff time.Duration) {
		c.metrics.RecordRetry(ctx, attempt)
		log.Warn("retrying chunk", logger.Fields(
			logger.FieldChunkIndex, ch.Index,
			logger.FieldAttempt, attempt,
			logger.FieldError, err.Error(),
			"backoff_ms", backoff.Milliseconds(),
		))
	}

	res, err := resilience.Retry(ctx, retryCfg, func() (ChunkResult, error) {
		return c.attemptChunk(ctx, ch, transcribe)
	})
	if err != nil {
		observability.SetSpanError(ctx, err)
		c.metrics.RecordChunkEnd(ctx, "failed", time.Since(start))

		if ctx.Err() != nil {
			// The run was cancelled: no terminal state.
			return
		}
		log.Error("chunk permanently failed",
			logger.Fields(logger.FieldChunkIndex, ch.Index),
			logger.ErrorFields("transcribe", err),
		)
		r.fail(ch.Index)
		return
	}

	res.Index = ch.Index
	c.cachePut(ctx, ch, language, &res)
	c.metrics.RecordChunkEnd(ctx, "ok", time.Since(start))
	log.Debug("chunk transcribed",
		logger.Fields(logger.FieldChunkIndex, ch.Index),
		logger.DurationFields("transcribe", time.Since(start)),
	)
	r.complete(res)
}

// attemptChunk makes one transcription attempt under the per-call
// timeout. A timed-out attempt surfaces as a retryable CHUNK_TIMEOUT
// failure rather than a dead context, so the chunk's remaining retry
// budget still applies.
func (c *Controller) attemptChunk(ctx context.Context, ch chunk.Chunk, transcribe TranscribeFunc) (ChunkResult, error) {
	attemptCtx := ctx
	if c.cfg.ChunkTimeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, c.cfg.ChunkTimeout)
		defer cancel()
	}

	res, err := transcribe(attemptCtx, ch)
	if err != nil && attemptCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
		return ChunkResult{}, errors.ChunkTimeout(ch.Index).WithCause(err)
	}
	return res, err
}

// Chunk and whole-file entries share one store. The prefixes keep a
// single-chunk file's two entries apart: there the chunk's content
// hash equals the whole-file hash.
func chunkCacheKey(contentHash, language string) string {
	return "chunk:" + cache.Key(contentHash, language)
}

func fileCacheKey(contentHash, language string) string {
	return "file:" + cache.Key(contentHash, language)
}

func (c *Controller) cacheGet(ctx context.Context, ch chunk.Chunk, language string) (ChunkResult, bool) {
	if c.cache == nil {
		return ChunkResult{}, false
	}
	res, found, err := c.cache.Get(ctx, chunkCacheKey(ch.ContentHash, language))
	if err != nil || !found {
		return ChunkResult{}, false
	}
	res.Index = ch.Index
	res.FromCache = true
	return *res, true
}

func (c *Controller) cachePut(ctx context.Context, ch chunk.Chunk, language string, res *ChunkResult) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Put(ctx, chunkCacheKey(ch.ContentHash, language), res, c.cfg.CacheTTL); err != nil {
		c.log.Warn("chunk cache write failed", logger.Fields(
			logger.FieldChunkIndex, ch.Index,
			logger.FieldError, err.Error(),
		))
	}
}
