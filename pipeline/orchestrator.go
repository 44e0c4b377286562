package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/skillsenselab/scribekit/cache"
	"github.com/skillsenselab/scribekit/chunk"
	"github.com/skillsenselab/scribekit/errors"
	"github.com/skillsenselab/scribekit/logger"
	"github.com/skillsenselab/scribekit/observability"
	"github.com/skillsenselab/scribekit/transcription"
)

// Orchestrator composes sizer, splitter, cache, controller and merger
// into one TranscribeFile operation.
type Orchestrator struct {
	cfg      Config
	sizer    chunk.SizerConfig
	provider transcription.Provider
	store    cache.Store
	files    *cache.Typed[TranscriptResult]
	log      *logger.Logger
	metrics  *observability.PipelineMetrics
	progress ProgressSink
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithCache sets the cache store used for chunk and whole-file
// entries, typically a *cache.Tiered.
func WithCache(store cache.Store) Option {
	return func(o *Orchestrator) { o.store = store }
}

// WithSizer overrides the chunk sizing parameters.
func WithSizer(cfg chunk.SizerConfig) Option {
	return func(o *Orchestrator) { o.sizer = cfg }
}

// WithLogger sets the logger.
func WithLogger(log *logger.Logger) Option {
	return func(o *Orchestrator) { o.log = log }
}

// WithMetrics sets the pipeline metric instruments.
func WithMetrics(m *observability.PipelineMetrics) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

// WithProgress sets the progress sink notified per terminal chunk
// transition.
func WithProgress(sink ProgressSink) Option {
	return func(o *Orchestrator) { o.progress = sink }
}

// NewOrchestrator creates an orchestrator around a transcription
// provider.
func NewOrchestrator(cfg Config, provider transcription.Provider, opts ...Option) (*Orchestrator, error) {
	if provider == nil {
		return nil, errors.InvalidInput("transcription provider is nil")
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := &Orchestrator{
		cfg:      cfg,
		provider: provider,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.log == nil {
		o.log = logger.Nop()
	}
	o.log = o.log.WithComponent("orchestrator")
	if o.store != nil {
		o.files = cache.NewTyped[TranscriptResult](o.store)
	}
	return o, nil
}

// TranscribeFile transcribes a whole audio source.
//
// An identical re-upload (same bytes, same requested language) is
// served from the whole-file cache without any provider call. Otherwise
// the source is chunked and processed with bounded parallelism; if the
// provider reports unavailability up front, the run degrades to
// strictly sequential processing instead of failing.
//
// The merged result is written back to the whole-file cache only when
// every chunk succeeded. Permanently failed chunks surface as gap
// markers in the returned transcript, not as an error; only fatal
// input errors and cancellation escape.
func (o *Orchestrator) TranscribeFile(ctx context.Context, src chunk.Source, language string) (*TranscriptResult, error) {
	if src == nil {
		return nil, errors.InvalidInput("audio source is nil")
	}

	ctx, span := observability.StartSpan(ctx, observability.SpanRun)
	defer span.End()
	start := time.Now()

	fileHash, err := chunk.HashSource(src)
	if err != nil {
		return nil, err
	}
	fileKey := fileCacheKey(fileHash, language)

	if res, ok := o.fileCacheGet(ctx, fileKey); ok {
		o.metrics.RecordCacheHit(ctx, "file")
		o.log.Info("whole-file cache hit", logger.Fields(
			logger.FieldContentHash, fileHash,
			logger.FieldLanguage, cache.NormalizeLanguage(language),
		))
		res.FromCache = true
		return res, nil
	}

	cfg := o.cfg
	if !o.provider.IsAvailable(ctx) {
		// Degrade to sequential rather than failing the request.
		o.log.Warn("provider reports unavailable, falling back to sequential processing")
		cfg.MaxConcurrency = 1
	}

	chunkSize, count := o.sizer.ComputeChunkSize(src.Size(), estimateBitrateKbps(src))
	if count == 1 {
		// Whole file fits one payload: skip splitting overhead but keep
		// the controller for retry and cache handling.
		chunkSize = src.Size()
	}

	chunks, err := chunk.Split(src, chunkSize)
	if err != nil {
		return nil, err
	}
	observability.SetSpanAttribute(ctx, observability.AttrChunkCount, len(chunks))
	o.log.Info("file split into chunks", logger.Fields(
		logger.FieldContentHash, fileHash,
		logger.FieldChunkCount, len(chunks),
		"chunk_size_bytes", chunkSize,
	))

	controller := NewController(cfg, o.store, o.log, o.metrics)
	results, failed, err := controller.RunChunks(ctx, chunks, language, o.transcribeChunk(src, language), o.progress)
	if err != nil {
		return nil, err
	}

	result := Merge(results, chunks)

	if len(failed) == 0 {
		o.fileCachePut(ctx, fileKey, result)
	}

	o.log.Info("transcription finished", logger.Fields(
		logger.FieldChunkCount, result.ChunkCount,
		"cache_hits", result.CacheHits,
		"permanent_gaps", len(result.PermanentGaps),
		logger.FieldDuration, time.Since(start).Milliseconds(),
	))
	return result, nil
}

// transcribeChunk builds the controller's per-chunk callback: read the
// chunk bytes, call the provider, map the response.
func (o *Orchestrator) transcribeChunk(src chunk.Source, language string) TranscribeFunc {
	return func(ctx context.Context, ch chunk.Chunk) (ChunkResult, error) {
		data, err := chunk.ReadChunk(src, ch)
		if err != nil {
			return ChunkResult{}, err
		}

		resp, err := o.provider.Transcribe(ctx, transcription.Request{
			AudioData: data,
			Filename:  fmt.Sprintf("chunk_%d", ch.Index),
			Language:  language,
			Model:     o.cfg.Model,
			Format:    o.cfg.Format,
		})
		if err != nil {
			return ChunkResult{}, err
		}

		durationMs := int64(resp.Duration * 1000)
		if durationMs <= 0 {
			durationMs = ch.EstimatedDuration.Milliseconds()
		}
		return ChunkResult{
			Index:      ch.Index,
			Text:       resp.Text,
			Language:   resp.Language,
			Segments:   resp.Segments,
			DurationMs: durationMs,
		}, nil
	}
}

func (o *Orchestrator) fileCacheGet(ctx context.Context, key string) (*TranscriptResult, bool) {
	if o.files == nil {
		return nil, false
	}
	res, found, err := o.files.Get(ctx, key)
	if err != nil || !found {
		return nil, false
	}
	return res, true
}

func (o *Orchestrator) fileCachePut(ctx context.Context, key string, res *TranscriptResult) {
	if o.files == nil {
		return
	}
	if err := o.files.Put(ctx, key, res, o.cfg.CacheTTL); err != nil {
		o.log.Warn("whole-file cache write failed", logger.ErrorFields("file_cache_put", err))
	}
}

// estimateBitrateKbps derives an approximate bitrate from the source's
// size and duration; 0 when the duration is unknown.
func estimateBitrateKbps(src chunk.Source) int {
	d := src.Duration()
	if d <= 0 {
		return 0
	}
	return int(float64(src.Size()*8) / d.Seconds() / 1000)
}
