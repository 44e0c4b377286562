package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// PipelineMetrics holds OpenTelemetry instruments for the chunked
// transcription pipeline. A nil *PipelineMetrics is a valid no-op
// recorder, so callers never need to guard metric calls.
type PipelineMetrics struct {
	chunksTotal    metric.Int64Counter
	cacheHitsTotal metric.Int64Counter
	retriesTotal   metric.Int64Counter
	chunkDuration  metric.Float64Histogram
	inflightChunks metric.Int64UpDownCounter
}

// NewPipelineMetrics creates metric instruments on the given meter.
func NewPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	chunksTotal, err := meter.Int64Counter("pipeline.chunks.total",
		metric.WithDescription("Chunks processed, by final status"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pipeline.chunks.total counter: %w", err)
	}

	cacheHitsTotal, err := meter.Int64Counter("pipeline.cache.hits.total",
		metric.WithDescription("Cache hits, by tier"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pipeline.cache.hits.total counter: %w", err)
	}

	retriesTotal, err := meter.Int64Counter("pipeline.chunk.retries.total",
		metric.WithDescription("Chunk retry attempts"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pipeline.chunk.retries.total counter: %w", err)
	}

	chunkDuration, err := meter.Float64Histogram("pipeline.chunk.duration",
		metric.WithDescription("Per-chunk processing duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pipeline.chunk.duration histogram: %w", err)
	}

	inflightChunks, err := meter.Int64UpDownCounter("pipeline.chunks.inflight",
		metric.WithDescription("Chunks currently being transcribed"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pipeline.chunks.inflight gauge: %w", err)
	}

	return &PipelineMetrics{
		chunksTotal:    chunksTotal,
		cacheHitsTotal: cacheHitsTotal,
		retriesTotal:   retriesTotal,
		chunkDuration:  chunkDuration,
		inflightChunks: inflightChunks,
	}, nil
}

// RecordChunkStart increments the in-flight chunk count.
func (m *PipelineMetrics) RecordChunkStart(ctx context.Context) {
	if m == nil {
		return
	}
	m.inflightChunks.Add(ctx, 1)
}

// RecordChunkEnd decrements in-flight chunks and records the outcome.
func (m *PipelineMetrics) RecordChunkEnd(ctx context.Context, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.inflightChunks.Add(ctx, -1)
	m.chunksTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("status", status),
	))
	m.chunkDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("status", status),
	))
}

// RecordCacheHit records a cache hit for a tier ("fast", "persistent",
// or "file" for whole-file hits).
func (m *PipelineMetrics) RecordCacheHit(ctx context.Context, tier string) {
	if m == nil {
		return
	}
	m.cacheHitsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("tier", tier),
	))
}

// RecordRetry records a retry attempt for a chunk.
func (m *PipelineMetrics) RecordRetry(ctx context.Context, attempt int) {
	if m == nil {
		return
	}
	m.retriesTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.Int("attempt", attempt),
	))
}
