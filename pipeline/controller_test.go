package pipeline

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/skillsenselab/scribekit/cache"
	"github.com/skillsenselab/scribekit/chunk"
	"github.com/skillsenselab/scribekit/errors"
)

// splitChunks builds real chunks (with content hashes) from n*100
// bytes of synthetic audio.
func splitChunks(t *testing.T, n int) []chunk.Chunk {
	t.Helper()
	data := make([]byte, n*100)
	for i := range data {
		data[i] = byte(i)
	}
	chunks, err := chunk.Split(chunk.NewBytesSource(data, time.Duration(n)*time.Second), 100)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if len(chunks) != n {
		t.Fatalf("expected %d chunks, got %d", n, len(chunks))
	}
	return chunks
}

func testConfig() Config {
	return Config{
		MaxConcurrency: 2,
		MaxRetries:     3,
		RetryBaseDelay: time.Millisecond,
		CacheTTL:       time.Minute,
	}
}

func TestRunChunks_AllSucceed(t *testing.T) {
	chunks := splitChunks(t, 5)
	c := NewController(testConfig(), nil, nil, nil)

	results, failed, err := c.RunChunks(context.Background(), chunks, "en",
		func(_ context.Context, ch chunk.Chunk) (ChunkResult, error) {
			return ChunkResult{Text: "ok", DurationMs: 1000}, nil
		}, nil)
	if err != nil {
		t.Fatalf("RunChunks failed: %v", err)
	}
	if len(results) != 5 || len(failed) != 0 {
		t.Fatalf("results=%d failed=%v", len(results), failed)
	}
	for i := 0; i < 5; i++ {
		if results[i].Index != i {
			t.Errorf("result %d has index %d", i, results[i].Index)
		}
	}
}

func TestRunChunks_ConcurrencyBound(t *testing.T) {
	chunks := splitChunks(t, 8)
	cfg := testConfig()
	cfg.MaxConcurrency = 2
	c := NewController(cfg, nil, nil, nil)

	var inflight, maxInflight int64
	_, failed, err := c.RunChunks(context.Background(), chunks, "en",
		func(_ context.Context, ch chunk.Chunk) (ChunkResult, error) {
			cur := atomic.AddInt64(&inflight, 1)
			for {
				prev := atomic.LoadInt64(&maxInflight)
				if cur <= prev || atomic.CompareAndSwapInt64(&maxInflight, prev, cur) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			atomic.AddInt64(&inflight, -1)
			return ChunkResult{Text: "ok"}, nil
		}, nil)
	if err != nil {
		t.Fatalf("RunChunks failed: %v", err)
	}
	if len(failed) != 0 {
		t.Fatalf("unexpected failures: %v", failed)
	}
	if got := atomic.LoadInt64(&maxInflight); got > 2 {
		t.Errorf("max in-flight = %d, bound is 2", got)
	}
}

func TestRunChunks_PartialFailureIsolation(t *testing.T) {
	chunks := splitChunks(t, 4)
	c := NewController(testConfig(), nil, nil, nil)

	results, failed, err := c.RunChunks(context.Background(), chunks, "en",
		func(_ context.Context, ch chunk.Chunk) (ChunkResult, error) {
			if ch.Index == 2 {
				return ChunkResult{}, errors.Transcription(ch.Index)
			}
			return ChunkResult{Text: "ok"}, nil
		}, nil)
	if err != nil {
		t.Fatalf("RunChunks failed: %v", err)
	}
	if len(failed) != 1 || failed[0] != 2 {
		t.Fatalf("failed = %v, want [2]", failed)
	}
	if len(results) != 3 {
		t.Errorf("one bad chunk must not abort the others, got %d results", len(results))
	}
}

func TestRunChunks_RetryThenSucceed(t *testing.T) {
	chunks := splitChunks(t, 1)
	c := NewController(testConfig(), nil, nil, nil)

	var attempts int64
	results, failed, err := c.RunChunks(context.Background(), chunks, "en",
		func(_ context.Context, ch chunk.Chunk) (ChunkResult, error) {
			if atomic.AddInt64(&attempts, 1) < 3 {
				return ChunkResult{}, errors.ServiceUnavailable("test")
			}
			return ChunkResult{Text: "finally"}, nil
		}, nil)
	if err != nil {
		t.Fatalf("RunChunks failed: %v", err)
	}
	if len(failed) != 0 {
		t.Fatalf("unexpected failures: %v", failed)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
	if results[0].Text != "finally" {
		t.Errorf("text = %q", results[0].Text)
	}
}

func TestRunChunks_NonRetryableShortCircuits(t *testing.T) {
	chunks := splitChunks(t, 1)
	c := NewController(testConfig(), nil, nil, nil)

	var attempts int64
	_, failed, err := c.RunChunks(context.Background(), chunks, "en",
		func(_ context.Context, ch chunk.Chunk) (ChunkResult, error) {
			atomic.AddInt64(&attempts, 1)
			return ChunkResult{}, errors.InvalidInput("bad chunk")
		}, nil)
	if err != nil {
		t.Fatalf("RunChunks failed: %v", err)
	}
	if attempts != 1 {
		t.Errorf("fatal error must not be retried, got %d attempts", attempts)
	}
	if len(failed) != 1 {
		t.Errorf("failed = %v", failed)
	}
}

func TestRunChunks_TimeoutEntersRetryPath(t *testing.T) {
	chunks := splitChunks(t, 1)
	cfg := testConfig()
	cfg.ChunkTimeout = 20 * time.Millisecond
	c := NewController(cfg, nil, nil, nil)

	var attempts int64
	results, failed, err := c.RunChunks(context.Background(), chunks, "en",
		func(ctx context.Context, ch chunk.Chunk) (ChunkResult, error) {
			if atomic.AddInt64(&attempts, 1) == 1 {
				<-ctx.Done()
				return ChunkResult{}, ctx.Err()
			}
			return ChunkResult{Text: "second try"}, nil
		}, nil)
	if err != nil {
		t.Fatalf("RunChunks failed: %v", err)
	}
	if got := atomic.LoadInt64(&attempts); got != 2 {
		t.Fatalf("attempts = %d, want 2 (timed-out attempt must be retried)", got)
	}
	if len(failed) != 0 {
		t.Fatalf("failed = %v", failed)
	}
	if results[0].Text != "second try" {
		t.Errorf("text = %q", results[0].Text)
	}
}

func TestRunChunks_TimeoutExhaustsRetryBudget(t *testing.T) {
	chunks := splitChunks(t, 1)
	cfg := testConfig()
	cfg.ChunkTimeout = 10 * time.Millisecond
	c := NewController(cfg, nil, nil, nil)

	var attempts int64
	results, failed, err := c.RunChunks(context.Background(), chunks, "en",
		func(ctx context.Context, ch chunk.Chunk) (ChunkResult, error) {
			atomic.AddInt64(&attempts, 1)
			<-ctx.Done()
			return ChunkResult{}, ctx.Err()
		}, nil)
	if err != nil {
		t.Fatalf("RunChunks failed: %v", err)
	}
	if got := atomic.LoadInt64(&attempts); got != 3 {
		t.Errorf("attempts = %d, want the full budget of 3", got)
	}
	if len(failed) != 1 || failed[0] != 0 {
		t.Errorf("failed = %v, want [0]", failed)
	}
	if len(results) != 0 {
		t.Errorf("unexpected results %v", results)
	}
}

func TestRunChunks_CacheHitSkipsTranscription(t *testing.T) {
	chunks := splitChunks(t, 3)
	store := cache.NewMemory()
	typed := cache.NewTyped[ChunkResult](store)
	ctx := context.Background()

	for _, ch := range chunks {
		err := typed.Put(ctx, chunkCacheKey(ch.ContentHash, "en"),
			&ChunkResult{Index: ch.Index, Text: "cached", DurationMs: 1000}, time.Minute)
		if err != nil {
			t.Fatalf("seed cache: %v", err)
		}
	}

	c := NewController(testConfig(), store, nil, nil)
	var calls int64
	results, failed, err := c.RunChunks(ctx, chunks, "en",
		func(_ context.Context, ch chunk.Chunk) (ChunkResult, error) {
			atomic.AddInt64(&calls, 1)
			return ChunkResult{}, nil
		}, nil)
	if err != nil {
		t.Fatalf("RunChunks failed: %v", err)
	}
	if calls != 0 {
		t.Errorf("cache hits must not dispatch transcriptions, got %d calls", calls)
	}
	if len(failed) != 0 || len(results) != 3 {
		t.Fatalf("results=%d failed=%v", len(results), failed)
	}
	for i, res := range results {
		if !res.FromCache {
			t.Errorf("result %d not marked FromCache", i)
		}
	}
}

func TestRunChunks_WritesBackToCache(t *testing.T) {
	chunks := splitChunks(t, 2)
	store := cache.NewMemory()
	c := NewController(testConfig(), store, nil, nil)
	ctx := context.Background()

	_, _, err := c.RunChunks(ctx, chunks, "en",
		func(_ context.Context, ch chunk.Chunk) (ChunkResult, error) {
			return ChunkResult{Text: "fresh"}, nil
		}, nil)
	if err != nil {
		t.Fatalf("RunChunks failed: %v", err)
	}

	typed := cache.NewTyped[ChunkResult](store)
	for _, ch := range chunks {
		res, found, err := typed.Get(ctx, chunkCacheKey(ch.ContentHash, "en"))
		if err != nil || !found {
			t.Fatalf("chunk %d missing from cache (found=%v err=%v)", ch.Index, found, err)
		}
		if res.Text != "fresh" {
			t.Errorf("cached text = %q", res.Text)
		}
	}
}

func TestRunChunks_ProgressPerTerminalTransition(t *testing.T) {
	chunks := splitChunks(t, 4)
	c := NewController(testConfig(), nil, nil, nil)

	var mu sync.Mutex
	var reports [][2]int
	sink := ProgressFunc(func(completed, total int) {
		mu.Lock()
		reports = append(reports, [2]int{completed, total})
		mu.Unlock()
	})

	_, _, err := c.RunChunks(context.Background(), chunks, "en",
		func(_ context.Context, ch chunk.Chunk) (ChunkResult, error) {
			if ch.Index == 1 {
				return ChunkResult{}, errors.InvalidInput("broken")
			}
			return ChunkResult{Text: "ok"}, nil
		}, sink)
	if err != nil {
		t.Fatalf("RunChunks failed: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(reports) != 4 {
		t.Fatalf("expected one report per terminal transition, got %d", len(reports))
	}
	last := reports[len(reports)-1]
	if last != [2]int{4, 4} {
		t.Errorf("final report = %v, want [4 4]", last)
	}
	for _, r := range reports {
		if r[1] != 4 {
			t.Errorf("total must always be 4, got %v", r)
		}
	}
}

func TestRunChunks_Cancellation(t *testing.T) {
	chunks := splitChunks(t, 3)
	cfg := testConfig()
	cfg.MaxConcurrency = 1
	store := cache.NewMemory()
	c := NewController(cfg, store, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{})
	block := make(chan struct{})

	type outcome struct {
		results map[int]ChunkResult
		failed  []int
		err     error
	}
	done := make(chan outcome, 1)
	go func() {
		results, failed, err := c.RunChunks(ctx, chunks, "en",
			func(_ context.Context, ch chunk.Chunk) (ChunkResult, error) {
				if ch.Index == 0 {
					close(started)
					<-block
					return ChunkResult{Text: "settled"}, nil
				}
				return ChunkResult{Text: "ok"}, nil
			}, nil)
		done <- outcome{results, failed, err}
	}()

	<-started
	cancel()
	close(block)
	out := <-done

	if out.err == nil {
		t.Fatal("expected error after cancellation")
	}
	if errors.CodeOf(out.err) != errors.ErrCodeRunCancelled {
		t.Errorf("expected RUN_CANCELLED, got %s", errors.CodeOf(out.err))
	}

	// The in-flight chunk settled and its result was kept and cached.
	res, ok := out.results[0]
	if !ok || res.Text != "settled" {
		t.Fatalf("in-flight chunk must settle, got %+v", out.results)
	}
	typed := cache.NewTyped[ChunkResult](store)
	if _, found, _ := typed.Get(context.Background(), chunkCacheKey(chunks[0].ContentHash, "en")); !found {
		t.Error("settled chunk must remain in the cache")
	}

	// Chunks 1 and 2 were never admitted.
	if len(out.results) != 1 {
		t.Errorf("no new admissions after cancel, got %d results", len(out.results))
	}
}
