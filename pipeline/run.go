package pipeline

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/skillsenselab/scribekit/chunk"
)

// run is the ephemeral aggregate for one TranscribeFile invocation: it
// owns the ordered chunk list, the in-flight result map and the
// progress counters. Created when chunk processing starts, discarded
// once the merger has consumed the results.
type run struct {
	id     string
	chunks []chunk.Chunk
	sink   ProgressSink

	mu        sync.Mutex
	results   map[int]ChunkResult
	failed    []int
	completed int
}

func newRun(chunks []chunk.Chunk, sink ProgressSink) *run {
	return &run{
		id:      uuid.NewString(),
		chunks:  chunks,
		sink:    sink,
		results: make(map[int]ChunkResult, len(chunks)),
	}
}

// complete records a successful chunk result and reports progress.
func (r *run) complete(res ChunkResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results[res.Index] = res
	r.completed++
	r.reportLocked()
}

// fail records a permanently failed chunk and reports progress. The
// failure still counts as completed: progress tracks terminal states,
// not successes.
func (r *run) fail(index int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed = append(r.failed, index)
	r.completed++
	r.reportLocked()
}

// reportLocked notifies the sink under the run lock so counts arrive
// in order. Sinks are fire-and-forget and must not block.
func (r *run) reportLocked() {
	if r.sink != nil {
		r.sink.Report(r.completed, len(r.chunks))
	}
}

// snapshot returns the result map and the sorted failed indices.
func (r *run) snapshot() (map[int]ChunkResult, []int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	failed := make([]int, len(r.failed))
	copy(failed, r.failed)
	sort.Ints(failed)
	return r.results, failed
}
