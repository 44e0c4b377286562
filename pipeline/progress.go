package pipeline

// ProgressSink receives fire-and-forget progress notifications. One
// call is made per chunk reaching a terminal state; implementations
// must not block.
type ProgressSink interface {
	Report(completed, total int)
}

// ProgressFunc adapts a function to the ProgressSink interface.
type ProgressFunc func(completed, total int)

// Report calls the function.
func (f ProgressFunc) Report(completed, total int) { f(completed, total) }
