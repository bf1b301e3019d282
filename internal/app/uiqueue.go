package app

// uiQueue carries work from background goroutines to the game loop.
// Run never blocks the caller; Drain runs queued work on the UI thread.
type uiQueue struct {
	ch chan func()
}

func newUIQueue(size int) *uiQueue {
	return &uiQueue{ch: make(chan func(), size)}
}

// Run queues f. f is dropped when the queue is full, which only happens if
// the game loop has stalled.
func (q *uiQueue) Run(f func()) {
	q.TryRun(f)
}

// TryRun is Run that reports whether f was queued.
func (q *uiQueue) TryRun(f func()) bool {
	select {
	case q.ch <- f:
		return true
	default:
		return false
	}
}

// Drain runs the work queued before the call. Work queued by that work
// waits for the next frame.
func (q *uiQueue) Drain() int {
	n := len(q.ch)
	for i := 0; i < n; i++ {
		(<-q.ch)()
	}
	return n
}
