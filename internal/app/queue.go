package app

import "sync"

// TaskQueue runs closures on the goroutine that owns it. Dispatch is safe
// from any goroutine; Process must only be called by the owner.
type TaskQueue struct {
	mu    sync.Mutex
	tasks []func()
}

// Dispatch queues fn for the next Process call.
func (q *TaskQueue) Dispatch(fn func()) {
	q.mu.Lock()
	q.tasks = append(q.tasks, fn)
	q.mu.Unlock()
}

// Process runs the queued tasks in dispatch order and returns how many ran.
// Tasks dispatched while processing run on the next call.
func (q *TaskQueue) Process() int {
	q.mu.Lock()
	tasks := q.tasks
	q.tasks = nil
	q.mu.Unlock()

	for _, fn := range tasks {
		fn()
	}
	return len(tasks)
}

// Len returns the number of queued tasks.
func (q *TaskQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}
