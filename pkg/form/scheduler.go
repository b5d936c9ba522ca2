package form

import "sync"

// Scheduler runs validation tasks after the update that queued them has been
// committed. Implementations decide when and on which goroutine tasks run.
type Scheduler interface {
	Schedule(task func())
}

// SchedulerFunc adapts an ordinary function to the Scheduler interface.
type SchedulerFunc func(task func())

func (f SchedulerFunc) Schedule(task func()) { f(task) }

// Queue buffers tasks until Drain is called. It is the engine's default
// scheduler: the engine drains it on the caller's goroutine once the state
// change is committed and the lock is released.
type Queue struct {
	mu       sync.Mutex
	tasks    []func()
	draining bool
}

func (q *Queue) Schedule(task func()) {
	q.mu.Lock()
	q.tasks = append(q.tasks, task)
	q.mu.Unlock()
}

// Drain runs queued tasks in FIFO order until the queue is empty, including
// tasks queued by the tasks themselves. A nested call returns immediately
// and leaves the work to the outer loop.
func (q *Queue) Drain() {
	q.mu.Lock()
	if q.draining {
		q.mu.Unlock()
		return
	}
	q.draining = true
	q.mu.Unlock()

	for {
		q.mu.Lock()
		if len(q.tasks) == 0 {
			q.draining = false
			q.mu.Unlock()
			return
		}
		task := q.tasks[0]
		q.tasks[0] = nil
		q.tasks = q.tasks[1:]
		q.mu.Unlock()

		task()
	}
}

// Len returns the number of tasks waiting to run.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}
