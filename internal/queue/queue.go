// Package queue implements the pending-task FIFO that feeds the worker pool.
package queue

import (
	"sync"

	"ripweb/internal/domain"
)

// Queue is an unbounded FIFO of download tasks. Enqueue never blocks the
// producer; Dequeue blocks the calling worker until work (or a poison
// sentinel) arrives and hands each task to exactly one caller.
type Queue struct {
	mu      sync.Mutex
	cond    *sync.Cond
	pending []*domain.DownloadTask
	poison  int
}

func New() *Queue {
	q := &Queue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

func (q *Queue) Enqueue(task *domain.DownloadTask) {
	q.mu.Lock()
	q.pending = append(q.pending, task)
	q.mu.Unlock()

	q.cond.Signal()
}

// Dequeue returns the next task in FIFO order. The second return value is
// false when a poison sentinel was consumed, which tells the calling worker
// to terminate its loop. Poisons are served only after real work drains.
func (q *Queue) Dequeue() (*domain.DownloadTask, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.pending) == 0 && q.poison == 0 {
		q.cond.Wait()
	}

	if len(q.pending) > 0 {
		task := q.pending[0]
		q.pending = q.pending[1:]
		return task, true
	}

	q.poison--
	return nil, false
}

// Size reports the current pending count, excluding poison sentinels.
func (q *Queue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Shutdown enqueues n poison sentinels, one per worker. Each sentinel stops
// exactly one worker loop once the backlog ahead of it has drained.
func (q *Queue) Shutdown(n int) {
	q.mu.Lock()
	q.poison += n
	q.mu.Unlock()

	q.cond.Broadcast()
}
