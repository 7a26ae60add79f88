package engine

import (
	"ripweb/internal/app"
	"ripweb/internal/domain"
)

// taskRunner is what a worker does with a dequeued task. Satisfied by
// *Runner; tests substitute stubs.
type taskRunner interface {
	Run(task *domain.DownloadTask)
}

// Pool owns exactly N long-lived workers, each pulling one task at a time
// from the job queue. More submissions than workers simply wait in the
// queue; nothing bounds the backlog.
type Pool struct {
	app     *app.Context
	runner  taskRunner
	workers int
}

func NewPool(appc *app.Context, reg *Registry) *Pool {
	return &Pool{
		app:     appc,
		runner:  NewRunner(appc, reg),
		workers: appc.Config.Download.Workers,
	}
}

// Start launches the workers. They are daemon-like: nothing joins them on
// process exit, and Shutdown is the only way to stop them cleanly.
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		go p.worker(i + 1)
	}
	p.app.Logger.Info("Started %d download workers", p.workers)
}

// Shutdown asks every worker to stop once the backlog ahead of its poison
// sentinel has drained.
func (p *Pool) Shutdown() {
	p.app.Queue.Shutdown(p.workers)
}

func (p *Pool) worker(id int) {
	for {
		task, ok := p.app.Queue.Dequeue()
		if !ok {
			p.app.Logger.Info("Worker %d stopping", id)
			return
		}

		// Runner contains all task failure modes; nothing it does may kill
		// the loop.
		p.runner.Run(task)
	}
}
