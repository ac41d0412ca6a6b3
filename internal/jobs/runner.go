package jobs

import (
	"context"
	"log"
	"time"
)

// Task is one unit of recurring background maintenance.
type Task interface {
	Run(ctx context.Context) error
}

// Runner executes a Task on a fixed interval until stopped. A failing run
// is logged and the schedule keeps going.
type Runner struct {
	task     Task
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
}

// NewRunner creates a new Runner instance
func NewRunner(task Task, interval time.Duration) *Runner {
	return &Runner{
		task:     task,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start blocks, running the task every interval until Stop is called or the
// context is cancelled.
func (r *Runner) Start(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	defer close(r.done)

	log.Printf("maintenance runner started (interval %v)", r.interval)

	for {
		select {
		case <-ctx.Done():
			log.Println("maintenance runner stopped: context cancelled")
			return
		case <-r.stop:
			log.Println("maintenance runner stopped")
			return
		case <-ticker.C:
			if err := r.task.Run(ctx); err != nil {
				log.Printf("maintenance run failed: %v", err)
			}
		}
	}
}

// Stop signals the runner and waits for the loop to exit.
func (r *Runner) Stop() {
	close(r.stop)
	<-r.done
}
