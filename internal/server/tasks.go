package server

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"github.com/kickoffhub/kickoffhub/internal/module"
)

// TaskRunner executes the background tasks modules declare in their
// manifests. Tasks with a cron schedule repeat; tasks without one run
// once right after Start.
type TaskRunner struct {
	cron    *cron.Cron
	logger  *log.Logger
	startup []func()
}

// NewTaskRunner creates an idle runner.
func NewTaskRunner(logger *log.Logger) *TaskRunner {
	if logger == nil {
		logger = log.Default()
	}
	return &TaskRunner{
		cron:   cron.New(),
		logger: logger,
	}
}

// Add registers a module's tasks. An unparseable schedule is an error so
// typos surface at startup, not at 4am.
func (r *TaskRunner) Add(ctx context.Context, moduleName string, tasks []module.Task) error {
	for _, task := range tasks {
		task := task
		name := moduleName + "/" + task.Name
		run := func() {
			if err := task.Run(ctx); err != nil {
				r.logger.Printf("task %s: %v", name, err)
				return
			}
			r.logger.Printf("task %s: done", name)
		}

		if task.Schedule == "" {
			r.startup = append(r.startup, run)
			continue
		}
		if _, err := r.cron.AddFunc(task.Schedule, run); err != nil {
			return fmt.Errorf("task %s: bad schedule %q: %w", name, task.Schedule, err)
		}
	}
	return nil
}

// Start launches startup tasks and the cron scheduler.
func (r *TaskRunner) Start() {
	for _, run := range r.startup {
		go run()
	}
	r.cron.Start()
}

// Stop halts the scheduler. Running jobs finish.
func (r *TaskRunner) Stop() {
	<-r.cron.Stop().Done()
}
