package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"
)

// ErrUnknownJob marks a job whose name has no registered handler.
var ErrUnknownJob = errors.New("unknown job name")

// Handler executes one job type. It returns a short result summary for
// the success log (e.g. "imported=20 mapped=20").
type Handler func(ctx context.Context, payload json.RawMessage) (string, error)

// Worker consumes jobs from the broker in a standalone process. It shares
// no memory with the HTTP server; the broker's list storage is the only
// coordination point.
type Worker struct {
	broker      Broker
	logger      *log.Logger
	handlers    map[string]Handler
	maxAttempts int
	reserveWait time.Duration
	readyDelay  time.Duration
}

// NewWorker builds a worker. maxAttempts bounds retries before a job is
// dead-lettered; the broker's at-least-once delivery means handlers must
// be idempotent.
func NewWorker(broker Broker, logger *log.Logger, maxAttempts int, reserveWait time.Duration) *Worker {
	if logger == nil {
		logger = log.Default()
	}
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	if reserveWait <= 0 {
		reserveWait = 5 * time.Second
	}
	return &Worker{
		broker:      broker,
		logger:      logger,
		handlers:    make(map[string]Handler),
		maxAttempts: maxAttempts,
		reserveWait: reserveWait,
		readyDelay:  time.Second,
	}
}

// Register binds a handler to a job name.
func (w *Worker) Register(name string, h Handler) {
	w.handlers[name] = h
}

// Run consumes jobs until ctx is cancelled. Before consuming it waits for
// the transport to be reachable - consuming before the backing store is
// ready risks silently stalling jobs. An in-flight job finishes even
// after cancellation; only then does Run return.
func (w *Worker) Run(ctx context.Context) error {
	if err := w.waitReady(ctx); err != nil {
		return err
	}
	w.logger.Printf("worker: ready, consuming jobs")

	for {
		select {
		case <-ctx.Done():
			w.logger.Printf("worker: shutting down")
			return nil
		default:
		}

		reserved, err := w.broker.Reserve(ctx, w.reserveWait)
		if err != nil {
			if ctx.Err() != nil {
				w.logger.Printf("worker: shutting down")
				return nil
			}
			w.logger.Printf("worker: reserve failed: %v", err)
			continue
		}
		if reserved == nil {
			continue
		}

		// The job must settle even when shutdown begins mid-execution.
		w.handle(context.WithoutCancel(ctx), reserved)
	}
}

// waitReady pings the broker until it answers or ctx is cancelled.
func (w *Worker) waitReady(ctx context.Context) error {
	for {
		if err := w.broker.Ping(ctx); err == nil {
			return nil
		} else {
			w.logger.Printf("worker: queue transport not ready: %v", err)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("worker: transport never became ready: %w", ctx.Err())
		case <-time.After(w.readyDelay):
		}
	}
}

// handle executes one reserved job and settles it with the broker.
func (w *Worker) handle(ctx context.Context, reserved []byte) {
	var job Job
	if err := json.Unmarshal(reserved, &job); err != nil {
		// Not recoverable by retrying; drop it to the dead-letter list.
		w.logger.Printf("worker: malformed job payload: %v", err)
		if err := w.broker.Bury(ctx, reserved, reserved); err != nil {
			w.logger.Printf("worker: bury malformed job: %v", err)
		}
		return
	}

	summary, err := w.execute(ctx, &job)
	if err == nil {
		if ackErr := w.broker.Ack(ctx, reserved); ackErr != nil {
			w.logger.Printf("worker: ack job %s: %v", job.ID, ackErr)
		}
		w.logger.Printf("worker: job %s (%s) completed: %s", job.ID, job.Name, summary)
		return
	}

	job.Attempts++
	updated, marshalErr := json.Marshal(&job)
	if marshalErr != nil {
		updated = reserved
	}

	// Retrying can't fix a job nobody handles.
	if errors.Is(err, ErrUnknownJob) {
		w.logger.Printf("worker: job %s failed: %v", job.ID, err)
		if buryErr := w.broker.Bury(ctx, reserved, updated); buryErr != nil {
			w.logger.Printf("worker: bury job %s: %v", job.ID, buryErr)
		}
		return
	}

	if job.Attempts >= w.maxAttempts {
		w.logger.Printf("worker: job %s (%s) failed permanently after %d attempts: %v",
			job.ID, job.Name, job.Attempts, err)
		if buryErr := w.broker.Bury(ctx, reserved, updated); buryErr != nil {
			w.logger.Printf("worker: bury job %s: %v", job.ID, buryErr)
		}
		return
	}

	w.logger.Printf("worker: job %s (%s) failed (attempt %d/%d), retrying: %v",
		job.ID, job.Name, job.Attempts, w.maxAttempts, err)
	if reqErr := w.broker.Requeue(ctx, reserved, updated); reqErr != nil {
		w.logger.Printf("worker: requeue job %s: %v", job.ID, reqErr)
	}
}

// execute dispatches a job to its handler. An unregistered job name is an
// explicit failure, not a silent skip.
func (w *Worker) execute(ctx context.Context, job *Job) (string, error) {
	h, ok := w.handlers[job.Name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownJob, job.Name)
	}
	return h(ctx, job.Payload)
}
