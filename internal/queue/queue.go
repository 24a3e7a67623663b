package queue

import (
	"context"
	"encoding/json"
	"log"
)

// Queue is the producer side. A Queue with a nil broker is valid: every
// enqueue returns a nil handle and logs a warning, so callers can fall
// back to synchronous imports without special-casing configuration.
type Queue struct {
	broker Broker
	logger *log.Logger
}

// NewQueue builds a producer. broker may be nil when Redis is not
// configured.
func NewQueue(broker Broker, logger *log.Logger) *Queue {
	if logger == nil {
		logger = log.Default()
	}
	return &Queue{broker: broker, logger: logger}
}

// Enabled reports whether a transport is configured.
func (q *Queue) Enabled() bool {
	return q != nil && q.broker != nil
}

// EnqueueTeamsImport places a teams-import job on the queue. The returned
// handle is nil when the queue transport is unavailable or unconfigured -
// never an error, since background import is optional. An invalid payload
// is an error regardless of transport state.
func (q *Queue) EnqueueTeamsImport(ctx context.Context, leagueID int64, season int) (*JobHandle, error) {
	payload := TeamsImportPayload{LeagueID: leagueID, Season: season}
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return q.enqueue(ctx, JobTeamsImport, data), nil
}

func (q *Queue) enqueue(ctx context.Context, name string, payload json.RawMessage) *JobHandle {
	if !q.Enabled() {
		q.logger.Printf("queue: transport not configured, %s job not enqueued", name)
		return nil
	}

	job := newJob(name, payload)
	data, err := json.Marshal(job)
	if err != nil {
		q.logger.Printf("queue: encode %s job: %v", name, err)
		return nil
	}

	if err := q.broker.Push(ctx, data); err != nil {
		q.logger.Printf("queue: transport unavailable, %s job not enqueued: %v", name, err)
		return nil
	}

	return &JobHandle{ID: job.ID, Name: job.Name}
}
