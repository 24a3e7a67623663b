// Package queue implements the background import queue: a Redis-backed
// producer used by the HTTP layer and a worker process that consumes jobs.
// The producer degrades gracefully when Redis is not configured - enqueue
// returns a nil handle instead of failing, since background import is an
// optional feature.
package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// JobTeamsImport imports the teams of one league/season from the
// football-data provider. It is the only job type today.
const JobTeamsImport = "teams-import"

// Job is the unit of work placed on the queue.
type Job struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Payload    json.RawMessage `json:"payload"`
	Attempts   int             `json:"attempts"`
	EnqueuedAt time.Time       `json:"enqueued_at"`
}

// JobHandle identifies an enqueued job to the caller.
type JobHandle struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TeamsImportPayload is the payload of a JobTeamsImport job.
type TeamsImportPayload struct {
	LeagueID int64 `json:"league_id"`
	Season   int   `json:"season"`
}

// Validate checks the payload invariants shared by producer and worker.
func (p TeamsImportPayload) Validate() error {
	if p.LeagueID <= 0 {
		return fmt.Errorf("league_id must be positive, got %d", p.LeagueID)
	}
	if p.Season <= 0 {
		return fmt.Errorf("season must be positive, got %d", p.Season)
	}
	return nil
}

// newJob builds a job with a fresh UUID.
func newJob(name string, payload json.RawMessage) *Job {
	return &Job{
		ID:         uuid.NewString(),
		Name:       name,
		Payload:    payload,
		EnqueuedAt: time.Now().UTC(),
	}
}
