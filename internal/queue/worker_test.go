package queue

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"sync"
	"testing"
	"time"
)

// memoryBroker is an in-process Broker double with the same reserve/ack
// semantics as the Redis implementation.
type memoryBroker struct {
	mu         sync.Mutex
	queue      [][]byte
	processing [][]byte
	dead       [][]byte
	failPush   bool
	failPing   int // Ping fails this many times before succeeding
}

func newMemoryBroker() *memoryBroker {
	return &memoryBroker{}
}

func (m *memoryBroker) Push(ctx context.Context, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failPush {
		return errors.New("transport down")
	}
	m.queue = append(m.queue, payload)
	return nil
}

func (m *memoryBroker) Reserve(ctx context.Context, wait time.Duration) ([]byte, error) {
	deadline := time.Now().Add(wait)
	for {
		m.mu.Lock()
		if len(m.queue) > 0 {
			payload := m.queue[0]
			m.queue = m.queue[1:]
			m.processing = append(m.processing, payload)
			m.mu.Unlock()
			return payload, nil
		}
		m.mu.Unlock()

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if time.Now().After(deadline) {
			return nil, nil
		}
		time.Sleep(time.Millisecond)
	}
}

func (m *memoryBroker) remove(list [][]byte, payload []byte) [][]byte {
	for i, p := range list {
		if bytes.Equal(p, payload) {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return list
}

func (m *memoryBroker) Ack(ctx context.Context, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.processing = m.remove(m.processing, payload)
	return nil
}

func (m *memoryBroker) Requeue(ctx context.Context, reserved, updated []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.processing = m.remove(m.processing, reserved)
	m.queue = append(m.queue, updated)
	return nil
}

func (m *memoryBroker) Bury(ctx context.Context, reserved, updated []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.processing = m.remove(m.processing, reserved)
	m.dead = append(m.dead, updated)
	return nil
}

func (m *memoryBroker) Ping(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failPing > 0 {
		m.failPing--
		return errors.New("not ready")
	}
	return nil
}

func (m *memoryBroker) Close() error { return nil }

func (m *memoryBroker) queueLen() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

func (m *memoryBroker) deadLen() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.dead)
}

func (m *memoryBroker) processingLen() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.processing)
}

func enqueueRaw(t *testing.T, b *memoryBroker, name string, payload any) {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}
	job := newJob(name, data)
	encoded, err := json.Marshal(job)
	if err != nil {
		t.Fatal(err)
	}
	if err := b.Push(context.Background(), encoded); err != nil {
		t.Fatal(err)
	}
}

// drain runs the worker until the broker is empty or the timeout expires.
func drain(t *testing.T, w *Worker, b *memoryBroker) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Run(ctx)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if b.queueLen() == 0 && b.processingLen() == 0 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	<-done
}

func TestWorker_ExecutesRegisteredJob(t *testing.T) {
	b := newMemoryBroker()
	var buf bytes.Buffer
	w := NewWorker(b, log.New(&buf, "", 0), 3, 10*time.Millisecond)

	var got TeamsImportPayload
	w.Register(JobTeamsImport, func(ctx context.Context, payload json.RawMessage) (string, error) {
		if err := json.Unmarshal(payload, &got); err != nil {
			return "", err
		}
		return "imported=20 mapped=20", nil
	})

	enqueueRaw(t, b, JobTeamsImport, TeamsImportPayload{LeagueID: 39, Season: 2023})
	drain(t, w, b)

	if got.LeagueID != 39 || got.Season != 2023 {
		t.Errorf("handler payload = %+v, want league 39 season 2023", got)
	}
	if !strings.Contains(buf.String(), "completed") || !strings.Contains(buf.String(), "imported=20") {
		t.Errorf("success log missing summary: %q", buf.String())
	}
	if b.deadLen() != 0 {
		t.Errorf("dead letters = %d, want 0", b.deadLen())
	}
}

func TestWorker_UnknownJobFailsButWorkerContinues(t *testing.T) {
	b := newMemoryBroker()
	var buf bytes.Buffer
	w := NewWorker(b, log.New(&buf, "", 0), 3, 10*time.Millisecond)

	handled := false
	w.Register(JobTeamsImport, func(ctx context.Context, payload json.RawMessage) (string, error) {
		handled = true
		return "ok", nil
	})

	enqueueRaw(t, b, "unknown-job", map[string]int{"x": 1})
	enqueueRaw(t, b, JobTeamsImport, TeamsImportPayload{LeagueID: 1, Season: 2024})
	drain(t, w, b)

	if !strings.Contains(buf.String(), "unknown job name: unknown-job") {
		t.Errorf("expected unknown job failure log, got %q", buf.String())
	}
	if b.deadLen() != 1 {
		t.Errorf("dead letters = %d, want 1 (the unknown job)", b.deadLen())
	}
	if !handled {
		t.Error("worker should have processed the subsequent job")
	}
}

func TestWorker_RetriesThenDeadLetters(t *testing.T) {
	b := newMemoryBroker()
	var buf bytes.Buffer
	w := NewWorker(b, log.New(&buf, "", 0), 3, 10*time.Millisecond)

	calls := 0
	w.Register(JobTeamsImport, func(ctx context.Context, payload json.RawMessage) (string, error) {
		calls++
		return "", errors.New("upstream exploded")
	})

	enqueueRaw(t, b, JobTeamsImport, TeamsImportPayload{LeagueID: 39, Season: 2023})
	drain(t, w, b)

	if calls != 3 {
		t.Errorf("handler calls = %d, want 3 (maxAttempts)", calls)
	}
	if b.deadLen() != 1 {
		t.Errorf("dead letters = %d, want 1", b.deadLen())
	}
	if !strings.Contains(buf.String(), "failed permanently") {
		t.Errorf("expected permanent failure log, got %q", buf.String())
	}
}

func TestWorker_WaitsForTransportReadiness(t *testing.T) {
	b := newMemoryBroker()
	b.failPing = 2
	var buf bytes.Buffer
	w := NewWorker(b, log.New(&buf, "", 0), 3, 10*time.Millisecond)
	w.readyDelay = 5 * time.Millisecond

	done := false
	w.Register(JobTeamsImport, func(ctx context.Context, payload json.RawMessage) (string, error) {
		done = true
		return "ok", nil
	})

	enqueueRaw(t, b, JobTeamsImport, TeamsImportPayload{LeagueID: 5, Season: 2022})
	drain(t, w, b)

	if !done {
		t.Error("worker should process jobs once the transport becomes ready")
	}
	if !strings.Contains(buf.String(), "not ready") {
		t.Errorf("expected readiness retries in log, got %q", buf.String())
	}
}

func TestWorker_MalformedJobIsBuried(t *testing.T) {
	b := newMemoryBroker()
	var buf bytes.Buffer
	w := NewWorker(b, log.New(&buf, "", 0), 3, 10*time.Millisecond)
	w.Register(JobTeamsImport, func(ctx context.Context, payload json.RawMessage) (string, error) {
		return "ok", nil
	})

	if err := b.Push(context.Background(), []byte("{not json")); err != nil {
		t.Fatal(err)
	}
	drain(t, w, b)

	if b.deadLen() != 1 {
		t.Errorf("dead letters = %d, want 1", b.deadLen())
	}
}
