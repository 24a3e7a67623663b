package queue

import (
	"bytes"
	"context"
	"log"
	"strings"
	"testing"
)

func TestEnqueue_NilBrokerReturnsNilHandleAndWarns(t *testing.T) {
	var buf bytes.Buffer
	q := NewQueue(nil, log.New(&buf, "", 0))

	handle, err := q.EnqueueTeamsImport(context.Background(), 39, 2023)
	if err != nil {
		t.Fatalf("EnqueueTeamsImport: %v", err)
	}
	if handle != nil {
		t.Fatalf("handle = %+v, want nil when transport unconfigured", handle)
	}
	if !strings.Contains(buf.String(), "not configured") {
		t.Errorf("expected a warning log, got %q", buf.String())
	}
}

func TestEnqueue_InvalidPayloadRejected(t *testing.T) {
	q := NewQueue(newMemoryBroker(), log.New(&bytes.Buffer{}, "", 0))

	if _, err := q.EnqueueTeamsImport(context.Background(), 0, 2023); err == nil {
		t.Error("expected error for league_id = 0")
	}
	if _, err := q.EnqueueTeamsImport(context.Background(), 39, -1); err == nil {
		t.Error("expected error for negative season")
	}
}

func TestEnqueue_PushesJobWithHandle(t *testing.T) {
	b := newMemoryBroker()
	q := NewQueue(b, log.New(&bytes.Buffer{}, "", 0))

	handle, err := q.EnqueueTeamsImport(context.Background(), 39, 2023)
	if err != nil {
		t.Fatalf("EnqueueTeamsImport: %v", err)
	}
	if handle == nil {
		t.Fatal("handle should not be nil with a working broker")
	}
	if handle.Name != JobTeamsImport {
		t.Errorf("handle.Name = %q, want %q", handle.Name, JobTeamsImport)
	}
	if handle.ID == "" {
		t.Error("handle.ID should be assigned")
	}
	if got := b.queueLen(); got != 1 {
		t.Errorf("queue length = %d, want 1", got)
	}
}

func TestEnqueue_BrokerDownReturnsNilHandle(t *testing.T) {
	b := newMemoryBroker()
	b.failPush = true
	var buf bytes.Buffer
	q := NewQueue(b, log.New(&buf, "", 0))

	handle, err := q.EnqueueTeamsImport(context.Background(), 39, 2023)
	if err != nil {
		t.Fatalf("EnqueueTeamsImport: %v", err)
	}
	if handle != nil {
		t.Fatal("handle should be nil when transport push fails")
	}
	if !strings.Contains(buf.String(), "unavailable") {
		t.Errorf("expected unavailable warning, got %q", buf.String())
	}
}

func TestPayloadValidate(t *testing.T) {
	tests := []struct {
		name    string
		payload TeamsImportPayload
		wantErr bool
	}{
		{"valid", TeamsImportPayload{LeagueID: 39, Season: 2023}, false},
		{"zero league", TeamsImportPayload{LeagueID: 0, Season: 2023}, true},
		{"zero season", TeamsImportPayload{LeagueID: 39, Season: 0}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.payload.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
