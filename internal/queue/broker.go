package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Broker is the queue transport shared by producer and worker. The Redis
// implementation is the production one; tests use an in-memory double.
//
// Delivery is at-least-once: a reserved job sits on a processing list
// until acked, so a crashed worker leaves it recoverable.
type Broker interface {
	// Push appends a job to the queue.
	Push(ctx context.Context, payload []byte) error
	// Reserve blocks up to wait for a job, moving it to the processing
	// list. Returns (nil, nil) when the wait elapses with no job.
	Reserve(ctx context.Context, wait time.Duration) ([]byte, error)
	// Ack removes a reserved job from the processing list.
	Ack(ctx context.Context, payload []byte) error
	// Requeue moves a reserved job back onto the queue as a new payload
	// (the attempt counter changed).
	Requeue(ctx context.Context, reserved, updated []byte) error
	// Bury moves a reserved job to the dead-letter list.
	Bury(ctx context.Context, reserved, updated []byte) error
	// Ping verifies the transport is reachable.
	Ping(ctx context.Context) error
	// Close releases the transport.
	Close() error
}

// redisBroker implements Broker on Redis lists: LPUSH to enqueue,
// BRPOPLPUSH into a processing list to reserve, LREM to settle.
type redisBroker struct {
	rdb        *redis.Client
	queue      string
	processing string
	dead       string
}

// NewRedisBroker wraps an existing Redis client. queueName names the main
// list; the processing and dead-letter lists derive from it.
func NewRedisBroker(rdb *redis.Client, queueName string) Broker {
	return &redisBroker{
		rdb:        rdb,
		queue:      queueName,
		processing: queueName + ":processing",
		dead:       queueName + ":dead",
	}
}

func (b *redisBroker) Push(ctx context.Context, payload []byte) error {
	if err := b.rdb.LPush(ctx, b.queue, payload).Err(); err != nil {
		return fmt.Errorf("queue push: %w", err)
	}
	return nil
}

func (b *redisBroker) Reserve(ctx context.Context, wait time.Duration) ([]byte, error) {
	data, err := b.rdb.BRPopLPush(ctx, b.queue, b.processing, wait).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("queue reserve: %w", err)
	}
	return data, nil
}

func (b *redisBroker) Ack(ctx context.Context, payload []byte) error {
	if err := b.rdb.LRem(ctx, b.processing, 1, payload).Err(); err != nil {
		return fmt.Errorf("queue ack: %w", err)
	}
	return nil
}

func (b *redisBroker) Requeue(ctx context.Context, reserved, updated []byte) error {
	pipe := b.rdb.TxPipeline()
	pipe.LRem(ctx, b.processing, 1, reserved)
	pipe.LPush(ctx, b.queue, updated)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("queue requeue: %w", err)
	}
	return nil
}

func (b *redisBroker) Bury(ctx context.Context, reserved, updated []byte) error {
	pipe := b.rdb.TxPipeline()
	pipe.LRem(ctx, b.processing, 1, reserved)
	pipe.LPush(ctx, b.dead, updated)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("queue bury: %w", err)
	}
	return nil
}

func (b *redisBroker) Ping(ctx context.Context) error {
	return b.rdb.Ping(ctx).Err()
}

func (b *redisBroker) Close() error {
	return b.rdb.Close()
}
