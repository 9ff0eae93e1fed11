package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/mvplanning/service/messaging"
)

type testPayload struct {
	PlanID  string
	Vehicle string
}

func TestQueue(t *testing.T) {
	config := DefaultConfig()
	config.RetryDelay = 10 * time.Millisecond
	queue := NewQueue[testPayload](config)
	ctx := context.Background()

	payload := testPayload{PlanID: "p1", Vehicle: "lauv-1"}
	require.NoError(t, queue.Publish(ctx, &payload))
	assert.Equal(t, 1, queue.Size())

	message, err := queue.Consume(ctx)
	require.NoError(t, err)
	require.NotNil(t, message)
	assert.Equal(t, 0, queue.Size())
	assert.Equal(t, payload, *message.T())

	assert.NoError(t, message.Ack())
	assert.Error(t, message.Ack())
}

func TestQueueRetries(t *testing.T) {
	config := DefaultConfig()
	config.MaxRetries = 2
	config.RetryDelay = 5 * time.Millisecond
	queue := NewQueue[testPayload](config)
	ctx := context.Background()

	require.NoError(t, queue.Publish(ctx, &testPayload{PlanID: "retry"}))

	for attempt := 0; attempt < 3; attempt++ {
		consumeCtx, cancel := context.WithTimeout(ctx, time.Second)
		message, err := queue.Consume(consumeCtx)
		cancel()
		require.NoError(t, err, fmt.Sprintf("attempt %d", attempt))
		require.NotNil(t, message)
		assert.NoError(t, message.Nack(nil))
	}

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 0, queue.Size())
	assert.Equal(t, 1, queue.DLQSize())
	assert.Equal(t, []testPayload{{PlanID: "retry"}}, queue.DeadLetters())
}

func TestQueueConcurrency(t *testing.T) {
	queue := NewQueue[testPayload](DefaultConfig())
	ctx := context.Background()
	producers, perProducer := 5, 10

	var consumed sync.WaitGroup
	consumed.Add(producers * perProducer)
	go func() {
		for {
			message, err := queue.Consume(ctx)
			if err != nil {
				return
			}
			_ = message.Ack()
			consumed.Done()
		}
	}()

	for i := 0; i < producers; i++ {
		go func(id int) {
			for j := 0; j < perProducer; j++ {
				_ = queue.Publish(ctx, &testPayload{PlanID: fmt.Sprintf("p%d-%d", id, j)})
			}
		}(i)
	}

	done := make(chan struct{})
	go func() {
		consumed.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out")
	}
	assert.Equal(t, 0, queue.Size())
}

func TestQueueContextCancellation(t *testing.T) {
	queue := NewQueue[testPayload](DefaultConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, queue.Publish(ctx, &testPayload{PlanID: "x"}))

	timeoutCtx, cancelTimeout := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancelTimeout()
	_, err := queue.Consume(timeoutCtx)
	assert.Error(t, err)

	require.NoError(t, queue.Publish(context.Background(), &testPayload{PlanID: "x"}))
	message, err := queue.Consume(context.Background())
	assert.NoError(t, err)
	assert.NotNil(t, message)
}

func TestQueueFull(t *testing.T) {
	config := DefaultConfig()
	config.QueueBuffer = 2
	queue := NewQueue[testPayload](config)
	ctx := context.Background()

	require.NoError(t, queue.Publish(ctx, &testPayload{PlanID: "p1"}))
	require.NoError(t, queue.Publish(ctx, &testPayload{PlanID: "p2"}))
	err := queue.Publish(ctx, &testPayload{PlanID: "p3"})
	assert.ErrorIs(t, err, messaging.ErrQueueFull)
	assert.Equal(t, 2, queue.Size())

	message, err := queue.Consume(ctx)
	require.NoError(t, err)
	require.NoError(t, message.Ack())
	assert.NoError(t, queue.Publish(ctx, &testPayload{PlanID: "p3"}))
}
