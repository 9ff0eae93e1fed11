package fs

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
)

type testPayload struct {
	PlanID  string `json:"planId"`
	Vehicle string `json:"vehicle"`
}

func newTestQueue(t *testing.T, maxRetries int) (*Queue[testPayload], afs.Service) {
	fs := afs.New()
	queue, err := NewQueue[testPayload](fs, Config{
		BasePath:   t.TempDir(),
		MaxRetries: maxRetries,
		RetryDelay: time.Millisecond,
	})
	require.NoError(t, err)
	return queue, fs
}

func TestQueue_FIFO(t *testing.T) {
	queue, fs := newTestQueue(t, 2)
	ctx := context.Background()

	for _, dir := range []string{queue.pendingDir, queue.processingDir, queue.completedDir, queue.failedDir, queue.dlqDir} {
		exists, err := fs.Exists(ctx, dir)
		assert.NoError(t, err)
		assert.True(t, exists, fmt.Sprintf("directory %s should exist", dir))
	}

	for i := 1; i <= 3; i++ {
		require.NoError(t, queue.Publish(ctx, &testPayload{PlanID: fmt.Sprintf("p%d", i), Vehicle: "v"}))
	}
	size, err := queue.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, size)

	for i := 1; i <= 3; i++ {
		message, err := queue.Consume(ctx)
		require.NoError(t, err)
		require.NotNil(t, message)
		assert.Equal(t, fmt.Sprintf("p%d", i), message.T().PlanID)
		require.NoError(t, message.Ack())
	}

	message, err := queue.Consume(ctx)
	assert.NoError(t, err)
	assert.Nil(t, message)

	completed, err := queue.list(ctx, queue.completedDir)
	require.NoError(t, err)
	assert.Len(t, completed, 3)
}

func TestQueue_RetryAndDLQ(t *testing.T) {
	queue, _ := newTestQueue(t, 1)
	ctx := context.Background()
	require.NoError(t, queue.Publish(ctx, &testPayload{PlanID: "retry"}))

	message, err := queue.Consume(ctx)
	require.NoError(t, err)
	require.NotNil(t, message)
	require.NoError(t, message.Nack(fmt.Errorf("link down")))

	time.Sleep(5 * time.Millisecond)
	message, err = queue.Consume(ctx)
	require.NoError(t, err)
	require.NotNil(t, message)
	assert.Equal(t, "retry", message.T().PlanID)
	require.NoError(t, message.Nack(fmt.Errorf("link down")))

	message, err = queue.Consume(ctx)
	require.NoError(t, err)
	assert.Nil(t, message)

	dlq, err := queue.list(ctx, queue.dlqDir)
	require.NoError(t, err)
	assert.Len(t, dlq, 1)
}
