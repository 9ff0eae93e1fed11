package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/mvplanning/internal/logger"
	"github.com/viant/mvplanning/service/event"
	"github.com/viant/mvplanning/service/messaging"
)

func newTracker(t *testing.T) *Tracker {
	events, err := event.New(messaging.VendorMemory, event.WithLogger(logger.Discard()))
	require.NoError(t, err)
	t.Cleanup(events.Close)
	tracker, err := New(events)
	require.NoError(t, err)
	return tracker
}

func TestTracker_IsAvailable(t *testing.T) {
	tracker := newTracker(t)
	ctx := context.Background()
	assert.False(t, tracker.IsAvailable(ctx, "v1"))

	require.NoError(t, tracker.SetAvailable(ctx, "v1", true))
	require.NoError(t, tracker.SetAvailable(ctx, "v2", true))
	assert.True(t, tracker.IsAvailable(ctx, "v1"))
	assert.Equal(t, []string{"v1", "v2"}, tracker.Available())

	require.NoError(t, tracker.SetAvailable(ctx, "v1", false))
	assert.False(t, tracker.IsAvailable(ctx, "v1"))
	assert.Equal(t, []string{"v2"}, tracker.Available())
}

func TestTracker_Subscribe(t *testing.T) {
	tracker := newTracker(t)
	ctx := context.Background()

	var mux sync.Mutex
	var notified []string
	require.NoError(t, tracker.Subscribe(func(_ context.Context, vehicle string) {
		mux.Lock()
		notified = append(notified, vehicle)
		mux.Unlock()
	}))
	assert.Error(t, tracker.Subscribe(nil))

	require.NoError(t, tracker.SetAvailable(ctx, "v1", false))
	require.NoError(t, tracker.SetAvailable(ctx, "v1", true))
	require.NoError(t, tracker.SetAvailable(ctx, "v1", true))
	require.NoError(t, tracker.SetAvailable(ctx, "v2", true))

	require.Eventually(t, func() bool {
		mux.Lock()
		defer mux.Unlock()
		return len(notified) == 3
	}, 2*time.Second, 10*time.Millisecond)
	mux.Lock()
	defer mux.Unlock()
	assert.Equal(t, []string{"v1", "v1", "v2"}, notified)
}
