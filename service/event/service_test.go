package event

import (
	"context"
	"path"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/mvplanning/internal/logger"
	"github.com/viant/mvplanning/service/messaging"
	"github.com/viant/mvplanning/service/messaging/fs"
	"github.com/viant/mvplanning/service/messaging/memory"
)

type ping struct {
	Vehicle string `json:"vehicle"`
}

func collect[T any](t *testing.T, count int) (func(*Event[T]), func() []*Event[T]) {
	var mux sync.Mutex
	var received []*Event[T]
	handler := func(e *Event[T]) {
		mux.Lock()
		received = append(received, e)
		mux.Unlock()
	}
	wait := func() []*Event[T] {
		require.Eventually(t, func() bool {
			mux.Lock()
			defer mux.Unlock()
			return len(received) >= count
		}, 2*time.Second, 10*time.Millisecond)
		mux.Lock()
		defer mux.Unlock()
		return append([]*Event[T]{}, received...)
	}
	return handler, wait
}

func TestService_TypedListener(t *testing.T) {
	testCases := []struct {
		description string
		vendor      messaging.Vendor
		options     func(t *testing.T) []Option
	}{
		{
			description: "memory vendor",
			vendor:      messaging.VendorMemory,
			options:     func(t *testing.T) []Option { return nil },
		},
		{
			description: "fs vendor",
			vendor:      messaging.VendorFs,
			options: func(t *testing.T) []Option {
				base := t.TempDir()
				return []Option{WithNewFsQueueConfig(func(name string) fs.Config {
					cfg := fs.DefaultConfig()
					cfg.BasePath = path.Join(base, name)
					return cfg
				})}
			},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			srv, err := New(testCase.vendor, append(testCase.options(t), WithLogger(logger.Discard()))...)
			require.NoError(t, err)
			defer srv.Close()

			handler, wait := collect[ping](t, 2)
			require.NoError(t, SetListenerOf[ping](srv, handler))

			publisher, err := PublisherOf[ping](srv)
			require.NoError(t, err)
			ctx := context.Background()
			for _, vehicle := range []string{"v1", "v2"} {
				require.NoError(t, publisher.Publish(ctx, NewEvent(&Context{EventType: "ping", Vehicle: vehicle}, ping{Vehicle: vehicle})))
			}
			received := wait()
			assert.Equal(t, "v1", received[0].Data.Vehicle, testCase.description)
			assert.Equal(t, "v2", received[1].Data.Vehicle, testCase.description)
			assert.Equal(t, "ping", received[0].Context.EventType, testCase.description)
		})
	}
}

func TestService_CatchAllListener(t *testing.T) {
	srv, err := New(messaging.VendorMemory, WithLogger(logger.Discard()))
	require.NoError(t, err)
	defer srv.Close()

	handler, wait := collect[any](t, 1)
	srv.SetListener(handler)

	publisher, err := PublisherOf[ping](srv)
	require.NoError(t, err)
	require.NoError(t, publisher.Publish(context.Background(), NewEvent(&Context{EventType: "ping"}, ping{Vehicle: "v9"})))

	received := wait()
	assert.Equal(t, ping{Vehicle: "v9"}, received[0].Data)
}

func TestService_PublisherOfIsCached(t *testing.T) {
	srv, err := New(messaging.VendorMemory)
	require.NoError(t, err)
	first, err := PublisherOf[ping](srv)
	require.NoError(t, err)
	other, err := PublisherOf[string](srv)
	require.NoError(t, err)
	assert.NotNil(t, other)
	third, err := PublisherOf[ping](srv)
	require.NoError(t, err)
	assert.Same(t, first, third)
}

func TestNew_UnsupportedVendor(t *testing.T) {
	_, err := New(messaging.Vendor("kafka"))
	assert.Error(t, err)
	_, err = New(messaging.VendorFs)
	assert.Error(t, err)
}

func TestPublisher_MirrorFailureIsLogged(t *testing.T) {
	config := memory.DefaultConfig()
	config.QueueBuffer = 1
	catchAll := NewPublisher[any](memory.NewQueue[Event[any]](config))
	ctx := context.Background()
	require.NoError(t, catchAll.queue.Publish(ctx, &Event[any]{}))

	log, hook := logtest.NewNullLogger()
	publisher := NewPublisher[ping](memory.NewQueue[Event[ping]](memory.DefaultConfig()))
	publisher.mirror = func() *Publisher[any] { return catchAll }
	publisher.logger = logrus.NewEntry(log)

	require.NoError(t, publisher.Publish(ctx, NewEvent(&Context{EventType: "ping"}, ping{Vehicle: "v1"})))
	require.Len(t, hook.AllEntries(), 1)
	entry := hook.LastEntry()
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "ping", entry.Data["eventType"])
	assert.ErrorIs(t, entry.Data[logrus.ErrorKey].(error), messaging.ErrQueueFull)

	event, err := publisher.Consume(ctx)
	require.NoError(t, err)
	assert.Equal(t, "v1", event.Data.Vehicle)
}
