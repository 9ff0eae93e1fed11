package event

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/viant/afs"
	"github.com/viant/mvplanning/internal/logger"
	"github.com/viant/mvplanning/service/messaging"
	"github.com/viant/mvplanning/service/messaging/fs"
	"github.com/viant/mvplanning/service/messaging/memory"
)

// Service manages typed publishers and listeners
type Service struct {
	publisher         *Publisher[any]
	listener          *Listener[any]
	typedPublishers   map[reflect.Type]any
	typedListeners    map[reflect.Type]any
	mux               sync.RWMutex
	queueVendor       messaging.Vendor
	fs                afs.Service
	fsNewQueueConfig  func(name string) fs.Config
	memNewQueueConfig func(name string) memory.Config
	logger            *logrus.Entry
}

// New creates an event service backed by the given queue vendor
func New(queueVendor messaging.Vendor, opts ...Option) (*Service, error) {
	ret := &Service{
		queueVendor:     queueVendor,
		typedPublishers: make(map[reflect.Type]any),
		typedListeners:  make(map[reflect.Type]any),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.logger == nil {
		ret.logger = logger.Default()
	}
	switch queueVendor {
	case messaging.VendorFs:
		if ret.fsNewQueueConfig == nil {
			return nil, fmt.Errorf("fs queue vendor requires fsNewQueueConfig")
		}
		if ret.fs == nil {
			ret.fs = afs.New()
		}
	case messaging.VendorMemory:
		if ret.memNewQueueConfig == nil {
			ret.memNewQueueConfig = func(string) memory.Config { return memory.DefaultConfig() }
		}
	default:
		return nil, fmt.Errorf("unsupported queue vendor: %s", queueVendor)
	}

	queue, err := QueueOf[Event[any]](ret, "any")
	if err != nil {
		return nil, err
	}
	ret.publisher = NewPublisher[any](queue)
	return ret, nil
}

// QueueOf creates a queue for the configured vendor
func QueueOf[T any](s *Service, name string) (messaging.Queue[T], error) {
	switch s.queueVendor {
	case messaging.VendorFs:
		return fs.NewQueue[T](s.fs, s.fsNewQueueConfig(name))
	case messaging.VendorMemory:
		return memory.NewQueue[T](s.memNewQueueConfig(name)), nil
	}
	return nil, fmt.Errorf("unsupported queue vendor: %s", s.queueVendor)
}

// SetListener registers a catch-all listener receiving every published event
func (s *Service) SetListener(handler func(*Event[any])) {
	s.mux.Lock()
	previous := s.listener
	s.listener = NewListener[any](s.publisher, handler, s.logger)
	s.listener.Start()
	s.mux.Unlock()
	if previous != nil {
		previous.Stop()
	}
}

// Close stops all listeners
func (s *Service) Close() {
	s.mux.Lock()
	var listeners []interface{ Stop() }
	if s.listener != nil {
		listeners = append(listeners, s.listener)
		s.listener = nil
	}
	for key, l := range s.typedListeners {
		listeners = append(listeners, l.(interface{ Stop() }))
		delete(s.typedListeners, key)
	}
	s.mux.Unlock()
	for _, l := range listeners {
		l.Stop()
	}
}

func (s *Service) anyPublisher() *Publisher[any] {
	s.mux.RLock()
	defer s.mux.RUnlock()
	if s.listener == nil {
		return nil
	}
	return s.publisher
}

func keyOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func queueName(key reflect.Type) string {
	return strings.NewReplacer("/", "_", "*", "ptr_", "[", "_", "]", "_").Replace(key.String())
}

// SetListenerOf registers a typed listener, replacing the previous one
func SetListenerOf[T any](s *Service, handler func(*Event[T])) error {
	key := keyOf[T]()
	publisher, err := PublisherOf[T](s)
	if err != nil {
		return err
	}
	listener := NewListener[T](publisher, handler, s.logger)
	s.mux.Lock()
	previous, ok := s.typedListeners[key]
	s.typedListeners[key] = listener
	listener.Start()
	s.mux.Unlock()
	if ok {
		previous.(*Listener[T]).Stop()
	}
	return nil
}

// PublisherOf returns a publisher for the provided type
func PublisherOf[T any](s *Service) (*Publisher[T], error) {
	key := keyOf[T]()
	s.mux.RLock()
	ret, ok := s.typedPublishers[key]
	s.mux.RUnlock()
	if ok {
		return ret.(*Publisher[T]), nil
	}

	s.mux.Lock()
	defer s.mux.Unlock()
	if ret, ok = s.typedPublishers[key]; ok {
		return ret.(*Publisher[T]), nil
	}
	queue, err := QueueOf[Event[T]](s, queueName(key))
	if err != nil {
		return nil, err
	}
	publisher := NewPublisher[T](queue)
	publisher.mirror = s.anyPublisher
	publisher.logger = s.logger
	s.typedPublishers[key] = publisher
	return publisher, nil
}
