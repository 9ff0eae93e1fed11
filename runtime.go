package mvplanning

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/viant/mvplanning/model"
	"github.com/viant/mvplanning/progress"
	"github.com/viant/mvplanning/service/allocator"
	"github.com/viant/mvplanning/service/availability"
	amemory "github.com/viant/mvplanning/service/availability/memory"
	"github.com/viant/mvplanning/service/catalog"
	"github.com/viant/mvplanning/service/dao"
	"github.com/viant/mvplanning/service/dao/assignment"
	"github.com/viant/mvplanning/service/event"
	"github.com/viant/mvplanning/service/messaging"
	"github.com/viant/mvplanning/service/transport/plandb"
)

// ErrNoTracker is returned when availability is managed by an external oracle
var ErrNoTracker = errors.New("availability is not tracked in process")

// Runtime represents the planner runtime
type Runtime struct {
	allocator   *allocator.Service
	catalog     *catalog.Service
	notifier    availability.Notifier
	tracker     *amemory.Tracker
	assignments assignment.DAO
	events      *event.Service
	outbox      messaging.Queue[plandb.Request]
	relay       plandb.Sender
	progress    *progress.Progress
	logger      *logrus.Entry
	closers     []func() error

	mux     sync.Mutex
	started bool
	stopped bool
	ctx     context.Context
	cancel  context.CancelFunc
	workers sync.WaitGroup
}

const relayIdleDelay = 20 * time.Millisecond

// Submit allocates a plan task, queueing it when no vehicle can take it now
func (r *Runtime) Submit(ctx context.Context, task *model.PlanTask) (model.Outcome, error) {
	return r.allocator.Allocate(ctx, task)
}

// SubmitByProfile resolves the profile in the catalog and submits the plan
func (r *Runtime) SubmitByProfile(ctx context.Context, planID, profileID string, payload []byte) (model.Outcome, error) {
	profile, err := r.catalog.Lookup(profileID)
	if err != nil {
		return "", err
	}
	return r.Submit(ctx, model.NewPlanTask(planID, profile, payload))
}

// RegisterProfile adds or replaces a profile and its allocation list
func (r *Runtime) RegisterProfile(profile *model.Profile) error {
	if err := r.catalog.Register(profile); err != nil {
		return err
	}
	return r.allocator.Register(profile)
}

// Profiles returns catalog profiles
func (r *Runtime) Profiles() []*model.Profile {
	return r.catalog.Profiles()
}

// Roster returns the current allocation order of a profile
func (r *Runtime) Roster(profileID string) ([]string, bool) {
	return r.allocator.Roster(profileID)
}

// SetAvailable updates the in-process availability tracker
func (r *Runtime) SetAvailable(ctx context.Context, vehicle string, available bool) error {
	if r.tracker == nil {
		return ErrNoTracker
	}
	if vehicle == "" {
		return allocator.ErrInvalidVehicle
	}
	return r.tracker.SetAvailable(ctx, vehicle, available)
}

// AvailableVehicles returns vehicles marked available in the tracker
func (r *Runtime) AvailableVehicles() []string {
	if r.tracker == nil {
		return nil
	}
	return r.tracker.Available()
}

// Pending returns queued tasks in FIFO order
func (r *Runtime) Pending() []*model.PlanTask {
	return r.allocator.Pending()
}

// DeadLetters returns tasks that expired while pending
func (r *Runtime) DeadLetters() []*model.PlanTask {
	return r.allocator.DeadLetters()
}

// Assignments lists recorded deliveries
func (r *Runtime) Assignments(ctx context.Context, parameters ...*dao.Parameter) ([]*model.Assignment, error) {
	return r.assignments.List(ctx, parameters...)
}

// Progress returns allocation counters
func (r *Runtime) Progress() progress.Snapshot {
	return r.progress.Snapshot()
}

// Outbox returns the PlanDB request queue used by the default transport, or nil
func (r *Runtime) Outbox() messaging.Queue[plandb.Request] {
	return r.outbox
}

// Start subscribes the allocator to availability events, starts the
// pending expiry loop and, when configured, the outbox relay. Calling Start
// more than once has no effect.
func (r *Runtime) Start(ctx context.Context) error {
	r.mux.Lock()
	defer r.mux.Unlock()
	if r.started {
		return nil
	}
	if r.stopped {
		return fmt.Errorf("runtime was shut down")
	}
	r.ctx, r.cancel = context.WithCancel(context.Background())
	if r.notifier != nil {
		if err := r.notifier.Subscribe(r.handleAvailable); err != nil {
			r.cancel()
			return fmt.Errorf("failed to subscribe to availability events: %w", err)
		}
	} else {
		r.logger.Warn("no availability notifier, pending plans are only expired")
	}
	r.started = true
	go func() {
		if err := r.allocator.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			r.logger.WithError(err).Error("allocator stopped")
		}
	}()
	if r.relay != nil && r.outbox != nil {
		r.workers.Add(1)
		go r.relayOutbox(r.ctx)
	}
	return nil
}

// handleAvailable runs drains under the runtime context so that Shutdown
// interrupts deliveries still in flight.
func (r *Runtime) handleAvailable(ctx context.Context, vehicle string) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(r.ctx, cancel)
	defer stop()
	r.allocator.HandleAvailable(ctx, vehicle)
}

// relayOutbox hands PlanDB requests from the outbox to the vehicle link
func (r *Runtime) relayOutbox(ctx context.Context) {
	defer r.workers.Done()
	log := r.logger.WithField("component", "relay")
	for {
		message, err := r.outbox.Consume(ctx)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			log.WithError(err).Warn("failed to consume plan request")
		}
		if message == nil {
			select {
			case <-ctx.Done():
				return
			case <-time.After(relayIdleDelay):
			}
			continue
		}
		request := message.T()
		if err = r.relay.Send(ctx, request); err != nil {
			log.WithFields(logrus.Fields{"plan": request.PlanID, "vehicle": request.Vehicle}).WithError(err).Warn("failed to relay plan request")
			_ = message.Nack(err)
			continue
		}
		_ = message.Ack()
	}
}

// Shutdown stops background work and releases resources
func (r *Runtime) Shutdown(ctx context.Context) error {
	r.mux.Lock()
	if r.stopped {
		r.mux.Unlock()
		return nil
	}
	r.stopped = true
	cancel := r.cancel
	r.mux.Unlock()

	if cancel != nil {
		cancel()
	}
	r.allocator.Shutdown()
	if r.events != nil {
		r.events.Close()
	}
	r.workers.Wait()
	var errs []error
	for _, closer := range r.closers {
		if err := closer(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
