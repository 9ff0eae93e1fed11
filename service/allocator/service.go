package allocator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/viant/mvplanning/internal/clock"
	"github.com/viant/mvplanning/internal/idgen"
	"github.com/viant/mvplanning/internal/logger"
	"github.com/viant/mvplanning/internal/metrics"
	"github.com/viant/mvplanning/model"
	"github.com/viant/mvplanning/policy"
	"github.com/viant/mvplanning/progress"
	"github.com/viant/mvplanning/service/availability"
	"github.com/viant/mvplanning/service/dao/assignment"
	"github.com/viant/mvplanning/service/transport"
	"github.com/viant/mvplanning/tracing"
)

// Service allocates plan tasks to vehicles
type Service struct {
	config      Config
	oracle      availability.Oracle
	transport   transport.Service
	assignments assignment.DAO
	logger      *logrus.Entry
	metrics     *metrics.Metrics
	progress    *progress.Progress

	mux      sync.Mutex
	registry *registry
	pending  *pending

	shutdownCh   chan struct{}
	shutdownOnce sync.Once
}

// New creates an allocator
func New(oracle availability.Oracle, deliverer transport.Service, opts ...Option) (*Service, error) {
	if oracle == nil {
		return nil, fmt.Errorf("availability oracle was nil")
	}
	if deliverer == nil {
		return nil, fmt.Errorf("transport was nil")
	}
	ret := &Service{
		config:     DefaultConfig(),
		oracle:     oracle,
		transport:  deliverer,
		registry:   newRegistry(),
		pending:    &pending{},
		shutdownCh: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if err := ret.config.Validate(); err != nil {
		return nil, err
	}
	if ret.logger == nil {
		ret.logger = logger.Default()
	}
	return ret, nil
}

// Register installs or replaces the allocation list of a profile
func (s *Service) Register(profile *model.Profile) error {
	if profile == nil || profile.ID == "" {
		return fmt.Errorf("%w: profile id is empty", ErrInvalidTask)
	}
	s.mux.Lock()
	s.registry.register(profile)
	s.mux.Unlock()
	return nil
}

// Roster returns the current allocation order of a profile
func (s *Service) Roster(profileID string) ([]string, bool) {
	s.mux.Lock()
	defer s.mux.Unlock()
	return s.registry.roster(profileID)
}

// Profiles returns ids of all known profiles
func (s *Service) Profiles() []string {
	s.mux.Lock()
	defer s.mux.Unlock()
	return s.registry.profiles()
}

// Allocate delivers task to the first available vehicle of its profile, in
// allocation list order, each vehicle being tried at most once. A candidate
// is moved to the back of the list while its delivery is in flight and put
// back when it cannot take the plan. When no vehicle accepts the plan the
// task is queued and OutcomeQueued is returned with a nil error. Only
// invalid tasks return an error.
func (s *Service) Allocate(ctx context.Context, task *model.PlanTask) (model.Outcome, error) {
	if err := validateTask(task); err != nil {
		return "", err
	}
	task = task.Clone()
	ctx, span := tracing.StartSpan(ctx, "allocator.allocate", "INTERNAL")
	span.WithAttributes(map[string]string{"plan.id": task.PlanID, "profile.id": task.ProfileID()})
	defer tracing.EndSpan(span, nil)

	profileID := task.ProfileID()
	s.mux.Lock()
	s.registry.ensure(task.Profile)
	if task.SubmittedAt.IsZero() {
		task.SubmittedAt = clock.Now()
	}
	task.State = model.TaskStateAllocating
	s.mux.Unlock()
	s.progress.Update(progress.Delta{Submitted: 1})

	vehiclePolicy := policy.FromContext(ctx)
	tried := make(map[string]bool)
	candidate := func(vehicle string) bool {
		return !tried[vehicle] && vehiclePolicy.IsAllowed(vehicle)
	}
	for ctx.Err() == nil {
		s.mux.Lock()
		vehicle, index, ok := s.registry.reserve(profileID, candidate)
		s.mux.Unlock()
		if !ok {
			break
		}
		tried[vehicle] = true
		if s.oracle.IsAvailable(ctx, vehicle) {
			requestID, err := s.deliver(ctx, vehicle, task)
			if err == nil {
				s.commit(ctx, task, vehicle, requestID, false)
				s.metrics.ObserveOutcome(string(model.OutcomeAllocated))
				span.AddEvent("allocated", map[string]string{"vehicle": vehicle})
				return model.OutcomeAllocated, nil
			}
		}
		s.mux.Lock()
		s.registry.release(profileID, vehicle, index)
		s.mux.Unlock()
	}

	s.mux.Lock()
	task.State = model.TaskStatePending
	s.pending.push(task, clock.Now())
	size := s.pending.size()
	s.mux.Unlock()
	s.metrics.SetPending(size)
	s.metrics.ObserveOutcome(string(model.OutcomeQueued))
	s.progress.Update(progress.Delta{Queued: 1, Pending: 1})
	s.logger.WithFields(logrus.Fields{"plan": task.PlanID, "profile": profileID}).Info("no vehicle available, plan queued")
	return model.OutcomeQueued, nil
}

// OnVehicleAvailable delivers to vehicle the oldest pending task whose
// profile includes vehicle and which vehicle accepts. Tasks are tried in
// FIFO order; a rejected task keeps its queue position and the next eligible
// one is tried. At most one task is drained per call. It returns true when a
// task was delivered.
func (s *Service) OnVehicleAvailable(ctx context.Context, vehicle string) (bool, error) {
	if vehicle == "" {
		return false, ErrInvalidVehicle
	}
	if !policy.FromContext(ctx).IsAllowed(vehicle) {
		return false, nil
	}
	ctx, span := tracing.StartSpan(ctx, "allocator.drain", "INTERNAL")
	span.WithAttributes(map[string]string{"vehicle": vehicle})
	defer tracing.EndSpan(span, nil)

	eligible := func(task *model.PlanTask) bool {
		return s.registry.contains(task.ProfileID(), vehicle)
	}
	var after uint64
	for ctx.Err() == nil {
		s.mux.Lock()
		taken := s.pending.takeFirst(after, eligible)
		if taken == nil {
			s.mux.Unlock()
			return false, nil
		}
		taken.task.State = model.TaskStateAllocating
		s.mux.Unlock()

		requestID, err := s.deliver(ctx, vehicle, taken.task)
		if err != nil {
			s.mux.Lock()
			taken.task.State = model.TaskStatePending
			s.pending.reinsert(taken)
			s.mux.Unlock()
			after = taken.seq
			continue
		}
		s.commit(ctx, taken.task, vehicle, requestID, true)
		s.mux.Lock()
		size := s.pending.size()
		s.mux.Unlock()
		s.metrics.SetPending(size)
		s.progress.Update(progress.Delta{Drained: 1, Pending: -1})
		span.AddEvent("drained", map[string]string{"plan.id": taken.task.PlanID})
		return true, nil
	}
	return false, nil
}

// HandleAvailable adapts OnVehicleAvailable to availability.Handler
func (s *Service) HandleAvailable(ctx context.Context, vehicle string) {
	drained, err := s.OnVehicleAvailable(ctx, vehicle)
	if err != nil {
		s.logger.WithField("vehicle", vehicle).WithError(err).Warn("failed to handle vehicle availability")
		return
	}
	if drained {
		s.logger.WithField("vehicle", vehicle).Debug("pending plan drained")
	}
}

// Expire moves tasks pending longer than PendingTTL to the dead letters
func (s *Service) Expire(now time.Time) []*model.PlanTask {
	if s.config.PendingTTL <= 0 {
		return nil
	}
	s.mux.Lock()
	expired := s.pending.expire(now.Add(-s.config.PendingTTL))
	size := s.pending.size()
	ret := make([]*model.PlanTask, 0, len(expired))
	for _, task := range expired {
		ret = append(ret, task.Clone())
	}
	s.mux.Unlock()
	if len(ret) == 0 {
		return nil
	}
	s.metrics.SetPending(size)
	s.progress.Update(progress.Delta{Expired: len(ret), Pending: -len(ret)})
	for _, task := range ret {
		s.logger.WithFields(logrus.Fields{"plan": task.PlanID, "profile": task.ProfileID()}).Warn("pending plan expired")
	}
	return ret
}

// Pending returns a snapshot of queued tasks in FIFO order
func (s *Service) Pending() []*model.PlanTask {
	s.mux.Lock()
	defer s.mux.Unlock()
	return s.pending.tasks()
}

// PendingCount returns the number of queued tasks
func (s *Service) PendingCount() int {
	s.mux.Lock()
	defer s.mux.Unlock()
	return s.pending.size()
}

// DeadLetters returns expired tasks
func (s *Service) DeadLetters() []*model.PlanTask {
	s.mux.Lock()
	defer s.mux.Unlock()
	return s.pending.deadLetters()
}

// Start runs the expiry loop until ctx is done or Shutdown is called
func (s *Service) Start(ctx context.Context) error {
	if s.config.PendingTTL <= 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.shutdownCh:
			return nil
		}
	}
	ticker := time.NewTicker(s.config.PollingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.shutdownCh:
			return nil
		case <-ticker.C:
			s.Expire(clock.Now())
		}
	}
}

// Shutdown stops the expiry loop
func (s *Service) Shutdown() {
	s.shutdownOnce.Do(func() {
		close(s.shutdownCh)
	})
}

func (s *Service) deliver(ctx context.Context, vehicle string, task *model.PlanTask) (int64, error) {
	if s.config.DeliveryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.DeliveryTimeout)
		defer cancel()
	}
	ctx, span := tracing.StartSpan(ctx, "transport.deliver", "CLIENT")
	span.WithAttributes(map[string]string{"plan.id": task.PlanID, "vehicle": vehicle})
	started := clock.Now()
	requestID, err := transport.Deliver(ctx, s.transport, vehicle, task)
	s.metrics.ObserveDelivery(clock.Since(started))
	tracing.EndSpan(span, err)
	if err != nil {
		s.metrics.DeliveryFailed(vehicle)
		s.progress.Update(progress.Delta{DeliveryFailures: 1})
		s.logger.WithFields(logrus.Fields{"plan": task.PlanID, "profile": task.ProfileID(), "vehicle": vehicle}).
			WithError(err).Warn("failed to deliver plan")
	}
	return requestID, err
}

// commit records the assignment. Drained deliveries also rotate vehicle
// within the task profile; allocations rotated it on reservation.
func (s *Service) commit(ctx context.Context, task *model.PlanTask, vehicle string, requestID int64, drained bool) {
	now := clock.Now()
	s.mux.Lock()
	if drained {
		s.registry.rotate(task.ProfileID(), vehicle)
	}
	task.State = model.TaskStateAllocated
	task.Vehicle = vehicle
	task.AllocatedAt = &now
	s.mux.Unlock()
	s.progress.Update(progress.Delta{Allocated: 1})

	log := s.logger.WithFields(logrus.Fields{"plan": task.PlanID, "profile": task.ProfileID(), "vehicle": vehicle})
	log.Info("plan allocated")
	if s.assignments == nil {
		return
	}
	record := &model.Assignment{
		ID:          idgen.New(),
		PlanID:      task.PlanID,
		ProfileID:   task.ProfileID(),
		Vehicle:     vehicle,
		RequestID:   requestID,
		Drained:     drained,
		AllocatedAt: now,
	}
	if err := s.assignments.Save(ctx, record); err != nil {
		log.WithError(err).Error("failed to record assignment")
	}
}
