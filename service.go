package mvplanning

import (
	"context"
	"fmt"
	"os"
	"path"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/mvplanning/internal/logger"
	"github.com/viant/mvplanning/internal/metrics"
	"github.com/viant/mvplanning/progress"
	"github.com/viant/mvplanning/service/allocator"
	"github.com/viant/mvplanning/service/availability"
	amemory "github.com/viant/mvplanning/service/availability/memory"
	"github.com/viant/mvplanning/service/catalog"
	"github.com/viant/mvplanning/service/dao/assignment"
	afsledger "github.com/viant/mvplanning/service/dao/assignment/fs"
	mledger "github.com/viant/mvplanning/service/dao/assignment/memory"
	"github.com/viant/mvplanning/service/dao/assignment/sqlite"
	"github.com/viant/mvplanning/service/event"
	"github.com/viant/mvplanning/service/messaging"
	"github.com/viant/mvplanning/service/messaging/fs"
	"github.com/viant/mvplanning/service/meta"
	"github.com/viant/mvplanning/service/transport"
	"github.com/viant/mvplanning/service/transport/plandb"
	"github.com/viant/mvplanning/tracing"
)

// Service wires the allocator with its collaborators
type Service struct {
	config        *Config
	runtime       *Runtime
	logger        *logrus.Entry
	oracle        availability.Oracle
	notifier      availability.Notifier
	transport     transport.Service
	assignmentDAO assignment.DAO
	catalog       *catalog.Service
	eventService  *event.Service
	queueVendor   messaging.Vendor
	metaBaseURL   string
	metaFsOptions []storage.Option
	metrics       *metrics.Metrics
	registry      *prometheus.Registry
}

func (s *Service) init(options []Option) error {
	for _, option := range options {
		option(s)
	}
	if s.config == nil {
		s.config = DefaultConfig()
	}
	if s.queueVendor != "" {
		s.config.Messaging.Vendor = s.queueVendor
	}
	if err := s.config.Validate(); err != nil {
		return err
	}
	if s.logger == nil {
		s.logger = logger.New(os.Stderr, s.config.Log.Level, s.config.Log.JSON)
	}
	if s.config.Tracing.Enabled {
		if err := tracing.Init(s.config.Tracing.ServiceName, s.config.Tracing.ServiceVersion, s.config.Tracing.OutputFile); err != nil {
			return fmt.Errorf("failed to init tracing: %w", err)
		}
	}
	if err := s.ensureBaseSetup(); err != nil {
		return err
	}

	s.metrics = metrics.New()
	s.registry = prometheus.NewRegistry()
	if err := s.metrics.Register(s.registry); err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}
	s.runtime.progress = progress.New(func(snapshot progress.Snapshot) {
		s.logger.WithField("pending", snapshot.Pending).Trace("progress changed")
	})
	var err error
	s.runtime.allocator, err = allocator.New(s.oracle, s.transport,
		allocator.WithConfig(s.config.Allocator),
		allocator.WithLogger(s.logger.WithField("component", "allocator")),
		allocator.WithMetrics(s.metrics),
		allocator.WithProgress(s.runtime.progress),
		allocator.WithAssignmentDAO(s.assignmentDAO),
	)
	if err != nil {
		return err
	}
	for _, profile := range s.catalog.Profiles() {
		if err := s.runtime.allocator.Register(profile); err != nil {
			return err
		}
	}
	s.runtime.catalog = s.catalog
	s.runtime.notifier = s.notifier
	s.runtime.assignments = s.assignmentDAO
	s.runtime.events = s.eventService
	s.runtime.logger = s.logger
	return nil
}

func (s *Service) ensureBaseSetup() error {
	var err error
	if s.eventService == nil {
		base := s.config.Messaging.BasePath
		if s.eventService, err = event.New(s.config.Messaging.Vendor,
			event.WithLogger(s.logger.WithField("component", "event")),
			event.WithNewFsQueueConfig(func(name string) fs.Config {
				cfg := fs.DefaultConfig()
				cfg.BasePath = path.Join(base, "queue", name)
				return cfg
			})); err != nil {
			return fmt.Errorf("failed to create event service: %w", err)
		}
	}
	if s.oracle == nil {
		tracker, err := amemory.New(s.eventService)
		if err != nil {
			return err
		}
		s.oracle = tracker
		s.runtime.tracker = tracker
		if s.notifier == nil {
			s.notifier = tracker
		}
	}
	if s.transport == nil {
		outbox, err := event.QueueOf[plandb.Request](s.eventService, "plandb")
		if err != nil {
			return fmt.Errorf("failed to create plan outbox: %w", err)
		}
		s.runtime.outbox = outbox
		s.transport = plandb.New(plandb.NewQueueSender(outbox))
	}
	if s.assignmentDAO == nil {
		switch s.config.Ledger.Kind {
		case LedgerFs:
			if s.assignmentDAO, err = afsledger.New(s.config.Ledger.Path, afsledger.WithLogger(s.logger)); err != nil {
				return err
			}
		case LedgerSqlite:
			ledger, err := sqlite.Open(s.config.Ledger.Path)
			if err != nil {
				return fmt.Errorf("failed to open sqlite ledger: %w", err)
			}
			s.assignmentDAO = ledger
			s.runtime.closers = append(s.runtime.closers, ledger.Close)
		default:
			s.assignmentDAO = mledger.New()
		}
	}
	if s.catalog == nil {
		s.catalog = catalog.New(catalog.WithMetaService(meta.New(afs.New(), s.metaBaseURL, s.metaFsOptions...)))
	}
	if URL := s.config.Catalog.URL; URL != "" {
		if err = s.catalog.Load(context.Background(), URL); err != nil {
			return fmt.Errorf("failed to load catalog: %w", err)
		}
	}
	return nil
}

// Runtime returns the planner runtime
func (s *Service) Runtime() *Runtime {
	return s.runtime
}

// Config returns the effective configuration
func (s *Service) Config() *Config {
	return s.config
}

// Gatherer returns the prometheus registry holding planner metrics
func (s *Service) Gatherer() prometheus.Gatherer {
	return s.registry
}

// New creates a planner service
func New(options ...Option) (*Service, error) {
	ret := &Service{runtime: &Runtime{}}
	if err := ret.init(options); err != nil {
		return nil, err
	}
	return ret, nil
}
