package mvplanning

import (
	"github.com/sirupsen/logrus"
	"github.com/viant/afs/storage"
	"github.com/viant/mvplanning/service/availability"
	"github.com/viant/mvplanning/service/catalog"
	"github.com/viant/mvplanning/service/dao/assignment"
	"github.com/viant/mvplanning/service/event"
	"github.com/viant/mvplanning/service/messaging"
	"github.com/viant/mvplanning/service/transport"
	"github.com/viant/mvplanning/service/transport/plandb"
	"github.com/viant/mvplanning/tracing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Option customises the planner service
type Option func(s *Service)

// WithConfig sets the configuration
func WithConfig(config *Config) Option {
	return func(s *Service) {
		s.config = config
	}
}

// WithOracle sets the availability oracle; by default an in-memory tracker is used
func WithOracle(oracle availability.Oracle) Option {
	return func(s *Service) {
		s.oracle = oracle
	}
}

// WithNotifier sets the source of vehicle-became-available events
func WithNotifier(notifier availability.Notifier) Option {
	return func(s *Service) {
		s.notifier = notifier
	}
}

// WithTransport sets the plan delivery transport; by default plans are
// published as PlanDB requests to the outbox queue.
func WithTransport(t transport.Service) Option {
	return func(s *Service) {
		s.transport = t
	}
}

// WithOutboxRelay starts a worker forwarding PlanDB requests from the
// outbox to sender. Without a relay the outbox is left to external consumers
// and deliveries fail once it is full.
func WithOutboxRelay(sender plandb.Sender) Option {
	return func(s *Service) {
		s.runtime.relay = sender
	}
}

// WithAssignmentDAO sets the assignment ledger
func WithAssignmentDAO(dao assignment.DAO) Option {
	return func(s *Service) {
		s.assignmentDAO = dao
	}
}

// WithLogger sets the logger
func WithLogger(logger *logrus.Entry) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithCatalog sets the profile catalog
func WithCatalog(c *catalog.Service) Option {
	return func(s *Service) {
		s.catalog = c
	}
}

// WithEventService sets the event bus
func WithEventService(service *event.Service) Option {
	return func(s *Service) {
		s.eventService = service
	}
}

// WithQueueVendor overrides the configured messaging vendor
func WithQueueVendor(vendor messaging.Vendor) Option {
	return func(s *Service) {
		s.queueVendor = vendor
	}
}

// WithMetaBaseURL sets the base URL used to resolve the catalog location
func WithMetaBaseURL(url string) Option {
	return func(s *Service) {
		s.metaBaseURL = url
	}
}

// WithMetaFsOptions sets storage options used to load the catalog
func WithMetaFsOptions(options ...storage.Option) Option {
	return func(s *Service) {
		s.metaFsOptions = options
	}
}

// WithTracing configures OpenTelemetry tracing. If outputFile is empty the
// stdout exporter is used. The first successful initialisation wins.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		_ = tracing.Init(serviceName, serviceVersion, outputFile)
	}
}

// WithTracingExporter configures OpenTelemetry tracing with a custom exporter.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		_ = tracing.InitWithExporter(serviceName, serviceVersion, exporter)
	}
}
