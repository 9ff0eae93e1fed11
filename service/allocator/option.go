package allocator

import (
	"github.com/sirupsen/logrus"
	"github.com/viant/mvplanning/internal/metrics"
	"github.com/viant/mvplanning/progress"
	"github.com/viant/mvplanning/service/dao/assignment"
)

// Option customises the allocator
type Option func(s *Service)

// WithConfig sets the allocator configuration
func WithConfig(config Config) Option {
	return func(s *Service) {
		s.config = config
	}
}

// WithLogger sets the logger
func WithLogger(logger *logrus.Entry) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMetrics sets prometheus collectors
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithProgress sets the progress tracker
func WithProgress(p *progress.Progress) Option {
	return func(s *Service) {
		s.progress = p
	}
}

// WithAssignmentDAO sets the ledger recording successful deliveries
func WithAssignmentDAO(dao assignment.DAO) Option {
	return func(s *Service) {
		s.assignments = dao
	}
}
