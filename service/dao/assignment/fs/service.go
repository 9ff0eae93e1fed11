package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/option"
	"github.com/viant/afs/url"
	"github.com/viant/mvplanning/internal/logger"
	"github.com/viant/mvplanning/model"
	"github.com/viant/mvplanning/service/dao"
	"github.com/viant/mvplanning/service/dao/assignment"
	"github.com/viant/mvplanning/service/dao/criteria"
)

// Service stores one JSON document per assignment under basePath
type Service struct {
	basePath string
	fs       afs.Service
	logger   *logrus.Entry
	mu       sync.RWMutex
}

// Save persists an assignment
func (s *Service) Save(ctx context.Context, a *model.Assignment) error {
	if a == nil {
		return dao.ErrNilEntity
	}
	if a.ID == "" {
		return dao.ErrInvalidID
	}
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to marshal assignment: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	filePath := s.assignmentPath(a.ID)
	if err = s.fs.Upload(ctx, filePath, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to save assignment to file %s: %w", filePath, err)
	}
	return nil
}

// Load retrieves an assignment
func (s *Service) Load(ctx context.Context, id string) (*model.Assignment, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	filePath := s.assignmentPath(id)
	if exists, _ := s.fs.Exists(ctx, filePath); !exists {
		return nil, fmt.Errorf("assignment %s: %w", id, dao.ErrNotFound)
	}
	data, err := s.fs.DownloadWithURL(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read assignment file: %w", err)
	}
	ret := &model.Assignment{}
	if err := json.Unmarshal(data, ret); err != nil {
		return nil, fmt.Errorf("failed to unmarshal assignment %s: %w", id, err)
	}
	return ret, nil
}

// Delete removes an assignment
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return dao.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	filePath := s.assignmentPath(id)
	if exists, _ := s.fs.Exists(ctx, filePath); !exists {
		return fmt.Errorf("assignment %s: %w", id, dao.ErrNotFound)
	}
	if err := s.fs.Delete(ctx, filePath); err != nil {
		return fmt.Errorf("failed to delete assignment file: %w", err)
	}
	return nil
}

// List returns assignments matching parameters, oldest first
func (s *Service) List(ctx context.Context, parameters ...*dao.Parameter) ([]*model.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	objects, err := s.fs.List(ctx, s.basePath, option.NewRecursive(false))
	if err != nil {
		return nil, fmt.Errorf("failed to list assignment files: %w", err)
	}
	var ret []*model.Assignment
	for _, object := range objects {
		if object.IsDir() || !strings.HasSuffix(object.Name(), ".json") {
			continue
		}
		data, err := s.fs.Download(ctx, object)
		if err != nil {
			s.logger.WithError(err).WithField("url", object.URL()).Warn("failed to read assignment")
			continue
		}
		a := &model.Assignment{}
		if err := json.Unmarshal(data, a); err != nil {
			s.logger.WithError(err).WithField("url", object.URL()).Warn("failed to decode assignment")
			continue
		}
		if !criteria.Matches(assignment.Fields(a), parameters) {
			continue
		}
		ret = append(ret, a)
	}
	sort.Slice(ret, func(i, j int) bool { return assignment.Less(ret[i], ret[j]) })
	return ret, nil
}

func (s *Service) assignmentPath(id string) string {
	return url.Join(s.basePath, id+".json")
}

// Option customises the service
type Option func(s *Service)

// WithLogger sets the logger
func WithLogger(logger *logrus.Entry) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// New creates a file system ledger rooted at basePath
func New(basePath string, opts ...Option) (*Service, error) {
	if basePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}
	ret := &Service{
		basePath: url.Normalize(basePath, file.Scheme),
		fs:       afs.New(),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.logger == nil {
		ret.logger = logger.Default()
	}
	ctx := context.Background()
	if exists, _ := ret.fs.Exists(ctx, ret.basePath); !exists {
		if err := ret.fs.Create(ctx, ret.basePath, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("failed to create base directory: %w", err)
		}
	}
	return ret, nil
}

var _ assignment.DAO = (*Service)(nil)
