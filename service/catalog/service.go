// Package catalog keeps the named vehicle profiles known to the planner.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/mvplanning/model"
	"github.com/viant/mvplanning/service/meta"
)

// ErrUnknownProfile is returned when a profile id is not in the catalog
var ErrUnknownProfile = errors.New("catalog: unknown profile")

// Service holds profiles by id
type Service struct {
	mux      sync.RWMutex
	profiles map[string]*model.Profile
	meta     *meta.Service
}

// Option customises the catalog
type Option func(s *Service)

// WithMetaService sets the resource loader
func WithMetaService(metaService *meta.Service) Option {
	return func(s *Service) {
		s.meta = metaService
	}
}

// WithProfiles seeds the catalog
func WithProfiles(profiles ...*model.Profile) Option {
	return func(s *Service) {
		for _, profile := range profiles {
			s.profiles[profile.ID] = profile.Clone()
		}
	}
}

// New creates a catalog
func New(opts ...Option) *Service {
	ret := &Service{profiles: make(map[string]*model.Profile)}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.meta == nil {
		ret.meta = meta.New(afs.New(), "")
	}
	return ret
}

// Load reads a catalog document and registers all its profiles
func (s *Service) Load(ctx context.Context, URL string) error {
	catalog := &model.Catalog{}
	if err := s.meta.Load(ctx, URL, catalog); err != nil {
		return err
	}
	if err := catalog.Validate(); err != nil {
		return fmt.Errorf("invalid catalog %s: %w", URL, err)
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	for _, profile := range catalog.Profiles {
		if profile != nil {
			s.profiles[profile.ID] = profile.Clone()
		}
	}
	return nil
}

// Register adds or replaces a profile
func (s *Service) Register(profile *model.Profile) error {
	if profile == nil {
		return fmt.Errorf("profile was nil")
	}
	if err := errors.Join(profile.Validate()...); err != nil {
		return err
	}
	s.mux.Lock()
	s.profiles[profile.ID] = profile.Clone()
	s.mux.Unlock()
	return nil
}

// Lookup returns a copy of the profile
func (s *Service) Lookup(id string) (*model.Profile, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()
	profile, ok := s.profiles[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProfile, id)
	}
	return profile.Clone(), nil
}

// Profiles returns all profiles ordered by id
func (s *Service) Profiles() []*model.Profile {
	s.mux.RLock()
	ret := make([]*model.Profile, 0, len(s.profiles))
	for _, profile := range s.profiles {
		ret = append(ret, profile.Clone())
	}
	s.mux.RUnlock()
	sort.Slice(ret, func(i, j int) bool { return ret[i].ID < ret[j].ID })
	return ret
}
