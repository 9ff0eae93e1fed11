package memory

import (
	"context"

	"github.com/viant/mvplanning/model"
	"github.com/viant/mvplanning/service/dao"
	"github.com/viant/mvplanning/service/dao/assignment"
	"github.com/viant/mvplanning/service/dao/criteria"
	"github.com/viant/mvplanning/service/dao/store"
)

// Service is an in-memory assignment ledger
type Service struct {
	*store.MemoryStore[string, model.Assignment]
}

// Save stores a copy of the assignment
func (s *Service) Save(ctx context.Context, a *model.Assignment) error {
	if a == nil {
		return dao.ErrNilEntity
	}
	if a.ID == "" {
		return dao.ErrInvalidID
	}
	clone := *a
	return s.MemoryStore.Save(ctx, &clone)
}

// New creates a memory ledger
func New() *Service {
	return &Service{
		MemoryStore: store.NewMemoryStore[string, model.Assignment](
			func(a *model.Assignment) string { return a.ID },
			store.WithFilter[string, model.Assignment](func(a *model.Assignment, parameters []*dao.Parameter) bool {
				return criteria.Matches(assignment.Fields(a), parameters)
			}),
			store.WithOrder[string, model.Assignment](assignment.Less),
		),
	}
}

var _ assignment.DAO = (*Service)(nil)
