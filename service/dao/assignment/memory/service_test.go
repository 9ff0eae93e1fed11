package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/mvplanning/model"
	"github.com/viant/mvplanning/service/dao"
	"github.com/viant/mvplanning/service/dao/assignment"
)

func TestService(t *testing.T) {
	srv := New()
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	record := &model.Assignment{ID: "a1", PlanID: "plan-1", ProfileID: "p1", Vehicle: "v1", AllocatedAt: base}
	require.NoError(t, srv.Save(ctx, record))
	require.NoError(t, srv.Save(ctx, &model.Assignment{ID: "a0", PlanID: "plan-0", ProfileID: "p2", Vehicle: "v2", AllocatedAt: base.Add(-time.Minute)}))

	record.Vehicle = "mutated"
	loaded, err := srv.Load(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "v1", loaded.Vehicle)

	all, err := srv.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a0", all[0].ID)

	byVehicle, err := srv.List(ctx, dao.NewParameter(assignment.ParamVehicle, "v1"))
	require.NoError(t, err)
	require.Len(t, byVehicle, 1)
	assert.Equal(t, "a1", byVehicle[0].ID)

	require.NoError(t, srv.Delete(ctx, "a1"))
	_, err = srv.Load(ctx, "a1")
	assert.ErrorIs(t, err, dao.ErrNotFound)
	assert.ErrorIs(t, srv.Save(ctx, &model.Assignment{}), dao.ErrInvalidID)
}
