package allocator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/mvplanning/model"
)

func TestPending_Reinsert(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	q := &pending{}
	for i, id := range []string{"t1", "t2", "t3"} {
		q.push(&model.PlanTask{PlanID: id}, base.Add(time.Duration(i)*time.Second))
	}

	taken := q.takeFirst(0, func(task *model.PlanTask) bool { return task.PlanID == "t2" })
	require.NotNil(t, taken)
	first := q.takeFirst(0, func(task *model.PlanTask) bool { return task.PlanID == "t1" })
	require.NotNil(t, first)
	q.push(&model.PlanTask{PlanID: "t4"}, base.Add(time.Minute))

	q.reinsert(taken)
	assert.Equal(t, []string{"t2", "t3", "t4"}, planIDs(q.tasks()))
	q.reinsert(first)
	assert.Equal(t, []string{"t1", "t2", "t3", "t4"}, planIDs(q.tasks()))
	assert.Nil(t, q.takeFirst(0, func(task *model.PlanTask) bool { return false }))
}

func TestPending_TakeAfter(t *testing.T) {
	q := &pending{}
	for _, id := range []string{"t1", "t2", "t3"} {
		q.push(&model.PlanTask{PlanID: id}, time.Time{})
	}
	all := func(task *model.PlanTask) bool { return true }

	first := q.takeFirst(0, all)
	require.NotNil(t, first)
	q.reinsert(first)
	second := q.takeFirst(first.seq, all)
	require.NotNil(t, second)
	assert.Equal(t, "t2", second.task.PlanID)
	q.reinsert(second)
	assert.Equal(t, []string{"t1", "t2", "t3"}, planIDs(q.tasks()))
}

func TestPending_Expire(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	q := &pending{}
	for i, id := range []string{"t1", "t2", "t3"} {
		q.push(&model.PlanTask{PlanID: id, State: model.TaskStatePending}, base.Add(time.Duration(i)*time.Minute))
	}
	expired := q.expire(base.Add(time.Minute))
	assert.Equal(t, []string{"t1", "t2"}, planIDs(expired))
	assert.Equal(t, []string{"t3"}, planIDs(q.tasks()))
	assert.Equal(t, 1, q.size())
	dead := q.deadLetters()
	require.Len(t, dead, 2)
	assert.Equal(t, model.TaskStateExpired, dead[0].State)
}
