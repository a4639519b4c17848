package services

import (
	"context"
	"testing"
	"time"

	"goaltracker/models"
	repository "goaltracker/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateGoalDefaults(t *testing.T) {
	goals := newFakeGoalRepo()
	svc := NewGoalService(goals, newFakeProgressRepo())

	created, err := svc.CreateGoal(context.Background(), "alice", &models.Goal{
		GoalName:   "learn go",
		Username:   "mallory", // ignored: owner is forced to the caller
		IsComplete: true,      // ignored: goals start incomplete
	})
	require.NoError(t, err)

	assert.Equal(t, "alice", created.Username)
	assert.Equal(t, models.CategoryPrimary, created.Category)
	assert.False(t, created.IsComplete)
	assert.False(t, created.CreatedAt.IsZero())
}

func TestResolveGoalByNumber(t *testing.T) {
	goals := newFakeGoalRepo()
	first := goals.add("alice", "learn go")
	second := goals.add("alice", "learn rust")
	goals.add("bob", "learn python")

	svc := NewGoalService(goals, newFakeProgressRepo())
	ctx := context.Background()

	got, err := svc.ResolveGoalByNumber(ctx, "alice", 1)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)

	got, err = svc.ResolveGoalByNumber(ctx, "alice", 2)
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)

	// Out of range in either direction never reaches another user's
	// goals.
	_, err = svc.ResolveGoalByNumber(ctx, "alice", 0)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = svc.ResolveGoalByNumber(ctx, "alice", 3)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = svc.ResolveGoalByNumber(ctx, "carol", 1)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestGetGoalByNumberCompletionPercent(t *testing.T) {
	goals := newFakeGoalRepo()
	progress := newFakeProgressRepo()
	goal := goals.add("alice", "learn go")

	now := time.Now().UTC()
	progress.records[goal.ID] = []models.Progress{
		{GoalID: goal.ID, CreatedAt: now, LoggedHours: durationPtr(3600), TotalHours: durationPtr(7200)},
		{GoalID: goal.ID, CreatedAt: now, LoggedHours: durationPtr(1800), TotalHours: durationPtr(3600)},
	}

	svc := NewGoalService(goals, progress)

	detail, err := svc.GetGoalByNumber(context.Background(), "alice", 1)
	require.NoError(t, err)
	// (3600+1800)/(7200+3600) = 50%
	assert.InDelta(t, 50.0, detail.CompletionPercent, 1e-9)
}

func TestGetGoalByNumberZeroDenominator(t *testing.T) {
	goals := newFakeGoalRepo()
	progress := newFakeProgressRepo()
	goal := goals.add("alice", "learn go")
	progress.add(goal.ID, time.Now().UTC(), durationPtr(3600))

	svc := NewGoalService(goals, progress)

	detail, err := svc.GetGoalByNumber(context.Background(), "alice", 1)
	require.NoError(t, err)
	assert.Zero(t, detail.CompletionPercent)
}

func TestListGoalsFilterAndPagination(t *testing.T) {
	goals := newFakeGoalRepo()
	for i := 0; i < 15; i++ {
		goals.add("alice", "goal")
	}

	svc := NewGoalService(goals, newFakeProgressRepo())
	ctx := context.Background()

	page, err := svc.ListGoals(ctx, "alice", repository.GoalFilter{}, 2, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(15), page.Count)
	assert.Len(t, page.Results, 5)

	complete := true
	page, err = svc.ListGoals(ctx, "alice", repository.GoalFilter{IsComplete: &complete}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), page.Count)

	// Bad paging inputs fall back to defaults.
	page, err = svc.ListGoals(ctx, "alice", repository.GoalFilter{}, 0, -5)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 10, page.PageSize)
}

func TestDeleteGoalByNumber(t *testing.T) {
	goals := newFakeGoalRepo()
	goals.add("alice", "learn go")
	goals.add("alice", "learn rust")

	svc := NewGoalService(goals, newFakeProgressRepo())
	ctx := context.Background()

	require.NoError(t, svc.DeleteGoalByNumber(ctx, "alice", 1))
	remaining, err := svc.ResolveGoalByNumber(ctx, "alice", 1)
	require.NoError(t, err)
	assert.Equal(t, "learn rust", remaining.GoalName)

	assert.ErrorIs(t, svc.DeleteGoalByNumber(ctx, "alice", 5), repository.ErrNotFound)
}
