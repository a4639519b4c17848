package services

import (
	"context"
	"time"

	"goaltracker/models"
	repository "goaltracker/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeGoalRepo keeps goals per username in insertion order, which
// doubles as id-ascending order for ordinal tests.
type fakeGoalRepo struct {
	goals map[string][]models.Goal
}

func newFakeGoalRepo() *fakeGoalRepo {
	return &fakeGoalRepo{goals: make(map[string][]models.Goal)}
}

func (f *fakeGoalRepo) add(username, name string) models.Goal {
	goal := models.Goal{
		ID:       primitive.NewObjectID(),
		GoalName: name,
		Username: username,
		Category: models.CategoryPrimary,
	}
	f.goals[username] = append(f.goals[username], goal)
	return goal
}

func (f *fakeGoalRepo) Create(ctx context.Context, goal *models.Goal) error {
	goal.ID = primitive.NewObjectID()
	f.goals[goal.Username] = append(f.goals[goal.Username], *goal)
	return nil
}

func (f *fakeGoalRepo) ListByUser(ctx context.Context, username string) ([]models.Goal, error) {
	return f.goals[username], nil
}

func (f *fakeGoalRepo) Page(ctx context.Context, username string, filter repository.GoalFilter, page, pageSize int) (int64, []models.Goal, error) {
	matched := []models.Goal{}
	for _, goal := range f.goals[username] {
		if filter.Category != "" && goal.Category != filter.Category {
			continue
		}
		if filter.IsComplete != nil && goal.IsComplete != *filter.IsComplete {
			continue
		}
		matched = append(matched, goal)
	}

	start := (page - 1) * pageSize
	if start > len(matched) {
		start = len(matched)
	}
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}

	return int64(len(matched)), matched[start:end], nil
}

func (f *fakeGoalRepo) SetLastProgress(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	for username, goals := range f.goals {
		for i := range goals {
			if goals[i].ID == id {
				f.goals[username][i].LastProgressAt = &at
				return nil
			}
		}
	}
	return repository.ErrNotFound
}

func (f *fakeGoalRepo) DeleteCascade(ctx context.Context, id primitive.ObjectID) error {
	for username, goals := range f.goals {
		for i := range goals {
			if goals[i].ID == id {
				f.goals[username] = append(goals[:i], goals[i+1:]...)
				return nil
			}
		}
	}
	return repository.ErrNotFound
}

func (f *fakeGoalRepo) ListInactive(ctx context.Context, cutoff time.Time) ([]models.Goal, error) {
	return nil, nil
}

func (f *fakeGoalRepo) MarkReminderSent(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	return nil
}

// fakeProgressRepo stores progress per goal id and counts reads so
// cache tests can observe recomputation.
type fakeProgressRepo struct {
	records   map[primitive.ObjectID][]models.Progress
	readCalls int
}

func newFakeProgressRepo() *fakeProgressRepo {
	return &fakeProgressRepo{records: make(map[primitive.ObjectID][]models.Progress)}
}

func (f *fakeProgressRepo) add(goalID primitive.ObjectID, createdAt time.Time, logged *models.Duration) models.Progress {
	progress := models.Progress{
		ID:          primitive.NewObjectID(),
		Progress:    "entry",
		GoalID:      goalID,
		LoggedHours: logged,
		CreatedAt:   createdAt,
	}
	f.records[goalID] = append(f.records[goalID], progress)
	return progress
}

func (f *fakeProgressRepo) Create(ctx context.Context, progress *models.Progress) error {
	progress.ID = primitive.NewObjectID()
	f.records[progress.GoalID] = append(f.records[progress.GoalID], *progress)
	return nil
}

func (f *fakeProgressRepo) ListByGoal(ctx context.Context, goalID primitive.ObjectID) ([]models.Progress, error) {
	f.readCalls++
	return f.records[goalID], nil
}

func (f *fakeProgressRepo) ListByGoals(ctx context.Context, goalIDs []primitive.ObjectID) ([]models.Progress, error) {
	f.readCalls++
	all := []models.Progress{}
	for _, id := range goalIDs {
		all = append(all, f.records[id]...)
	}
	return all, nil
}

func (f *fakeProgressRepo) Update(ctx context.Context, id primitive.ObjectID, progress *models.Progress) error {
	for goalID, records := range f.records {
		for i := range records {
			if records[i].ID == id {
				f.records[goalID][i] = *progress
				return nil
			}
		}
	}
	return repository.ErrNotFound
}

func (f *fakeProgressRepo) ListOverviews(ctx context.Context) ([]models.ProgressOverview, error) {
	return nil, nil
}

func durationPtr(seconds int64) *models.Duration {
	d := models.Duration(seconds)
	return &d
}

func intPtr(n int) *int {
	return &n
}
