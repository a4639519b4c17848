package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"goaltracker/models"
	repository "goaltracker/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeGoalRepo struct {
	inactive     []models.Goal
	remindedIDs  []primitive.ObjectID
	listErr      error
	markSentErrs map[primitive.ObjectID]error
}

func (f *fakeGoalRepo) Create(ctx context.Context, goal *models.Goal) error { panic("not used") }

func (f *fakeGoalRepo) ListByUser(ctx context.Context, username string) ([]models.Goal, error) {
	panic("not used")
}

func (f *fakeGoalRepo) Page(ctx context.Context, username string, filter repository.GoalFilter, page, pageSize int) (int64, []models.Goal, error) {
	panic("not used")
}

func (f *fakeGoalRepo) SetLastProgress(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	panic("not used")
}

func (f *fakeGoalRepo) DeleteCascade(ctx context.Context, id primitive.ObjectID) error {
	panic("not used")
}

func (f *fakeGoalRepo) ListInactive(ctx context.Context, cutoff time.Time) ([]models.Goal, error) {
	return f.inactive, f.listErr
}

func (f *fakeGoalRepo) MarkReminderSent(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	if err := f.markSentErrs[id]; err != nil {
		return err
	}
	f.remindedIDs = append(f.remindedIDs, id)
	return nil
}

type fakeUserRepo struct {
	users map[string]*models.User
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error { panic("not used") }

func (f *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	if user, ok := f.users[username]; ok {
		return user, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) CountByUsername(ctx context.Context, username string) (int64, error) {
	panic("not used")
}

func (f *fakeUserRepo) ListUsernames(ctx context.Context) ([]string, error) { panic("not used") }

type fakeMailer struct {
	sent    []string
	failFor map[string]error
}

func (f *fakeMailer) Send(to, subject, body string) error {
	if err := f.failFor[to]; err != nil {
		return err
	}
	f.sent = append(f.sent, to)
	return nil
}

func inactiveGoal(username string) models.Goal {
	return models.Goal{
		ID:       primitive.NewObjectID(),
		GoalName: "learn go",
		Username: username,
	}
}

func TestReminderJobSendsAndMarks(t *testing.T) {
	goal := inactiveGoal("alice")
	goals := &fakeGoalRepo{inactive: []models.Goal{goal}}
	users := &fakeUserRepo{users: map[string]*models.User{
		"alice": {Username: "alice", Email: "alice@example.com"},
	}}
	mailer := &fakeMailer{}

	NewReminderJob(goals, users, mailer, 7*24*time.Hour).Run()

	require.Equal(t, []string{"alice@example.com"}, mailer.sent)
	assert.Equal(t, []primitive.ObjectID{goal.ID}, goals.remindedIDs)
}

func TestReminderJobSkipsUsersWithoutEmail(t *testing.T) {
	goals := &fakeGoalRepo{inactive: []models.Goal{inactiveGoal("alice"), inactiveGoal("ghost")}}
	users := &fakeUserRepo{users: map[string]*models.User{
		"alice": {Username: "alice"}, // no email address
	}}
	mailer := &fakeMailer{}

	NewReminderJob(goals, users, mailer, 7*24*time.Hour).Run()

	assert.Empty(t, mailer.sent)
	assert.Empty(t, goals.remindedIDs)
}

func TestReminderJobContinuesPastSendFailure(t *testing.T) {
	first := inactiveGoal("alice")
	second := inactiveGoal("bob")
	goals := &fakeGoalRepo{inactive: []models.Goal{first, second}}
	users := &fakeUserRepo{users: map[string]*models.User{
		"alice": {Username: "alice", Email: "alice@example.com"},
		"bob":   {Username: "bob", Email: "bob@example.com"},
	}}
	mailer := &fakeMailer{failFor: map[string]error{
		"alice@example.com": errors.New("smtp unavailable"),
	}}

	NewReminderJob(goals, users, mailer, 7*24*time.Hour).Run()

	// The failed goal is not marked, so the next sweep retries it.
	require.Equal(t, []string{"bob@example.com"}, mailer.sent)
	assert.Equal(t, []primitive.ObjectID{second.ID}, goals.remindedIDs)
}
