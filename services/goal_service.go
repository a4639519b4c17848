package services

import (
	"context"
	"time"

	"goaltracker/models"
	repository "goaltracker/repositories"
)

type GoalService interface {
	CreateGoal(ctx context.Context, username string, goal *models.Goal) (*models.Goal, error)
	ListGoals(ctx context.Context, username string, filter repository.GoalFilter, page, pageSize int) (*models.GoalPage, error)
	// GetGoalByNumber resolves a 1-based goal number within the
	// caller's goals and derives the completion percentage.
	GetGoalByNumber(ctx context.Context, username string, goalNum int) (*models.GoalDetail, error)
	// DeleteGoalByNumber removes the selected goal and cascades to its
	// progress entries.
	DeleteGoalByNumber(ctx context.Context, username string, goalNum int) error
	// ResolveGoalByNumber is the shared ordinal lookup used by the
	// progress endpoints; out-of-range maps to not-found there.
	ResolveGoalByNumber(ctx context.Context, username string, goalNum int) (*models.Goal, error)
}

type goalService struct {
	goals    repository.GoalRepository
	progress repository.ProgressRepository
}

func NewGoalService(goals repository.GoalRepository, progress repository.ProgressRepository) GoalService {
	return &goalService{
		goals:    goals,
		progress: progress,
	}
}

func (s *goalService) CreateGoal(ctx context.Context, username string, goal *models.Goal) (*models.Goal, error) {
	now := time.Now().UTC()
	goal.Username = username
	goal.IsComplete = false
	goal.LastProgressAt = nil
	goal.LastReminderSentAt = nil
	goal.CreatedAt = now
	goal.UpdatedAt = now
	if goal.Category == "" {
		goal.Category = models.CategoryPrimary
	}

	if err := s.goals.Create(ctx, goal); err != nil {
		return nil, err
	}

	return goal, nil
}

func (s *goalService) ListGoals(ctx context.Context, username string, filter repository.GoalFilter, page, pageSize int) (*models.GoalPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	if pageSize > 100 {
		pageSize = 100
	}

	count, goals, err := s.goals.Page(ctx, username, filter, page, pageSize)
	if err != nil {
		return nil, err
	}

	return &models.GoalPage{
		Count:    count,
		Page:     page,
		PageSize: pageSize,
		Results:  goals,
	}, nil
}

func (s *goalService) GetGoalByNumber(ctx context.Context, username string, goalNum int) (*models.GoalDetail, error) {
	goal, err := s.ResolveGoalByNumber(ctx, username, goalNum)
	if err != nil {
		return nil, err
	}

	records, err := s.progress.ListByGoal(ctx, goal.ID)
	if err != nil {
		return nil, err
	}

	return &models.GoalDetail{
		Goal:              *goal,
		CompletionPercent: completionPercent(records),
	}, nil
}

func (s *goalService) DeleteGoalByNumber(ctx context.Context, username string, goalNum int) error {
	goal, err := s.ResolveGoalByNumber(ctx, username, goalNum)
	if err != nil {
		return err
	}

	return s.goals.DeleteCascade(ctx, goal.ID)
}

func (s *goalService) ResolveGoalByNumber(ctx context.Context, username string, goalNum int) (*models.Goal, error) {
	goals, err := s.goals.ListByUser(ctx, username)
	if err != nil {
		return nil, err
	}
	if goalNum < 1 || goalNum > len(goals) {
		return nil, repository.ErrNotFound
	}

	return &goals[goalNum-1], nil
}

// completionPercent derives sum(logged)/sum(total)*100 across a goal's
// progress entries, 0 when no targets are set.
func completionPercent(records []models.Progress) float64 {
	var loggedSeconds, totalSeconds int64
	for _, record := range records {
		if record.LoggedHours != nil {
			loggedSeconds += record.LoggedHours.Seconds()
		}
		if record.TotalHours != nil {
			totalSeconds += record.TotalHours.Seconds()
		}
	}
	if totalSeconds == 0 {
		return 0
	}

	return float64(loggedSeconds) / float64(totalSeconds) * 100
}
