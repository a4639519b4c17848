package services

import (
	"context"
	"time"

	"goaltracker/models"
	repository "goaltracker/repositories"
)

type ProgressService interface {
	CreateProgress(ctx context.Context, username string, goalNum int, progress *models.Progress) (*models.Progress, error)
	ListProgress(ctx context.Context, username string, goalNum int) ([]models.Progress, error)
	GetProgressByNumber(ctx context.Context, username string, goalNum, progressNum int) (*models.Progress, error)
	// UpdateLoggedHours patches the logged duration of the selected
	// entry; the completion flag is recomputed server-side. A nil
	// logged value leaves the current one in place.
	UpdateLoggedHours(ctx context.Context, username string, goalNum, progressNum int, logged *models.Duration) (*models.Progress, error)
	ListOverviews(ctx context.Context) ([]models.ProgressOverview, error)
}

type progressService struct {
	goals    GoalService
	progress repository.ProgressRepository
	goalRepo repository.GoalRepository
}

func NewProgressService(goals GoalService, goalRepo repository.GoalRepository, progress repository.ProgressRepository) ProgressService {
	return &progressService{
		goals:    goals,
		progress: progress,
		goalRepo: goalRepo,
	}
}

func (s *progressService) CreateProgress(ctx context.Context, username string, goalNum int, progress *models.Progress) (*models.Progress, error) {
	goal, err := s.goals.ResolveGoalByNumber(ctx, username, goalNum)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	progress.GoalID = goal.ID
	progress.CreatedAt = now
	progress.UpdatedAt = now
	progress.RecomputeCompletion()

	if err := s.progress.Create(ctx, progress); err != nil {
		return nil, err
	}

	if err := s.goalRepo.SetLastProgress(ctx, goal.ID, now); err != nil {
		return nil, err
	}

	return progress, nil
}

func (s *progressService) ListProgress(ctx context.Context, username string, goalNum int) ([]models.Progress, error) {
	goal, err := s.goals.ResolveGoalByNumber(ctx, username, goalNum)
	if err != nil {
		return nil, err
	}

	return s.progress.ListByGoal(ctx, goal.ID)
}

func (s *progressService) GetProgressByNumber(ctx context.Context, username string, goalNum, progressNum int) (*models.Progress, error) {
	records, err := s.ListProgress(ctx, username, goalNum)
	if err != nil {
		return nil, err
	}
	if progressNum < 1 || progressNum > len(records) {
		return nil, repository.ErrNotFound
	}

	return &records[progressNum-1], nil
}

func (s *progressService) UpdateLoggedHours(ctx context.Context, username string, goalNum, progressNum int, logged *models.Duration) (*models.Progress, error) {
	progress, err := s.GetProgressByNumber(ctx, username, goalNum, progressNum)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if logged != nil {
		progress.LoggedHours = logged
	}
	progress.UpdatedAt = now
	progress.RecomputeCompletion()

	if err := s.progress.Update(ctx, progress.ID, progress); err != nil {
		return nil, err
	}

	if err := s.goalRepo.SetLastProgress(ctx, progress.GoalID, now); err != nil {
		return nil, err
	}

	return progress, nil
}

func (s *progressService) ListOverviews(ctx context.Context) ([]models.ProgressOverview, error) {
	return s.progress.ListOverviews(ctx)
}
