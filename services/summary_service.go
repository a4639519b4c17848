package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"sort"
	"strconv"
	"time"

	"goaltracker/cache"
	"goaltracker/config"
	"goaltracker/models"
	repository "goaltracker/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SummaryService interface {
	// Summary returns the serialized bucket list for the caller's
	// goals (all of them, or the one selected by goalNum). The payload
	// is cached per (period, user, selector) and returned verbatim on
	// a hit, so repeated requests within the TTL are byte-identical.
	Summary(ctx context.Context, username string, period models.SummaryPeriod, goalNum *int) ([]byte, error)
}

type summaryService struct {
	goals    repository.GoalRepository
	progress repository.ProgressRepository
	store    cache.Store
	cfg      config.SummaryConfig
}

func NewSummaryService(goals repository.GoalRepository, progress repository.ProgressRepository, store cache.Store, cfg config.SummaryConfig) SummaryService {
	return &summaryService{
		goals:    goals,
		progress: progress,
		store:    store,
		cfg:      cfg,
	}
}

func (s *summaryService) Summary(ctx context.Context, username string, period models.SummaryPeriod, goalNum *int) ([]byte, error) {
	key := summaryKey(username, period, goalNum)

	cached, found, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if found {
		log.Printf("cache hit for key: %s", key)
		return cached, nil
	}
	log.Printf("cache miss for key: %s", key)

	records, err := s.selectRecords(ctx, username, goalNum)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(BucketProgress(records, period))
	if err != nil {
		return nil, err
	}

	// Concurrent misses may each store their own result; last write
	// wins and recomputation is idempotent.
	if err := s.store.Set(ctx, key, payload, s.ttl(period)); err != nil {
		return nil, err
	}

	return payload, nil
}

func (s *summaryService) selectRecords(ctx context.Context, username string, goalNum *int) ([]models.Progress, error) {
	goals, err := s.goals.ListByUser(ctx, username)
	if err != nil {
		return nil, err
	}

	if goalNum == nil {
		ids := make([]primitive.ObjectID, len(goals))
		for i, goal := range goals {
			ids[i] = goal.ID
		}
		return s.progress.ListByGoals(ctx, ids)
	}

	// An ordinal against an empty collection selects nothing (404); a
	// non-positive or beyond-count ordinal is malformed (400).
	if len(goals) == 0 {
		return nil, repository.ErrNotFound
	}
	if *goalNum < 1 || *goalNum > len(goals) {
		return nil, ErrInvalidSelector
	}

	return s.progress.ListByGoal(ctx, goals[*goalNum-1].ID)
}

func (s *summaryService) ttl(period models.SummaryPeriod) time.Duration {
	if period == models.PeriodMonthly {
		return s.cfg.MonthlyTTL
	}
	return s.cfg.WeeklyTTL
}

func summaryKey(username string, period models.SummaryPeriod, goalNum *int) string {
	selector := "all"
	if goalNum != nil {
		selector = strconv.Itoa(*goalNum)
	}
	return fmt.Sprintf("%s_summary_%s_%s", period, username, selector)
}

// BucketProgress groups records into calendar buckets by creation time
// and sums their logged duration in hours, two decimal places, ordered
// ascending by period start. Periods with no records are not emitted;
// records without a logged duration contribute nothing.
func BucketProgress(records []models.Progress, period models.SummaryPeriod) []models.SummaryBucket {
	sums := make(map[time.Time]int64)
	for _, record := range records {
		if record.LoggedHours == nil {
			continue
		}
		sums[PeriodStart(record.CreatedAt, period)] += record.LoggedHours.Seconds()
	}

	starts := make([]time.Time, 0, len(sums))
	for start := range sums {
		starts = append(starts, start)
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i].Before(starts[j]) })

	buckets := make([]models.SummaryBucket, 0, len(starts))
	for _, start := range starts {
		hours := float64(sums[start]) / 3600
		buckets = append(buckets, models.SummaryBucket{
			PeriodStart: start,
			TotalHours:  math.Round(hours*100) / 100,
		})
	}

	return buckets
}

// PeriodStart truncates t to the Monday of its ISO week or the first
// day of its calendar month, midnight UTC.
func PeriodStart(t time.Time, period models.SummaryPeriod) time.Time {
	t = t.UTC()
	if period == models.PeriodMonthly {
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	}

	monday := t.AddDate(0, 0, -((int(t.Weekday()) + 6) % 7))
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, time.UTC)
}
