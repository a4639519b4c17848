package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"goaltracker/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when a record does not exist or is not
// visible to the caller.
var ErrNotFound = errors.New("not found")

// GoalFilter narrows a goal listing. Zero values mean no filtering.
type GoalFilter struct {
	Category   string
	IsComplete *bool
}

type GoalRepository interface {
	Create(ctx context.Context, goal *models.Goal) error
	// ListByUser returns all of a user's goals ascending by id. This
	// ordering is the base for ordinal (1-based "goal number")
	// addressing.
	ListByUser(ctx context.Context, username string) ([]models.Goal, error)
	Page(ctx context.Context, username string, filter GoalFilter, page, pageSize int) (int64, []models.Goal, error)
	SetLastProgress(ctx context.Context, id primitive.ObjectID, at time.Time) error
	// DeleteCascade removes a goal and all of its progress entries in
	// a single transaction.
	DeleteCascade(ctx context.Context, id primitive.ObjectID) error
	// ListInactive returns goals whose last progress update predates
	// cutoff and that have not been sent a reminder yet.
	ListInactive(ctx context.Context, cutoff time.Time) ([]models.Goal, error)
	MarkReminderSent(ctx context.Context, id primitive.ObjectID, at time.Time) error
}

type goalRepository struct {
	collection *mongo.Collection
	progress   *mongo.Collection
}

func NewGoalRepository(db *mongo.Database) GoalRepository {
	return &goalRepository{
		collection: db.Collection("goals"),
		progress:   db.Collection("progress"),
	}
}

func (r *goalRepository) Create(ctx context.Context, goal *models.Goal) error {
	goal.ID = primitive.NewObjectID()

	_, err := r.collection.InsertOne(ctx, goal)
	return err
}

func (r *goalRepository) ListByUser(ctx context.Context, username string) ([]models.Goal, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"username": username}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	goals := []models.Goal{}
	if err = cursor.All(ctx, &goals); err != nil {
		return nil, err
	}

	return goals, nil
}

func (r *goalRepository) Page(ctx context.Context, username string, filter GoalFilter, page, pageSize int) (int64, []models.Goal, error) {
	query := bson.M{"username": username}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.IsComplete != nil {
		query["is_complete"] = *filter.IsComplete
	}

	count, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return 0, nil, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(int64(page-1) * int64(pageSize)).
		SetLimit(int64(pageSize))

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return 0, nil, err
	}
	defer cursor.Close(ctx)

	goals := []models.Goal{}
	if err = cursor.All(ctx, &goals); err != nil {
		return 0, nil, err
	}

	return count, goals, nil
}

func (r *goalRepository) SetLastProgress(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	update := bson.M{
		"$set": bson.M{
			"last_progress_at": at,
			"updated_at":       at,
		},
		// A fresh update restarts the reminder clock.
		"$unset": bson.M{"last_reminder_sent_at": ""},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *goalRepository) DeleteCascade(ctx context.Context, id primitive.ObjectID) error {
	client := r.collection.Database().Client()

	session, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %v", err)
	}
	defer session.EndSession(ctx)

	sessionCtx := mongo.NewSessionContext(ctx, session)

	if err := session.StartTransaction(); err != nil {
		return fmt.Errorf("failed to start transaction: %v", err)
	}

	result, err := r.collection.DeleteOne(sessionCtx, bson.M{"_id": id})
	if err != nil {
		session.AbortTransaction(sessionCtx)
		return err
	}
	if result.DeletedCount == 0 {
		session.AbortTransaction(sessionCtx)
		return ErrNotFound
	}

	if _, err := r.progress.DeleteMany(sessionCtx, bson.M{"goal_id": id}); err != nil {
		session.AbortTransaction(sessionCtx)
		return err
	}

	if err := session.CommitTransaction(sessionCtx); err != nil {
		session.AbortTransaction(sessionCtx)
		return fmt.Errorf("failed to commit transaction: %v", err)
	}

	return nil
}

func (r *goalRepository) ListInactive(ctx context.Context, cutoff time.Time) ([]models.Goal, error) {
	query := bson.M{
		"last_progress_at":      bson.M{"$lt": cutoff},
		"last_reminder_sent_at": bson.M{"$exists": false},
	}

	cursor, err := r.collection.Find(ctx, query)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	goals := []models.Goal{}
	if err = cursor.All(ctx, &goals); err != nil {
		return nil, err
	}

	return goals, nil
}

func (r *goalRepository) MarkReminderSent(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	update := bson.M{"$set": bson.M{"last_reminder_sent_at": at}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}
