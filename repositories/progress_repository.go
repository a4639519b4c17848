package repository

import (
	"context"
	"log"

	"goaltracker/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ProgressRepository interface {
	Create(ctx context.Context, progress *models.Progress) error
	// ListByGoal returns a goal's progress entries ascending by id,
	// the base ordering for ordinal addressing.
	ListByGoal(ctx context.Context, goalID primitive.ObjectID) ([]models.Progress, error)
	// ListByGoals returns the progress entries of several goals in one
	// query, for the all-goals summary.
	ListByGoals(ctx context.Context, goalIDs []primitive.ObjectID) ([]models.Progress, error)
	Update(ctx context.Context, id primitive.ObjectID, progress *models.Progress) error
	// ListOverviews joins every progress entry with its goal's name.
	ListOverviews(ctx context.Context) ([]models.ProgressOverview, error)
}

type progressRepository struct {
	collection *mongo.Collection
}

func NewProgressRepository(db *mongo.Database) ProgressRepository {
	return &progressRepository{
		collection: db.Collection("progress"),
	}
}

func (r *progressRepository) Create(ctx context.Context, progress *models.Progress) error {
	progress.ID = primitive.NewObjectID()

	_, err := r.collection.InsertOne(ctx, progress)
	return err
}

func (r *progressRepository) ListByGoal(ctx context.Context, goalID primitive.ObjectID) ([]models.Progress, error) {
	return r.find(ctx, bson.M{"goal_id": goalID})
}

func (r *progressRepository) ListByGoals(ctx context.Context, goalIDs []primitive.ObjectID) ([]models.Progress, error) {
	if len(goalIDs) == 0 {
		return []models.Progress{}, nil
	}
	return r.find(ctx, bson.M{"goal_id": bson.M{"$in": goalIDs}})
}

// find decodes documents one at a time so that a single malformed
// record is skipped and logged instead of failing the whole read.
func (r *progressRepository) find(ctx context.Context, query bson.M) ([]models.Progress, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := []models.Progress{}
	for cursor.Next(ctx) {
		var progress models.Progress
		if err := cursor.Decode(&progress); err != nil {
			log.Printf("skipping undecodable progress record %v: %v", cursor.Current.Lookup("_id"), err)
			continue
		}
		records = append(records, progress)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

func (r *progressRepository) Update(ctx context.Context, id primitive.ObjectID, progress *models.Progress) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": progress})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *progressRepository) ListOverviews(ctx context.Context) ([]models.ProgressOverview, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$sort", Value: bson.M{"_id": 1}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "goals",
			"localField":   "goal_id",
			"foreignField": "_id",
			"as":           "goal",
		}}},
		bson.D{{Key: "$unwind", Value: "$goal"}},
		bson.D{{Key: "$project", Value: bson.M{
			"_id":       0,
			"progress":  1,
			"goal_name": "$goal.goal_name",
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	overviews := []models.ProgressOverview{}
	if err = cursor.All(ctx, &overviews); err != nil {
		return nil, err
	}

	return overviews, nil
}
