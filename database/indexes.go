package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func CreateIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// USERS: registration pre-check and per-request tier resolution
	userIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetName("idx_username_unique").SetUnique(true),
		},
	}
	if _, err := db.Collection("users").Indexes().CreateMany(ctx, userIndexes); err != nil {
		return fmt.Errorf("failed to create user indexes: %v", err)
	}

	goalIndexes := []mongo.IndexModel{
		// ORDINAL SELECTION: owner-scoped id-ascending listing
		{
			Keys: bson.D{
				{Key: "username", Value: 1},
				{Key: "_id", Value: 1},
			},
			Options: options.Index().SetName("idx_username_id"),
		},
		// LIST FILTERS: category / is_complete
		{
			Keys: bson.D{
				{Key: "username", Value: 1},
				{Key: "category", Value: 1},
				{Key: "is_complete", Value: 1},
			},
			Options: options.Index().SetName("idx_username_category_is_complete"),
		},
		// REMINDER SWEEP: inactive goals without a sent reminder
		{
			Keys: bson.D{
				{Key: "last_progress_at", Value: 1},
				{Key: "last_reminder_sent_at", Value: 1},
			},
			Options: options.Index().SetName("idx_last_progress_reminder"),
		},
	}
	if _, err := db.Collection("goals").Indexes().CreateMany(ctx, goalIndexes); err != nil {
		return fmt.Errorf("failed to create goal indexes: %v", err)
	}

	progressIndexes := []mongo.IndexModel{
		// ORDINAL SELECTION + AGGREGATION: goal-scoped reads
		{
			Keys: bson.D{
				{Key: "goal_id", Value: 1},
				{Key: "_id", Value: 1},
			},
			Options: options.Index().SetName("idx_goal_id_id"),
		},
	}
	if _, err := db.Collection("progress").Indexes().CreateMany(ctx, progressIndexes); err != nil {
		return fmt.Errorf("failed to create progress indexes: %v", err)
	}

	fmt.Println("Indexes created successfully")
	return nil
}
