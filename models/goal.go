package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Goal categories, defaulting to Primary.
const (
	CategoryPrimary   = "Primary"
	CategorySecondary = "Secondary"
	CategoryMinor     = "Minor"
)

type Goal struct {
	ID                 primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	GoalName           string             `json:"goal_name" bson:"goal_name" validate:"required"`
	Username           string             `json:"user" bson:"username"`
	Category           string             `json:"category" bson:"category" validate:"omitempty,oneof=Primary Secondary Minor"`
	IsComplete         bool               `json:"is_complete" bson:"is_complete"`
	Deadline           *time.Time         `json:"deadline,omitempty" bson:"deadline,omitempty"`
	LastProgressAt     *time.Time         `json:"last_progress_at,omitempty" bson:"last_progress_at,omitempty"`
	LastReminderSentAt *time.Time         `json:"-" bson:"last_reminder_sent_at,omitempty"`
	CreatedAt          time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at" bson:"updated_at"`
}

// GoalDetail is a single-goal read enriched with the completion
// percentage derived from the goal's progress entries.
type GoalDetail struct {
	Goal
	CompletionPercent float64 `json:"completion_percent"`
}

// GoalPage is one page of a user's goal list.
type GoalPage struct {
	Count    int64  `json:"count"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Results  []Goal `json:"results"`
}
