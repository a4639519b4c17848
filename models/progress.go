package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Progress struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Progress    string             `json:"progress" bson:"progress" validate:"required"`
	GoalID      primitive.ObjectID `json:"goal" bson:"goal_id"`
	IsComplete  bool               `json:"is_complete" bson:"is_complete"`
	LoggedHours *Duration          `json:"logged_hours,omitempty" bson:"logged_hours,omitempty"`
	TotalHours  *Duration          `json:"total_hours,omitempty" bson:"total_hours,omitempty"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

// PercentageComplete derives logged/total as a percentage, 0 when the
// target is absent or zero.
func (p *Progress) PercentageComplete() float64 {
	if p.TotalHours == nil || *p.TotalHours <= 0 || p.LoggedHours == nil {
		return 0
	}
	return p.LoggedHours.Hours() / p.TotalHours.Hours() * 100
}

// RecomputeCompletion resets the completion flag from the duration
// fields. Runs on every persist and overrides any caller-supplied
// value.
func (p *Progress) RecomputeCompletion() {
	p.IsComplete = MeetsTarget(p.LoggedHours, p.TotalHours)
}

// ProgressDetail is a single-entry read enriched with the derived
// percentage.
type ProgressDetail struct {
	Progress
	PercentageComplete float64 `json:"percentage_complete"`
}

// ProgressOverview is the public projection of a progress entry joined
// with its goal's name.
type ProgressOverview struct {
	Progress string `json:"progress" bson:"progress"`
	GoalName string `json:"goal_name" bson:"goal_name"`
}
