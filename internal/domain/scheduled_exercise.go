package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ScheduledExercise is a concrete exercise occurrence on the calendar.
// WorkoutPlanID nil means the user added it by hand; non-nil means it was
// generated from (or materialized out of) a plan's weekly template.
type ScheduledExercise struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID        primitive.ObjectID  `bson:"userId" json:"userId"`
	ExerciseID    primitive.ObjectID  `bson:"exerciseId" json:"exerciseId"`
	CategoryID    primitive.ObjectID  `bson:"categoryId" json:"categoryId"`
	WorkoutPlanID *primitive.ObjectID `bson:"workoutPlanId,omitempty" json:"workoutPlanId,omitempty"`
	Date          time.Time           `bson:"date" json:"date"` // Midnight UTC; no time-of-day component
	Sets          int                 `bson:"sets" json:"sets"`
	Reps          int                 `bson:"reps" json:"reps"`
	Weight        float64             `bson:"weight" json:"weight"`
	Notes         string              `bson:"notes,omitempty" json:"notes,omitempty"`
	Completed     bool                `bson:"completed" json:"completed"`
	CompletedAt   *time.Time          `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	CreatedAt     time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// IsManual reports whether this instance was added outside any plan.
func (s *ScheduledExercise) IsManual() bool {
	return s.WorkoutPlanID == nil
}
