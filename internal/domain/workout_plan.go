package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DaysPerWeek is the fixed size of a weekly template. Slot 0 is Sunday,
// slot 6 is Saturday, matching time.Weekday numbering.
const DaysPerWeek = 7

// PlanLevel indicates the difficulty of a whole plan.
type PlanLevel string

const (
	LevelBeginner     PlanLevel = "beginner"
	LevelIntermediate PlanLevel = "intermediate"
	LevelAdvanced     PlanLevel = "advanced"
)

// PlanMode distinguishes plans with a fixed date range from open-ended ones.
type PlanMode string

const (
	ModeOngoing PlanMode = "ongoing" // No end date; runs indefinitely once started
	ModeDated   PlanMode = "dated"   // Bounded by StartDate/EndDate
)

// ExerciseTemplate is one entry in a weekly template day slot. It carries the
// target numbers that get copied onto every generated instance.
type ExerciseTemplate struct {
	ExerciseID      primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`
	Sets            int                `bson:"sets" json:"sets"`
	Reps            int                `bson:"reps" json:"reps"`
	Weight          float64            `bson:"weight" json:"weight"`
	DurationMinutes *int               `bson:"durationMinutes,omitempty" json:"durationMinutes,omitempty"`
	Notes           string             `bson:"notes,omitempty" json:"notes,omitempty"`
	OrderIndex      int                `bson:"orderIndex" json:"orderIndex"`
}

// WeeklyTemplate holds one slot per day of week. An empty slot is a rest day.
type WeeklyTemplate [][]ExerciseTemplate

// NewWeeklyTemplate returns an all-rest-days template with DaysPerWeek slots.
func NewWeeklyTemplate() WeeklyTemplate {
	return make(WeeklyTemplate, DaysPerWeek)
}

// IsValid reports whether the template has exactly one slot per day of week.
func (t WeeklyTemplate) IsValid() bool {
	return len(t) == DaysPerWeek
}

// WorkoutPlan represents a recurring weekly workout template owned by a user.
type WorkoutPlan struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID         primitive.ObjectID `bson:"userId" json:"userId"`
	Name           string             `bson:"name" json:"name"`
	Description    string             `bson:"description,omitempty" json:"description,omitempty"`
	Level          PlanLevel          `bson:"level" json:"level"`
	Mode           PlanMode           `bson:"mode" json:"mode"`
	StartDate      *time.Time         `bson:"startDate,omitempty" json:"startDate,omitempty"`
	EndDate        *time.Time         `bson:"endDate,omitempty" json:"endDate,omitempty"` // Nil for ongoing plans
	IsActive       bool               `bson:"isActive" json:"isActive"`                   // At most one active plan per user
	WeeklyTemplate WeeklyTemplate     `bson:"weeklyTemplate" json:"weeklyTemplate"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}
