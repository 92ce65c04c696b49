package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RescheduleScope controls whether a move affects one calendar occurrence or
// the recurring weekly template itself.
type RescheduleScope string

const (
	ScopeThisWeek  RescheduleScope = "this-week"
	ScopeWholePlan RescheduleScope = "whole-plan"
)

// Occurrence identifies a calendar occurrence the reschedule coordinator can
// act on. It is either a persisted ScheduledExercise or a projected template
// occurrence that only exists in memory until materialized. Keeping the two
// as distinct variants forces callers to say which one they mean instead of
// overloading a single shape with a flag.
type Occurrence interface {
	occurrence()
}

// PersistedRef points at a ScheduledExercise already in the store.
type PersistedRef struct {
	ID primitive.ObjectID
}

// ProjectedRef identifies a not-yet-materialized template occurrence: the
// plan, the day slot, the entry within the slot, and the projected date.
type ProjectedRef struct {
	PlanID     primitive.ObjectID
	DayOfWeek  int // 0=Sunday..6=Saturday
	OrderIndex int // ExerciseTemplate.OrderIndex within the day slot
	Date       time.Time
}

func (PersistedRef) occurrence() {}
func (ProjectedRef) occurrence() {}
