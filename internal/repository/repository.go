package repository

import (
	"context"
	"time"

	"fitcal/workout-planner/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// CategoryRepository defines the interface for interacting with category data.
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Category, error)
	GetAll(ctx context.Context) ([]domain.Category, error)
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// ExerciseRepository defines the interface for interacting with exercise data.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	GetAll(ctx context.Context) ([]domain.Exercise, error)
	GetByCategoryID(ctx context.Context, categoryID primitive.ObjectID) ([]domain.Exercise, error)
	Update(ctx context.Context, exercise *domain.Exercise) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// WorkoutPlanRepository defines the interface for interacting with workout plan data.
type WorkoutPlanRepository interface {
	Create(ctx context.Context, plan *domain.WorkoutPlan) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutPlan, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutPlan, error)
	GetActiveByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.WorkoutPlan, error)
	Update(ctx context.Context, plan *domain.WorkoutPlan) error
	UpdateWeeklyTemplate(ctx context.Context, planID primitive.ObjectID, template domain.WeeklyTemplate) error
	// DeactivateAllForUser clears isActive on every plan of the user except the
	// excluded one, so activation can be a single logical step.
	DeactivateAllForUser(ctx context.Context, userID, excludePlanID primitive.ObjectID) error
	Delete(ctx context.Context, id, userID primitive.ObjectID) error
}

// ScheduledExerciseRepository defines the interface for interacting with
// calendar-scheduled exercise instances.
type ScheduledExerciseRepository interface {
	Create(ctx context.Context, instance *domain.ScheduledExercise) (primitive.ObjectID, error)
	CreateMany(ctx context.Context, instances []domain.ScheduledExercise) (int, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ScheduledExercise, error)
	GetByUserAndDateRange(ctx context.Context, userID primitive.ObjectID, start, end time.Time) ([]domain.ScheduledExercise, error)
	// DatesWithPlanInstances returns the distinct dates within [start, end]
	// that already hold instances generated from the given plan.
	DatesWithPlanInstances(ctx context.Context, planID primitive.ObjectID, start, end time.Time) (map[time.Time]bool, error)
	// DeleteByPlanAndDateRange removes all instances of the plan dated within
	// [start, end]. Returns the number of removed documents.
	DeleteByPlanAndDateRange(ctx context.Context, planID primitive.ObjectID, start, end time.Time) (int64, error)
	DeleteByUserAndDate(ctx context.Context, userID primitive.ObjectID, date time.Time) (int64, error)
	Update(ctx context.Context, instance *domain.ScheduledExercise) error
	Delete(ctx context.Context, id, userID primitive.ObjectID) error
}

// TimerStrategyRepository defines the interface for interval timer presets.
type TimerStrategyRepository interface {
	Create(ctx context.Context, strategy *domain.TimerStrategy) (primitive.ObjectID, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.TimerStrategy, error)
	Update(ctx context.Context, strategy *domain.TimerStrategy) error
	Delete(ctx context.Context, id, userID primitive.ObjectID) error
}

// WeightPlateRepository defines the interface for the plate inventory.
type WeightPlateRepository interface {
	Create(ctx context.Context, plate *domain.WeightPlate) (primitive.ObjectID, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.WeightPlate, error)
	Update(ctx context.Context, plate *domain.WeightPlate) error
	Delete(ctx context.Context, id, userID primitive.ObjectID) error
}
