package service

import (
	"context"
	"errors"
	"time"

	"fitcal/workout-planner/internal/calendar"
	"fitcal/workout-planner/internal/domain"
	"fitcal/workout-planner/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SkippedTemplate records a template entry the generator could not materialize,
// typically because its exercise was deleted from the library.
type SkippedTemplate struct {
	Date       time.Time          `json:"date"`
	ExerciseID primitive.ObjectID `json:"exerciseId"`
	Reason     string             `json:"reason"`
}

// GenerationResult is the partial-success report of a generate call: whatever
// materialized is kept even when individual template entries were skipped.
type GenerationResult struct {
	Created int               `json:"created"`
	Skipped []SkippedTemplate `json:"skipped,omitempty"`
}

// --- Service Interface ---
type ScheduleService interface {
	// Generate materializes the plan's weekly template into dated instances
	// over [start, end] inclusive. With replaceExisting, the plan's existing
	// instances in range are removed in one batch before the new batch is
	// inserted; without it, dates that already hold instances of the plan are
	// left untouched.
	Generate(ctx context.Context, plan *domain.WorkoutPlan, start, end time.Time, replaceExisting bool) (*GenerationResult, error)
	GenerateForActivePlan(ctx context.Context, userID primitive.ObjectID, start, end time.Time, replaceExisting bool) (*GenerationResult, error)

	GetByDateRange(ctx context.Context, userID primitive.ObjectID, start, end time.Time) ([]domain.ScheduledExercise, error)
	AddManual(ctx context.Context, userID, exerciseID primitive.ObjectID, date time.Time, sets, reps int, weight float64, notes string) (*domain.ScheduledExercise, error)
	ToggleCompletion(ctx context.Context, userID, instanceID primitive.ObjectID) (*domain.ScheduledExercise, error)
	Delete(ctx context.Context, userID, instanceID primitive.ObjectID) error
	ClearDate(ctx context.Context, userID primitive.ObjectID, date time.Time) (int64, error)
}

// --- Service Implementation ---

// scheduleService implements the ScheduleService interface.
type scheduleService struct {
	scheduleRepo repository.ScheduledExerciseRepository
	planRepo     repository.WorkoutPlanRepository
	exerciseRepo repository.ExerciseRepository
}

// NewScheduleService creates a new instance of scheduleService.
func NewScheduleService(
	scheduleRepo repository.ScheduledExerciseRepository,
	planRepo repository.WorkoutPlanRepository,
	exerciseRepo repository.ExerciseRepository,
) ScheduleService {
	return &scheduleService{
		scheduleRepo: scheduleRepo,
		planRepo:     planRepo,
		exerciseRepo: exerciseRepo,
	}
}

// Generate converts the plan's weekly template into concrete instances.
// Works as a batch diff: the desired instance set for the whole range is
// computed first, then one bulk delete (when replacing) and one bulk insert
// are issued, in that order.
func (s *scheduleService) Generate(ctx context.Context, plan *domain.WorkoutPlan, start, end time.Time, replaceExisting bool) (*GenerationResult, error) {
	if plan == nil {
		return nil, validationErrorf("plan is required")
	}
	if !plan.WeeklyTemplate.IsValid() {
		return nil, validationErrorf("plan %s has no 7-slot weekly template", plan.ID.Hex())
	}
	start = calendar.Normalize(start)
	end = calendar.Normalize(end)
	if start.After(end) {
		return nil, validationErrorf("start date %s is after end date %s",
			start.Format("2006-01-02"), end.Format("2006-01-02"))
	}

	// Dates that already hold instances of this plan. Only consulted when not
	// replacing, so fill-forward generation never duplicates populated days.
	var occupied map[time.Time]bool
	if !replaceExisting {
		var err error
		occupied, err = s.scheduleRepo.DatesWithPlanInstances(ctx, plan.ID, start, end)
		if err != nil {
			return nil, &PersistenceError{Op: "load existing schedule dates", Err: err}
		}
	}

	result := &GenerationResult{}
	exercises := map[primitive.ObjectID]*domain.Exercise{}
	var desired []domain.ScheduledExercise

	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if occupied[d] {
			continue
		}
		// Per-day modulo-7 slot lookup; an empty slot is a rest day.
		slot := plan.WeeklyTemplate[calendar.DayOfWeek(d)]
		for _, tmpl := range slot {
			exercise, ok := exercises[tmpl.ExerciseID]
			if !ok {
				var err error
				exercise, err = s.exerciseRepo.GetByID(ctx, tmpl.ExerciseID)
				if err != nil {
					if errors.Is(err, repository.ErrNotFound) {
						result.Skipped = append(result.Skipped, SkippedTemplate{
							Date:       d,
							ExerciseID: tmpl.ExerciseID,
							Reason:     "exercise no longer exists",
						})
						exercises[tmpl.ExerciseID] = nil
						continue
					}
					return result, &PersistenceError{Op: "resolve exercise reference", Err: err}
				}
				exercises[tmpl.ExerciseID] = exercise
			}
			if exercise == nil {
				// Known-missing reference from an earlier date in this range.
				result.Skipped = append(result.Skipped, SkippedTemplate{
					Date:       d,
					ExerciseID: tmpl.ExerciseID,
					Reason:     "exercise no longer exists",
				})
				continue
			}

			planID := plan.ID
			desired = append(desired, domain.ScheduledExercise{
				UserID:        plan.UserID,
				ExerciseID:    tmpl.ExerciseID,
				CategoryID:    exercise.CategoryID,
				WorkoutPlanID: &planID,
				Date:          d,
				Sets:          tmpl.Sets,
				Reps:          tmpl.Reps,
				Weight:        tmpl.Weight,
				Notes:         tmpl.Notes,
			})
		}
	}

	// The delete batch must complete before the insert batch so a retry after
	// a failed insert cannot observe duplicates.
	if replaceExisting {
		if _, err := s.scheduleRepo.DeleteByPlanAndDateRange(ctx, plan.ID, start, end); err != nil {
			return result, &PersistenceError{Op: "replace existing schedule", Err: err}
		}
	}
	created, err := s.scheduleRepo.CreateMany(ctx, desired)
	result.Created = created
	if err != nil {
		return result, &PersistenceError{Op: "insert generated schedule", Err: err}
	}
	return result, nil
}

// GenerateForActivePlan resolves the caller's active plan per request and
// generates from it. There is no ambient active-plan state anywhere else.
func (s *scheduleService) GenerateForActivePlan(ctx context.Context, userID primitive.ObjectID, start, end time.Time, replaceExisting bool) (*GenerationResult, error) {
	plan, err := s.planRepo.GetActiveByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Entity: "active workout plan for user", ID: userID.Hex()}
		}
		return nil, &PersistenceError{Op: "resolve active plan", Err: err}
	}
	return s.Generate(ctx, plan, start, end, replaceExisting)
}

// GetByDateRange returns the user's calendar instances within [start, end].
func (s *scheduleService) GetByDateRange(ctx context.Context, userID primitive.ObjectID, start, end time.Time) ([]domain.ScheduledExercise, error) {
	start = calendar.Normalize(start)
	end = calendar.Normalize(end)
	if start.After(end) {
		return nil, validationErrorf("start date is after end date")
	}
	instances, err := s.scheduleRepo.GetByUserAndDateRange(ctx, userID, start, end)
	if err != nil {
		return nil, &PersistenceError{Op: "list schedule", Err: err}
	}
	return instances, nil
}

// AddManual creates a plan-independent instance on the given date.
func (s *scheduleService) AddManual(ctx context.Context, userID, exerciseID primitive.ObjectID, date time.Time, sets, reps int, weight float64, notes string) (*domain.ScheduledExercise, error) {
	if sets < 0 || reps < 0 {
		return nil, validationErrorf("sets and reps must not be negative")
	}
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Entity: "exercise", ID: exerciseID.Hex()}
		}
		return nil, &PersistenceError{Op: "resolve exercise reference", Err: err}
	}

	instance := &domain.ScheduledExercise{
		UserID:     userID,
		ExerciseID: exerciseID,
		CategoryID: exercise.CategoryID,
		Date:       calendar.Normalize(date),
		Sets:       sets,
		Reps:       reps,
		Weight:     weight,
		Notes:      notes,
	}
	id, err := s.scheduleRepo.Create(ctx, instance)
	if err != nil {
		return nil, &PersistenceError{Op: "insert manual exercise", Err: err}
	}
	instance.ID = id
	return instance, nil
}

// ToggleCompletion flips the completed flag and sets or clears completedAt.
func (s *scheduleService) ToggleCompletion(ctx context.Context, userID, instanceID primitive.ObjectID) (*domain.ScheduledExercise, error) {
	instance, err := s.getOwned(ctx, userID, instanceID)
	if err != nil {
		return nil, err
	}

	instance.Completed = !instance.Completed
	if instance.Completed {
		now := time.Now().UTC()
		instance.CompletedAt = &now
	} else {
		instance.CompletedAt = nil
	}

	if err := s.scheduleRepo.Update(ctx, instance); err != nil {
		return nil, &PersistenceError{Op: "update completion", Err: err}
	}
	return instance, nil
}

// Delete removes a single instance.
func (s *scheduleService) Delete(ctx context.Context, userID, instanceID primitive.ObjectID) error {
	err := s.scheduleRepo.Delete(ctx, instanceID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &NotFoundError{Entity: "scheduled exercise", ID: instanceID.Hex()}
		}
		return &PersistenceError{Op: "delete scheduled exercise", Err: err}
	}
	return nil
}

// ClearDate removes every instance of the user on one date.
func (s *scheduleService) ClearDate(ctx context.Context, userID primitive.ObjectID, date time.Time) (int64, error) {
	removed, err := s.scheduleRepo.DeleteByUserAndDate(ctx, userID, date)
	if err != nil {
		return 0, &PersistenceError{Op: "clear schedule date", Err: err}
	}
	return removed, nil
}

func (s *scheduleService) getOwned(ctx context.Context, userID, instanceID primitive.ObjectID) (*domain.ScheduledExercise, error) {
	instance, err := s.scheduleRepo.GetByID(ctx, instanceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Entity: "scheduled exercise", ID: instanceID.Hex()}
		}
		return nil, &PersistenceError{Op: "load scheduled exercise", Err: err}
	}
	if instance.UserID != userID {
		// Ownership mismatch is reported as not-found to avoid leaking IDs.
		return nil, &NotFoundError{Entity: "scheduled exercise", ID: instanceID.Hex()}
	}
	return instance, nil
}
