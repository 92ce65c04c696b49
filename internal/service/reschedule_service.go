package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fitcal/workout-planner/internal/calendar"
	"fitcal/workout-planner/internal/domain"
	"fitcal/workout-planner/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Service Interface ---

// RescheduleService moves calendar occurrences to new dates. Moves are
// restricted to the source date's Sunday-Saturday week and honor the
// this-week / whole-plan scope choice.
type RescheduleService interface {
	Reschedule(ctx context.Context, userID primitive.ObjectID, ref domain.Occurrence, newDate time.Time, scope domain.RescheduleScope) (*domain.ScheduledExercise, error)
}

// --- Service Implementation ---

// rescheduleService implements the RescheduleService interface.
type rescheduleService struct {
	scheduleRepo repository.ScheduledExerciseRepository
	planRepo     repository.WorkoutPlanRepository
	exerciseRepo repository.ExerciseRepository
}

// NewRescheduleService creates a new instance of rescheduleService.
func NewRescheduleService(
	scheduleRepo repository.ScheduledExerciseRepository,
	planRepo repository.WorkoutPlanRepository,
	exerciseRepo repository.ExerciseRepository,
) RescheduleService {
	return &rescheduleService{
		scheduleRepo: scheduleRepo,
		planRepo:     planRepo,
		exerciseRepo: exerciseRepo,
	}
}

// Reschedule dispatches on the occurrence variant. All validation gates run
// before the first write, so a rejection leaves the store untouched.
func (s *rescheduleService) Reschedule(ctx context.Context, userID primitive.ObjectID, ref domain.Occurrence, newDate time.Time, scope domain.RescheduleScope) (*domain.ScheduledExercise, error) {
	if scope != domain.ScopeThisWeek && scope != domain.ScopeWholePlan {
		return nil, validationErrorf("unknown reschedule scope %q", scope)
	}
	newDate = calendar.Normalize(newDate)

	switch occ := ref.(type) {
	case domain.PersistedRef:
		return s.reschedulePersisted(ctx, userID, occ, newDate, scope)
	case domain.ProjectedRef:
		return s.rescheduleProjected(ctx, userID, occ, newDate, scope)
	default:
		return nil, validationErrorf("unknown occurrence variant %T", ref)
	}
}

func (s *rescheduleService) reschedulePersisted(ctx context.Context, userID primitive.ObjectID, ref domain.PersistedRef, newDate time.Time, scope domain.RescheduleScope) (*domain.ScheduledExercise, error) {
	instance, err := s.scheduleRepo.GetByID(ctx, ref.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Entity: "scheduled exercise", ID: ref.ID.Hex()}
		}
		return nil, &PersistenceError{Op: "load scheduled exercise", Err: err}
	}
	if instance.UserID != userID {
		return nil, &NotFoundError{Entity: "scheduled exercise", ID: ref.ID.Hex()}
	}

	if !calendar.IsSameWeek(instance.Date, newDate) {
		return nil, &WeekRestrictionError{From: instance.Date, To: newDate}
	}
	if instance.Date.Equal(newDate) {
		return instance, nil
	}

	// Manual instances ignore the scope: only the date moves. The same holds
	// for plan instances under this-week scope, and for plan instances whose
	// plan has since been deleted (the dangling reference degrades to a
	// date-only move).
	var plan *domain.WorkoutPlan
	if scope == domain.ScopeWholePlan && instance.WorkoutPlanID != nil {
		plan, err = s.planRepo.GetByID(ctx, *instance.WorkoutPlanID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, &PersistenceError{Op: "load workout plan", Err: err}
		}
	}

	oldDate := instance.Date
	instance.Date = newDate
	if err := s.scheduleRepo.Update(ctx, instance); err != nil {
		instance.Date = oldDate
		return nil, &PersistenceError{Op: "move scheduled exercise", Err: err}
	}

	if plan != nil {
		moved := moveTemplateEntry(plan.WeeklyTemplate, calendar.DayOfWeek(oldDate), calendar.DayOfWeek(newDate), instance.ExerciseID)
		if moved {
			if err := s.planRepo.UpdateWeeklyTemplate(ctx, plan.ID, plan.WeeklyTemplate); err != nil {
				// Roll the instance back so the caller never sees half a move.
				instance.Date = oldDate
				if revertErr := s.scheduleRepo.Update(ctx, instance); revertErr != nil {
					return nil, &PersistenceError{
						Op:  "move template slot",
						Err: fmt.Errorf("%v (instance revert also failed: %v)", err, revertErr),
					}
				}
				return nil, &PersistenceError{Op: "move template slot", Err: err}
			}
		}
	}

	return instance, nil
}

// rescheduleProjected materializes a not-yet-persisted template occurrence.
// Under this-week scope only the single week's instance is created at the new
// date; under whole-plan scope the instance is created and the template entry
// moves day slots, as one operation: a failed template move deletes the
// instance again so no duplicate survives.
func (s *rescheduleService) rescheduleProjected(ctx context.Context, userID primitive.ObjectID, ref domain.ProjectedRef, newDate time.Time, scope domain.RescheduleScope) (*domain.ScheduledExercise, error) {
	if ref.DayOfWeek < 0 || ref.DayOfWeek >= domain.DaysPerWeek {
		return nil, validationErrorf("day of week %d out of range", ref.DayOfWeek)
	}
	origDate := calendar.Normalize(ref.Date)
	if calendar.DayOfWeek(origDate) != ref.DayOfWeek {
		return nil, validationErrorf("projected date %s does not fall on day slot %d",
			origDate.Format("2006-01-02"), ref.DayOfWeek)
	}
	if !calendar.IsSameWeek(origDate, newDate) {
		return nil, &WeekRestrictionError{From: origDate, To: newDate}
	}

	plan, err := s.planRepo.GetByID(ctx, ref.PlanID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Entity: "workout plan", ID: ref.PlanID.Hex()}
		}
		return nil, &PersistenceError{Op: "load workout plan", Err: err}
	}
	if plan.UserID != userID {
		return nil, &NotFoundError{Entity: "workout plan", ID: ref.PlanID.Hex()}
	}
	if !plan.WeeklyTemplate.IsValid() {
		return nil, validationErrorf("plan %s has no 7-slot weekly template", plan.ID.Hex())
	}

	var tmpl *domain.ExerciseTemplate
	for i := range plan.WeeklyTemplate[ref.DayOfWeek] {
		if plan.WeeklyTemplate[ref.DayOfWeek][i].OrderIndex == ref.OrderIndex {
			tmpl = &plan.WeeklyTemplate[ref.DayOfWeek][i]
			break
		}
	}
	if tmpl == nil {
		return nil, &NotFoundError{
			Entity: "template occurrence",
			ID:     fmt.Sprintf("%s/day-%d/%d", ref.PlanID.Hex(), ref.DayOfWeek, ref.OrderIndex),
		}
	}

	exercise, err := s.exerciseRepo.GetByID(ctx, tmpl.ExerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Entity: "exercise", ID: tmpl.ExerciseID.Hex()}
		}
		return nil, &PersistenceError{Op: "resolve exercise reference", Err: err}
	}

	planID := plan.ID
	instance := &domain.ScheduledExercise{
		UserID:        userID,
		ExerciseID:    tmpl.ExerciseID,
		CategoryID:    exercise.CategoryID,
		WorkoutPlanID: &planID,
		Date:          newDate,
		Sets:          tmpl.Sets,
		Reps:          tmpl.Reps,
		Weight:        tmpl.Weight,
		Notes:         tmpl.Notes,
	}
	id, err := s.scheduleRepo.Create(ctx, instance)
	if err != nil {
		return nil, &PersistenceError{Op: "materialize template occurrence", Err: err}
	}
	instance.ID = id

	if scope == domain.ScopeWholePlan {
		moved := moveTemplateEntry(plan.WeeklyTemplate, ref.DayOfWeek, calendar.DayOfWeek(newDate), tmpl.ExerciseID)
		if moved {
			if err := s.planRepo.UpdateWeeklyTemplate(ctx, plan.ID, plan.WeeklyTemplate); err != nil {
				if deleteErr := s.scheduleRepo.Delete(ctx, instance.ID, userID); deleteErr != nil {
					return nil, &PersistenceError{
						Op:  "move template slot",
						Err: fmt.Errorf("%v (materialized instance cleanup also failed: %v)", err, deleteErr),
					}
				}
				return nil, &PersistenceError{Op: "move template slot", Err: err}
			}
		}
	}

	return instance, nil
}

// moveTemplateEntry moves the first entry matching exerciseID from one day
// slot of the template to another, in place. Returns false when the source
// slot holds no such entry or the slots are the same.
func moveTemplateEntry(template domain.WeeklyTemplate, fromDay, toDay int, exerciseID primitive.ObjectID) bool {
	if fromDay == toDay {
		return false
	}
	src := template[fromDay]
	for i, entry := range src {
		if entry.ExerciseID == exerciseID {
			template[fromDay] = append(src[:i:i], src[i+1:]...)
			entry.OrderIndex = len(template[toDay])
			template[toDay] = append(template[toDay], entry)
			return true
		}
	}
	return false
}
