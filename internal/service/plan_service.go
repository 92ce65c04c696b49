package service

import (
	"context"
	"errors"
	"log"
	"time"

	"fitcal/workout-planner/internal/calendar"
	"fitcal/workout-planner/internal/domain"
	"fitcal/workout-planner/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Activation generates this many days of schedule starting from the current
// week's Sunday.
const defaultGenerationWindowDays = 28

// Conflict describes one overlap between the candidate range and another
// active plan.
type Conflict struct {
	PlanID       primitive.ObjectID `json:"planId"`
	PlanName     string             `json:"planName"`
	OverlapStart time.Time          `json:"overlapStart"`
	OverlapEnd   time.Time          `json:"overlapEnd"`
}

// ConflictReport is the detector's result. An empty Conflicts list is the
// normal no-conflict outcome, not an error.
type ConflictReport struct {
	HasConflicts bool       `json:"hasConflicts"`
	Conflicts    []Conflict `json:"conflicts"`
}

// PlanInput carries the caller-editable fields of a workout plan.
type PlanInput struct {
	Name        string
	Description string
	Level       domain.PlanLevel
	Mode        domain.PlanMode
	StartDate   *time.Time
	EndDate     *time.Time
}

// planGenerator is the slice of the schedule service the plan lifecycle
// needs: activation triggers a near-term generation window.
type planGenerator interface {
	Generate(ctx context.Context, plan *domain.WorkoutPlan, start, end time.Time, replaceExisting bool) (*GenerationResult, error)
}

// --- Service Interface ---
type PlanService interface {
	CreatePlan(ctx context.Context, userID primitive.ObjectID, input PlanInput) (*domain.WorkoutPlan, error)
	GetPlans(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutPlan, error)
	GetPlanByID(ctx context.Context, userID, planID primitive.ObjectID) (*domain.WorkoutPlan, error)
	UpdatePlan(ctx context.Context, userID, planID primitive.ObjectID, input PlanInput) (*domain.WorkoutPlan, error)
	SetDaySlot(ctx context.Context, userID, planID primitive.ObjectID, dayOfWeek int, entries []domain.ExerciseTemplate) (*domain.WorkoutPlan, error)
	DeletePlan(ctx context.Context, userID, planID primitive.ObjectID) error

	// CheckConflicts reports overlaps between the candidate range and the
	// user's other active plans. It never resolves anything itself.
	CheckConflicts(ctx context.Context, userID, candidatePlanID primitive.ObjectID, start, end time.Time) (*ConflictReport, error)

	// SwitchActivePlan deactivates every other plan of the user and activates
	// the target as one logical step, then generates a default near-term
	// window. Without force, activating a dated plan over detected overlaps
	// fails with ConflictError.
	SwitchActivePlan(ctx context.Context, userID, planID primitive.ObjectID, force bool) (*domain.WorkoutPlan, *GenerationResult, error)
	DeactivatePlan(ctx context.Context, userID, planID primitive.ObjectID) (*domain.WorkoutPlan, error)
}

// --- Service Implementation ---

// planService implements the PlanService interface.
type planService struct {
	planRepo  repository.WorkoutPlanRepository
	generator planGenerator
}

// NewPlanService creates a new instance of planService.
func NewPlanService(planRepo repository.WorkoutPlanRepository, generator planGenerator) PlanService {
	return &planService{
		planRepo:  planRepo,
		generator: generator,
	}
}

func validatePlanInput(input *PlanInput) error {
	if input.Name == "" {
		return validationErrorf("plan name is required")
	}
	switch input.Level {
	case domain.LevelBeginner, domain.LevelIntermediate, domain.LevelAdvanced:
	case "":
		input.Level = domain.LevelBeginner
	default:
		return validationErrorf("unknown plan level %q", input.Level)
	}
	switch input.Mode {
	case domain.ModeOngoing:
		if input.EndDate != nil {
			return validationErrorf("ongoing plans cannot have an end date")
		}
	case domain.ModeDated:
		if input.StartDate == nil || input.EndDate == nil {
			return validationErrorf("dated plans require start and end dates")
		}
		if input.StartDate.After(*input.EndDate) {
			return validationErrorf("plan start date is after end date")
		}
	default:
		return validationErrorf("unknown plan mode %q", input.Mode)
	}
	if input.StartDate != nil {
		d := calendar.Normalize(*input.StartDate)
		input.StartDate = &d
	}
	if input.EndDate != nil {
		d := calendar.Normalize(*input.EndDate)
		input.EndDate = &d
	}
	return nil
}

// CreatePlan creates an inactive plan with an all-rest-days weekly template.
func (s *planService) CreatePlan(ctx context.Context, userID primitive.ObjectID, input PlanInput) (*domain.WorkoutPlan, error) {
	if err := validatePlanInput(&input); err != nil {
		return nil, err
	}

	plan := &domain.WorkoutPlan{
		UserID:         userID,
		Name:           input.Name,
		Description:    input.Description,
		Level:          input.Level,
		Mode:           input.Mode,
		StartDate:      input.StartDate,
		EndDate:        input.EndDate,
		WeeklyTemplate: domain.NewWeeklyTemplate(),
	}
	planID, err := s.planRepo.Create(ctx, plan)
	if err != nil {
		return nil, &PersistenceError{Op: "create workout plan", Err: err}
	}
	plan.ID = planID
	return plan, nil
}

func (s *planService) GetPlans(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutPlan, error) {
	plans, err := s.planRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, &PersistenceError{Op: "list workout plans", Err: err}
	}
	return plans, nil
}

func (s *planService) GetPlanByID(ctx context.Context, userID, planID primitive.ObjectID) (*domain.WorkoutPlan, error) {
	return s.getOwned(ctx, userID, planID)
}

func (s *planService) UpdatePlan(ctx context.Context, userID, planID primitive.ObjectID, input PlanInput) (*domain.WorkoutPlan, error) {
	if err := validatePlanInput(&input); err != nil {
		return nil, err
	}
	plan, err := s.getOwned(ctx, userID, planID)
	if err != nil {
		return nil, err
	}

	plan.Name = input.Name
	plan.Description = input.Description
	plan.Level = input.Level
	plan.Mode = input.Mode
	plan.StartDate = input.StartDate
	plan.EndDate = input.EndDate

	if err := s.planRepo.Update(ctx, plan); err != nil {
		return nil, &PersistenceError{Op: "update workout plan", Err: err}
	}
	return plan, nil
}

// SetDaySlot replaces one day slot of the weekly template.
func (s *planService) SetDaySlot(ctx context.Context, userID, planID primitive.ObjectID, dayOfWeek int, entries []domain.ExerciseTemplate) (*domain.WorkoutPlan, error) {
	if dayOfWeek < 0 || dayOfWeek >= domain.DaysPerWeek {
		return nil, validationErrorf("day of week %d out of range", dayOfWeek)
	}
	for _, entry := range entries {
		if entry.ExerciseID == primitive.NilObjectID {
			return nil, validationErrorf("template entry requires an exercise reference")
		}
		if entry.Sets < 0 || entry.Reps < 0 {
			return nil, validationErrorf("sets and reps must not be negative")
		}
	}
	plan, err := s.getOwned(ctx, userID, planID)
	if err != nil {
		return nil, err
	}

	for i := range entries {
		entries[i].OrderIndex = i
	}
	plan.WeeklyTemplate[dayOfWeek] = entries
	if err := s.planRepo.UpdateWeeklyTemplate(ctx, planID, plan.WeeklyTemplate); err != nil {
		return nil, &PersistenceError{Op: "update weekly template", Err: err}
	}
	return plan, nil
}

func (s *planService) DeletePlan(ctx context.Context, userID, planID primitive.ObjectID) error {
	// Generated instances are kept; their plan reference dangles and read
	// paths treat them like manual entries.
	err := s.planRepo.Delete(ctx, planID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &NotFoundError{Entity: "workout plan", ID: planID.Hex()}
		}
		return &PersistenceError{Op: "delete workout plan", Err: err}
	}
	return nil
}

// CheckConflicts walks the user's other active plans and reports interval
// overlaps with [start, end]. Dated plans use the closed-interval test;
// ongoing plans count as active indefinitely once started, so any candidate
// range starting on or after their start date conflicts.
func (s *planService) CheckConflicts(ctx context.Context, userID, candidatePlanID primitive.ObjectID, start, end time.Time) (*ConflictReport, error) {
	start = calendar.Normalize(start)
	end = calendar.Normalize(end)
	if start.After(end) {
		return nil, validationErrorf("start date is after end date")
	}

	plans, err := s.planRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, &PersistenceError{Op: "list workout plans", Err: err}
	}

	report := &ConflictReport{Conflicts: []Conflict{}}
	for _, plan := range plans {
		if plan.ID == candidatePlanID || !plan.IsActive || plan.StartDate == nil {
			continue
		}
		planStart := calendar.Normalize(*plan.StartDate)

		switch plan.Mode {
		case domain.ModeDated:
			if plan.EndDate == nil {
				continue
			}
			planEnd := calendar.Normalize(*plan.EndDate)
			if planStart.After(end) || start.After(planEnd) {
				continue
			}
			report.Conflicts = append(report.Conflicts, Conflict{
				PlanID:       plan.ID,
				PlanName:     plan.Name,
				OverlapStart: laterOf(start, planStart),
				OverlapEnd:   earlierOf(end, planEnd),
			})
		case domain.ModeOngoing:
			if start.Before(planStart) {
				continue
			}
			report.Conflicts = append(report.Conflicts, Conflict{
				PlanID:       plan.ID,
				PlanName:     plan.Name,
				OverlapStart: start,
				OverlapEnd:   end,
			})
		}
	}
	report.HasConflicts = len(report.Conflicts) > 0
	return report, nil
}

// SwitchActivePlan performs deactivate-others and activate-target as a single
// service operation so the one-active-plan invariant is never observable
// violated between two calls.
func (s *planService) SwitchActivePlan(ctx context.Context, userID, planID primitive.ObjectID, force bool) (*domain.WorkoutPlan, *GenerationResult, error) {
	plan, err := s.getOwned(ctx, userID, planID)
	if err != nil {
		return nil, nil, err
	}

	if plan.Mode == domain.ModeDated && !force {
		report, err := s.CheckConflicts(ctx, userID, planID, *plan.StartDate, *plan.EndDate)
		if err != nil {
			return nil, nil, err
		}
		if report.HasConflicts {
			return nil, nil, &ConflictError{Report: report}
		}
	}

	if err := s.planRepo.DeactivateAllForUser(ctx, userID, planID); err != nil {
		return nil, nil, &PersistenceError{Op: "deactivate other plans", Err: err}
	}
	plan.IsActive = true
	if plan.Mode == domain.ModeOngoing && plan.StartDate == nil {
		now := calendar.Normalize(time.Now())
		plan.StartDate = &now
	}
	if err := s.planRepo.Update(ctx, plan); err != nil {
		return nil, nil, &PersistenceError{Op: "activate workout plan", Err: err}
	}

	// Fill the near-term calendar without clobbering days already populated.
	windowStart := calendar.StartOfWeek(time.Now())
	windowEnd := windowStart.AddDate(0, 0, defaultGenerationWindowDays-1)
	result, err := s.generator.Generate(ctx, plan, windowStart, windowEnd, false)
	if err != nil {
		// The plan is active either way; the caller can re-run generation.
		log.Printf("WARN: schedule generation after activating plan %s failed: %v", plan.ID.Hex(), err)
	}
	return plan, result, nil
}

func (s *planService) DeactivatePlan(ctx context.Context, userID, planID primitive.ObjectID) (*domain.WorkoutPlan, error) {
	plan, err := s.getOwned(ctx, userID, planID)
	if err != nil {
		return nil, err
	}
	if !plan.IsActive {
		return plan, nil
	}
	plan.IsActive = false
	if err := s.planRepo.Update(ctx, plan); err != nil {
		return nil, &PersistenceError{Op: "deactivate workout plan", Err: err}
	}
	return plan, nil
}

func (s *planService) getOwned(ctx context.Context, userID, planID primitive.ObjectID) (*domain.WorkoutPlan, error) {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Entity: "workout plan", ID: planID.Hex()}
		}
		return nil, &PersistenceError{Op: "load workout plan", Err: err}
	}
	if plan.UserID != userID {
		return nil, &NotFoundError{Entity: "workout plan", ID: planID.Hex()}
	}
	return plan, nil
}

func laterOf(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func earlierOf(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
