package service

import (
	"context"
	"time"

	"fitcal/workout-planner/internal/calendar"
	"fitcal/workout-planner/internal/domain"
	"fitcal/workout-planner/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes. Each one keeps value copies so tests observe
// only what the service actually wrote back, and exposes error injection
// fields for the failure paths.

// --- exercise repo ---

type fakeExerciseRepo struct {
	exercises map[primitive.ObjectID]domain.Exercise
}

func newFakeExerciseRepo() *fakeExerciseRepo {
	return &fakeExerciseRepo{exercises: map[primitive.ObjectID]domain.Exercise{}}
}

func (r *fakeExerciseRepo) add(exercise domain.Exercise) domain.Exercise {
	if exercise.ID == primitive.NilObjectID {
		exercise.ID = primitive.NewObjectID()
	}
	r.exercises[exercise.ID] = exercise
	return exercise
}

func (r *fakeExerciseRepo) Create(_ context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	stored := r.add(*exercise)
	return stored.ID, nil
}

func (r *fakeExerciseRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	exercise, ok := r.exercises[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &exercise, nil
}

func (r *fakeExerciseRepo) GetAll(_ context.Context) ([]domain.Exercise, error) {
	var all []domain.Exercise
	for _, exercise := range r.exercises {
		all = append(all, exercise)
	}
	return all, nil
}

func (r *fakeExerciseRepo) GetByCategoryID(_ context.Context, categoryID primitive.ObjectID) ([]domain.Exercise, error) {
	var matched []domain.Exercise
	for _, exercise := range r.exercises {
		if exercise.CategoryID == categoryID {
			matched = append(matched, exercise)
		}
	}
	return matched, nil
}

func (r *fakeExerciseRepo) Update(_ context.Context, exercise *domain.Exercise) error {
	if _, ok := r.exercises[exercise.ID]; !ok {
		return repository.ErrNotFound
	}
	r.exercises[exercise.ID] = *exercise
	return nil
}

func (r *fakeExerciseRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.exercises[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.exercises, id)
	return nil
}

// --- workout plan repo ---

type fakePlanRepo struct {
	plans map[primitive.ObjectID]domain.WorkoutPlan

	updateErr         error
	updateTemplateErr error
}

func newFakePlanRepo() *fakePlanRepo {
	return &fakePlanRepo{plans: map[primitive.ObjectID]domain.WorkoutPlan{}}
}

func cloneTemplate(template domain.WeeklyTemplate) domain.WeeklyTemplate {
	if template == nil {
		return nil
	}
	cloned := make(domain.WeeklyTemplate, len(template))
	for i, slot := range template {
		cloned[i] = append([]domain.ExerciseTemplate(nil), slot...)
	}
	return cloned
}

func clonePlan(plan domain.WorkoutPlan) domain.WorkoutPlan {
	plan.WeeklyTemplate = cloneTemplate(plan.WeeklyTemplate)
	return plan
}

func (r *fakePlanRepo) add(plan domain.WorkoutPlan) domain.WorkoutPlan {
	if plan.ID == primitive.NilObjectID {
		plan.ID = primitive.NewObjectID()
	}
	r.plans[plan.ID] = clonePlan(plan)
	return plan
}

func (r *fakePlanRepo) Create(_ context.Context, plan *domain.WorkoutPlan) (primitive.ObjectID, error) {
	stored := r.add(*plan)
	return stored.ID, nil
}

func (r *fakePlanRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.WorkoutPlan, error) {
	plan, ok := r.plans[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cloned := clonePlan(plan)
	return &cloned, nil
}

func (r *fakePlanRepo) GetByUserID(_ context.Context, userID primitive.ObjectID) ([]domain.WorkoutPlan, error) {
	var matched []domain.WorkoutPlan
	for _, plan := range r.plans {
		if plan.UserID == userID {
			matched = append(matched, clonePlan(plan))
		}
	}
	return matched, nil
}

func (r *fakePlanRepo) GetActiveByUserID(_ context.Context, userID primitive.ObjectID) (*domain.WorkoutPlan, error) {
	for _, plan := range r.plans {
		if plan.UserID == userID && plan.IsActive {
			cloned := clonePlan(plan)
			return &cloned, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakePlanRepo) Update(_ context.Context, plan *domain.WorkoutPlan) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.plans[plan.ID]; !ok {
		return repository.ErrNotFound
	}
	r.plans[plan.ID] = clonePlan(*plan)
	return nil
}

func (r *fakePlanRepo) UpdateWeeklyTemplate(_ context.Context, planID primitive.ObjectID, template domain.WeeklyTemplate) error {
	if r.updateTemplateErr != nil {
		return r.updateTemplateErr
	}
	plan, ok := r.plans[planID]
	if !ok {
		return repository.ErrNotFound
	}
	plan.WeeklyTemplate = cloneTemplate(template)
	r.plans[planID] = plan
	return nil
}

func (r *fakePlanRepo) DeactivateAllForUser(_ context.Context, userID, excludePlanID primitive.ObjectID) error {
	for id, plan := range r.plans {
		if plan.UserID == userID && id != excludePlanID {
			plan.IsActive = false
			r.plans[id] = plan
		}
	}
	return nil
}

func (r *fakePlanRepo) Delete(_ context.Context, id, userID primitive.ObjectID) error {
	plan, ok := r.plans[id]
	if !ok || plan.UserID != userID {
		return repository.ErrNotFound
	}
	delete(r.plans, id)
	return nil
}

// --- scheduled exercise repo ---

type fakeScheduleRepo struct {
	instances map[primitive.ObjectID]domain.ScheduledExercise

	createErr     error
	createManyErr error
	updateErr     error
}

func newFakeScheduleRepo() *fakeScheduleRepo {
	return &fakeScheduleRepo{instances: map[primitive.ObjectID]domain.ScheduledExercise{}}
}

func (r *fakeScheduleRepo) add(instance domain.ScheduledExercise) domain.ScheduledExercise {
	if instance.ID == primitive.NilObjectID {
		instance.ID = primitive.NewObjectID()
	}
	r.instances[instance.ID] = instance
	return instance
}

func (r *fakeScheduleRepo) byPlan(planID primitive.ObjectID) []domain.ScheduledExercise {
	var matched []domain.ScheduledExercise
	for _, instance := range r.instances {
		if instance.WorkoutPlanID != nil && *instance.WorkoutPlanID == planID {
			matched = append(matched, instance)
		}
	}
	return matched
}

func (r *fakeScheduleRepo) Create(_ context.Context, instance *domain.ScheduledExercise) (primitive.ObjectID, error) {
	if r.createErr != nil {
		return primitive.NilObjectID, r.createErr
	}
	stored := r.add(*instance)
	return stored.ID, nil
}

func (r *fakeScheduleRepo) CreateMany(_ context.Context, instances []domain.ScheduledExercise) (int, error) {
	if r.createManyErr != nil {
		return 0, r.createManyErr
	}
	for _, instance := range instances {
		r.add(instance)
	}
	return len(instances), nil
}

func (r *fakeScheduleRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.ScheduledExercise, error) {
	instance, ok := r.instances[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &instance, nil
}

func (r *fakeScheduleRepo) GetByUserAndDateRange(_ context.Context, userID primitive.ObjectID, start, end time.Time) ([]domain.ScheduledExercise, error) {
	var matched []domain.ScheduledExercise
	for _, instance := range r.instances {
		if instance.UserID == userID && !instance.Date.Before(start) && !instance.Date.After(end) {
			matched = append(matched, instance)
		}
	}
	return matched, nil
}

func (r *fakeScheduleRepo) DatesWithPlanInstances(_ context.Context, planID primitive.ObjectID, start, end time.Time) (map[time.Time]bool, error) {
	dates := map[time.Time]bool{}
	for _, instance := range r.byPlan(planID) {
		if !instance.Date.Before(start) && !instance.Date.After(end) {
			dates[calendar.Normalize(instance.Date)] = true
		}
	}
	return dates, nil
}

func (r *fakeScheduleRepo) DeleteByPlanAndDateRange(_ context.Context, planID primitive.ObjectID, start, end time.Time) (int64, error) {
	var removed int64
	for id, instance := range r.instances {
		if instance.WorkoutPlanID != nil && *instance.WorkoutPlanID == planID &&
			!instance.Date.Before(start) && !instance.Date.After(end) {
			delete(r.instances, id)
			removed++
		}
	}
	return removed, nil
}

func (r *fakeScheduleRepo) DeleteByUserAndDate(_ context.Context, userID primitive.ObjectID, date time.Time) (int64, error) {
	date = calendar.Normalize(date)
	var removed int64
	for id, instance := range r.instances {
		if instance.UserID == userID && instance.Date.Equal(date) {
			delete(r.instances, id)
			removed++
		}
	}
	return removed, nil
}

func (r *fakeScheduleRepo) Update(_ context.Context, instance *domain.ScheduledExercise) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.instances[instance.ID]; !ok {
		return repository.ErrNotFound
	}
	r.instances[instance.ID] = *instance
	return nil
}

func (r *fakeScheduleRepo) Delete(_ context.Context, id, userID primitive.ObjectID) error {
	instance, ok := r.instances[id]
	if !ok || instance.UserID != userID {
		return repository.ErrNotFound
	}
	delete(r.instances, id)
	return nil
}

// --- shared test helpers ---

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func templateEntry(exerciseID primitive.ObjectID, orderIndex int) domain.ExerciseTemplate {
	return domain.ExerciseTemplate{
		ExerciseID: exerciseID,
		Sets:       3,
		Reps:       10,
		Weight:     60,
		OrderIndex: orderIndex,
	}
}
