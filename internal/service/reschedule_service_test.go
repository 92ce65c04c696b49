package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"fitcal/workout-planner/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type rescheduleFixture struct {
	service      RescheduleService
	scheduleRepo *fakeScheduleRepo
	planRepo     *fakePlanRepo
	exerciseRepo *fakeExerciseRepo

	userID primitive.ObjectID
	squat  domain.Exercise
}

func newRescheduleFixture(t *testing.T) *rescheduleFixture {
	t.Helper()
	f := &rescheduleFixture{
		scheduleRepo: newFakeScheduleRepo(),
		planRepo:     newFakePlanRepo(),
		exerciseRepo: newFakeExerciseRepo(),
		userID:       primitive.NewObjectID(),
	}
	f.squat = f.exerciseRepo.add(domain.Exercise{Name: "Back Squat", CategoryID: primitive.NewObjectID()})
	f.service = NewRescheduleService(f.scheduleRepo, f.planRepo, f.exerciseRepo)
	return f
}

// planWithSquatOnMonday stores a plan whose template trains Monday only.
func (f *rescheduleFixture) planWithSquatOnMonday() domain.WorkoutPlan {
	template := domain.NewWeeklyTemplate()
	template[1] = []domain.ExerciseTemplate{templateEntry(f.squat.ID, 0)}
	return f.planRepo.add(domain.WorkoutPlan{
		UserID:         f.userID,
		Name:           "Squat day",
		Mode:           domain.ModeOngoing,
		WeeklyTemplate: template,
	})
}

// persistedInstance stores a generated instance of the plan on the given date.
func (f *rescheduleFixture) persistedInstance(planID *primitive.ObjectID, day time.Time) domain.ScheduledExercise {
	return f.scheduleRepo.add(domain.ScheduledExercise{
		UserID:        f.userID,
		ExerciseID:    f.squat.ID,
		CategoryID:    f.squat.CategoryID,
		WorkoutPlanID: planID,
		Date:          day,
		Sets:          3,
		Reps:          10,
	})
}

func TestReschedulePersistedMovesDateWithinWeek(t *testing.T) {
	f := newRescheduleFixture(t)
	monday := date(2025, time.June, 2)
	instance := f.persistedInstance(nil, monday)

	moved, err := f.service.Reschedule(context.Background(), f.userID,
		domain.PersistedRef{ID: instance.ID}, date(2025, time.June, 4), domain.ScopeThisWeek)
	require.NoError(t, err)
	assert.Equal(t, date(2025, time.June, 4), moved.Date)
	assert.Equal(t, date(2025, time.June, 4), f.scheduleRepo.instances[instance.ID].Date)
}

func TestReschedulePersistedCrossWeekRejectedWithoutMutation(t *testing.T) {
	f := newRescheduleFixture(t)
	saturday := date(2025, time.June, 7)
	instance := f.persistedInstance(nil, saturday)

	// Sunday Jun 8 is the next week even though it is only one day later.
	_, err := f.service.Reschedule(context.Background(), f.userID,
		domain.PersistedRef{ID: instance.ID}, date(2025, time.June, 8), domain.ScopeThisWeek)

	var weekErr *WeekRestrictionError
	require.ErrorAs(t, err, &weekErr)
	assert.Equal(t, saturday, f.scheduleRepo.instances[instance.ID].Date, "rejected move must not change the stored date")
}

func TestReschedulePersistedSameDateIsNoOp(t *testing.T) {
	f := newRescheduleFixture(t)
	monday := date(2025, time.June, 2)
	instance := f.persistedInstance(nil, monday)

	moved, err := f.service.Reschedule(context.Background(), f.userID,
		domain.PersistedRef{ID: instance.ID}, monday, domain.ScopeWholePlan)
	require.NoError(t, err)
	assert.Equal(t, monday, moved.Date)
}

func TestReschedulePersistedThisWeekLeavesTemplateAlone(t *testing.T) {
	f := newRescheduleFixture(t)
	plan := f.planWithSquatOnMonday()
	instance := f.persistedInstance(&plan.ID, date(2025, time.June, 2))

	_, err := f.service.Reschedule(context.Background(), f.userID,
		domain.PersistedRef{ID: instance.ID}, date(2025, time.June, 4), domain.ScopeThisWeek)
	require.NoError(t, err)

	stored := f.planRepo.plans[plan.ID]
	require.Len(t, stored.WeeklyTemplate[1], 1, "Monday slot must keep its entry")
	assert.Empty(t, stored.WeeklyTemplate[3])
}

func TestReschedulePersistedWholePlanMovesTemplateSlot(t *testing.T) {
	f := newRescheduleFixture(t)
	plan := f.planWithSquatOnMonday()
	instance := f.persistedInstance(&plan.ID, date(2025, time.June, 2))

	moved, err := f.service.Reschedule(context.Background(), f.userID,
		domain.PersistedRef{ID: instance.ID}, date(2025, time.June, 4), domain.ScopeWholePlan)
	require.NoError(t, err)
	assert.Equal(t, date(2025, time.June, 4), moved.Date)

	stored := f.planRepo.plans[plan.ID]
	assert.Empty(t, stored.WeeklyTemplate[1], "Monday slot must be vacated")
	require.Len(t, stored.WeeklyTemplate[3], 1, "Wednesday slot must receive the entry")
	assert.Equal(t, f.squat.ID, stored.WeeklyTemplate[3][0].ExerciseID)
	assert.Equal(t, 0, stored.WeeklyTemplate[3][0].OrderIndex)
}

func TestReschedulePersistedTemplateFailureRevertsInstance(t *testing.T) {
	f := newRescheduleFixture(t)
	plan := f.planWithSquatOnMonday()
	monday := date(2025, time.June, 2)
	instance := f.persistedInstance(&plan.ID, monday)
	f.planRepo.updateTemplateErr = errors.New("write concern timeout")

	_, err := f.service.Reschedule(context.Background(), f.userID,
		domain.PersistedRef{ID: instance.ID}, date(2025, time.June, 4), domain.ScopeWholePlan)

	var persistenceErr *PersistenceError
	require.ErrorAs(t, err, &persistenceErr)
	assert.Equal(t, monday, f.scheduleRepo.instances[instance.ID].Date, "failed template move must revert the instance date")
}

func TestReschedulePersistedDanglingPlanDegradesToDateMove(t *testing.T) {
	f := newRescheduleFixture(t)
	deletedPlanID := primitive.NewObjectID() // not in the repo
	instance := f.persistedInstance(&deletedPlanID, date(2025, time.June, 2))

	moved, err := f.service.Reschedule(context.Background(), f.userID,
		domain.PersistedRef{ID: instance.ID}, date(2025, time.June, 5), domain.ScopeWholePlan)
	require.NoError(t, err)
	assert.Equal(t, date(2025, time.June, 5), moved.Date)
}

func TestReschedulePersistedForeignInstanceHidden(t *testing.T) {
	f := newRescheduleFixture(t)
	instance := f.persistedInstance(nil, date(2025, time.June, 2))

	_, err := f.service.Reschedule(context.Background(), primitive.NewObjectID(),
		domain.PersistedRef{ID: instance.ID}, date(2025, time.June, 3), domain.ScopeThisWeek)
	var notFoundErr *NotFoundError
	require.ErrorAs(t, err, &notFoundErr)
}

func TestRescheduleUnknownScopeRejected(t *testing.T) {
	f := newRescheduleFixture(t)
	instance := f.persistedInstance(nil, date(2025, time.June, 2))

	_, err := f.service.Reschedule(context.Background(), f.userID,
		domain.PersistedRef{ID: instance.ID}, date(2025, time.June, 3), "next-month")
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestRescheduleProjectedThisWeekMaterializesAtNewDate(t *testing.T) {
	f := newRescheduleFixture(t)
	plan := f.planWithSquatOnMonday()

	ref := domain.ProjectedRef{
		PlanID:     plan.ID,
		DayOfWeek:  1,
		OrderIndex: 0,
		Date:       date(2025, time.June, 2),
	}
	instance, err := f.service.Reschedule(context.Background(), f.userID, ref, date(2025, time.June, 6), domain.ScopeThisWeek)
	require.NoError(t, err)

	assert.Equal(t, date(2025, time.June, 6), instance.Date)
	assert.Equal(t, f.squat.ID, instance.ExerciseID)
	require.NotNil(t, instance.WorkoutPlanID)
	assert.Equal(t, plan.ID, *instance.WorkoutPlanID)
	assert.NotZero(t, instance.ID, "the occurrence must be persisted")

	stored := f.planRepo.plans[plan.ID]
	require.Len(t, stored.WeeklyTemplate[1], 1, "this-week scope must not touch the template")
}

func TestRescheduleProjectedWholePlanMovesTemplate(t *testing.T) {
	f := newRescheduleFixture(t)
	plan := f.planWithSquatOnMonday()

	ref := domain.ProjectedRef{
		PlanID:     plan.ID,
		DayOfWeek:  1,
		OrderIndex: 0,
		Date:       date(2025, time.June, 2),
	}
	instance, err := f.service.Reschedule(context.Background(), f.userID, ref, date(2025, time.June, 6), domain.ScopeWholePlan)
	require.NoError(t, err)
	assert.Equal(t, date(2025, time.June, 6), instance.Date)

	stored := f.planRepo.plans[plan.ID]
	assert.Empty(t, stored.WeeklyTemplate[1])
	require.Len(t, stored.WeeklyTemplate[5], 1, "Friday slot must receive the entry")
}

func TestRescheduleProjectedTemplateFailureRemovesInstance(t *testing.T) {
	f := newRescheduleFixture(t)
	plan := f.planWithSquatOnMonday()
	f.planRepo.updateTemplateErr = errors.New("write concern timeout")

	ref := domain.ProjectedRef{
		PlanID:     plan.ID,
		DayOfWeek:  1,
		OrderIndex: 0,
		Date:       date(2025, time.June, 2),
	}
	_, err := f.service.Reschedule(context.Background(), f.userID, ref, date(2025, time.June, 6), domain.ScopeWholePlan)

	var persistenceErr *PersistenceError
	require.ErrorAs(t, err, &persistenceErr)
	assert.Empty(t, f.scheduleRepo.instances, "failed whole-plan move must not leave a materialized instance behind")
}

func TestRescheduleProjectedCrossWeekRejected(t *testing.T) {
	f := newRescheduleFixture(t)
	plan := f.planWithSquatOnMonday()

	ref := domain.ProjectedRef{
		PlanID:     plan.ID,
		DayOfWeek:  1,
		OrderIndex: 0,
		Date:       date(2025, time.June, 2),
	}
	_, err := f.service.Reschedule(context.Background(), f.userID, ref, date(2025, time.June, 9), domain.ScopeThisWeek)
	var weekErr *WeekRestrictionError
	require.ErrorAs(t, err, &weekErr)
	assert.Empty(t, f.scheduleRepo.instances)
}

func TestRescheduleProjectedDateSlotMismatchRejected(t *testing.T) {
	f := newRescheduleFixture(t)
	plan := f.planWithSquatOnMonday()

	ref := domain.ProjectedRef{
		PlanID:     plan.ID,
		DayOfWeek:  1,
		OrderIndex: 0,
		Date:       date(2025, time.June, 3), // a Tuesday, not slot 1
	}
	_, err := f.service.Reschedule(context.Background(), f.userID, ref, date(2025, time.June, 6), domain.ScopeThisWeek)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestRescheduleProjectedUnknownTemplateEntry(t *testing.T) {
	f := newRescheduleFixture(t)
	plan := f.planWithSquatOnMonday()

	ref := domain.ProjectedRef{
		PlanID:     plan.ID,
		DayOfWeek:  1,
		OrderIndex: 7, // no such entry in the Monday slot
		Date:       date(2025, time.June, 2),
	}
	_, err := f.service.Reschedule(context.Background(), f.userID, ref, date(2025, time.June, 6), domain.ScopeThisWeek)
	var notFoundErr *NotFoundError
	require.ErrorAs(t, err, &notFoundErr)
}

func TestMoveTemplateEntryReindexesTargetSlot(t *testing.T) {
	squatID := primitive.NewObjectID()
	benchID := primitive.NewObjectID()
	template := domain.NewWeeklyTemplate()
	template[1] = []domain.ExerciseTemplate{templateEntry(squatID, 0)}
	template[3] = []domain.ExerciseTemplate{templateEntry(benchID, 0)}

	moved := moveTemplateEntry(template, 1, 3, squatID)
	require.True(t, moved)
	require.Len(t, template[3], 2)
	assert.Equal(t, benchID, template[3][0].ExerciseID)
	assert.Equal(t, squatID, template[3][1].ExerciseID)
	assert.Equal(t, 1, template[3][1].OrderIndex, "appended entry gets the next order index")

	assert.False(t, moveTemplateEntry(template, 2, 4, squatID), "empty source slot moves nothing")
	assert.False(t, moveTemplateEntry(template, 3, 3, squatID), "same-slot move is a no-op")
}
