package service

import (
	"context"
	"testing"
	"time"

	"fitcal/workout-planner/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// June 1, 2025 is a Sunday, so the test week runs Jun 1 through Jun 7 (Sat).
var weekStart = date(2025, time.June, 1)

type scheduleFixture struct {
	service      ScheduleService
	scheduleRepo *fakeScheduleRepo
	planRepo     *fakePlanRepo
	exerciseRepo *fakeExerciseRepo

	userID   primitive.ObjectID
	category primitive.ObjectID
	squat    domain.Exercise
	bench    domain.Exercise
}

func newScheduleFixture(t *testing.T) *scheduleFixture {
	t.Helper()
	f := &scheduleFixture{
		scheduleRepo: newFakeScheduleRepo(),
		planRepo:     newFakePlanRepo(),
		exerciseRepo: newFakeExerciseRepo(),
		userID:       primitive.NewObjectID(),
		category:     primitive.NewObjectID(),
	}
	f.squat = f.exerciseRepo.add(domain.Exercise{Name: "Back Squat", CategoryID: f.category})
	f.bench = f.exerciseRepo.add(domain.Exercise{Name: "Bench Press", CategoryID: f.category})
	f.service = NewScheduleService(f.scheduleRepo, f.planRepo, f.exerciseRepo)
	return f
}

// monWedPlan returns a plan training Monday (squat) and Wednesday (bench),
// rest days otherwise.
func (f *scheduleFixture) monWedPlan() domain.WorkoutPlan {
	template := domain.NewWeeklyTemplate()
	template[1] = []domain.ExerciseTemplate{templateEntry(f.squat.ID, 0)}
	template[3] = []domain.ExerciseTemplate{templateEntry(f.bench.ID, 0)}
	return f.planRepo.add(domain.WorkoutPlan{
		UserID:         f.userID,
		Name:           "Upper/Lower",
		Mode:           domain.ModeOngoing,
		WeeklyTemplate: template,
	})
}

func TestGenerateMonWedWeekProducesTwoInstances(t *testing.T) {
	f := newScheduleFixture(t)
	plan := f.monWedPlan()

	result, err := f.service.Generate(context.Background(), &plan, weekStart, weekStart.AddDate(0, 0, 6), false)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)
	assert.Empty(t, result.Skipped)

	instances := f.scheduleRepo.byPlan(plan.ID)
	require.Len(t, instances, 2)
	byDate := map[time.Time]domain.ScheduledExercise{}
	for _, instance := range instances {
		byDate[instance.Date] = instance
	}

	monday := byDate[date(2025, time.June, 2)]
	require.NotZero(t, monday.ID)
	assert.Equal(t, f.squat.ID, monday.ExerciseID)
	assert.Equal(t, f.category, monday.CategoryID)
	assert.Equal(t, f.userID, monday.UserID)
	assert.Equal(t, 3, monday.Sets)
	assert.Equal(t, 10, monday.Reps)
	assert.False(t, monday.Completed)

	wednesday := byDate[date(2025, time.June, 4)]
	require.NotZero(t, wednesday.ID)
	assert.Equal(t, f.bench.ID, wednesday.ExerciseID)
}

func TestGenerateAllRestDaysProducesNothing(t *testing.T) {
	f := newScheduleFixture(t)
	plan := f.planRepo.add(domain.WorkoutPlan{
		UserID:         f.userID,
		Name:           "Deload",
		Mode:           domain.ModeOngoing,
		WeeklyTemplate: domain.NewWeeklyTemplate(),
	})

	result, err := f.service.Generate(context.Background(), &plan, weekStart, weekStart.AddDate(0, 0, 13), false)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Created)
	assert.Empty(t, f.scheduleRepo.instances)
}

func TestGenerateInvertedRangeRejected(t *testing.T) {
	f := newScheduleFixture(t)
	plan := f.monWedPlan()

	_, err := f.service.Generate(context.Background(), &plan, weekStart.AddDate(0, 0, 6), weekStart, false)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Empty(t, f.scheduleRepo.instances)
}

func TestGenerateMissingTemplateSlotRejected(t *testing.T) {
	f := newScheduleFixture(t)
	plan := f.planRepo.add(domain.WorkoutPlan{
		UserID:         f.userID,
		Name:           "Broken",
		Mode:           domain.ModeOngoing,
		WeeklyTemplate: make(domain.WeeklyTemplate, 5),
	})

	_, err := f.service.Generate(context.Background(), &plan, weekStart, weekStart.AddDate(0, 0, 6), false)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestGenerateReplaceIsIdempotent(t *testing.T) {
	f := newScheduleFixture(t)
	plan := f.monWedPlan()
	end := weekStart.AddDate(0, 0, 6)

	first, err := f.service.Generate(context.Background(), &plan, weekStart, end, true)
	require.NoError(t, err)
	second, err := f.service.Generate(context.Background(), &plan, weekStart, end, true)
	require.NoError(t, err)

	assert.Equal(t, first.Created, second.Created)
	assert.Len(t, f.scheduleRepo.byPlan(plan.ID), 2, "replacing must not accumulate duplicates")
}

func TestGenerateFillForwardSkipsPopulatedDates(t *testing.T) {
	f := newScheduleFixture(t)
	plan := f.monWedPlan()
	end := weekStart.AddDate(0, 0, 6)

	_, err := f.service.Generate(context.Background(), &plan, weekStart, end, false)
	require.NoError(t, err)

	second, err := f.service.Generate(context.Background(), &plan, weekStart, end, false)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Created)
	assert.Len(t, f.scheduleRepo.byPlan(plan.ID), 2)
}

func TestGenerateFillForwardExtendsIntoNewWeek(t *testing.T) {
	f := newScheduleFixture(t)
	plan := f.monWedPlan()

	_, err := f.service.Generate(context.Background(), &plan, weekStart, weekStart.AddDate(0, 0, 6), false)
	require.NoError(t, err)

	// Overlapping two-week range only fills the second week.
	result, err := f.service.Generate(context.Background(), &plan, weekStart, weekStart.AddDate(0, 0, 13), false)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)
	assert.Len(t, f.scheduleRepo.byPlan(plan.ID), 4)
}

func TestGenerateSkipsDeletedExerciseReferences(t *testing.T) {
	f := newScheduleFixture(t)
	ghostID := primitive.NewObjectID() // never added to the library
	template := domain.NewWeeklyTemplate()
	template[1] = []domain.ExerciseTemplate{
		templateEntry(ghostID, 0),
		templateEntry(f.squat.ID, 1),
	}
	plan := f.planRepo.add(domain.WorkoutPlan{
		UserID:         f.userID,
		Name:           "Partially broken",
		Mode:           domain.ModeOngoing,
		WeeklyTemplate: template,
	})

	result, err := f.service.Generate(context.Background(), &plan, weekStart, weekStart.AddDate(0, 0, 13), false)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Created, "the resolvable entry still materializes on both Mondays")
	require.Len(t, result.Skipped, 2)
	assert.Equal(t, ghostID, result.Skipped[0].ExerciseID)
	assert.Equal(t, "exercise no longer exists", result.Skipped[0].Reason)
}

func TestGenerateForActivePlanRequiresActivePlan(t *testing.T) {
	f := newScheduleFixture(t)
	f.monWedPlan() // exists but inactive

	_, err := f.service.GenerateForActivePlan(context.Background(), f.userID, weekStart, weekStart.AddDate(0, 0, 6), false)
	var notFoundErr *NotFoundError
	require.ErrorAs(t, err, &notFoundErr)
}

func TestGenerateForActivePlanUsesActivePlan(t *testing.T) {
	f := newScheduleFixture(t)
	template := domain.NewWeeklyTemplate()
	template[2] = []domain.ExerciseTemplate{templateEntry(f.bench.ID, 0)}
	f.planRepo.add(domain.WorkoutPlan{
		UserID:         f.userID,
		Name:           "Active",
		Mode:           domain.ModeOngoing,
		IsActive:       true,
		WeeklyTemplate: template,
	})

	result, err := f.service.GenerateForActivePlan(context.Background(), f.userID, weekStart, weekStart.AddDate(0, 0, 6), false)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
}

func TestAddManualCreatesPlanlessInstance(t *testing.T) {
	f := newScheduleFixture(t)

	// Time-of-day must be stripped.
	noisy := time.Date(2025, time.June, 3, 18, 30, 0, 0, time.UTC)
	instance, err := f.service.AddManual(context.Background(), f.userID, f.squat.ID, noisy, 5, 5, 100, "top set")
	require.NoError(t, err)

	assert.True(t, instance.IsManual())
	assert.Equal(t, date(2025, time.June, 3), instance.Date)
	assert.Equal(t, f.category, instance.CategoryID)
	assert.NotZero(t, instance.ID)
}

func TestAddManualUnknownExercise(t *testing.T) {
	f := newScheduleFixture(t)

	_, err := f.service.AddManual(context.Background(), f.userID, primitive.NewObjectID(), weekStart, 3, 10, 0, "")
	var notFoundErr *NotFoundError
	require.ErrorAs(t, err, &notFoundErr)
}

func TestToggleCompletionRoundTrip(t *testing.T) {
	f := newScheduleFixture(t)
	instance, err := f.service.AddManual(context.Background(), f.userID, f.squat.ID, weekStart, 3, 10, 0, "")
	require.NoError(t, err)

	completed, err := f.service.ToggleCompletion(context.Background(), f.userID, instance.ID)
	require.NoError(t, err)
	assert.True(t, completed.Completed)
	require.NotNil(t, completed.CompletedAt)

	reopened, err := f.service.ToggleCompletion(context.Background(), f.userID, instance.ID)
	require.NoError(t, err)
	assert.False(t, reopened.Completed)
	assert.Nil(t, reopened.CompletedAt)
}

func TestToggleCompletionHidesForeignInstances(t *testing.T) {
	f := newScheduleFixture(t)
	instance, err := f.service.AddManual(context.Background(), f.userID, f.squat.ID, weekStart, 3, 10, 0, "")
	require.NoError(t, err)

	_, err = f.service.ToggleCompletion(context.Background(), primitive.NewObjectID(), instance.ID)
	var notFoundErr *NotFoundError
	require.ErrorAs(t, err, &notFoundErr)
}

func TestClearDateRemovesOnlyThatDate(t *testing.T) {
	f := newScheduleFixture(t)
	_, err := f.service.AddManual(context.Background(), f.userID, f.squat.ID, weekStart, 3, 10, 0, "")
	require.NoError(t, err)
	keep, err := f.service.AddManual(context.Background(), f.userID, f.bench.ID, weekStart.AddDate(0, 0, 1), 3, 10, 0, "")
	require.NoError(t, err)

	removed, err := f.service.ClearDate(context.Background(), f.userID, weekStart)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
	_, ok := f.scheduleRepo.instances[keep.ID]
	assert.True(t, ok)
}
