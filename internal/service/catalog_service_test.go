package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"fitcal/workout-planner/internal/domain"
	"fitcal/workout-planner/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeSnapshotStorage keeps uploaded objects in memory.
type fakeSnapshotStorage struct {
	objects map[string][]byte
}

func newFakeSnapshotStorage() *fakeSnapshotStorage {
	return &fakeSnapshotStorage{objects: map[string][]byte{}}
}

func (s *fakeSnapshotStorage) PutObject(_ context.Context, objectKey, _ string, body []byte) error {
	s.objects[objectKey] = body
	return nil
}

func (s *fakeSnapshotStorage) GetObject(_ context.Context, objectKey string) ([]byte, error) {
	body, ok := s.objects[objectKey]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return body, nil
}

func (s *fakeSnapshotStorage) GeneratePresignedDownloadURL(_ context.Context, objectKey string, _ time.Duration) (string, error) {
	return "https://snapshots.test/" + objectKey, nil
}

func (s *fakeSnapshotStorage) DeleteObject(_ context.Context, objectKey string) error {
	delete(s.objects, objectKey)
	return nil
}

type fakeCategoryRepo struct {
	categories map[primitive.ObjectID]domain.Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: map[primitive.ObjectID]domain.Category{}}
}

func (r *fakeCategoryRepo) add(category domain.Category) domain.Category {
	if category.ID == primitive.NilObjectID {
		category.ID = primitive.NewObjectID()
	}
	r.categories[category.ID] = category
	return category
}

func (r *fakeCategoryRepo) Create(_ context.Context, category *domain.Category) (primitive.ObjectID, error) {
	stored := r.add(*category)
	return stored.ID, nil
}

func (r *fakeCategoryRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Category, error) {
	category, ok := r.categories[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &category, nil
}

func (r *fakeCategoryRepo) GetAll(_ context.Context) ([]domain.Category, error) {
	var all []domain.Category
	for _, category := range r.categories {
		all = append(all, category)
	}
	return all, nil
}

func (r *fakeCategoryRepo) Update(_ context.Context, category *domain.Category) error {
	if _, ok := r.categories[category.ID]; !ok {
		return repository.ErrNotFound
	}
	r.categories[category.ID] = *category
	return nil
}

func (r *fakeCategoryRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.categories[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.categories, id)
	return nil
}

func TestCatalogExportWritesSnapshotAndPresigns(t *testing.T) {
	exerciseRepo := newFakeExerciseRepo()
	categoryRepo := newFakeCategoryRepo()
	snapshots := newFakeSnapshotStorage()

	legs := categoryRepo.add(domain.Category{Name: "Legs", Color: "#ff0000"})
	exerciseRepo.add(domain.Exercise{Name: "Back Squat", CategoryID: legs.ID})
	exerciseRepo.add(domain.Exercise{Name: "Leg Press", CategoryID: legs.ID})

	service := NewCatalogService(exerciseRepo, categoryRepo, snapshots)
	result, err := service.Export(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Exercises)
	assert.Equal(t, 1, result.Categories)
	assert.True(t, strings.HasPrefix(result.ObjectKey, "catalog-snapshots/"))
	assert.Equal(t, "https://snapshots.test/"+result.ObjectKey, result.DownloadURL)

	var snapshot CatalogSnapshot
	require.NoError(t, json.Unmarshal(snapshots.objects[result.ObjectKey], &snapshot))
	assert.Len(t, snapshot.Exercises, 2)
	assert.Len(t, snapshot.Categories, 1)
}

func TestCatalogImportRemapsCategoryIDs(t *testing.T) {
	// Snapshot produced in another environment: its category IDs do not exist
	// in the target library.
	snapshotCategoryID := primitive.NewObjectID()
	snapshot := CatalogSnapshot{
		ExportedAt: time.Now().UTC(),
		Categories: []domain.Category{{ID: snapshotCategoryID, Name: "Back", Color: "#00ff00"}},
		Exercises: []domain.Exercise{
			{ID: primitive.NewObjectID(), CategoryID: snapshotCategoryID, Name: "Deadlift"},
			{ID: primitive.NewObjectID(), CategoryID: primitive.NewObjectID(), Name: "Orphan"},
		},
	}
	body, err := json.Marshal(snapshot)
	require.NoError(t, err)

	snapshots := newFakeSnapshotStorage()
	snapshots.objects["catalog-snapshots/2025-06-01/x.json"] = body
	exerciseRepo := newFakeExerciseRepo()
	categoryRepo := newFakeCategoryRepo()

	service := NewCatalogService(exerciseRepo, categoryRepo, snapshots)
	result, err := service.Import(context.Background(), "catalog-snapshots/2025-06-01/x.json")
	require.NoError(t, err)

	assert.Equal(t, 1, result.CategoriesCreated)
	assert.Equal(t, 1, result.ExercisesCreated)
	assert.Equal(t, 1, result.Skipped, "exercise with unresolvable category is skipped")

	exercises, err := exerciseRepo.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, exercises, 1)
	categories, err := categoryRepo.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, categories[0].ID, exercises[0].CategoryID,
		"restored exercise points at the live category, not the snapshot ID")
}

func TestCatalogImportSkipsExistingNames(t *testing.T) {
	exerciseRepo := newFakeExerciseRepo()
	categoryRepo := newFakeCategoryRepo()
	legs := categoryRepo.add(domain.Category{Name: "Legs"})
	exerciseRepo.add(domain.Exercise{Name: "Back Squat", CategoryID: legs.ID})

	snapshot := CatalogSnapshot{
		Categories: []domain.Category{{ID: primitive.NewObjectID(), Name: "Legs"}},
		Exercises:  []domain.Exercise{{ID: primitive.NewObjectID(), CategoryID: primitive.NewObjectID(), Name: "Back Squat"}},
	}
	body, err := json.Marshal(snapshot)
	require.NoError(t, err)
	snapshots := newFakeSnapshotStorage()
	snapshots.objects["k"] = body

	service := NewCatalogService(exerciseRepo, categoryRepo, snapshots)
	result, err := service.Import(context.Background(), "k")
	require.NoError(t, err)

	assert.Equal(t, 0, result.CategoriesCreated)
	assert.Equal(t, 0, result.ExercisesCreated)
	assert.Equal(t, 2, result.Skipped)
}

func TestCatalogImportRejectsBadDocument(t *testing.T) {
	snapshots := newFakeSnapshotStorage()
	snapshots.objects["k"] = []byte("not json")
	service := NewCatalogService(newFakeExerciseRepo(), newFakeCategoryRepo(), snapshots)

	_, err := service.Import(context.Background(), "k")
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)

	_, err = service.Import(context.Background(), "")
	require.ErrorAs(t, err, &validationErr)
}
