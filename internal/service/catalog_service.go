package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fitcal/workout-planner/internal/domain"
	"fitcal/workout-planner/internal/repository"
	"fitcal/workout-planner/internal/storage"

	"github.com/google/uuid"
)

const snapshotContentType = "application/json"

// CatalogSnapshot is the JSON document written to object storage by an
// export: the whole exercise library with its categories.
type CatalogSnapshot struct {
	ExportedAt time.Time         `json:"exportedAt"`
	Categories []domain.Category `json:"categories"`
	Exercises  []domain.Exercise `json:"exercises"`
}

// ExportResult points at a stored snapshot.
type ExportResult struct {
	ObjectKey   string `json:"objectKey"`
	DownloadURL string `json:"downloadUrl"`
	Exercises   int    `json:"exercises"`
	Categories  int    `json:"categories"`
}

// ImportResult summarizes a snapshot restore.
type ImportResult struct {
	CategoriesCreated int `json:"categoriesCreated"`
	ExercisesCreated  int `json:"exercisesCreated"`
	Skipped           int `json:"skipped"` // Entries already present by name
}

// --- Service Interface ---

// CatalogService exports the exercise library as a JSON snapshot to object
// storage and restores from such snapshots.
type CatalogService interface {
	Export(ctx context.Context) (*ExportResult, error)
	Import(ctx context.Context, objectKey string) (*ImportResult, error)
}

// --- Service Implementation ---

// catalogService implements the CatalogService interface.
type catalogService struct {
	exerciseRepo repository.ExerciseRepository
	categoryRepo repository.CategoryRepository
	snapshots    storage.SnapshotStorage
}

// NewCatalogService creates a new instance of catalogService.
func NewCatalogService(
	exerciseRepo repository.ExerciseRepository,
	categoryRepo repository.CategoryRepository,
	snapshots storage.SnapshotStorage,
) CatalogService {
	return &catalogService{
		exerciseRepo: exerciseRepo,
		categoryRepo: categoryRepo,
		snapshots:    snapshots,
	}
}

// Export writes the current catalog to object storage and returns a
// presigned download link.
func (s *catalogService) Export(ctx context.Context) (*ExportResult, error) {
	categories, err := s.categoryRepo.GetAll(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "list categories", Err: err}
	}
	exercises, err := s.exerciseRepo.GetAll(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "list exercises", Err: err}
	}

	snapshot := CatalogSnapshot{
		ExportedAt: time.Now().UTC(),
		Categories: categories,
		Exercises:  exercises,
	}
	body, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal catalog snapshot: %w", err)
	}

	objectKey := fmt.Sprintf("catalog-snapshots/%s/%s.json",
		snapshot.ExportedAt.Format("2006-01-02"), uuid.NewString())
	if err := s.snapshots.PutObject(ctx, objectKey, snapshotContentType, body); err != nil {
		return nil, &PersistenceError{Op: "upload catalog snapshot", Err: err}
	}

	url, err := s.snapshots.GeneratePresignedDownloadURL(ctx, objectKey, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, &PersistenceError{Op: "presign catalog snapshot", Err: err}
	}

	return &ExportResult{
		ObjectKey:   objectKey,
		DownloadURL: url,
		Exercises:   len(exercises),
		Categories:  len(categories),
	}, nil
}

// Import restores categories and exercises from a stored snapshot. Entries
// whose name already exists in the library are skipped rather than duplicated.
func (s *catalogService) Import(ctx context.Context, objectKey string) (*ImportResult, error) {
	if objectKey == "" {
		return nil, validationErrorf("snapshot object key is required")
	}
	body, err := s.snapshots.GetObject(ctx, objectKey)
	if err != nil {
		return nil, &PersistenceError{Op: "download catalog snapshot", Err: err}
	}
	var snapshot CatalogSnapshot
	if err := json.Unmarshal(body, &snapshot); err != nil {
		return nil, validationErrorf("snapshot %s is not a valid catalog document: %v", objectKey, err)
	}

	existingCategories, err := s.categoryRepo.GetAll(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "list categories", Err: err}
	}
	existingExercises, err := s.exerciseRepo.GetAll(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "list exercises", Err: err}
	}
	categoryByName := map[string]domain.Category{}
	for _, c := range existingCategories {
		categoryByName[c.Name] = c
	}
	exerciseNames := map[string]bool{}
	for _, e := range existingExercises {
		exerciseNames[e.Name] = true
	}

	result := &ImportResult{}

	// Snapshot category IDs are remapped onto the live library so exercises
	// keep pointing at the right category after a cross-environment restore.
	categoryIDs := map[string]domain.Category{}
	for _, c := range snapshot.Categories {
		snapshotID := c.ID.Hex()
		if existing, ok := categoryByName[c.Name]; ok {
			categoryIDs[snapshotID] = existing
			result.Skipped++
			continue
		}
		created := domain.Category{Name: c.Name, Color: c.Color}
		id, err := s.categoryRepo.Create(ctx, &created)
		if err != nil {
			return result, &PersistenceError{Op: "restore category", Err: err}
		}
		created.ID = id
		categoryByName[created.Name] = created
		categoryIDs[snapshotID] = created
		result.CategoriesCreated++
	}

	for _, e := range snapshot.Exercises {
		if exerciseNames[e.Name] {
			result.Skipped++
			continue
		}
		category, ok := categoryIDs[e.CategoryID.Hex()]
		if !ok {
			result.Skipped++
			continue
		}
		created := domain.Exercise{
			CategoryID:  category.ID,
			Name:        e.Name,
			Description: e.Description,
			Difficulty:  e.Difficulty,
			Equipment:   e.Equipment,
		}
		if _, err := s.exerciseRepo.Create(ctx, &created); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				result.Skipped++
				continue
			}
			return result, &PersistenceError{Op: "restore exercise", Err: err}
		}
		exerciseNames[created.Name] = true
		result.ExercisesCreated++
	}

	return result, nil
}
