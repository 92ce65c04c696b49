package service

import (
	"context"
	"errors"

	"fitcal/workout-planner/internal/domain"
	"fitcal/workout-planner/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Service Interface ---
type ExerciseService interface {
	CreateExercise(ctx context.Context, categoryID primitive.ObjectID, name, description, difficulty, equipment string) (*domain.Exercise, error)
	GetExerciseByID(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Exercise, error)
	GetExercises(ctx context.Context) ([]domain.Exercise, error)
	GetExercisesByCategory(ctx context.Context, categoryID primitive.ObjectID) ([]domain.Exercise, error)
	UpdateExercise(ctx context.Context, exerciseID, categoryID primitive.ObjectID, name, description, difficulty, equipment string) (*domain.Exercise, error)
	DeleteExercise(ctx context.Context, exerciseID primitive.ObjectID) error
}

// --- Service Implementation ---

// exerciseService implements the ExerciseService interface.
type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
	categoryRepo repository.CategoryRepository
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(exerciseRepo repository.ExerciseRepository, categoryRepo repository.CategoryRepository) ExerciseService {
	return &exerciseService{
		exerciseRepo: exerciseRepo,
		categoryRepo: categoryRepo,
	}
}

// CreateExercise adds a library entry after checking the category exists.
func (s *exerciseService) CreateExercise(ctx context.Context, categoryID primitive.ObjectID, name, description, difficulty, equipment string) (*domain.Exercise, error) {
	if name == "" {
		return nil, validationErrorf("exercise name is required")
	}
	if _, err := s.categoryRepo.GetByID(ctx, categoryID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Entity: "category", ID: categoryID.Hex()}
		}
		return nil, &PersistenceError{Op: "resolve category", Err: err}
	}

	exercise := &domain.Exercise{
		CategoryID:  categoryID,
		Name:        name,
		Description: description,
		Difficulty:  difficulty,
		Equipment:   equipment,
	}
	exerciseID, err := s.exerciseRepo.Create(ctx, exercise)
	if err != nil {
		return nil, &PersistenceError{Op: "create exercise", Err: err}
	}
	exercise.ID = exerciseID
	return exercise, nil
}

func (s *exerciseService) GetExerciseByID(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Entity: "exercise", ID: exerciseID.Hex()}
		}
		return nil, &PersistenceError{Op: "load exercise", Err: err}
	}
	return exercise, nil
}

func (s *exerciseService) GetExercises(ctx context.Context) ([]domain.Exercise, error) {
	exercises, err := s.exerciseRepo.GetAll(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "list exercises", Err: err}
	}
	return exercises, nil
}

func (s *exerciseService) GetExercisesByCategory(ctx context.Context, categoryID primitive.ObjectID) ([]domain.Exercise, error) {
	exercises, err := s.exerciseRepo.GetByCategoryID(ctx, categoryID)
	if err != nil {
		return nil, &PersistenceError{Op: "list exercises by category", Err: err}
	}
	return exercises, nil
}

func (s *exerciseService) UpdateExercise(ctx context.Context, exerciseID, categoryID primitive.ObjectID, name, description, difficulty, equipment string) (*domain.Exercise, error) {
	if name == "" {
		return nil, validationErrorf("exercise name is required")
	}
	exercise, err := s.GetExerciseByID(ctx, exerciseID)
	if err != nil {
		return nil, err
	}

	exercise.CategoryID = categoryID
	exercise.Name = name
	exercise.Description = description
	exercise.Difficulty = difficulty
	exercise.Equipment = equipment

	if err := s.exerciseRepo.Update(ctx, exercise); err != nil {
		return nil, &PersistenceError{Op: "update exercise", Err: err}
	}
	return exercise, nil
}

// DeleteExercise removes a library entry. Scheduled instances and template
// entries referencing it are kept; the generator reports them as skipped.
func (s *exerciseService) DeleteExercise(ctx context.Context, exerciseID primitive.ObjectID) error {
	err := s.exerciseRepo.Delete(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &NotFoundError{Entity: "exercise", ID: exerciseID.Hex()}
		}
		return &PersistenceError{Op: "delete exercise", Err: err}
	}
	return nil
}
