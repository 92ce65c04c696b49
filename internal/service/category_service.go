package service

import (
	"context"
	"errors"

	"fitcal/workout-planner/internal/domain"
	"fitcal/workout-planner/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Service Interface ---
type CategoryService interface {
	CreateCategory(ctx context.Context, name, color string) (*domain.Category, error)
	GetCategories(ctx context.Context) ([]domain.Category, error)
	UpdateCategory(ctx context.Context, categoryID primitive.ObjectID, name, color string) (*domain.Category, error)
	DeleteCategory(ctx context.Context, categoryID primitive.ObjectID) error
}

// --- Service Implementation ---

// categoryService implements the CategoryService interface.
type categoryService struct {
	categoryRepo repository.CategoryRepository
}

// NewCategoryService creates a new instance of categoryService.
func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) CreateCategory(ctx context.Context, name, color string) (*domain.Category, error) {
	if name == "" {
		return nil, validationErrorf("category name is required")
	}
	category := &domain.Category{Name: name, Color: color}
	categoryID, err := s.categoryRepo.Create(ctx, category)
	if err != nil {
		return nil, &PersistenceError{Op: "create category", Err: err}
	}
	category.ID = categoryID
	return category, nil
}

func (s *categoryService) GetCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categoryRepo.GetAll(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "list categories", Err: err}
	}
	return categories, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, categoryID primitive.ObjectID, name, color string) (*domain.Category, error) {
	if name == "" {
		return nil, validationErrorf("category name is required")
	}
	category, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Entity: "category", ID: categoryID.Hex()}
		}
		return nil, &PersistenceError{Op: "load category", Err: err}
	}

	category.Name = name
	category.Color = color
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, &PersistenceError{Op: "update category", Err: err}
	}
	return category, nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, categoryID primitive.ObjectID) error {
	err := s.categoryRepo.Delete(ctx, categoryID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &NotFoundError{Entity: "category", ID: categoryID.Hex()}
		}
		return &PersistenceError{Op: "delete category", Err: err}
	}
	return nil
}
