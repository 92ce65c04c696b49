package service

import (
	"context"
	"errors"

	"fitcal/workout-planner/internal/domain"
	"fitcal/workout-planner/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Service Interface ---

// SettingsService covers the user's workout equipment: interval timer
// presets and the weight plate inventory.
type SettingsService interface {
	CreateTimerStrategy(ctx context.Context, userID primitive.ObjectID, name string, workSeconds, restSeconds, rounds int) (*domain.TimerStrategy, error)
	GetTimerStrategies(ctx context.Context, userID primitive.ObjectID) ([]domain.TimerStrategy, error)
	UpdateTimerStrategy(ctx context.Context, userID, strategyID primitive.ObjectID, name string, workSeconds, restSeconds, rounds int) (*domain.TimerStrategy, error)
	DeleteTimerStrategy(ctx context.Context, userID, strategyID primitive.ObjectID) error

	CreateWeightPlate(ctx context.Context, userID primitive.ObjectID, weightKg float64, quantity int) (*domain.WeightPlate, error)
	GetWeightPlates(ctx context.Context, userID primitive.ObjectID) ([]domain.WeightPlate, error)
	UpdateWeightPlate(ctx context.Context, userID, plateID primitive.ObjectID, weightKg float64, quantity int) (*domain.WeightPlate, error)
	DeleteWeightPlate(ctx context.Context, userID, plateID primitive.ObjectID) error
}

// --- Service Implementation ---

// settingsService implements the SettingsService interface.
type settingsService struct {
	timerRepo repository.TimerStrategyRepository
	plateRepo repository.WeightPlateRepository
}

// NewSettingsService creates a new instance of settingsService.
func NewSettingsService(timerRepo repository.TimerStrategyRepository, plateRepo repository.WeightPlateRepository) SettingsService {
	return &settingsService{
		timerRepo: timerRepo,
		plateRepo: plateRepo,
	}
}

func validateTimer(name string, workSeconds, restSeconds, rounds int) error {
	if name == "" {
		return validationErrorf("timer strategy name is required")
	}
	if workSeconds <= 0 || restSeconds < 0 || rounds <= 0 {
		return validationErrorf("timer strategy requires positive work seconds and rounds")
	}
	return nil
}

func (s *settingsService) CreateTimerStrategy(ctx context.Context, userID primitive.ObjectID, name string, workSeconds, restSeconds, rounds int) (*domain.TimerStrategy, error) {
	if err := validateTimer(name, workSeconds, restSeconds, rounds); err != nil {
		return nil, err
	}
	strategy := &domain.TimerStrategy{
		UserID:      userID,
		Name:        name,
		WorkSeconds: workSeconds,
		RestSeconds: restSeconds,
		Rounds:      rounds,
	}
	id, err := s.timerRepo.Create(ctx, strategy)
	if err != nil {
		return nil, &PersistenceError{Op: "create timer strategy", Err: err}
	}
	strategy.ID = id
	return strategy, nil
}

func (s *settingsService) GetTimerStrategies(ctx context.Context, userID primitive.ObjectID) ([]domain.TimerStrategy, error) {
	strategies, err := s.timerRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, &PersistenceError{Op: "list timer strategies", Err: err}
	}
	return strategies, nil
}

func (s *settingsService) UpdateTimerStrategy(ctx context.Context, userID, strategyID primitive.ObjectID, name string, workSeconds, restSeconds, rounds int) (*domain.TimerStrategy, error) {
	if err := validateTimer(name, workSeconds, restSeconds, rounds); err != nil {
		return nil, err
	}
	strategy := &domain.TimerStrategy{
		ID:          strategyID,
		UserID:      userID,
		Name:        name,
		WorkSeconds: workSeconds,
		RestSeconds: restSeconds,
		Rounds:      rounds,
	}
	if err := s.timerRepo.Update(ctx, strategy); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Entity: "timer strategy", ID: strategyID.Hex()}
		}
		return nil, &PersistenceError{Op: "update timer strategy", Err: err}
	}
	return strategy, nil
}

func (s *settingsService) DeleteTimerStrategy(ctx context.Context, userID, strategyID primitive.ObjectID) error {
	err := s.timerRepo.Delete(ctx, strategyID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &NotFoundError{Entity: "timer strategy", ID: strategyID.Hex()}
		}
		return &PersistenceError{Op: "delete timer strategy", Err: err}
	}
	return nil
}

func (s *settingsService) CreateWeightPlate(ctx context.Context, userID primitive.ObjectID, weightKg float64, quantity int) (*domain.WeightPlate, error) {
	if weightKg <= 0 || quantity < 0 {
		return nil, validationErrorf("plate weight must be positive and quantity non-negative")
	}
	plate := &domain.WeightPlate{
		UserID:   userID,
		WeightKg: weightKg,
		Quantity: quantity,
	}
	id, err := s.plateRepo.Create(ctx, plate)
	if err != nil {
		return nil, &PersistenceError{Op: "create weight plate", Err: err}
	}
	plate.ID = id
	return plate, nil
}

func (s *settingsService) GetWeightPlates(ctx context.Context, userID primitive.ObjectID) ([]domain.WeightPlate, error) {
	plates, err := s.plateRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, &PersistenceError{Op: "list weight plates", Err: err}
	}
	return plates, nil
}

func (s *settingsService) UpdateWeightPlate(ctx context.Context, userID, plateID primitive.ObjectID, weightKg float64, quantity int) (*domain.WeightPlate, error) {
	if weightKg <= 0 || quantity < 0 {
		return nil, validationErrorf("plate weight must be positive and quantity non-negative")
	}
	plate := &domain.WeightPlate{
		ID:       plateID,
		UserID:   userID,
		WeightKg: weightKg,
		Quantity: quantity,
	}
	if err := s.plateRepo.Update(ctx, plate); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Entity: "weight plate", ID: plateID.Hex()}
		}
		return nil, &PersistenceError{Op: "update weight plate", Err: err}
	}
	return plate, nil
}

func (s *settingsService) DeleteWeightPlate(ctx context.Context, userID, plateID primitive.ObjectID) error {
	err := s.plateRepo.Delete(ctx, plateID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &NotFoundError{Entity: "weight plate", ID: plateID.Hex()}
		}
		return &PersistenceError{Op: "delete weight plate", Err: err}
	}
	return nil
}
