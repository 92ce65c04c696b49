package mongo

import (
	"context"
	"errors"
	"time"

	"fitcal/workout-planner/internal/domain"
	"fitcal/workout-planner/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const timerStrategyCollectionName = "timer_strategies"

// mongoTimerStrategyRepository implements repository.TimerStrategyRepository
type mongoTimerStrategyRepository struct {
	collection *mongo.Collection
}

// NewMongoTimerStrategyRepository creates a new TimerStrategy repository.
func NewMongoTimerStrategyRepository(db *mongo.Database) repository.TimerStrategyRepository {
	return &mongoTimerStrategyRepository{
		collection: db.Collection(timerStrategyCollectionName),
	}
}

func (r *mongoTimerStrategyRepository) Create(ctx context.Context, strategy *domain.TimerStrategy) (primitive.ObjectID, error) {
	if strategy.UserID == primitive.NilObjectID || strategy.Name == "" {
		return primitive.NilObjectID, errors.New("timer strategy requires userId and name")
	}
	strategy.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	strategy.CreatedAt = now
	strategy.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, strategy)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted strategy ID")
	}
	return insertedID, nil
}

func (r *mongoTimerStrategyRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.TimerStrategy, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var strategies []domain.TimerStrategy
	if err = cursor.All(ctx, &strategies); err != nil {
		return nil, err
	}
	return strategies, nil
}

func (r *mongoTimerStrategyRepository) Update(ctx context.Context, strategy *domain.TimerStrategy) error {
	if strategy.ID == primitive.NilObjectID {
		return errors.New("timer strategy ID is required for update")
	}
	updateDoc := bson.M{
		"$set": bson.M{
			"name":        strategy.Name,
			"workSeconds": strategy.WorkSeconds,
			"restSeconds": strategy.RestSeconds,
			"rounds":      strategy.Rounds,
			"updatedAt":   time.Now().UTC(),
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": strategy.ID, "userId": strategy.UserID}, updateDoc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoTimerStrategyRepository) Delete(ctx context.Context, id, userID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
